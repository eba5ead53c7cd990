package citygram

import (
	"crypto/sha1" // #nosec G505 -- feature IDs only need to be stable, not secret
	"encoding/hex"
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"citygram-orlando/internal/domain/entity"
)

// PoliceTag is the service tag for the Orlando police dispatch feed.
const PoliceTag = "police"

// socrataLayout is the floating timestamp format used by the dispatch feed.
const socrataLayout = "2006-01-02T15:04:05"

var policeRequiredKeys = []string{"address", "location", "when", "reason"}

// Police converts Orlando police dispatch calls into features.
type Police struct {
	base    *url.URL
	window  time.Duration
	loc     *time.Location
	ignored map[string]struct{}
}

// NewPolice returns a converter reading from baseURL. Only calls newer than
// window are requested. Timestamps are interpreted in loc, and calls whose
// reason matches one of ignoredReasons (case-insensitive) are dropped.
func NewPolice(baseURL string, window time.Duration, loc *time.Location, ignoredReasons []string) (*Police, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse police feed url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("police feed url %q must be absolute", baseURL)
	}
	if loc == nil {
		loc = time.UTC
	}

	ignored := make(map[string]struct{}, len(ignoredReasons))
	for _, r := range ignoredReasons {
		ignored[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return &Police{base: u, window: window, loc: loc, ignored: ignored}, nil
}

func (p *Police) Tag() string { return PoliceTag }

// URL returns the upstream query for calls since now minus the window.
func (p *Police) URL(now time.Time) string {
	since := now.In(p.loc).Add(-p.window).Format(socrataLayout)

	u := *p.base
	q := u.Query()
	q.Set("$where", fmt.Sprintf("when > %q", since))
	u.RawQuery = q.Encode()
	return u.String()
}

// Convert builds a feature from one dispatch call. The call's fields are kept
// as feature properties with a generated title added.
func (p *Police) Convert(item map[string]any) (*entity.Feature, error) {
	for _, key := range policeRequiredKeys {
		v, ok := item[key]
		if !ok || v == nil || v == "" || v == "NULL" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	reason, ok := item["reason"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: reason is %T", ErrMalformed, item["reason"])
	}
	if _, skip := p.ignored[strings.ToLower(reason)]; skip {
		return nil, fmt.Errorf("%w: reason %q", ErrFiltered, reason)
	}
	address, ok := item["address"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: address is %T", ErrMalformed, item["address"])
	}
	when, ok := item["when"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: when is %T", ErrMalformed, item["when"])
	}
	at, err := time.ParseInLocation(socrataLayout, when, p.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: when: %v", ErrMalformed, err)
	}
	location, ok := item["location"].(map[string]any)
	if !ok || len(location) == 0 {
		return nil, fmt.Errorf("%w: location is not an object", ErrMalformed)
	}

	street, _, _ := strings.Cut(address, ",")
	title := capitalize(reason) + " has been reported near " + street +
		" on " + at.Format("1/2 at 3:04PM")

	props := maps.Clone(item)
	props["title"] = title

	return &entity.Feature{
		ID:         featureID(title),
		Type:       "Feature",
		Geometry:   location,
		Properties: props,
	}, nil
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// featureID is the SHA-1 hex digest of title with non-ASCII runes removed.
func featureID(title string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, title)
	sum := sha1.Sum([]byte(ascii)) // #nosec G401
	return hex.EncodeToString(sum[:])
}
