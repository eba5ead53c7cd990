package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its metrics label.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/publishers/[^/]+$`), Template: "/publishers/:id"},
}

// knownPaths are the static routes served by the API.
var knownPaths = map[string]struct{}{
	"/":           {},
	"/services":   {},
	"/publishers": {},
	"/health":     {},
	"/ready":      {},
	"/live":       {},
	"/metrics":    {},
}

// NormalizePath turns a request path into a bounded metrics label.
// IDs collapse to ":id" and unknown paths collapse to "other", so
// scanners cannot inflate label cardinality.
//
//	NormalizePath("/publishers/42")   // "/publishers/:id"
//	NormalizePath("/publishers/")     // "/publishers"
//	NormalizePath("/wp-login.php")    // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return "other"
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath
// can produce.
func GetExpectedCardinality() int {
	return len(knownPaths) + len(pathPatterns) + 1
}
