package publisher

import (
	"fmt"
	"sort"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/seed"
)

// knownKeys lists the fields a seed definition may carry.
var knownKeys = map[string]struct{}{
	"title": {}, "endpoint": {}, "active": {}, "visible": {},
	"city": {}, "state": {}, "icon": {}, "description": {}, "tags": {},
}

// FromDefinition builds a Publisher from a decoded definition after checking
// each value's shape. The returned Publisher has not been validated yet.
func FromDefinition(def seed.Definition) (*entity.Publisher, error) {
	if err := checkKeys(def); err != nil {
		return nil, err
	}

	r := &fieldReader{def: def}
	p := &entity.Publisher{
		Title:       r.requiredString("title"),
		Endpoint:    r.requiredString("endpoint"),
		Active:      r.requiredBool("active"),
		Visible:     r.requiredBool("visible"),
		City:        r.requiredString("city"),
		State:       r.requiredString("state"),
		Icon:        r.optionalString("icon"),
		Description: r.optionalString("description"),
		Tags:        r.optionalStrings("tags"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func checkKeys(def seed.Definition) error {
	var unknown []string
	for k := range def {
		if _, ok := knownKeys[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &entity.ValidationError{Field: unknown[0], Message: "is not a publisher field"}
}

// fieldReader extracts typed values from a definition. The first failure is
// kept in err and later reads become no-ops.
type fieldReader struct {
	def seed.Definition
	err error
}

func (r *fieldReader) fail(field, msg string) {
	if r.err == nil {
		r.err = &entity.ValidationError{Field: field, Message: msg}
	}
}

func (r *fieldReader) lookup(field string, required bool) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.def[field]
	if !ok || v == nil {
		if required {
			r.fail(field, "is required")
		}
		return nil, false
	}
	return v, true
}

func (r *fieldReader) requiredString(field string) string {
	v, ok := r.lookup(field, true)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, fmt.Sprintf("must be a string, got %T", v))
	}
	return s
}

func (r *fieldReader) optionalString(field string) string {
	v, ok := r.lookup(field, false)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, fmt.Sprintf("must be a string, got %T", v))
	}
	return s
}

func (r *fieldReader) requiredBool(field string) bool {
	v, ok := r.lookup(field, true)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(field, fmt.Sprintf("must be a boolean, got %T", v))
	}
	return b
}

// optionalStrings returns an empty, non-nil slice when the field is absent
// so created and read-back publishers compare equal.
func (r *fieldReader) optionalStrings(field string) []string {
	v, ok := r.lookup(field, false)
	if !ok {
		return []string{}
	}
	if ss, ok := v.([]string); ok {
		return append([]string{}, ss...)
	}
	items, ok := v.([]any)
	if !ok {
		r.fail(field, fmt.Sprintf("must be a list of strings, got %T", v))
		return []string{}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			r.fail(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("must be a string, got %T", item))
			return []string{}
		}
		out = append(out, s)
	}
	return out
}
