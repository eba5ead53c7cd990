// Package citygram turns upstream open-data feeds into Citygram-compliant
// GeoJSON FeatureCollections.
package citygram

import (
	"errors"
)

var (
	// ErrUnknownService indicates that no converter is registered for a tag.
	ErrUnknownService = errors.New("not a valid service")

	// ErrUpstream indicates that the upstream feed could not be fetched or
	// was not a JSON array.
	ErrUpstream = errors.New("data fetch error")
)

// Reasons an upstream item is left out of a collection. Converters wrap
// these so the skip can be counted by cause.
var (
	ErrMissingField = errors.New("missing required field")
	ErrFiltered     = errors.New("filtered")
	ErrMalformed    = errors.New("malformed item")
)

// skipReason maps a conversion error to a metrics label.
func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrFiltered):
		return "filtered"
	default:
		return "malformed"
	}
}
