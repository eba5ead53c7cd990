package entity

// Feature is a Citygram-compliant GeoJSON feature.
type Feature struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Geometry   map[string]any `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is the document Citygram polls from a publisher endpoint.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// NewFeatureCollection wraps features in a collection. A nil slice is
// encoded as an empty list.
func NewFeatureCollection(features []*Feature) *FeatureCollection {
	if features == nil {
		features = []*Feature{}
	}
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}
