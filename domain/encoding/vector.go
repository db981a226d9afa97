package encoding

import (
	"nomengine/domain/core"
)

// FeatureVector is the encoded form of one entity under one scheme.
// Immutable once produced; bit-for-bit reproducible for the same raw name.
type FeatureVector struct {
	EntityID   core.EntityID                `json:"entity_id"`
	Scheme     Scheme                       `json:"encoding_scheme"`
	Properties map[core.PropertyKey]float64 `json:"properties"`
}

// Value returns a property value, 0 when absent
func (v FeatureVector) Value(key core.PropertyKey) float64 {
	return v.Properties[key]
}

// Equal compares two vectors for exact float equality
func (v FeatureVector) Equal(other FeatureVector) bool {
	if v.EntityID != other.EntityID || v.Scheme != other.Scheme {
		return false
	}
	if len(v.Properties) != len(other.Properties) {
		return false
	}
	for key, val := range v.Properties {
		otherVal, ok := other.Properties[key]
		if !ok || otherVal != val {
			return false
		}
	}
	return true
}

// Column extracts one property across a slice of vectors, in order
func Column(vectors []FeatureVector, key core.PropertyKey) []float64 {
	out := make([]float64, len(vectors))
	for i, v := range vectors {
		out[i] = v.Properties[key]
	}
	return out
}
