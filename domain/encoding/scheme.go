package encoding

import (
	"fmt"
	"strings"

	"nomengine/domain/core"
)

// Scheme identifies one of the six deterministic name-to-feature mappings
type Scheme string

const (
	SchemePhonetic      Scheme = "phonetic"
	SchemeSemantic      Scheme = "semantic"
	SchemeStructural    Scheme = "structural"
	SchemeFrequency     Scheme = "frequency"
	SchemeNumerological Scheme = "numerological"
	SchemeHybrid        Scheme = "hybrid"
)

// AllSchemes returns every scheme in registry order
func AllSchemes() []Scheme {
	schemes := make([]Scheme, len(registry))
	for i, enc := range registry {
		schemes[i] = enc.Scheme()
	}
	return schemes
}

// IsValid checks the scheme is one of the six registered mappings
func (s Scheme) IsValid() bool {
	_, ok := registryIndex[s]
	return ok
}

// String returns the scheme tag
func (s Scheme) String() string {
	return string(s)
}

// ParseScheme parses a string into a registered Scheme
func ParseScheme(s string) (Scheme, error) {
	scheme := Scheme(strings.ToLower(strings.TrimSpace(s)))
	if !scheme.IsValid() {
		return "", fmt.Errorf("unknown encoding scheme %q", s)
	}
	return scheme, nil
}

// ParseSchemes parses a comma-separated list of scheme tags
func ParseSchemes(s string) ([]Scheme, error) {
	parts := strings.Split(s, ",")
	schemes := make([]Scheme, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		scheme, err := ParseScheme(part)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, scheme)
	}
	if len(schemes) == 0 {
		return nil, fmt.Errorf("no encoding schemes in %q", s)
	}
	return schemes, nil
}

// schemeEncoder is the strategy interface each scheme implements.
// Encode receives a precomputed name profile and must return a value for
// every key in PropertyKeys, so weight maps stay schema-stable.
type schemeEncoder interface {
	Scheme() Scheme
	PropertyKeys() []core.PropertyKey
	Encode(p *nameProfile) map[core.PropertyKey]float64
}

// registry holds the six scheme strategies in a fixed dispatch order
var registry = []schemeEncoder{
	&phoneticEncoder{},
	&semanticEncoder{},
	&structuralEncoder{},
	&frequencyEncoder{},
	&numerologicalEncoder{},
	&hybridEncoder{},
}

var registryIndex = buildRegistryIndex()

func buildRegistryIndex() map[Scheme]schemeEncoder {
	idx := make(map[Scheme]schemeEncoder, len(registry))
	for _, enc := range registry {
		idx[enc.Scheme()] = enc
	}
	return idx
}

// PropertyKeys returns the static property schema of a scheme
func PropertyKeys(scheme Scheme) []core.PropertyKey {
	enc, ok := registryIndex[scheme]
	if !ok {
		return nil
	}
	keys := enc.PropertyKeys()
	out := make([]core.PropertyKey, len(keys))
	copy(out, keys)
	return out
}
