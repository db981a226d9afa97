package encoding

import (
	"fmt"
	"sync"

	"nomengine/domain/core"
)

type cacheEntry struct {
	props      map[core.PropertyKey]float64
	degenerate bool
}

// Encoder materializes feature vectors with a write-once memo cache keyed by
// (raw name, scheme). Entries are immutable after insertion, so concurrent
// readers share them safely.
type Encoder struct {
	mu    sync.RWMutex
	cache map[core.FeatureCacheKey]cacheEntry
}

// NewEncoder creates an encoder with an empty cache
func NewEncoder() *Encoder {
	return &Encoder{
		cache: make(map[core.FeatureCacheKey]cacheEntry),
	}
}

// Encode turns a raw name into a feature vector under the given scheme.
// Pure and total: degenerate input (no letters) yields a zeroed vector and
// a warning string instead of an error.
func (e *Encoder) Encode(entityID core.EntityID, rawName string, scheme Scheme) (FeatureVector, string) {
	enc, ok := registryIndex[scheme]
	if !ok {
		return FeatureVector{}, fmt.Sprintf("unknown encoding scheme %q", scheme)
	}

	key := core.NewFeatureCacheKey(rawName, string(scheme))

	e.mu.RLock()
	entry, hit := e.cache[key]
	e.mu.RUnlock()

	if !hit {
		profile := newNameProfile(rawName)
		if profile.degenerate {
			entry = cacheEntry{props: zeroedProperties(enc.PropertyKeys()), degenerate: true}
		} else {
			entry = cacheEntry{props: enc.Encode(profile)}
		}

		e.mu.Lock()
		if existing, ok := e.cache[key]; ok {
			// Another goroutine won the race; both computed the same values
			entry = existing
		} else {
			e.cache[key] = entry
		}
		e.mu.Unlock()
	}

	warning := ""
	if entry.degenerate {
		warning = fmt.Sprintf("degenerate input %q: no letters, zeroed %s features", rawName, scheme)
	}

	return FeatureVector{
		EntityID:   entityID,
		Scheme:     scheme,
		Properties: entry.props,
	}, warning
}

// CacheSize returns the number of memoized (name, scheme) entries
func (e *Encoder) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

func zeroedProperties(keys []core.PropertyKey) map[core.PropertyKey]float64 {
	props := make(map[core.PropertyKey]float64, len(keys))
	for _, k := range keys {
		props[k] = 0
	}
	return props
}
