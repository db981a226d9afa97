// Package datasetadapter provides the concrete DatasetPort implementations:
// a deterministic synthetic generator, an Excel/CSV reader, and a Postgres
// reader. All three sample with the same seeded shuffle so a (domain, seed)
// pair resolves to the same subset on every run.
package datasetadapter

import (
	"math/rand"

	"nomengine/domain/dataset"
)

// sampleWithoutReplacement draws up to sampleSize entities uniformly without
// replacement using a partial Fisher-Yates shuffle over a copy of the input.
// The input order must already be stable for the draw to be reproducible.
func sampleWithoutReplacement(entities []dataset.Entity, sampleSize int, seed int64) []dataset.Entity {
	if sampleSize >= len(entities) {
		out := make([]dataset.Entity, len(entities))
		copy(out, entities)
		return out
	}

	pool := make([]dataset.Entity, len(entities))
	copy(pool, entities)

	stream := rand.New(rand.NewSource(seed))
	for i := 0; i < sampleSize; i++ {
		j := i + stream.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:sampleSize]
}

// DomainSpec declares how a source measures and bounds one domain
type DomainSpec struct {
	Outcome   dataset.OutcomeKind
	MinSample int
}

// defaultMinSample applies when a domain spec leaves MinSample unset
const defaultMinSample = 30

func (s DomainSpec) minSample() int {
	if s.MinSample > 0 {
		return s.MinSample
	}
	return defaultMinSample
}

func (s DomainSpec) outcomeKind() dataset.OutcomeKind {
	if s.Outcome.IsValid() {
		return s.Outcome
	}
	return dataset.OutcomeContinuous
}
