// Package testkit provides in-memory fakes and deterministic fixtures for
// exercising the scheduler and adapters without external backends.
package testkit

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/domain/runrecord"
	"nomengine/ports"
)

// FakeDomain configures one domain of the fake dataset source
type FakeDomain struct {
	Entities  []dataset.Entity
	Outcome   dataset.OutcomeKind
	MinSample int
	LoadErr   error // returned instead of entities when set
}

// FakeDatasetSource implements ports.DatasetPort from fixed fixtures.
// Loads are counted for assertions.
type FakeDatasetSource struct {
	mu        sync.Mutex
	domains   map[core.DomainKey]FakeDomain
	LoadCalls int
}

var _ ports.DatasetPort = (*FakeDatasetSource)(nil)

// NewFakeDatasetSource builds a source over the given fixtures
func NewFakeDatasetSource(domains map[core.DomainKey]FakeDomain) *FakeDatasetSource {
	return &FakeDatasetSource{domains: domains}
}

// Load returns the domain's fixture entities, truncated to sampleSize. The
// seed is ignored so tests control exactly which entities a pair sees.
func (f *FakeDatasetSource) Load(ctx context.Context, domain core.DomainKey, sampleSize int, seed int64) ([]dataset.Entity, error) {
	f.mu.Lock()
	f.LoadCalls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := f.domains[domain]
	if !ok {
		return nil, core.NewDataUnavailableError(domain, fmt.Errorf("no fixture"))
	}
	if d.LoadErr != nil {
		return nil, d.LoadErr
	}
	if sampleSize < len(d.Entities) {
		out := make([]dataset.Entity, sampleSize)
		copy(out, d.Entities[:sampleSize])
		return out, nil
	}
	out := make([]dataset.Entity, len(d.Entities))
	copy(out, d.Entities)
	return out, nil
}

// OutcomeKind reports the fixture's kind, continuous when unset
func (f *FakeDatasetSource) OutcomeKind(domain core.DomainKey) dataset.OutcomeKind {
	if d, ok := f.domains[domain]; ok && d.Outcome.IsValid() {
		return d.Outcome
	}
	return dataset.OutcomeContinuous
}

// MinSampleSize reports the fixture's minimum, 3 when unset
func (f *FakeDatasetSource) MinSampleSize(domain core.DomainKey) int {
	if d, ok := f.domains[domain]; ok && d.MinSample > 0 {
		return d.MinSample
	}
	return 3
}

// MemoryRecordStore implements ports.ResultStorePort in memory
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[core.RunID][]runrecord.RunRecord
}

var _ ports.ResultStorePort = (*MemoryRecordStore)(nil)

// NewMemoryRecordStore creates an empty store
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[core.RunID][]runrecord.RunRecord)}
}

// SaveRecords appends the batch under each record's run ID
func (m *MemoryRecordStore) SaveRecords(ctx context.Context, records []runrecord.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.records[r.RunID] = append(m.records[r.RunID], r)
	}
	return nil
}

// RecordsByRun returns the stored batch for a run
func (m *MemoryRecordStore) RecordsByRun(ctx context.Context, runID core.RunID) ([]runrecord.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]runrecord.RunRecord, len(m.records[runID]))
	copy(out, m.records[runID])
	return out, nil
}

// LinearOutcomeEntities builds n entities whose outcome is a linear function
// of the name's vowel count plus seeded Gaussian noise. Useful when a test
// needs optimization to find a real signal.
func LinearOutcomeEntities(domain core.DomainKey, n int, noise float64, seed int64) []dataset.Entity {
	names := []string{
		"Amara", "Brixton", "Corvell", "Delphine", "Erasmo", "Fenwick",
		"Galiana", "Hollis", "Isolde", "Jerrick", "Kalindi", "Lysander",
		"Mireille", "Novak", "Ophelia", "Peregrine", "Quillon", "Rosalind",
		"Severin", "Thessaly", "Umberto", "Vespera", "Wendeline", "Xanthe",
		"Ysabeau", "Zephyrine",
	}
	stream := rand.New(rand.NewSource(seed))
	entities := make([]dataset.Entity, n)
	for i := range entities {
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s%d", name, i/len(names))
		}
		vowels := 0
		for _, r := range name {
			switch r {
			case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
				vowels++
			}
		}
		entities[i] = dataset.Entity{
			ID:      core.EntityID(fmt.Sprintf("%s-%03d", domain, i)),
			Domain:  domain,
			RawName: name,
			Outcome: float64(vowels) + stream.NormFloat64()*noise,
		}
	}
	return entities
}

// ConstantOutcomeEntities builds n entities sharing one outcome value, the
// degenerate case every layer must survive.
func ConstantOutcomeEntities(domain core.DomainKey, n int, outcome float64) []dataset.Entity {
	names := []string{"Alder", "Birch", "Cedar", "Dogwood", "Elder", "Foxglove"}
	entities := make([]dataset.Entity, n)
	for i := range entities {
		entities[i] = dataset.Entity{
			ID:      core.EntityID(fmt.Sprintf("%s-%03d", domain, i)),
			Domain:  domain,
			RawName: names[i%len(names)],
			Outcome: outcome,
		}
	}
	return entities
}
