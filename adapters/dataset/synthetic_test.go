package datasetadapter

import (
	"context"
	"testing"

	"nomengine/domain/core"
	"nomengine/domain/dataset"
)

func TestSyntheticDeterministic(t *testing.T) {
	src := NewSynthetic(map[core.DomainKey]DomainSpec{
		"demo": {Outcome: dataset.OutcomeContinuous, MinSample: 20},
	})

	first, err := src.Load(context.Background(), "demo", 50, 7)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	second, err := src.Load(context.Background(), "demo", 50, 7)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(first) != 50 {
		t.Fatalf("sample size = %d, want 50", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("entity %d differs between identical loads: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSyntheticSeedChangesSample(t *testing.T) {
	src := NewSynthetic(nil)

	a, _ := src.Load(context.Background(), "demo", 50, 1)
	b, _ := src.Load(context.Background(), "demo", 50, 2)

	same := 0
	for i := range a {
		if a[i].ID == b[i].ID {
			same++
		}
	}
	if same == len(a) {
		t.Error("different seeds produced identical samples")
	}
}

func TestSyntheticUnknownDomain(t *testing.T) {
	src := NewSynthetic(nil)
	_, err := src.Load(context.Background(), "missing", 10, 1)
	if !core.IsDataUnavailable(err) {
		t.Errorf("err = %v, want data-unavailable", err)
	}
}

func TestSyntheticBinaryOutcomes(t *testing.T) {
	src := NewSynthetic(map[core.DomainKey]DomainSpec{
		"flags": {Outcome: dataset.OutcomeBinary},
	})
	entities, err := src.Load(context.Background(), "flags", 200, 3)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	ones := 0
	for _, e := range entities {
		if e.Outcome != 0 && e.Outcome != 1 {
			t.Fatalf("binary outcome = %v, want 0 or 1", e.Outcome)
		}
		if e.Outcome == 1 {
			ones++
		}
	}
	if ones == 0 || ones == len(entities) {
		t.Errorf("binary outcomes degenerate: %d ones of %d", ones, len(entities))
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	entities := make([]dataset.Entity, 100)
	for i := range entities {
		entities[i] = dataset.Entity{ID: core.EntityID(string(rune('a' + i%26)) + string(rune('0'+i/26)))}
	}

	sampled := sampleWithoutReplacement(entities, 30, 11)
	if len(sampled) != 30 {
		t.Fatalf("sample size = %d, want 30", len(sampled))
	}
	seen := make(map[core.EntityID]bool)
	for _, e := range sampled {
		if seen[e.ID] {
			t.Fatalf("entity %s drawn twice", e.ID)
		}
		seen[e.ID] = true
	}

	// requesting more than available returns everything
	all := sampleWithoutReplacement(entities, 500, 11)
	if len(all) != len(entities) {
		t.Errorf("oversized request returned %d, want %d", len(all), len(entities))
	}
}

func TestResolveColumns(t *testing.T) {
	header := []string{"ID", "Full Name", "Revenue", "outcome"}

	nameIdx, outcomeIdx, err := resolveColumns(header, "full name", "revenue")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if nameIdx != 1 || outcomeIdx != 2 {
		t.Errorf("indices = %d/%d, want 1/2", nameIdx, outcomeIdx)
	}

	if _, _, err := resolveColumns(header, "missing", "revenue"); err == nil {
		t.Error("expected error for missing name column")
	}
}
