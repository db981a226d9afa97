package ports

import (
	"context"

	"nomengine/domain/dataset"
	"nomengine/domain/encoding"
	"nomengine/domain/formula"
)

// EvolveRequest carries everything one optimization needs. Entities and
// vectors are index-aligned.
type EvolveRequest struct {
	Entities       []dataset.Entity
	Vectors        []encoding.FeatureVector
	Scheme         encoding.Scheme
	OutcomeKind    dataset.OutcomeKind
	Generations    int
	PopulationSize int
	EliteFraction  float64
	TournamentSize int
	MutationRate   float64
	MutationMag    float64
	Patience       int
	Seed           int64
}

// OptimizerPort evolves a scoring formula against a domain's outcomes.
// Given identical requests the generation history must be identical.
type OptimizerPort interface {
	Evolve(ctx context.Context, req EvolveRequest) (formula.Formula, []formula.GenerationRecord, error)
}
