package genetic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"nomengine/adapters/rng"
	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/domain/encoding"
	"nomengine/ports"
)

// buildLinearFixture constructs entities whose outcome is a linear function
// of one numerological property, so the GA has a learnable target.
func buildLinearFixture(n int, noise func(i int) float64) ([]dataset.Entity, []encoding.FeatureVector) {
	entities := make([]dataset.Entity, n)
	vectors := make([]encoding.FeatureVector, n)
	for i := 0; i < n; i++ {
		id := core.EntityID(fmt.Sprintf("entity_%d", i))
		root := float64(i%9+1) / 9.0
		vectors[i] = encoding.FeatureVector{
			EntityID: id,
			Scheme:   encoding.SchemeNumerological,
			Properties: map[core.PropertyKey]float64{
				"root":         root,
				"master":       0,
				"parity":       float64(i%2) * 0.5,
				"ordinal_mean": float64(i) / float64(n),
			},
		}
		entities[i] = dataset.Entity{
			ID:      id,
			Domain:  "test",
			RawName: string(id),
			Outcome: 2.0*root + noise(i),
		}
	}
	return entities, vectors
}

func defaultRequest(entities []dataset.Entity, vectors []encoding.FeatureVector) ports.EvolveRequest {
	return ports.EvolveRequest{
		Entities:       entities,
		Vectors:        vectors,
		Scheme:         encoding.SchemeNumerological,
		OutcomeKind:    dataset.OutcomeContinuous,
		Generations:    40,
		PopulationSize: 60,
		EliteFraction:  0.10,
		TournamentSize: 3,
		MutationRate:   0.15,
		MutationMag:    0.25,
		Patience:       15,
		Seed:           12345,
	}
}

func TestEvolveBestFitnessMonotonic(t *testing.T) {
	entities, vectors := buildLinearFixture(50, func(i int) float64 { return math.Sin(float64(i)) * 0.3 })
	opt := New(rng.New())

	_, history, err := opt.Evolve(context.Background(), defaultRequest(entities, vectors))
	if err != nil {
		t.Fatalf("evolve failed: %v", err)
	}
	if len(history) == 0 {
		t.Fatal("expected non-empty generation history")
	}

	for i := 1; i < len(history); i++ {
		if history[i].BestFitness < history[i-1].BestFitness {
			t.Errorf("best fitness decreased at generation %d: %f -> %f",
				i, history[i-1].BestFitness, history[i].BestFitness)
		}
	}
}

func TestEvolveReproducible(t *testing.T) {
	entities, vectors := buildLinearFixture(40, func(i int) float64 { return math.Cos(float64(i)) * 0.2 })
	req := defaultRequest(entities, vectors)

	best1, history1, err1 := New(rng.New()).Evolve(context.Background(), req)
	best2, history2, err2 := New(rng.New()).Evolve(context.Background(), req)

	if err1 != nil || err2 != nil {
		t.Fatalf("evolve failed: %v / %v", err1, err2)
	}
	if len(history1) != len(history2) {
		t.Fatalf("history lengths differ: %d vs %d", len(history1), len(history2))
	}
	for i := range history1 {
		if history1[i] != history2[i] {
			t.Errorf("generation %d differs: %+v vs %+v", i, history1[i], history2[i])
		}
	}
	if best1.Bias != best2.Bias {
		t.Errorf("best formula bias differs: %f vs %f", best1.Bias, best2.Bias)
	}
	for key, w := range best1.Weights {
		if best2.Weights[key] != w {
			t.Errorf("best formula weight %s differs: %f vs %f", key, w, best2.Weights[key])
		}
	}
}

func TestEvolveLearnsLinearTarget(t *testing.T) {
	// Noiseless linear target: evolved formula should correlate almost
	// perfectly with the outcome.
	entities, vectors := buildLinearFixture(60, func(i int) float64 { return 0 })
	opt := New(rng.New())

	req := defaultRequest(entities, vectors)
	req.Generations = 80
	req.Patience = 0

	_, history, err := opt.Evolve(context.Background(), req)
	if err != nil {
		t.Fatalf("evolve failed: %v", err)
	}

	final := history[len(history)-1].BestFitness
	if final < 0.95 {
		t.Errorf("expected near-perfect fitness on noiseless linear target, got %f", final)
	}
}

func TestEvolveZeroVarianceOutcome(t *testing.T) {
	entities, vectors := buildLinearFixture(10, func(i int) float64 { return 0 })
	for i := range entities {
		entities[i].Outcome = 7.0
	}

	opt := New(rng.New())
	best, history, err := opt.Evolve(context.Background(), defaultRequest(entities, vectors))

	if !errors.Is(err, core.ErrDegenerateFitness) {
		t.Fatalf("expected degenerate fitness error, got %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history for degenerate outcome, got %d records", len(history))
	}
	if len(best.Weights) == 0 {
		t.Error("expected a best-effort untrained formula")
	}
}

func TestEvolveCancellation(t *testing.T) {
	entities, vectors := buildLinearFixture(40, func(i int) float64 { return 0 })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(rng.New()).Evolve(ctx, defaultRequest(entities, vectors))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEvolveTelemetryRatios(t *testing.T) {
	entities, vectors := buildLinearFixture(50, func(i int) float64 { return math.Sin(float64(i * 3)) })
	opt := New(rng.New())

	_, history, err := opt.Evolve(context.Background(), defaultRequest(entities, vectors))
	if err != nil {
		t.Fatalf("evolve failed: %v", err)
	}

	if history[0].DecayRatio != 0 || history[0].GrowthRatio != 0 {
		t.Error("generation 0 must not carry decay/growth ratios")
	}
	for i := 1; i < len(history); i++ {
		rec := history[i]
		if rec.DecayRatio != 0 && rec.GrowthRatio != 0 {
			t.Errorf("generation %d has both decay and growth ratios set", i)
		}
	}
}
