// Package genetic implements ports.OptimizerPort: a seeded genetic algorithm
// over weighted-feature formulas with elitism, tournament selection,
// single-point crossover, and Gaussian mutation.
package genetic

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/domain/encoding"
	"nomengine/domain/formula"
	"nomengine/internal/numeric"
	"nomengine/ports"
)

// Optimizer evolves formulas against a domain's outcomes
type Optimizer struct {
	rng     ports.RNGPort
	workers int
}

// New creates an optimizer drawing all randomness from the given RNG port
func New(rngPort ports.RNGPort) *Optimizer {
	return &Optimizer{rng: rngPort, workers: runtime.GOMAXPROCS(0)}
}

// Evolve runs the genetic algorithm. The full generation history is exactly
// reproducible for identical requests: every random draw comes from one
// seeded stream and map iteration never influences ordering.
func (o *Optimizer) Evolve(ctx context.Context, req ports.EvolveRequest) (formula.Formula, []formula.GenerationRecord, error) {
	if len(req.Entities) != len(req.Vectors) {
		return formula.Formula{}, nil, fmt.Errorf("entities and vectors misaligned: %d vs %d", len(req.Entities), len(req.Vectors))
	}
	if len(req.Entities) < 2 {
		return formula.Formula{}, nil, core.ErrInsufficientSample
	}

	stream, err := o.rng.SeededStream(ctx, "evolve:"+string(req.Scheme), req.Seed)
	if err != nil {
		return formula.Formula{}, nil, err
	}

	keys := encoding.PropertyKeys(req.Scheme)
	if len(keys) == 0 {
		return formula.Formula{}, nil, fmt.Errorf("scheme %s has no property schema", req.Scheme)
	}

	outcomes := dataset.Outcomes(req.Entities)
	if !dataset.HasOutcomeVariance(req.Entities) {
		// Nothing to fit against. Report an untrained formula rather than
		// dividing by zero in every fitness evaluation.
		untrained := randomFormula(stream, req.Scheme, keys)
		return untrained, nil, core.ErrZeroVarianceOutcome
	}

	pop := make(formula.Population, req.PopulationSize)
	for i := range pop {
		pop[i] = formula.Individual{Formula: randomFormula(stream, req.Scheme, keys)}
	}

	eliteCount := int(float64(req.PopulationSize)*req.EliteFraction + 0.5)
	if eliteCount < 1 {
		eliteCount = 1
	}
	if eliteCount > req.PopulationSize {
		eliteCount = req.PopulationSize
	}

	history := make([]formula.GenerationRecord, 0, req.Generations)
	prevMean := 0.0
	bestEver := 0.0
	sinceImproved := 0

	for g := 0; g < req.Generations; g++ {
		if err := ctx.Err(); err != nil {
			return pop.Best().Formula, history, err
		}

		evaluatePopulation(pop, req.Vectors, outcomes, o.workers)
		pop.SortByFitness()

		record := o.recordGeneration(g, pop, prevMean, g > 0)
		history = append(history, record)
		prevMean = record.MeanFitness

		if g == 0 || record.BestFitness > bestEver {
			bestEver = record.BestFitness
			sinceImproved = 0
		} else {
			sinceImproved++
		}
		if req.Patience > 0 && sinceImproved >= req.Patience {
			break
		}
		if g == req.Generations-1 {
			break
		}

		pop = o.breed(stream, pop, eliteCount, req)
	}

	return pop.Best().Formula, history, nil
}

// breed builds the next generation: elites carried unchanged, the remainder
// bred by tournament selection, crossover, and mutation.
func (o *Optimizer) breed(stream *rand.Rand, ranked formula.Population, eliteCount int, req ports.EvolveRequest) formula.Population {
	next := make(formula.Population, 0, len(ranked))
	for i := 0; i < eliteCount; i++ {
		// Elites keep their fitness; re-evaluation is a no-op for them and
		// carrying it guarantees best fitness never decreases.
		next = append(next, formula.Individual{Formula: ranked[i].Formula.Clone(), Fitness: ranked[i].Fitness})
	}

	tournament := req.TournamentSize
	if tournament < 2 {
		tournament = 2
	}

	for len(next) < len(ranked) {
		parentA := tournamentPick(stream, ranked, tournament)
		parentB := tournamentPick(stream, ranked, tournament)
		child := crossover(stream, parentA, parentB)
		mutate(stream, &child, req.MutationRate, req.MutationMag)
		next = append(next, formula.Individual{Formula: child})
	}
	return next
}

func (o *Optimizer) recordGeneration(index int, ranked formula.Population, prevMean float64, hasPrev bool) formula.GenerationRecord {
	fitnesses := fitnessValues(ranked)
	record := formula.GenerationRecord{
		Index:         index,
		BestFitness:   ranked.Best().Fitness,
		MeanFitness:   numeric.Mean(fitnesses),
		FitnessStdDev: numeric.StdDev(fitnesses),
	}
	if hasPrev && prevMean != 0 {
		ratio := record.MeanFitness / prevMean
		if record.MeanFitness < prevMean {
			record.DecayRatio = ratio
		} else if record.MeanFitness > prevMean {
			record.GrowthRatio = ratio
		}
	}
	return record
}

// randomFormula initializes weights and bias uniformly in [-1, 1].
// Weights are drawn in sorted key order so initialization is reproducible.
func randomFormula(stream *rand.Rand, scheme encoding.Scheme, keys []core.PropertyKey) formula.Formula {
	weights := make(map[core.PropertyKey]float64, len(keys))
	for _, key := range keys {
		weights[key] = stream.Float64()*2 - 1
	}
	return formula.Formula{
		Scheme:  scheme,
		Weights: weights,
		Bias:    stream.Float64()*2 - 1,
	}
}

// tournamentPick samples tournament-size candidates and keeps the fittest.
// The population is ranked, so the lowest index wins.
func tournamentPick(stream *rand.Rand, ranked formula.Population, size int) formula.Formula {
	best := stream.Intn(len(ranked))
	for i := 1; i < size; i++ {
		candidate := stream.Intn(len(ranked))
		if candidate < best {
			best = candidate
		}
	}
	return ranked[best].Formula
}

// crossover splices two weight maps at a single seeded point over the
// sorted property keys; the bias comes from one parent by coin flip.
func crossover(stream *rand.Rand, a, b formula.Formula) formula.Formula {
	keys := a.SortedKeys()
	point := 1
	if len(keys) > 1 {
		point = 1 + stream.Intn(len(keys)-1)
	}

	weights := make(map[core.PropertyKey]float64, len(keys))
	for i, key := range keys {
		if i < point {
			weights[key] = a.Weights[key]
		} else {
			weights[key] = b.Weights[key]
		}
	}

	bias := a.Bias
	if stream.Intn(2) == 1 {
		bias = b.Bias
	}

	return formula.Formula{Scheme: a.Scheme, Weights: weights, Bias: bias}
}

// mutate perturbs weights with fixed-rate, fixed-magnitude Gaussian noise.
// Iteration follows sorted key order to keep the draw sequence stable.
func mutate(stream *rand.Rand, f *formula.Formula, rate, magnitude float64) {
	for _, key := range f.SortedKeys() {
		if stream.Float64() < rate {
			f.Weights[key] += stream.NormFloat64() * magnitude
		}
	}
	if stream.Float64() < rate {
		f.Bias += stream.NormFloat64() * magnitude
	}
}
