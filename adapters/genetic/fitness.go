package genetic

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"nomengine/domain/encoding"
	"nomengine/domain/formula"
)

// fitnessOf scores a formula as the Pearson correlation between its scores
// and the outcomes. Binary outcomes use their 0/1 coding, which makes this
// the point-biserial correlation. Undefined correlation (zero variance in
// the scores) maps to 0.
func fitnessOf(f formula.Formula, vectors []encoding.FeatureVector, outcomes []float64) float64 {
	scores := f.ScoreAll(vectors)
	r := stat.Correlation(scores, outcomes, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// evaluatePopulation computes fitness for every individual. Evaluation fans
// out across a bounded set of goroutines writing to indexed slots, so the
// result is identical to sequential evaluation.
func evaluatePopulation(pop formula.Population, vectors []encoding.FeatureVector, outcomes []float64, workers int) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(pop) {
		workers = len(pop)
	}
	if workers == 1 {
		for i := range pop {
			pop[i].Fitness = fitnessOf(pop[i].Formula, vectors, outcomes)
		}
		return
	}

	type span struct{ start, end int }
	spans := make(chan span, workers)
	done := make(chan struct{}, workers)

	for w := 0; w < workers; w++ {
		go func() {
			for s := range spans {
				for i := s.start; i < s.end; i++ {
					pop[i].Fitness = fitnessOf(pop[i].Formula, vectors, outcomes)
				}
			}
			done <- struct{}{}
		}()
	}

	chunk := (len(pop) + workers - 1) / workers
	for start := 0; start < len(pop); start += chunk {
		end := start + chunk
		if end > len(pop) {
			end = len(pop)
		}
		spans <- span{start: start, end: end}
	}
	close(spans)

	for w := 0; w < workers; w++ {
		<-done
	}
}

// fitnessValues extracts the fitness column of a population
func fitnessValues(pop formula.Population) []float64 {
	out := make([]float64, len(pop))
	for i, ind := range pop {
		out[i] = ind.Fitness
	}
	return out
}
