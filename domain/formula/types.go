package formula

import (
	"sort"

	"nomengine/domain/core"
	"nomengine/domain/encoding"
)

// Formula is a weighted linear scoring function over one scheme's features:
// score = bias + Σ weight_p · feature_p
type Formula struct {
	Scheme  encoding.Scheme              `json:"encoding_scheme"`
	Weights map[core.PropertyKey]float64 `json:"weights"`
	Bias    float64                      `json:"bias"`
}

// Score evaluates the formula against one feature vector
func (f Formula) Score(vec encoding.FeatureVector) float64 {
	score := f.Bias
	for key, weight := range f.Weights {
		score += weight * vec.Properties[key]
	}
	return score
}

// ScoreAll evaluates the formula across vectors, in order
func (f Formula) ScoreAll(vectors []encoding.FeatureVector) []float64 {
	scores := make([]float64, len(vectors))
	for i, vec := range vectors {
		scores[i] = f.Score(vec)
	}
	return scores
}

// Clone returns a deep copy so mutation never aliases parent weights
func (f Formula) Clone() Formula {
	weights := make(map[core.PropertyKey]float64, len(f.Weights))
	for k, v := range f.Weights {
		weights[k] = v
	}
	return Formula{Scheme: f.Scheme, Weights: weights, Bias: f.Bias}
}

// SortedKeys returns the weight keys in lexical order. Crossover and
// serialization iterate weights through this, never through map order.
func (f Formula) SortedKeys() []core.PropertyKey {
	keys := make([]core.PropertyKey, 0, len(f.Weights))
	for k := range f.Weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Individual pairs a formula with its fitness in a population
type Individual struct {
	Formula Formula `json:"formula"`
	Fitness float64 `json:"fitness"`
}

// Population is an ordered set of individuals; its size is fixed for a run
type Population []Individual

// SortByFitness orders best-first. The sort is stable so fitness ties keep
// their construction order and ranking stays deterministic across runs.
func (p Population) SortByFitness() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Fitness > p[j].Fitness
	})
}

// Best returns the top individual of a sorted population
func (p Population) Best() Individual {
	if len(p) == 0 {
		return Individual{}
	}
	return p[0]
}

// GenerationRecord is per-generation telemetry. DecayRatio and GrowthRatio
// are the generation-over-generation multiplicative change in mean fitness,
// split by direction; they are descriptive only and never feed selection.
type GenerationRecord struct {
	Index         int     `json:"generation_index"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	FitnessStdDev float64 `json:"fitness_stddev"`
	DecayRatio    float64 `json:"decay_ratio,omitempty"`
	GrowthRatio   float64 `json:"growth_ratio,omitempty"`
}
