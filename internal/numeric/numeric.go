// Package numeric holds small numeric helpers shared by the encoder,
// optimizer, and analyzer. Anything with a montanaflynn/stats primitive
// delegates to it; the rest is plain math.
package numeric

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, 0 for empty input
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

// SampleVariance returns the n-1 variance, 0 for fewer than two values
func SampleVariance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	v, err := stats.SampleVariance(data)
	if err != nil {
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation
func StdDev(data []float64) float64 {
	return math.Sqrt(SampleVariance(data))
}

// Ranks converts values to 1-based ranks, averaging ties
func Ranks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		avgRank := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j
	}
	return ranks
}

// Standardize returns (x - mean) / stddev per element. Zero-variance input
// comes back as all zeros rather than NaN.
func Standardize(data []float64) []float64 {
	out := make([]float64, len(data))
	mean := Mean(data)
	sd := StdDev(data)
	if sd == 0 {
		return out
	}
	for i, v := range data {
		out[i] = (v - mean) / sd
	}
	return out
}

// ShannonEntropy computes entropy in bits over a count histogram
func ShannonEntropy(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// Clamp01 clamps v into [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampAbs1 clamps v into [-1, 1]
func ClampAbs1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
