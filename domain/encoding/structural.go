package encoding

import (
	"math"

	"nomengine/domain/core"
	"nomengine/internal/numeric"
)

// structuralEncoder measures shape of the letter sequence itself:
// mirror symmetry, a box-counting self-similarity estimate, n-gram
// repetition, and normalized length.
type structuralEncoder struct{}

func (e *structuralEncoder) Scheme() Scheme {
	return SchemeStructural
}

func (e *structuralEncoder) PropertyKeys() []core.PropertyKey {
	return []core.PropertyKey{"symmetry", "fractal_dim", "repetition", "length_norm"}
}

func (e *structuralEncoder) Encode(p *nameProfile) map[core.PropertyKey]float64 {
	letters := p.letters
	n := len(letters)

	// Fraction of mirrored positions that match (1.0 for palindromes)
	matches := 0
	pairs := n / 2
	for i := 0; i < pairs; i++ {
		if letters[i] == letters[n-1-i] {
			matches++
		}
	}
	symmetry := 1.0
	if pairs > 0 {
		symmetry = float64(matches) / float64(pairs)
	}

	fractalDim := e.boxCountingDimension(letters)

	// Share of repeated bigrams
	repetition := 0.0
	if n > 1 {
		seen := make(map[[2]int]int)
		for i := 0; i < n-1; i++ {
			seen[[2]int{letters[i], letters[i+1]}]++
		}
		total := n - 1
		repetition = 1.0 - float64(len(seen))/float64(total)
	}

	lengthNorm := math.Min(float64(n)/24.0, 1.0)

	return map[core.PropertyKey]float64{
		"symmetry":    symmetry,
		"fractal_dim": fractalDim,
		"repetition":  repetition,
		"length_norm": lengthNorm,
	}
}

// boxCountingDimension estimates self-similarity of the letter sequence by
// counting distinct s-grams at scales 1, 2, 4 and fitting the log-log slope.
// The slope is divided by 2 and clamped so the property stays in [0, 1].
func (e *structuralEncoder) boxCountingDimension(letters []int) float64 {
	scales := []int{1, 2, 4}
	var logScales, logCounts []float64
	for _, s := range scales {
		if len(letters) < s {
			break
		}
		seen := make(map[string]bool)
		for i := 0; i+s <= len(letters); i++ {
			key := ""
			for _, idx := range letters[i : i+s] {
				key += string(rune('a' + idx))
			}
			seen[key] = true
		}
		logScales = append(logScales, math.Log(float64(s)))
		logCounts = append(logCounts, math.Log(float64(len(seen))))
	}
	if len(logScales) < 2 {
		return 0
	}

	// Least-squares slope of log(count) against log(scale)
	meanX := numeric.Mean(logScales)
	meanY := numeric.Mean(logCounts)
	num, den := 0.0, 0.0
	for i := range logScales {
		num += (logScales[i] - meanX) * (logCounts[i] - meanY)
		den += (logScales[i] - meanX) * (logScales[i] - meanX)
	}
	if den == 0 {
		return 0
	}
	return numeric.Clamp01(num / den / 2.0)
}
