package encoding

import (
	"math"

	"nomengine/domain/core"
	"nomengine/internal/numeric"
)

// hybridEncoder projects the letter histogram into color-space-like axes
// (hue, saturation, lightness) plus a front/back resonance score. The color
// naming is cosmetic; the engine treats them as independent normalized axes.
type hybridEncoder struct{}

func (e *hybridEncoder) Scheme() Scheme {
	return SchemeHybrid
}

func (e *hybridEncoder) PropertyKeys() []core.PropertyKey {
	return []core.PropertyKey{"hue", "saturation", "lightness", "resonance"}
}

func (e *hybridEncoder) Encode(p *nameProfile) map[core.PropertyKey]float64 {
	n := float64(p.letterCount())

	// Hue: mean alphabet position of the letters
	positions := make([]float64, len(p.letters))
	for i, idx := range p.letters {
		positions[i] = float64(idx) / 25.0
	}
	hue := numeric.Mean(positions)

	// Saturation: spread of alphabet positions; 12.5 is the half-range
	saturation := numeric.Clamp01(numeric.StdDev(positions) * 25.0 / 12.5)

	// Lightness: vowel share lifted by brevity
	lightness := numeric.Clamp01(0.7*(float64(p.vowels)/n) + 0.3*(1.0-math.Min(n/24.0, 1.0)))

	resonance := e.halfHistogramSimilarity(p)

	return map[core.PropertyKey]float64{
		"hue":        hue,
		"saturation": saturation,
		"lightness":  lightness,
		"resonance":  resonance,
	}
}

// halfHistogramSimilarity compares the letter histograms of the first and
// second halves of the name via cosine similarity, mapped into [0, 1].
func (e *hybridEncoder) halfHistogramSimilarity(p *nameProfile) float64 {
	n := len(p.letters)
	if n < 2 {
		return 0
	}
	var front, back [26]float64
	mid := n / 2
	for i, idx := range p.letters {
		if i < mid {
			front[idx]++
		} else {
			back[idx]++
		}
	}
	dot, normF, normB := 0.0, 0.0, 0.0
	for i := 0; i < 26; i++ {
		dot += front[i] * back[i]
		normF += front[i] * front[i]
		normB += back[i] * back[i]
	}
	if normF == 0 || normB == 0 {
		return 0
	}
	return numeric.Clamp01(dot / math.Sqrt(normF*normB))
}
