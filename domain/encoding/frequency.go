package encoding

import (
	"math"

	"nomengine/domain/core"
	"nomengine/internal/numeric"
)

// frequencyEncoder works off the letter histogram: normalized Shannon
// entropy, dominant-letter share, alphabet spread, and bigram novelty.
type frequencyEncoder struct{}

func (e *frequencyEncoder) Scheme() Scheme {
	return SchemeFrequency
}

func (e *frequencyEncoder) PropertyKeys() []core.PropertyKey {
	return []core.PropertyKey{"entropy", "dominance", "spread", "bigram_novelty"}
}

func (e *frequencyEncoder) Encode(p *nameProfile) map[core.PropertyKey]float64 {
	n := float64(p.letterCount())

	entropy := numeric.ShannonEntropy(p.counts[:]) / math.Log2(26)

	maxCount := 0
	for _, c := range p.counts {
		if c > maxCount {
			maxCount = c
		}
	}
	dominance := float64(maxCount) / n

	spread := float64(p.distinctLetters()) / 26.0

	bigramNovelty := 1.0
	if len(p.letters) > 1 {
		seen := make(map[[2]int]bool)
		for i := 0; i < len(p.letters)-1; i++ {
			seen[[2]int{p.letters[i], p.letters[i+1]}] = true
		}
		bigramNovelty = float64(len(seen)) / float64(len(p.letters)-1)
	}

	return map[core.PropertyKey]float64{
		"entropy":        numeric.Clamp01(entropy),
		"dominance":      dominance,
		"spread":         spread,
		"bigram_novelty": bigramNovelty,
	}
}
