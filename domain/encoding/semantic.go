package encoding

import (
	"math"

	"nomengine/domain/core"
	"nomengine/internal/numeric"
)

// semanticEncoder scores lexical texture: a length/letter-frequency
// composite "complexity" in [0, 1], vowel/consonant balance, mean letter
// rarity against English frequencies, and letter-reuse compactness.
type semanticEncoder struct{}

func (e *semanticEncoder) Scheme() Scheme {
	return SchemeSemantic
}

func (e *semanticEncoder) PropertyKeys() []core.PropertyKey {
	return []core.PropertyKey{"complexity", "balance", "rarity", "compactness"}
}

// English letter frequencies (a..z), percent
var englishFreq = [26]float64{
	8.17, 1.49, 2.78, 4.25, 12.70, 2.23, 2.02, 6.09, 6.97, 0.15, 0.77, 4.03,
	2.41, 6.75, 7.51, 1.93, 0.10, 5.99, 6.33, 9.06, 2.76, 0.98, 2.36, 0.15,
	1.97, 0.07,
}

func (e *semanticEncoder) Encode(p *nameProfile) map[core.PropertyKey]float64 {
	n := float64(p.letterCount())
	distinct := float64(p.distinctLetters())

	// Length saturates at 20 letters; variety is distinct share of length
	lengthTerm := math.Min(n/20.0, 1.0)
	varietyTerm := distinct / n
	complexity := numeric.Clamp01(0.5*lengthTerm + 0.5*varietyTerm)

	vowelRatio := float64(p.vowels) / n
	balance := 1.0 - math.Abs(vowelRatio-0.5)*2.0

	raritySum := 0.0
	for _, idx := range p.letters {
		raritySum += 1.0 - englishFreq[idx]/12.70
	}
	rarity := numeric.Clamp01(raritySum / n)

	// Letter reuse: 0 when every letter is distinct, approaching 1 for
	// names built from few repeated letters
	compactness := numeric.Clamp01(1.0 - distinct/n)

	return map[core.PropertyKey]float64{
		"complexity":  complexity,
		"balance":     balance,
		"rarity":      rarity,
		"compactness": compactness,
	}
}
