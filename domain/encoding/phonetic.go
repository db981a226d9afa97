package encoding

import (
	"nomengine/domain/core"
	"nomengine/internal/numeric"
)

// phoneticEncoder maps sound-structure of a name onto numeric axes:
// vowel balance, consonant clustering, soft-consonant share, alliteration,
// and syllable density. All properties land in [0, 1].
type phoneticEncoder struct{}

func (e *phoneticEncoder) Scheme() Scheme {
	return SchemePhonetic
}

func (e *phoneticEncoder) PropertyKeys() []core.PropertyKey {
	return []core.PropertyKey{"vowel_ratio", "consonant_run", "softness", "alliteration", "syllable_density"}
}

// soft consonants: liquids, nasals, glides
var softConsonants = map[int]bool{
	11: true, // l
	12: true, // m
	13: true, // n
	17: true, // r
	22: true, // w
	24: true, // y
}

func (e *phoneticEncoder) Encode(p *nameProfile) map[core.PropertyKey]float64 {
	n := float64(p.letterCount())

	vowelRatio := float64(p.vowels) / n

	// Longest run of consecutive consonants, normalized by name length
	longestRun := 0
	run := 0
	soft := 0
	for _, idx := range p.letters {
		if isVowelIndex(idx) {
			run = 0
			continue
		}
		run++
		if run > longestRun {
			longestRun = run
		}
		if softConsonants[idx] {
			soft++
		}
	}
	consonantRun := numeric.Clamp01(float64(longestRun) / n)

	consonants := p.letterCount() - p.vowels
	softness := 0.0
	if consonants > 0 {
		softness = float64(soft) / float64(consonants)
	}

	// Fraction of words sharing the first word's initial letter
	alliteration := 0.0
	if len(p.words) > 1 {
		first := p.words[0][0]
		matches := 0
		for _, w := range p.words[1:] {
			if w[0] == first {
				matches++
			}
		}
		alliteration = float64(matches) / float64(len(p.words)-1)
	}

	// Vowel groups approximate syllables
	groups := 0
	inGroup := false
	for _, idx := range p.letters {
		if isVowelIndex(idx) {
			if !inGroup {
				groups++
				inGroup = true
			}
		} else {
			inGroup = false
		}
	}
	syllableDensity := numeric.Clamp01(float64(groups) * 3.0 / n)

	return map[core.PropertyKey]float64{
		"vowel_ratio":      vowelRatio,
		"consonant_run":    consonantRun,
		"softness":         softness,
		"alliteration":     alliteration,
		"syllable_density": syllableDensity,
	}
}
