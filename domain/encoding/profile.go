package encoding

import (
	"strings"
	"unicode"
)

// nameProfile is the shared preprocessing of a raw name. Computed once per
// Encode call and handed to every scheme, so the schemes stay cheap and all
// see the same normalization.
type nameProfile struct {
	raw      string
	letters  []int   // 0-25 letter indices in order of appearance
	counts   [26]int // letter histogram
	vowels   int
	words    []string // lowercase words split on non-letters
	runes    []rune   // all runes of the lowercased raw name
	degenerate bool   // no letters survived normalization
}

// letterIndex folds a rune into a 0-25 bucket. ASCII letters map to their
// alphabet position; any other unicode letter folds by code point so that
// non-Latin input still encodes deterministically.
func letterIndex(r rune) (int, bool) {
	if !unicode.IsLetter(r) {
		return 0, false
	}
	lower := unicode.ToLower(r)
	if lower >= 'a' && lower <= 'z' {
		return int(lower - 'a'), true
	}
	return int(lower % 26), true
}

func isVowelIndex(idx int) bool {
	switch idx {
	case 0, 4, 8, 14, 20: // a e i o u
		return true
	}
	return false
}

func newNameProfile(rawName string) *nameProfile {
	p := &nameProfile{raw: rawName}
	lowered := strings.ToLower(rawName)
	p.runes = []rune(lowered)

	var word []rune
	flushWord := func() {
		if len(word) > 0 {
			p.words = append(p.words, string(word))
			word = word[:0]
		}
	}

	for _, r := range lowered {
		idx, ok := letterIndex(r)
		if !ok {
			flushWord()
			continue
		}
		word = append(word, rune('a'+idx))
		p.letters = append(p.letters, idx)
		p.counts[idx]++
		if isVowelIndex(idx) {
			p.vowels++
		}
	}
	flushWord()

	p.degenerate = len(p.letters) == 0
	return p
}

// letterCount returns the number of folded letters
func (p *nameProfile) letterCount() int {
	return len(p.letters)
}

// distinctLetters returns how many of the 26 buckets are occupied
func (p *nameProfile) distinctLetters() int {
	distinct := 0
	for _, c := range p.counts {
		if c > 0 {
			distinct++
		}
	}
	return distinct
}

// ordinals returns 1-based alphabet ordinals in order of appearance
func (p *nameProfile) ordinals() []int {
	out := make([]int, len(p.letters))
	for i, idx := range p.letters {
		out[i] = idx + 1
	}
	return out
}
