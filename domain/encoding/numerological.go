package encoding

import (
	"nomengine/domain/core"
)

// numerologicalEncoder reduces letter ordinals (a=1..z=26) to numeric axes.
// The properties carry no semantic claim; they are simply deterministic
// projections the optimizer can weight.
type numerologicalEncoder struct{}

func (e *numerologicalEncoder) Scheme() Scheme {
	return SchemeNumerological
}

func (e *numerologicalEncoder) PropertyKeys() []core.PropertyKey {
	return []core.PropertyKey{"root", "master", "parity", "ordinal_mean"}
}

func (e *numerologicalEncoder) Encode(p *nameProfile) map[core.PropertyKey]float64 {
	ordinals := p.ordinals()

	sum := 0
	odd := 0
	for _, o := range ordinals {
		sum += o
		if o%2 == 1 {
			odd++
		}
	}

	// Digital root of the ordinal sum, scaled to [0, 1]
	root := sum % 9
	if root == 0 && sum > 0 {
		root = 9
	}

	master := 0.0
	if sum > 0 && sum%11 == 0 {
		master = 1.0
	}

	n := float64(len(ordinals))
	parity := float64(odd) / n
	ordinalMean := float64(sum) / n / 26.0

	return map[core.PropertyKey]float64{
		"root":         float64(root) / 9.0,
		"master":       master,
		"parity":       parity,
		"ordinal_mean": ordinalMean,
	}
}
