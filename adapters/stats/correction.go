package stats

import (
	"sort"

	"nomengine/domain/analysis"
)

const familyAlpha = 0.05

// CorrectFamily applies multiple-comparison correction across one family of
// hypothesis tests: Bonferroni significance at alpha/m plus the
// Benjamini-Hochberg FDR-adjusted p-value. Results that carry no hypothesis
// test (clustering) are left untouched.
func CorrectFamily(results []analysis.Result) {
	family := make([]*analysis.Result, 0, len(results))
	for i := range results {
		if results[i].Kind == analysis.KindCluster {
			continue
		}
		family = append(family, &results[i])
	}

	m := len(family)
	if m == 0 {
		return
	}

	bonferroniAlpha := familyAlpha / float64(m)
	for _, r := range family {
		r.FamilySize = m
		r.BonferroniAlpha = bonferroniAlpha
		r.BonferroniSignificant = r.PValue < bonferroniAlpha
	}

	// BH: sort ascending by p, q_i = p_i * m / rank, then enforce
	// monotonicity from the largest rank down.
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return family[order[a]].PValue < family[order[b]].PValue
	})

	adjusted := make([]float64, m)
	for rank, idx := range order {
		q := family[idx].PValue * float64(m) / float64(rank+1)
		if q > 1 {
			q = 1
		}
		adjusted[rank] = q
	}
	for rank := m - 2; rank >= 0; rank-- {
		if adjusted[rank] > adjusted[rank+1] {
			adjusted[rank] = adjusted[rank+1]
		}
	}
	for rank, idx := range order {
		family[idx].AdjustedP = adjusted[rank]
		family[idx].FDRSignificant = adjusted[rank] < familyAlpha
	}
}
