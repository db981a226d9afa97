package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"nomengine/domain/analysis"
	"nomengine/internal/numeric"
)

// Cohort holds one cohort's outcomes in the early and late periods
type Cohort struct {
	Name  string
	Early []float64
	Late  []float64
}

// didResult computes the difference-in-differences estimate
// (late_B - early_B) - (late_A - early_A) with a pooled-variance standard
// error. The estimate is always labeled non-causal unless parallel trends
// can be checked, which this engine cannot do from two periods alone.
func didResult(name string, a, b Cohort) (analysis.Result, error) {
	for _, group := range [][]float64{a.Early, a.Late, b.Early, b.Late} {
		if len(group) < 2 {
			return analysis.Result{}, fmt.Errorf("every cohort-period cell needs at least 2 observations")
		}
	}

	deltaA := numeric.Mean(a.Late) - numeric.Mean(a.Early)
	deltaB := numeric.Mean(b.Late) - numeric.Mean(b.Early)
	estimate := deltaB - deltaA

	se := math.Sqrt(
		numeric.SampleVariance(a.Early)/float64(len(a.Early)) +
			numeric.SampleVariance(a.Late)/float64(len(a.Late)) +
			numeric.SampleVariance(b.Early)/float64(len(b.Early)) +
			numeric.SampleVariance(b.Late)/float64(len(b.Late)))

	pValue := 1.0
	z := 0.0
	if se > 0 {
		z = estimate / se
		normal := distuv.Normal{Mu: 0, Sigma: 1}
		pValue = 2 * (1 - normal.CDF(math.Abs(z)))
	}

	zCrit := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
	result := analysis.Result{
		Kind:     analysis.KindDiD,
		Name:     name,
		Estimate: estimate,
		CILow:    estimate - zCrit*se,
		CIHigh:   estimate + zCrit*se,
		PValue:   pValue,
	}
	result.WithMeta("cohort_a", a.Name)
	result.WithMeta("cohort_b", b.Name)
	result.WithMeta("delta_a", deltaA)
	result.WithMeta("delta_b", deltaB)
	result.WithMeta("z", z)
	result.AddCaveat("parallel-trends assumption unchecked; estimate is descriptive, not causal")
	return result, nil
}
