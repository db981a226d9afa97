package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"nomengine/domain/analysis"
	"nomengine/internal/numeric"
)

// pearsonResult computes Pearson's r with a Fisher z-transform 95% CI and a
// two-tailed t-test p-value. The CI is analytic, so the diagnostic stays
// deterministic without a bootstrap RNG.
func pearsonResult(name string, x, y []float64) (analysis.Result, error) {
	n := len(x)
	if n < 3 || len(y) != n {
		return analysis.Result{}, fmt.Errorf("need at least 3 aligned samples, have %d/%d", len(x), len(y))
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return analysis.Result{}, fmt.Errorf("undefined correlation: zero variance")
	}
	r = numeric.ClampAbs1(r)

	result := analysis.Result{
		Kind:     analysis.KindCorrelation,
		Name:     name,
		Estimate: r,
		PValue:   correlationPValue(r, n),
	}
	result.CILow, result.CIHigh = fisherCI(r, n)
	result.WithMeta("sample_size", n)
	result.WithMeta("method", "pearson")
	return result, nil
}

// spearmanResult computes Spearman's rho as Pearson over tie-averaged ranks
func spearmanResult(name string, x, y []float64) (analysis.Result, error) {
	n := len(x)
	if n < 3 || len(y) != n {
		return analysis.Result{}, fmt.Errorf("need at least 3 aligned samples, have %d/%d", len(x), len(y))
	}

	rho := stat.Correlation(numeric.Ranks(x), numeric.Ranks(y), nil)
	if math.IsNaN(rho) {
		return analysis.Result{}, fmt.Errorf("undefined rank correlation: zero variance")
	}
	rho = numeric.ClampAbs1(rho)

	result := analysis.Result{
		Kind:     analysis.KindCorrelation,
		Name:     name,
		Estimate: rho,
		PValue:   correlationPValue(rho, n),
	}
	result.CILow, result.CIHigh = fisherCI(rho, n)
	result.WithMeta("sample_size", n)
	result.WithMeta("method", "spearman")
	return result, nil
}

// correlationPValue is the two-tailed p of r under t with n-2 degrees of freedom
func correlationPValue(r float64, n int) float64 {
	df := float64(n - 2)
	if df <= 0 {
		return 1.0
	}
	if math.Abs(r) >= 1 {
		return 0.0
	}
	t := math.Abs(r) * math.Sqrt(df/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(t))
}

// fisherCI is the analytic 95% CI of a correlation via the z-transform
func fisherCI(r float64, n int) (float64, float64) {
	if n < 4 {
		return -1, 1
	}
	if math.Abs(r) >= 1 {
		return r, r
	}
	z := 0.5 * math.Log((1+r)/(1-r))
	se := 1.0 / math.Sqrt(float64(n-3))
	zCrit := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
	lo := math.Tanh(z - zCrit*se)
	hi := math.Tanh(z + zCrit*se)
	return lo, hi
}
