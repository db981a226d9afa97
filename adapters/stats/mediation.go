package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"nomengine/domain/analysis"
)

// mediationResult runs the Baron-Kenny three-regression procedure for
// X -> M -> Y plus a Sobel test on the indirect effect:
//
//	total effect:  Y = c·X
//	path a:        M = a·X
//	paths b, c':   Y = c'·X + b·M
func mediationResult(name string, x, m, y []float64) (analysis.Result, error) {
	totalFit, err := fitOLS(y, x)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("total effect regression: %w", err)
	}
	pathAFit, err := fitOLS(m, x)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("path a regression: %w", err)
	}
	directFit, err := fitOLS(y, x, m)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("direct effect regression: %w", err)
	}

	c := totalFit.coeffs[1]
	a := pathAFit.coeffs[1]
	cPrime := directFit.coeffs[1]
	b := directFit.coeffs[2]

	seA := pathAFit.se[1]
	seB := directFit.se[2]

	indirect := a * b

	// Sobel standard error and z-statistic for the indirect effect
	sobelSE := math.Sqrt(b*b*seA*seA + a*a*seB*seB)
	sobelZ := 0.0
	sobelP := 1.0
	if sobelSE > 0 {
		sobelZ = indirect / sobelSE
		normal := distuv.Normal{Mu: 0, Sigma: 1}
		sobelP = 2 * (1 - normal.CDF(math.Abs(sobelZ)))
	}

	zCrit := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
	result := analysis.Result{
		Kind:     analysis.KindMediation,
		Name:     name,
		Estimate: indirect,
		CILow:    indirect - zCrit*sobelSE,
		CIHigh:   indirect + zCrit*sobelSE,
		PValue:   sobelP,
	}
	result.WithMeta("total_effect_c", c)
	result.WithMeta("path_a", a)
	result.WithMeta("path_b", b)
	result.WithMeta("direct_effect_c_prime", cPrime)
	result.WithMeta("direct_effect_p", directFit.coefPValue(1))
	result.WithMeta("sobel_z", sobelZ)
	result.WithMeta("sobel_se", sobelSE)

	if c != 0 {
		result.WithMeta("proportion_mediated", indirect/c)
	}

	if totalFit.coefPValue(1) > 0.05 {
		result.AddCaveat("total effect is not significant; mediation interpretation is weak")
	}
	if directFit.coefPValue(1) <= 0.05 && sobelP <= 0.05 {
		result.WithMeta("mediation_type", "partial")
	} else if sobelP <= 0.05 {
		result.WithMeta("mediation_type", "full")
	} else {
		result.WithMeta("mediation_type", "none")
	}

	return result, nil
}
