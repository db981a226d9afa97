package stats

import (
	"fmt"

	"nomengine/domain/analysis"
	"nomengine/internal/numeric"
)

// interactionResult adds a product term over centered predictors to an
// additive model and reports whether it materially improves fit. Works for
// two-way (two predictors) and three-way (three predictors) interactions.
func interactionResult(name string, outcome []float64, predictors ...[]float64) (analysis.Result, error) {
	if len(predictors) < 2 || len(predictors) > 3 {
		return analysis.Result{}, fmt.Errorf("interaction needs 2 or 3 predictors, got %d", len(predictors))
	}

	// Centering keeps the product term from being collinear with the mains
	centered := make([][]float64, len(predictors))
	for i, p := range predictors {
		mean := numeric.Mean(p)
		c := make([]float64, len(p))
		for j, v := range p {
			c[j] = v - mean
		}
		centered[i] = c
	}

	product := make([]float64, len(outcome))
	for j := range product {
		product[j] = 1
		for _, c := range centered {
			product[j] *= c[j]
		}
	}

	additiveFit, err := fitOLS(outcome, centered...)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("additive model: %w", err)
	}

	withInteraction := append(append([][]float64{}, centered...), product)
	fullFit, err := fitOLS(outcome, withInteraction...)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("interaction model: %w", err)
	}

	interactionIdx := len(withInteraction) // intercept offset: last coefficient
	deltaR2 := fullFit.r2 - additiveFit.r2

	ciLow, ciHigh := fullFit.coefCI(interactionIdx)
	result := analysis.Result{
		Kind:     analysis.KindInteraction,
		Name:     name,
		Estimate: fullFit.coeffs[interactionIdx],
		CILow:    ciLow,
		CIHigh:   ciHigh,
		PValue:   fullFit.coefPValue(interactionIdx),
	}
	result.WithMeta("order", len(predictors))
	result.WithMeta("additive_r2", additiveFit.r2)
	result.WithMeta("interaction_r2", fullFit.r2)
	result.WithMeta("delta_r2", deltaR2)
	result.WithMeta("material", deltaR2 > deltaR2Threshold)

	if deltaR2 <= deltaR2Threshold {
		result.AddCaveat(fmt.Sprintf("interaction does not materially improve fit (ΔR²=%.4f, threshold %.2f)", deltaR2, deltaR2Threshold))
	}

	return result, nil
}
