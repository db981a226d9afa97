package stats

import (
	"fmt"

	"nomengine/domain/analysis"
)

// polynomialResult fits linear, quadratic, and cubic models and keeps the
// lowest order whose R² improvement over the previous order exceeds the
// threshold. The shape classification comes from the sign of the selected
// model's highest-order coefficient.
func polynomialResult(name string, x, y []float64) (analysis.Result, error) {
	if len(x) < 5 {
		return analysis.Result{}, fmt.Errorf("need at least 5 samples for polynomial fits, have %d", len(x))
	}

	x2 := make([]float64, len(x))
	x3 := make([]float64, len(x))
	for i, v := range x {
		x2[i] = v * v
		x3[i] = v * v * v
	}

	linear, err := fitOLS(y, x)
	if err != nil {
		return analysis.Result{}, err
	}
	quadratic, err := fitOLS(y, x, x2)
	if err != nil {
		return analysis.Result{}, err
	}
	cubic, err := fitOLS(y, x, x2, x3)
	if err != nil {
		return analysis.Result{}, err
	}

	order := 1
	selected := linear
	if quadratic.r2-linear.r2 > deltaR2Threshold {
		order = 2
		selected = quadratic
		if cubic.r2-quadratic.r2 > deltaR2Threshold {
			order = 3
			selected = cubic
		}
	}

	leadIdx := order // coefficient of the highest-order term
	shape := classifyShape(order, selected.coeffs[leadIdx])

	ciLow, ciHigh := selected.coefCI(leadIdx)
	result := analysis.Result{
		Kind:     analysis.KindPolynomial,
		Name:     name,
		Estimate: selected.coeffs[leadIdx],
		CILow:    ciLow,
		CIHigh:   ciHigh,
		PValue:   selected.coefPValue(leadIdx),
	}
	result.WithMeta("selected_order", order)
	result.WithMeta("shape", shape)
	result.WithMeta("linear_r2", linear.r2)
	result.WithMeta("quadratic_r2", quadratic.r2)
	result.WithMeta("cubic_r2", cubic.r2)
	return result, nil
}

func classifyShape(order int, leadCoeff float64) string {
	switch order {
	case 2:
		if leadCoeff < 0 {
			return "inverse_u"
		}
		return "u_shaped"
	case 3:
		return "cubic"
	default:
		if leadCoeff < 0 {
			return "monotonic_decreasing"
		}
		return "monotonic_increasing"
	}
}
