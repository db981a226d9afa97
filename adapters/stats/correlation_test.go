package stats

import (
	"math"
	"testing"
)

func TestPearsonPerfectLinear(t *testing.T) {
	// outcome = 2·feature with no noise: r must be 1.0 and the regression
	// slope must recover 2.0
	x := make([]float64, 30)
	y := make([]float64, 30)
	for i := range x {
		x[i] = float64(i) * 0.1
		y[i] = 2.0 * x[i]
	}

	result, err := pearsonResult("perfect", x, y)
	if err != nil {
		t.Fatalf("pearson failed: %v", err)
	}
	if math.Abs(result.Estimate-1.0) > 1e-9 {
		t.Errorf("r = %.12f, want 1.0", result.Estimate)
	}
	if result.PValue > 1e-6 {
		t.Errorf("p = %g, want ~0 for perfect correlation", result.PValue)
	}

	fit, err := fitOLS(y, x)
	if err != nil {
		t.Fatalf("OLS failed: %v", err)
	}
	if math.Abs(fit.coeffs[1]-2.0) > 1e-9 {
		t.Errorf("slope = %.12f, want 2.0", fit.coeffs[1])
	}
	if math.Abs(fit.coeffs[0]) > 1e-9 {
		t.Errorf("intercept = %.12f, want 0", fit.coeffs[0])
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1}
	y := []float64{1, 2, 3, 4, 5}

	if _, err := pearsonResult("flat", x, y); err == nil {
		t.Error("expected error for zero-variance input")
	}
}

func TestSpearmanMonotonicNonlinear(t *testing.T) {
	// y = x³ is monotone but not linear: Spearman must be exactly 1
	x := make([]float64, 20)
	y := make([]float64, 20)
	for i := range x {
		x[i] = float64(i) - 10
		y[i] = x[i] * x[i] * x[i]
	}

	result, err := spearmanResult("cubic", x, y)
	if err != nil {
		t.Fatalf("spearman failed: %v", err)
	}
	if math.Abs(result.Estimate-1.0) > 1e-9 {
		t.Errorf("rho = %.12f, want 1.0", result.Estimate)
	}
}

func TestFisherCIBracketsEstimate(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	y := []float64{1.1, 2.3, 2.8, 4.4, 4.9, 6.2, 6.8, 8.1, 9.3, 9.8}

	result, err := pearsonResult("noisy", x, y)
	if err != nil {
		t.Fatalf("pearson failed: %v", err)
	}
	if result.CILow > result.Estimate || result.CIHigh < result.Estimate {
		t.Errorf("CI [%.3f, %.3f] does not bracket estimate %.3f", result.CILow, result.CIHigh, result.Estimate)
	}
	if result.CILow >= result.CIHigh {
		t.Errorf("degenerate CI [%.3f, %.3f]", result.CILow, result.CIHigh)
	}
}
