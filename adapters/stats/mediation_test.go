package stats

import (
	"math"
	"math/rand"
	"testing"
)

func TestMediationFullMediation(t *testing.T) {
	// Generating process: X -> M -> Y with no direct effect.
	// M = 2X + small noise, Y = 3M + small noise.
	stream := rand.New(rand.NewSource(7))
	n := 200
	x := make([]float64, n)
	m := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = stream.NormFloat64()
		m[i] = 2.0*x[i] + stream.NormFloat64()*0.1
		y[i] = 3.0*m[i] + stream.NormFloat64()*0.1
	}

	result, err := mediationResult("full_mediation", x, m, y)
	if err != nil {
		t.Fatalf("mediation failed: %v", err)
	}

	// Indirect effect a·b should be near 6
	if math.Abs(result.Estimate-6.0) > 0.5 {
		t.Errorf("indirect effect = %.3f, want ≈ 6.0", result.Estimate)
	}
	if result.PValue > 0.001 {
		t.Errorf("Sobel p = %g, want significant indirect effect", result.PValue)
	}

	// Direct effect c' must be non-significant with full mediation
	directP, ok := result.Metadata["direct_effect_p"].(float64)
	if !ok {
		t.Fatal("missing direct_effect_p metadata")
	}
	if directP < 0.05 {
		t.Errorf("direct effect p = %.4f, want non-significant under full mediation", directP)
	}

	// Proportion mediated ≈ 1.0
	prop, ok := result.Metadata["proportion_mediated"].(float64)
	if !ok {
		t.Fatal("missing proportion_mediated metadata")
	}
	if math.Abs(prop-1.0) > 0.1 {
		t.Errorf("proportion mediated = %.3f, want ≈ 1.0", prop)
	}
}

func TestMediationNoMediation(t *testing.T) {
	// M is pure noise: the indirect effect should not be significant
	stream := rand.New(rand.NewSource(11))
	n := 150
	x := make([]float64, n)
	m := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = stream.NormFloat64()
		m[i] = stream.NormFloat64()
		y[i] = 2.0*x[i] + stream.NormFloat64()*0.2
	}

	result, err := mediationResult("no_mediation", x, m, y)
	if err != nil {
		t.Fatalf("mediation failed: %v", err)
	}
	if result.PValue < 0.05 {
		t.Errorf("Sobel p = %.4f, want non-significant when mediator is noise", result.PValue)
	}
	if got := result.Metadata["mediation_type"]; got != "none" {
		t.Errorf("mediation_type = %v, want none", got)
	}
}
