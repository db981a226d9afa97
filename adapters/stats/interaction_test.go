package stats

import (
	"math"
	"testing"
)

func TestInteractionDetectsProductEffect(t *testing.T) {
	// y = x1 + x2 + 2·x1·x2: the product term carries real signal, so the
	// interaction model must beat the additive one by well over the ΔR²
	// threshold and recover a coefficient near 2.
	n := 60
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = float64(i%10) - 4.5
		x2[i] = float64(i/10) - 2.5
		y[i] = x1[i] + x2[i] + 2*x1[i]*x2[i]
	}

	result, err := interactionResult("x1_x2", y, x1, x2)
	if err != nil {
		t.Fatalf("interaction failed: %v", err)
	}
	if math.Abs(result.Estimate-2.0) > 0.05 {
		t.Errorf("interaction coefficient = %.4f, want ~2.0", result.Estimate)
	}
	if material, _ := result.Metadata["material"].(bool); !material {
		t.Errorf("interaction should be material, ΔR² = %v", result.Metadata["delta_r2"])
	}
	if len(result.Caveats) != 0 {
		t.Errorf("material interaction should carry no caveat, got %v", result.Caveats)
	}
}

func TestInteractionPureAdditiveIsNotMaterial(t *testing.T) {
	n := 60
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = float64(i%10) - 4.5
		x2[i] = float64(i/10) - 2.5
		y[i] = 3*x1[i] - x2[i]
	}

	result, err := interactionResult("additive", y, x1, x2)
	if err != nil {
		t.Fatalf("interaction failed: %v", err)
	}
	if material, _ := result.Metadata["material"].(bool); material {
		t.Errorf("purely additive data should not yield a material interaction, ΔR² = %v", result.Metadata["delta_r2"])
	}
	if len(result.Caveats) == 0 {
		t.Error("non-material interaction should carry a caveat")
	}
}

func TestInteractionThreeWay(t *testing.T) {
	n := 64
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	x3 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = float64(i%4) - 1.5
		x2[i] = float64((i/4)%4) - 1.5
		x3[i] = float64(i/16) - 1.5
		y[i] = x1[i] + x2[i] + x3[i] + 1.5*x1[i]*x2[i]*x3[i]
	}

	result, err := interactionResult("three_way", y, x1, x2, x3)
	if err != nil {
		t.Fatalf("three-way interaction failed: %v", err)
	}
	if order, _ := result.Metadata["order"].(int); order != 3 {
		t.Errorf("order = %v, want 3", result.Metadata["order"])
	}
	if math.Abs(result.Estimate-1.5) > 0.1 {
		t.Errorf("three-way coefficient = %.4f, want ~1.5", result.Estimate)
	}
}

func TestInteractionRejectsWrongArity(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	if _, err := interactionResult("single", x, x); err == nil {
		t.Error("expected error for a single predictor")
	}
}
