package stats

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestFitOLSRecoversCoefficients(t *testing.T) {
	stream := rand.New(rand.NewSource(3))
	n := 100
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = stream.NormFloat64()
		x2[i] = stream.NormFloat64()
		y[i] = 1.5 + 2.0*x1[i] - 0.7*x2[i] + stream.NormFloat64()*0.05
	}

	fit, err := fitOLS(y, x1, x2)
	if err != nil {
		t.Fatalf("OLS failed: %v", err)
	}
	if math.Abs(fit.coeffs[0]-1.5) > 0.05 {
		t.Errorf("intercept = %.4f, want ≈ 1.5", fit.coeffs[0])
	}
	if math.Abs(fit.coeffs[1]-2.0) > 0.05 {
		t.Errorf("b1 = %.4f, want ≈ 2.0", fit.coeffs[1])
	}
	if math.Abs(fit.coeffs[2]+0.7) > 0.05 {
		t.Errorf("b2 = %.4f, want ≈ -0.7", fit.coeffs[2])
	}
	if fit.r2 < 0.99 {
		t.Errorf("R² = %.4f, want > 0.99 for near-noiseless fit", fit.r2)
	}
}

func TestVIFFlagsCollinearity(t *testing.T) {
	stream := rand.New(rand.NewSource(5))
	n := 80
	x1 := make([]float64, n)
	x2 := make([]float64, n) // near copy of x1
	x3 := make([]float64, n) // independent
	for i := 0; i < n; i++ {
		x1[i] = stream.NormFloat64()
		x2[i] = x1[i] + stream.NormFloat64()*0.01
		x3[i] = stream.NormFloat64()
	}

	values := vifs([][]float64{x1, x2, x3})
	if values[0] < vifThreshold || values[1] < vifThreshold {
		t.Errorf("collinear predictors should exceed VIF %f, got %f / %f", vifThreshold, values[0], values[1])
	}
	if values[2] > 2.0 {
		t.Errorf("independent predictor VIF = %f, want near 1", values[2])
	}
}

func TestBreuschPaganDetectsHeteroskedasticity(t *testing.T) {
	stream := rand.New(rand.NewSource(9))
	n := 200
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) / float64(n) * 10
		// noise scale grows with x
		y[i] = 2.0*x[i] + stream.NormFloat64()*(0.1+x[i])
	}

	fit, err := fitOLS(y, x)
	if err != nil {
		t.Fatalf("OLS failed: %v", err)
	}
	_, p := breuschPagan(fit, [][]float64{x})
	if p > 0.05 {
		t.Errorf("Breusch-Pagan p = %.4f, should detect growing noise", p)
	}
}

func TestRegressionDiagnosticsCaveats(t *testing.T) {
	stream := rand.New(rand.NewSource(13))
	n := 60
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = stream.NormFloat64()
		x2[i] = x1[i] + stream.NormFloat64()*0.01 // collinear pair
		y[i] = x1[i] + stream.NormFloat64()*0.2
	}

	a := New()
	result, err := a.regressionDiagnostics(y, []string{"x1", "x2"}, [][]float64{x1, x2})
	if err != nil {
		t.Fatalf("diagnostics failed: %v", err)
	}

	found := false
	for _, caveat := range result.Caveats {
		if strings.Contains(caveat, "multicollinearity") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected multicollinearity caveat, got %v", result.Caveats)
	}
	if _, ok := result.Metadata["r_squared"]; !ok {
		t.Error("missing r_squared metadata")
	}
}
