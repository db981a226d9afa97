package numeric

import (
	"math"
	"testing"
)

func TestRanksAverageTies(t *testing.T) {
	ranks := Ranks([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if ranks[i] != want[i] {
			t.Errorf("rank[%d] = %v, want %v", i, ranks[i], want[i])
		}
	}
}

func TestStandardizeZeroVariance(t *testing.T) {
	out := Standardize([]float64{5, 5, 5})
	for i, v := range out {
		if v != 0 {
			t.Errorf("standardized[%d] = %v, want 0 for flat input", i, v)
		}
	}
}

func TestStandardizeUnitScale(t *testing.T) {
	out := Standardize([]float64{1, 2, 3, 4, 5})
	if math.Abs(Mean(out)) > 1e-12 {
		t.Errorf("standardized mean = %v, want 0", Mean(out))
	}
	if math.Abs(StdDev(out)-1) > 1e-12 {
		t.Errorf("standardized stddev = %v, want 1", StdDev(out))
	}
}

func TestShannonEntropyBounds(t *testing.T) {
	if e := ShannonEntropy([]int{10, 0, 0}); e != 0 {
		t.Errorf("single-symbol entropy = %v, want 0", e)
	}
	// uniform over 4 symbols is exactly 2 bits
	if e := ShannonEntropy([]int{5, 5, 5, 5}); math.Abs(e-2) > 1e-12 {
		t.Errorf("uniform entropy = %v, want 2", e)
	}
	if e := ShannonEntropy(nil); e != 0 {
		t.Errorf("empty entropy = %v, want 0", e)
	}
}

func TestClamps(t *testing.T) {
	if Clamp01(1.5) != 1 || Clamp01(-0.5) != 0 || Clamp01(0.3) != 0.3 {
		t.Error("Clamp01 bounds wrong")
	}
	if ClampAbs1(2) != 1 || ClampAbs1(-2) != -1 || ClampAbs1(0.5) != 0.5 {
		t.Error("ClampAbs1 bounds wrong")
	}
}
