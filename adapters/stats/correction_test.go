package stats

import (
	"testing"

	"nomengine/domain/analysis"
)

func makeFamily(pValues []float64) []analysis.Result {
	results := make([]analysis.Result, len(pValues))
	for i, p := range pValues {
		results[i] = analysis.Result{
			Kind:   analysis.KindCorrelation,
			Name:   "test",
			PValue: p,
		}
	}
	return results
}

func TestBonferroniUniformBorderline(t *testing.T) {
	// Ten tests all at raw p=0.04: Bonferroni threshold is 0.05/10=0.005,
	// so none survive.
	results := makeFamily([]float64{0.04, 0.04, 0.04, 0.04, 0.04, 0.04, 0.04, 0.04, 0.04, 0.04})
	CorrectFamily(results)

	for i, r := range results {
		if r.BonferroniSignificant {
			t.Errorf("result %d survived Bonferroni at p=0.04 with m=10", i)
		}
		if r.BonferroniAlpha != 0.005 {
			t.Errorf("Bonferroni alpha = %f, want 0.005", r.BonferroniAlpha)
		}
		if r.FamilySize != 10 {
			t.Errorf("family size = %d, want 10", r.FamilySize)
		}
	}
}

func TestBHSurvivesHeterogeneousPValues(t *testing.T) {
	// With heterogeneous p-values the smallest should survive BH even
	// though Bonferroni rejects everything but the very strongest.
	pValues := []float64{0.001, 0.008, 0.02, 0.03, 0.04, 0.2, 0.4, 0.6, 0.8, 0.9}
	results := makeFamily(pValues)
	CorrectFamily(results)

	if !results[0].FDRSignificant {
		t.Errorf("p=0.001 should survive BH (adjusted p = %f)", results[0].AdjustedP)
	}
	if results[9].FDRSignificant {
		t.Errorf("p=0.9 should not survive BH (adjusted p = %f)", results[9].AdjustedP)
	}

	// Adjusted p-values must be monotone in raw p order
	for i := 1; i < len(results); i++ {
		if results[i].AdjustedP < results[i-1].AdjustedP {
			t.Errorf("BH adjusted p not monotone at %d: %f < %f", i, results[i].AdjustedP, results[i-1].AdjustedP)
		}
	}
}

func TestCorrectFamilySkipsClusters(t *testing.T) {
	results := makeFamily([]float64{0.01, 0.02})
	results = append(results, analysis.Result{Kind: analysis.KindCluster, Name: "clusters", PValue: 1.0})
	CorrectFamily(results)

	cluster := results[2]
	if cluster.FamilySize != 0 || cluster.AdjustedP != 0 {
		t.Error("cluster result should not participate in the test family")
	}
	if results[0].FamilySize != 2 {
		t.Errorf("family size = %d, want 2 (cluster excluded)", results[0].FamilySize)
	}
}
