package stats

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"nomengine/domain/analysis"
	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/domain/encoding"
	"nomengine/domain/formula"
	"nomengine/ports"
)

func buildDiagnosticsRequest(n int) ports.DiagnosticsRequest {
	stream := rand.New(rand.NewSource(21))
	vectors := make([]encoding.FeatureVector, n)
	scores := make([]float64, n)
	outcomes := make([]float64, n)

	f := formula.Formula{
		Scheme: encoding.SchemeSemantic,
		Weights: map[core.PropertyKey]float64{
			"complexity": 1.0, "balance": 0.5, "rarity": -0.3, "compactness": 0.2,
		},
		Bias: 0.1,
	}

	for i := 0; i < n; i++ {
		vectors[i] = encoding.FeatureVector{
			EntityID: core.EntityID(fmt.Sprintf("e%d", i)),
			Scheme:   encoding.SchemeSemantic,
			Properties: map[core.PropertyKey]float64{
				"complexity":  stream.Float64(),
				"balance":     stream.Float64(),
				"rarity":      stream.Float64(),
				"compactness": stream.Float64(),
			},
		}
		scores[i] = f.Score(vectors[i])
		outcomes[i] = scores[i]*2 + stream.NormFloat64()*0.1
	}

	return ports.DiagnosticsRequest{
		Scores:      scores,
		Outcomes:    outcomes,
		Vectors:     vectors,
		Formula:     f,
		OutcomeKind: dataset.OutcomeContinuous,
		MinSample:   10,
		Seed:        99,
	}
}

func TestAnalyzeFullBattery(t *testing.T) {
	a := New()
	results, warnings, err := a.Analyze(context.Background(), buildDiagnosticsRequest(120))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected diagnostics, got none (warnings: %v)", warnings)
	}

	kinds := make(map[analysis.Kind]int)
	for _, r := range results {
		kinds[r.Kind]++
	}
	for _, want := range []analysis.Kind{
		analysis.KindCorrelation, analysis.KindRegression, analysis.KindMediation,
		analysis.KindInteraction, analysis.KindPolynomial, analysis.KindDiD, analysis.KindCluster,
	} {
		if kinds[want] == 0 {
			t.Errorf("missing diagnostic kind %s (got %v)", want, kinds)
		}
	}

	// Every hypothesis-test result must carry family correction
	for _, r := range results {
		if r.Kind == analysis.KindCluster {
			continue
		}
		if r.FamilySize == 0 {
			t.Errorf("result %s missing family correction", r.Name)
		}
	}
}

func TestAnalyzeStrongSignalSurvivesCorrection(t *testing.T) {
	a := New()
	results, _, err := a.Analyze(context.Background(), buildDiagnosticsRequest(120))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	// scores explain outcomes almost exactly, so the score correlation
	// must stay significant under both corrections
	for _, r := range results {
		if r.Name == "score_vs_outcome_pearson" {
			if math.Abs(r.Estimate) < 0.9 {
				t.Errorf("score correlation = %.3f, want strong", r.Estimate)
			}
			if !r.BonferroniSignificant || !r.FDRSignificant {
				t.Errorf("strong signal lost under correction: bonferroni=%v fdr=%v", r.BonferroniSignificant, r.FDRSignificant)
			}
			return
		}
	}
	t.Fatal("score_vs_outcome_pearson result not found")
}

func TestAnalyzeSmallSampleSkipsHeavyFamilies(t *testing.T) {
	req := buildDiagnosticsRequest(6)
	req.MinSample = 20

	a := New()
	results, warnings, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	for _, r := range results {
		if r.Kind == analysis.KindCluster {
			t.Error("clustering must be skipped below the minimum sample")
		}
		if r.Kind == analysis.KindMediation {
			t.Error("mediation must be skipped below the minimum sample")
		}
	}
	if len(warnings) == 0 {
		t.Error("expected warnings for skipped families")
	}
}

func TestAnalyzeZeroVarianceOutcome(t *testing.T) {
	req := buildDiagnosticsRequest(30)
	for i := range req.Outcomes {
		req.Outcomes[i] = 5.0
	}

	a := New()
	results, warnings, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no diagnostics for flat outcome, got %d", len(results))
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for flat outcome")
	}
}

func TestClusterReproducible(t *testing.T) {
	stream := rand.New(rand.NewSource(31))
	n := 60
	cols := make([][]float64, 3)
	for j := range cols {
		cols[j] = make([]float64, n)
	}
	// two separated blobs
	for i := 0; i < n; i++ {
		offset := 0.0
		if i >= n/2 {
			offset = 5.0
		}
		for j := range cols {
			cols[j][i] = offset + stream.NormFloat64()*0.3
		}
	}

	first, err1 := clusterResult("blobs", cols, 17)
	second, err2 := clusterResult("blobs", cols, 17)
	if err1 != nil || err2 != nil {
		t.Fatalf("clustering failed: %v / %v", err1, err2)
	}
	if first.Estimate != second.Estimate {
		t.Errorf("silhouette not reproducible: %f vs %f", first.Estimate, second.Estimate)
	}
	if k := first.Metadata["k"]; k != 2 {
		t.Errorf("k = %v, want 2 for two blobs", k)
	}
	if first.Estimate < 0.5 {
		t.Errorf("silhouette = %f, want strong separation", first.Estimate)
	}
}

func TestPolynomialShapeSelection(t *testing.T) {
	n := 60
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)/float64(n)*4 - 2
		y[i] = -x[i]*x[i] + 3 // inverse-U
	}

	result, err := polynomialResult("inverse_u", x, y)
	if err != nil {
		t.Fatalf("polynomial fit failed: %v", err)
	}
	if order := result.Metadata["selected_order"]; order != 2 {
		t.Errorf("selected order = %v, want 2", order)
	}
	if shape := result.Metadata["shape"]; shape != "inverse_u" {
		t.Errorf("shape = %v, want inverse_u", shape)
	}
}
