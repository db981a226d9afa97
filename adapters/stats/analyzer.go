// Package stats implements ports.DiagnosticsPort: the statistical battery run
// over a fitted formula's scores and the raw feature columns. Every family
// returns a point estimate with CI and p-value; violated assumptions append
// caveats and the whole family gets Bonferroni and Benjamini-Hochberg
// correction.
package stats

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"nomengine/domain/analysis"
	"nomengine/domain/core"
	"nomengine/domain/encoding"
	"nomengine/internal/numeric"
	"nomengine/ports"
)

const (
	vifThreshold     = 10.0
	deltaR2Threshold = 0.02
)

// Analyzer runs the diagnostic battery
type Analyzer struct{}

// New creates an Analyzer
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze runs every applicable diagnostic family. Families whose sample
// requirements are not met are skipped with a warning; the rest proceed.
// The returned results carry family-wide multiple-comparison correction.
func (a *Analyzer) Analyze(ctx context.Context, req ports.DiagnosticsRequest) ([]analysis.Result, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	n := len(req.Scores)
	if n != len(req.Outcomes) || n != len(req.Vectors) {
		return nil, nil, fmt.Errorf("scores, outcomes, and vectors misaligned: %d/%d/%d", n, len(req.Outcomes), len(req.Vectors))
	}

	var results []analysis.Result
	var warnings []string

	if n < 3 || numeric.StdDev(req.Outcomes) == 0 {
		warnings = append(warnings, fmt.Sprintf("diagnostics skipped: %d samples with outcome stddev %.3f", n, numeric.StdDev(req.Outcomes)))
		return nil, warnings, nil
	}

	keys := encoding.PropertyKeys(req.Formula.Scheme)
	columns := make([][]float64, len(keys))
	for i, key := range keys {
		columns[i] = encoding.Column(req.Vectors, key)
	}

	// Correlation family: formula scores plus each raw feature column
	if r, err := pearsonResult("score_vs_outcome_pearson", req.Scores, req.Outcomes); err == nil {
		r.WithMeta("outcome_kind", string(req.OutcomeKind))
		results = append(results, r)
	} else {
		warnings = append(warnings, "score correlation skipped: "+err.Error())
	}
	if r, err := spearmanResult("score_vs_outcome_spearman", req.Scores, req.Outcomes); err == nil {
		results = append(results, r)
	} else {
		warnings = append(warnings, "score rank correlation skipped: "+err.Error())
	}
	for i, key := range keys {
		if r, err := pearsonResult(fmt.Sprintf("feature_%s_vs_outcome", key), columns[i], req.Outcomes); err == nil {
			results = append(results, r)
		}
	}

	// Regression diagnostics over the raw feature columns
	usable, usableNames := usableColumns(keys, columns)
	if len(usable) > 0 {
		if r, err := a.regressionDiagnostics(req.Outcomes, usableNames, usable); err == nil {
			results = append(results, r)
		} else {
			warnings = append(warnings, "regression diagnostics skipped: "+err.Error())
		}
	} else {
		warnings = append(warnings, "regression diagnostics skipped: no feature column has variance")
	}

	ranked := rankByOutcomeCorrelation(usable, usableNames, req.Outcomes)

	// Mediation (best feature -> score -> outcome) needs the minimum sample
	if n >= req.MinSample && len(ranked) > 0 && numeric.StdDev(req.Scores) > 0 {
		if r, err := mediationResult(fmt.Sprintf("mediation_%s_via_score", ranked[0].name), ranked[0].column, req.Scores, req.Outcomes); err == nil {
			results = append(results, r)
		} else {
			warnings = append(warnings, "mediation skipped: "+err.Error())
		}
	} else if n < req.MinSample {
		warnings = append(warnings, fmt.Sprintf("mediation skipped: %d samples below domain minimum %d", n, req.MinSample))
	}

	// Interaction terms over the strongest feature columns
	if len(ranked) >= 2 {
		if r, err := interactionResult(fmt.Sprintf("interaction_%s_x_%s", ranked[0].name, ranked[1].name),
			req.Outcomes, ranked[0].column, ranked[1].column); err == nil {
			results = append(results, r)
		}
	}
	if len(ranked) >= 3 {
		if r, err := interactionResult(fmt.Sprintf("interaction_%s_x_%s_x_%s", ranked[0].name, ranked[1].name, ranked[2].name),
			req.Outcomes, ranked[0].column, ranked[1].column, ranked[2].column); err == nil {
			results = append(results, r)
		}
	}

	// Non-linearity of the score-outcome relationship
	if numeric.StdDev(req.Scores) > 0 {
		if r, err := polynomialResult("score_outcome_shape", req.Scores, req.Outcomes); err == nil {
			results = append(results, r)
		} else {
			warnings = append(warnings, "polynomial check skipped: "+err.Error())
		}
	}

	// Difference-in-differences over synthetic cohorts: median split of the
	// strongest feature for cohorts, first/second half for the two periods.
	if len(ranked) > 0 && n >= 8 {
		if r, err := a.didOverCohorts(ranked[0], req.Outcomes); err == nil {
			results = append(results, r)
		}
	}

	// Clustering requires the larger of the domain and internal minimums
	if n >= req.MinSample && n >= minClusterSample {
		if r, err := clusterResult("feature_clusters", usable, req.Seed); err == nil {
			results = append(results, r)
		} else {
			warnings = append(warnings, "clustering skipped: "+err.Error())
		}
	} else {
		warnings = append(warnings, fmt.Sprintf("clustering skipped: %d samples below minimum", n))
	}

	CorrectFamily(results)
	return results, warnings, nil
}

type rankedColumn struct {
	name   string
	column []float64
	absR   float64
}

// rankByOutcomeCorrelation orders feature columns by |r| against the outcome
func rankByOutcomeCorrelation(columns [][]float64, names []string, outcomes []float64) []rankedColumn {
	ranked := make([]rankedColumn, 0, len(columns))
	for i, col := range columns {
		r := stat.Correlation(col, outcomes, nil)
		if math.IsNaN(r) {
			continue
		}
		ranked = append(ranked, rankedColumn{name: names[i], column: col, absR: math.Abs(r)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].absR > ranked[j].absR })
	return ranked
}

// usableColumns drops zero-variance feature columns, which would make the
// design matrix singular
func usableColumns(keys []core.PropertyKey, columns [][]float64) ([][]float64, []string) {
	usable := make([][]float64, 0, len(columns))
	names := make([]string, 0, len(columns))
	for i, col := range columns {
		if numeric.StdDev(col) > 0 {
			usable = append(usable, col)
			names = append(names, string(keys[i]))
		}
	}
	return usable, names
}

// didOverCohorts builds the 2x2 DiD table from a median split of the given
// feature (cohorts) crossed with the first/second half of the sample order
// (periods), and labels the construction in the result.
func (a *Analyzer) didOverCohorts(rc rankedColumn, outcomes []float64) (analysis.Result, error) {
	n := len(outcomes)
	median := medianOf(rc.column)
	mid := n / 2

	low := Cohort{Name: "below_median_" + rc.name}
	high := Cohort{Name: "above_median_" + rc.name}
	for i := 0; i < n; i++ {
		cohort := &low
		if rc.column[i] > median {
			cohort = &high
		}
		if i < mid {
			cohort.Early = append(cohort.Early, outcomes[i])
		} else {
			cohort.Late = append(cohort.Late, outcomes[i])
		}
	}

	result, err := didResult("did_"+rc.name+"_median_split", low, high)
	if err != nil {
		return analysis.Result{}, err
	}
	result.AddCaveat("cohorts and periods are synthetic (median split x sample halves)")
	return result, nil
}

func medianOf(data []float64) float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
