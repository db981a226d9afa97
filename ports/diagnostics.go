package ports

import (
	"context"

	"nomengine/domain/analysis"
	"nomengine/domain/dataset"
	"nomengine/domain/encoding"
	"nomengine/domain/formula"
)

// DiagnosticsRequest bundles the fitted formula's scores and the raw feature
// columns with the domain's outcomes.
type DiagnosticsRequest struct {
	Scores      []float64
	Outcomes    []float64
	Vectors     []encoding.FeatureVector
	Formula     formula.Formula
	OutcomeKind dataset.OutcomeKind
	MinSample   int
	Seed        int64
}

// DiagnosticsPort runs the statistical battery over a fitted formula and the
// raw features. Assumption violations surface as caveats on the results, not
// as errors; the returned slice may be empty when the sample is too small.
type DiagnosticsPort interface {
	Analyze(ctx context.Context, req DiagnosticsRequest) ([]analysis.Result, []string, error)
}
