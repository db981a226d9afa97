package analysis

// Kind tags the diagnostic family a Result belongs to
type Kind string

const (
	KindCorrelation Kind = "correlation"
	KindRegression  Kind = "regression"
	KindMediation   Kind = "mediation"
	KindInteraction Kind = "interaction"
	KindPolynomial  Kind = "polynomial"
	KindDiD         Kind = "did"
	KindCluster     Kind = "cluster"
)

// Result is one diagnostic outcome: a point estimate with its confidence
// interval and p-value, caveats for violated assumptions, and — when the
// result participates in a multi-test family — both Bonferroni and
// Benjamini-Hochberg adjusted significance.
type Result struct {
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	CILow    float64 `json:"ci_low"`
	CIHigh   float64 `json:"ci_high"`
	PValue   float64 `json:"p_value"`

	// Multiple-comparison correction, populated by CorrectFamily
	FamilySize            int     `json:"family_size,omitempty"`
	BonferroniAlpha       float64 `json:"bonferroni_alpha,omitempty"`
	BonferroniSignificant bool    `json:"bonferroni_significant"`
	AdjustedP             float64 `json:"bh_adjusted_p,omitempty"`
	FDRSignificant        bool    `json:"fdr_significant"`

	Caveats  []string               `json:"caveats,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// AddCaveat appends a human-readable assumption-violation note.
// Caveats annotate, they never suppress the numeric result.
func (r *Result) AddCaveat(caveat string) {
	r.Caveats = append(r.Caveats, caveat)
}

// WithMeta sets one metadata entry, allocating the map on first use
func (r *Result) WithMeta(key string, value interface{}) *Result {
	if r.Metadata == nil {
		r.Metadata = make(map[string]interface{})
	}
	r.Metadata[key] = value
	return r
}
