package runrecord

import (
	"runtime"
	"time"

	"nomengine/domain/analysis"
	"nomengine/domain/core"
	"nomengine/domain/encoding"
	"nomengine/domain/formula"
)

// Mode names a preset shape for a batch run. Modes differ only in config
// values, never in code paths.
type Mode string

const (
	ModeDaily  Mode = "daily"
	ModeWeekly Mode = "weekly"
)

// RunRecord is the terminal artifact of one (domain, scheme) pair.
// A failed pair still yields a record, with warnings populated and
// diagnostics empty, so a batch always returns one record per pair.
type RunRecord struct {
	RunID             core.RunID                 `json:"run_id"`
	Domain            core.DomainKey             `json:"domain"`
	Scheme            encoding.Scheme            `json:"scheme"`
	BestFormula       *formula.Formula           `json:"best_formula,omitempty"`
	BestFitness       float64                    `json:"best_fitness"`
	GenerationHistory []formula.GenerationRecord `json:"generation_history,omitempty"`
	Diagnostics       []analysis.Result          `json:"diagnostics,omitempty"`
	SampleSize        int                        `json:"sample_size"`
	Warnings          []string                   `json:"warnings,omitempty"`
	StartedAt         time.Time                  `json:"started_at"`
	CompletedAt       time.Time                  `json:"completed_at"`
}

// AddWarning appends a warning to the record
func (r *RunRecord) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// RunConfig enumerates everything one batch needs. It is a plain value
// passed into the scheduler; there is no ambient schedule state.
type RunConfig struct {
	Mode                Mode                    `json:"mode"`
	Domains             []core.DomainKey        `json:"domains"`
	Schemes             []encoding.Scheme       `json:"schemes"`
	Generations         int                     `json:"generations"`
	PopulationSize      int                     `json:"population_size"`
	EliteFraction       float64                 `json:"elite_fraction"`
	TournamentSize      int                     `json:"tournament_size"`
	MutationRate        float64                 `json:"mutation_rate"`
	MutationMagnitude   float64                 `json:"mutation_magnitude"`
	Patience            int                     `json:"patience"`
	SampleSizePerDomain map[core.DomainKey]int  `json:"sample_size_per_domain,omitempty"`
	DefaultSampleSize   int                     `json:"default_sample_size"`
	Seed                int64                   `json:"seed"`
	Workers             int                     `json:"workers"`
	LoadTimeout         time.Duration           `json:"load_timeout"`
	WallClockBudget     time.Duration           `json:"wall_clock_budget"`
}

// SampleSize resolves the per-domain sample bound
func (c RunConfig) SampleSize(domain core.DomainKey) int {
	if size, ok := c.SampleSizePerDomain[domain]; ok {
		return size
	}
	return c.DefaultSampleSize
}

// Validate checks the config before a batch starts. Violations here are the
// only fatal errors of the engine.
func (c RunConfig) Validate() error {
	if len(c.Domains) == 0 {
		return core.NewConfigError("domains", "at least one domain is required")
	}
	if len(c.Schemes) == 0 {
		return core.NewConfigError("schemes", "at least one encoding scheme is required")
	}
	for _, s := range c.Schemes {
		if !s.IsValid() {
			return core.NewConfigError("schemes", "unknown scheme "+s.String())
		}
	}
	if c.Generations <= 0 {
		return core.NewConfigError("generations", "must be positive")
	}
	if c.PopulationSize < 2 {
		return core.NewConfigError("population_size", "must be at least 2")
	}
	if c.EliteFraction <= 0 || c.EliteFraction >= 1 {
		return core.NewConfigError("elite_fraction", "must be in (0, 1)")
	}
	if c.DefaultSampleSize <= 0 {
		return core.NewConfigError("default_sample_size", "must be positive")
	}
	if c.Workers <= 0 {
		return core.NewConfigError("workers", "must be positive")
	}
	return nil
}

// Preset returns the named mode's config with the shared defaults filled in.
// Daily bounds a run to a small sample and a 90-minute budget; weekly trades
// wall clock for larger samples and longer evolution.
func Preset(mode Mode) RunConfig {
	cfg := RunConfig{
		Mode:              mode,
		Schemes:           encoding.AllSchemes(),
		PopulationSize:    100,
		EliteFraction:     0.10,
		TournamentSize:    3,
		MutationRate:      0.15,
		MutationMagnitude: 0.25,
		Patience:          10,
		Seed:              42,
		Workers:           runtime.GOMAXPROCS(0),
		LoadTimeout:       2 * time.Minute,
	}
	switch mode {
	case ModeWeekly:
		cfg.Generations = 200
		cfg.DefaultSampleSize = 500
		cfg.WallClockBudget = 10 * time.Hour
	default:
		cfg.Mode = ModeDaily
		cfg.Generations = 60
		cfg.DefaultSampleSize = 150
		cfg.WallClockBudget = 90 * time.Minute
	}
	return cfg
}
