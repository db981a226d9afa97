// Package app orchestrates batches: fan out over (domain, scheme) pairs,
// evolve a formula per pair, run the diagnostic battery, and collect one
// RunRecord per pair no matter what the pair did.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/domain/encoding"
	"nomengine/domain/runrecord"
	"nomengine/internal"
	"nomengine/ports"
)

// RunService runs complete batches against the configured backends
type RunService struct {
	datasets    ports.DatasetPort
	optimizer   ports.OptimizerPort
	diagnostics ports.DiagnosticsPort
	encoder     *encoding.Encoder
	store       ports.ResultStorePort // nil disables persistence
	logger      *internal.Logger
}

// NewRunService wires a scheduler. store may be nil when no backend is
// configured; records are still returned to the caller.
func NewRunService(
	datasets ports.DatasetPort,
	optimizer ports.OptimizerPort,
	diagnostics ports.DiagnosticsPort,
	store ports.ResultStorePort,
	logger *internal.Logger,
) *RunService {
	return &RunService{
		datasets:    datasets,
		optimizer:   optimizer,
		diagnostics: diagnostics,
		encoder:     encoding.NewEncoder(),
		store:       store,
		logger:      logger.With("scheduler"),
	}
}

type pair struct {
	domain core.DomainKey
	scheme encoding.Scheme
}

// Run executes one batch. The only error it returns is an invalid config;
// every other failure lands inside the affected pair's RunRecord as warnings.
// Exactly one record comes back per configured (domain, scheme) pair.
func (s *RunService) Run(ctx context.Context, cfg runrecord.RunConfig) ([]runrecord.RunRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := core.RunID(core.NewID())
	if cfg.WallClockBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.WallClockBudget)
		defer cancel()
	}

	pairs := make([]pair, 0, len(cfg.Domains)*len(cfg.Schemes))
	for _, domain := range cfg.Domains {
		for _, scheme := range cfg.Schemes {
			pairs = append(pairs, pair{domain: domain, scheme: scheme})
		}
	}

	s.logger.Info("run %s: %d pairs (%s mode, %d workers)", runID, len(pairs), cfg.Mode, cfg.Workers)

	records := make([]runrecord.RunRecord, len(pairs))
	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			records[i] = s.runPair(ctx, runID, p, cfg)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.Warn("run %s: budget expired before all pairs finished", runID)
	}

	if s.store != nil {
		if err := s.store.SaveRecords(context.WithoutCancel(ctx), records); err != nil {
			s.logger.Error("run %s: persisting records failed: %v", runID, err)
		}
	}

	return records, nil
}

// runPair evolves and diagnoses one (domain, scheme) pair. Panics are
// contained here so one pair cannot take down the batch.
func (s *RunService) runPair(ctx context.Context, runID core.RunID, p pair, cfg runrecord.RunConfig) (record runrecord.RunRecord) {
	record = runrecord.RunRecord{
		RunID:     runID,
		Domain:    p.domain,
		Scheme:    p.scheme,
		StartedAt: time.Now().UTC(),
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("pair %s/%s panicked: %v", p.domain, p.scheme, r)
			record.AddWarning(fmt.Sprintf("pair aborted by panic: %v", r))
		}
		record.CompletedAt = time.Now().UTC()
	}()

	entities, warning := s.loadEntities(ctx, p.domain, cfg)
	if warning != "" {
		record.AddWarning(warning)
	}
	if len(entities) == 0 {
		return record
	}
	record.SampleSize = len(entities)

	minSample := s.datasets.MinSampleSize(p.domain)
	if len(entities) < minSample {
		record.AddWarning(fmt.Sprintf("sample %d below domain minimum %d; diagnostics limited", len(entities), minSample))
	}

	vectors, degenerate := s.encodeAll(entities, p.scheme)
	if degenerate > 0 {
		record.AddWarning(fmt.Sprintf("%d names produced degenerate feature vectors", degenerate))
	}

	best, history, err := s.optimizer.Evolve(ctx, ports.EvolveRequest{
		Entities:       entities,
		Vectors:        vectors,
		Scheme:         p.scheme,
		OutcomeKind:    s.datasets.OutcomeKind(p.domain),
		Generations:    cfg.Generations,
		PopulationSize: cfg.PopulationSize,
		EliteFraction:  cfg.EliteFraction,
		TournamentSize: cfg.TournamentSize,
		MutationRate:   cfg.MutationRate,
		MutationMag:    cfg.MutationMagnitude,
		Patience:       cfg.Patience,
		Seed:           core.SeedHash(cfg.Seed, "evolve", string(p.domain)),
	})
	switch {
	case err == nil:
	case core.IsDegenerateFitness(err):
		// best-effort formula still reported, diagnostics will decline
		record.AddWarning(err.Error())
	case ctx.Err() != nil:
		record.AddWarning("optimization interrupted: " + ctx.Err().Error())
		return record
	default:
		record.AddWarning("optimization failed: " + err.Error())
		return record
	}

	record.BestFormula = &best
	record.GenerationHistory = history
	if len(history) > 0 {
		record.BestFitness = history[len(history)-1].BestFitness
	}

	results, diagWarnings, err := s.diagnostics.Analyze(ctx, ports.DiagnosticsRequest{
		Scores:      best.ScoreAll(vectors),
		Outcomes:    dataset.Outcomes(entities),
		Vectors:     vectors,
		Formula:     best,
		OutcomeKind: s.datasets.OutcomeKind(p.domain),
		MinSample:   minSample,
		Seed:        core.SeedHash(cfg.Seed, "diagnostics", string(p.domain), string(p.scheme)),
	})
	if err != nil {
		record.AddWarning("diagnostics failed: " + err.Error())
		return record
	}
	record.Diagnostics = results
	for _, w := range diagWarnings {
		record.AddWarning(w)
	}

	s.logger.Debug("pair %s/%s: fitness %.4f, %d diagnostics, %d warnings",
		p.domain, p.scheme, record.BestFitness, len(record.Diagnostics), len(record.Warnings))
	return record
}

// loadEntities loads the pair's sample under the per-domain timeout and drops
// non-finite outcomes. The sample seed depends on the domain but not the
// scheme, so every scheme of a domain scores the same entities.
func (s *RunService) loadEntities(ctx context.Context, domain core.DomainKey, cfg runrecord.RunConfig) ([]dataset.Entity, string) {
	loadCtx := ctx
	if cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
	}

	entities, err := s.datasets.Load(loadCtx, domain, cfg.SampleSize(domain), core.SeedHash(cfg.Seed, "sample", string(domain)))
	if err != nil {
		if loadCtx.Err() != nil && ctx.Err() == nil {
			return nil, core.ErrLoadTimeout.Error() + " for domain " + string(domain)
		}
		return nil, "load failed: " + err.Error()
	}

	kept, dropped := dataset.FilterValid(entities)
	if len(kept) == 0 {
		return nil, "load failed: " + core.ErrEmptyDataset.Error()
	}
	if dropped > 0 {
		return kept, fmt.Sprintf("dropped %d entities with non-finite outcomes", dropped)
	}
	return kept, ""
}

func (s *RunService) encodeAll(entities []dataset.Entity, scheme encoding.Scheme) ([]encoding.FeatureVector, int) {
	vectors := make([]encoding.FeatureVector, len(entities))
	degenerate := 0
	for i, e := range entities {
		vec, warning := s.encoder.Encode(e.ID, e.RawName, scheme)
		if warning != "" {
			degenerate++
		}
		vectors[i] = vec
	}
	return vectors, degenerate
}
