// Package postgres persists run records. Formula, generation history, and
// diagnostics are stored as JSONB so the schema does not chase the diagnostic
// battery as it grows.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"nomengine/domain/analysis"
	"nomengine/domain/core"
	"nomengine/domain/encoding"
	"nomengine/domain/formula"
	"nomengine/domain/runrecord"
	"nomengine/internal"
	"nomengine/ports"
)

// RunRecordStore implements ResultStorePort over the run_records table
type RunRecordStore struct {
	db     *sqlx.DB
	logger *internal.Logger
}

var _ ports.ResultStorePort = (*RunRecordStore)(nil)

// NewRunRecordStore creates a store over an open connection pool
func NewRunRecordStore(db *sqlx.DB, logger *internal.Logger) *RunRecordStore {
	return &RunRecordStore{db: db, logger: logger.With("pg-records")}
}

// Schema is the DDL the store expects. Applied by the migrate command, or by
// whatever migration tooling an operator prefers.
const Schema = `
CREATE TABLE IF NOT EXISTS run_records (
	run_id             UUID        NOT NULL,
	domain             TEXT        NOT NULL,
	scheme             TEXT        NOT NULL,
	best_formula       JSONB,
	best_fitness       DOUBLE PRECISION NOT NULL DEFAULT 0,
	generation_history JSONB,
	diagnostics        JSONB,
	sample_size        INTEGER     NOT NULL DEFAULT 0,
	warnings           JSONB,
	started_at         TIMESTAMPTZ NOT NULL,
	completed_at       TIMESTAMPTZ NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (run_id, domain, scheme)
);`

// SaveRecords upserts every record of a batch in one transaction. A rerun of
// the same (run, domain, scheme) replaces the previous row.
func (s *RunRecordStore) SaveRecords(ctx context.Context, records []runrecord.RunRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		formulaJSON, err := json.Marshal(record.BestFormula)
		if err != nil {
			return fmt.Errorf("marshal formula for %s/%s: %w", record.Domain, record.Scheme, err)
		}
		historyJSON, err := json.Marshal(record.GenerationHistory)
		if err != nil {
			return fmt.Errorf("marshal history for %s/%s: %w", record.Domain, record.Scheme, err)
		}
		diagnosticsJSON, err := json.Marshal(record.Diagnostics)
		if err != nil {
			return fmt.Errorf("marshal diagnostics for %s/%s: %w", record.Domain, record.Scheme, err)
		}
		warningsJSON, err := json.Marshal(record.Warnings)
		if err != nil {
			return fmt.Errorf("marshal warnings for %s/%s: %w", record.Domain, record.Scheme, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_records (
				run_id, domain, scheme, best_formula, best_fitness,
				generation_history, diagnostics, sample_size, warnings,
				started_at, completed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (run_id, domain, scheme) DO UPDATE SET
				best_formula = EXCLUDED.best_formula,
				best_fitness = EXCLUDED.best_fitness,
				generation_history = EXCLUDED.generation_history,
				diagnostics = EXCLUDED.diagnostics,
				sample_size = EXCLUDED.sample_size,
				warnings = EXCLUDED.warnings,
				started_at = EXCLUDED.started_at,
				completed_at = EXCLUDED.completed_at`,
			string(record.RunID), string(record.Domain), string(record.Scheme),
			formulaJSON, record.BestFitness, historyJSON, diagnosticsJSON,
			record.SampleSize, warningsJSON, record.StartedAt, record.CompletedAt)
		if err != nil {
			return fmt.Errorf("save record %s/%s: %w", record.Domain, record.Scheme, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	s.logger.Info("saved %d run records", len(records))
	return nil
}

type runRecordRow struct {
	RunID             string    `db:"run_id"`
	Domain            string    `db:"domain"`
	Scheme            string    `db:"scheme"`
	BestFormula       []byte    `db:"best_formula"`
	BestFitness       float64   `db:"best_fitness"`
	GenerationHistory []byte    `db:"generation_history"`
	Diagnostics       []byte    `db:"diagnostics"`
	SampleSize        int       `db:"sample_size"`
	Warnings          []byte    `db:"warnings"`
	StartedAt         time.Time `db:"started_at"`
	CompletedAt       time.Time `db:"completed_at"`
}

// RecordsByRun returns every record of one batch, ordered for stable output
func (s *RunRecordStore) RecordsByRun(ctx context.Context, runID core.RunID) ([]runrecord.RunRecord, error) {
	var rows []runRecordRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT run_id, domain, scheme, best_formula, best_fitness,
		       generation_history, diagnostics, sample_size, warnings,
		       started_at, completed_at
		FROM run_records
		WHERE run_id = $1
		ORDER BY domain, scheme`, string(runID))
	if err != nil {
		return nil, fmt.Errorf("load records for run %s: %w", runID, err)
	}

	records := make([]runrecord.RunRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r runRecordRow) toRecord() (runrecord.RunRecord, error) {
	record := runrecord.RunRecord{
		RunID:       core.RunID(r.RunID),
		Domain:      core.DomainKey(r.Domain),
		Scheme:      encoding.Scheme(r.Scheme),
		BestFitness: r.BestFitness,
		SampleSize:  r.SampleSize,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}

	if len(r.BestFormula) > 0 && string(r.BestFormula) != "null" {
		var f formula.Formula
		if err := json.Unmarshal(r.BestFormula, &f); err != nil {
			return record, fmt.Errorf("unmarshal formula for %s/%s: %w", r.Domain, r.Scheme, err)
		}
		record.BestFormula = &f
	}
	if len(r.GenerationHistory) > 0 {
		var history []formula.GenerationRecord
		if err := json.Unmarshal(r.GenerationHistory, &history); err != nil {
			return record, fmt.Errorf("unmarshal history for %s/%s: %w", r.Domain, r.Scheme, err)
		}
		record.GenerationHistory = history
	}
	if len(r.Diagnostics) > 0 {
		var diagnostics []analysis.Result
		if err := json.Unmarshal(r.Diagnostics, &diagnostics); err != nil {
			return record, fmt.Errorf("unmarshal diagnostics for %s/%s: %w", r.Domain, r.Scheme, err)
		}
		record.Diagnostics = diagnostics
	}
	if len(r.Warnings) > 0 {
		var warnings []string
		if err := json.Unmarshal(r.Warnings, &warnings); err != nil {
			return record, fmt.Errorf("unmarshal warnings for %s/%s: %w", r.Domain, r.Scheme, err)
		}
		record.Warnings = warnings
	}
	return record, nil
}
