package datasetadapter

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/internal"
	"nomengine/ports"
)

// PostgresSource reads entities from the entities table. Rows are ordered by
// primary key so the seeded sample is stable as long as the table contents
// are. The caller's context deadline bounds each query.
type PostgresSource struct {
	db      *sqlx.DB
	domains map[core.DomainKey]DomainSpec
	logger  *internal.Logger
}

var _ ports.DatasetPort = (*PostgresSource)(nil)

type entityRow struct {
	ID      string  `db:"id"`
	Domain  string  `db:"domain"`
	RawName string  `db:"raw_name"`
	Outcome float64 `db:"outcome"`
}

// NewPostgresSource builds a reader over an open connection pool
func NewPostgresSource(db *sqlx.DB, domains map[core.DomainKey]DomainSpec, logger *internal.Logger) *PostgresSource {
	return &PostgresSource{db: db, domains: domains, logger: logger.With("pg-dataset")}
}

// Load reads all of the domain's rows and draws the seeded sample in memory.
// Sampling happens here rather than in SQL because TABLESAMPLE is not
// reproducible across runs.
func (s *PostgresSource) Load(ctx context.Context, domain core.DomainKey, sampleSize int, seed int64) ([]dataset.Entity, error) {
	if _, ok := s.domains[domain]; !ok {
		return nil, core.NewDataUnavailableError(domain, fmt.Errorf("domain not configured"))
	}

	var rows []entityRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, domain, raw_name, outcome
		FROM entities
		WHERE domain = $1
		ORDER BY id`, string(domain))
	if err != nil {
		return nil, core.NewDataUnavailableError(domain, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows for domain %s", core.ErrEmptyDataset, domain)
	}

	entities := make([]dataset.Entity, len(rows))
	for i, row := range rows {
		entities[i] = dataset.Entity{
			ID:      core.EntityID(row.ID),
			Domain:  core.DomainKey(row.Domain),
			RawName: row.RawName,
			Outcome: row.Outcome,
		}
	}

	s.logger.Debug("domain %s: %d rows loaded", domain, len(entities))
	return sampleWithoutReplacement(entities, sampleSize, seed), nil
}

// OutcomeKind reports the configured kind, continuous for unconfigured domains
func (s *PostgresSource) OutcomeKind(domain core.DomainKey) dataset.OutcomeKind {
	return s.domains[domain].outcomeKind()
}

// MinSampleSize reports the configured minimum, the default for unconfigured domains
func (s *PostgresSource) MinSampleSize(domain core.DomainKey) int {
	return s.domains[domain].minSample()
}
