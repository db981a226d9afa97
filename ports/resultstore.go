package ports

import (
	"context"

	"nomengine/domain/core"
	"nomengine/domain/runrecord"
)

// ResultStorePort persists run records for out-of-scope reporting to consume
type ResultStorePort interface {
	SaveRecords(ctx context.Context, records []runrecord.RunRecord) error
	RecordsByRun(ctx context.Context, runID core.RunID) ([]runrecord.RunRecord, error)
}
