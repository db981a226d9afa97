package ports

import (
	"context"

	"nomengine/domain/core"
	"nomengine/domain/dataset"
)

// DatasetPort supplies entities per analysis domain. Implementations may do
// external I/O; Load must honor ctx cancellation and deadlines.
type DatasetPort interface {
	// Load returns up to sampleSize entities for the domain, sampled
	// uniformly without replacement under the given seed.
	Load(ctx context.Context, domain core.DomainKey, sampleSize int, seed int64) ([]dataset.Entity, error)

	// OutcomeKind declares how the domain's outcome is measured
	OutcomeKind(domain core.DomainKey) dataset.OutcomeKind

	// MinSampleSize is the smallest N the domain considers analyzable
	MinSampleSize(domain core.DomainKey) int
}
