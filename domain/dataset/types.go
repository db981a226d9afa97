package dataset

import (
	"math"

	"nomengine/domain/core"
)

// OutcomeKind declares how a domain's outcome variable is measured
type OutcomeKind string

const (
	OutcomeContinuous OutcomeKind = "continuous"
	OutcomeBinary     OutcomeKind = "binary"
)

// IsValid checks the kind is one of the declared values
func (k OutcomeKind) IsValid() bool {
	return k == OutcomeContinuous || k == OutcomeBinary
}

// Entity is one named subject of a domain with its observed outcome.
// Immutable once ingested for a run.
type Entity struct {
	ID      core.EntityID  `json:"id"`
	Domain  core.DomainKey `json:"domain"`
	RawName string         `json:"raw_name"`
	Outcome float64        `json:"outcome"`
}

// FilterValid drops entities whose outcome is NaN or infinite and reports
// how many were removed. Diagnostics must never run on a silently truncated
// sample, so callers record a warning when dropped > 0.
func FilterValid(entities []Entity) (kept []Entity, dropped int) {
	kept = make([]Entity, 0, len(entities))
	for _, e := range entities {
		if math.IsNaN(e.Outcome) || math.IsInf(e.Outcome, 0) {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}

// Outcomes extracts the outcome column in entity order
func Outcomes(entities []Entity) []float64 {
	out := make([]float64, len(entities))
	for i, e := range entities {
		out[i] = e.Outcome
	}
	return out
}

// HasOutcomeVariance reports whether at least two distinct outcome values exist
func HasOutcomeVariance(entities []Entity) bool {
	if len(entities) < 2 {
		return false
	}
	first := entities[0].Outcome
	for _, e := range entities[1:] {
		if e.Outcome != first {
			return true
		}
	}
	return false
}
