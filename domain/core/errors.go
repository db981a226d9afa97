package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data loading errors
	ErrDataUnavailable = errors.New("domain data unavailable")
	ErrLoadTimeout     = fmt.Errorf("%w: load timed out", ErrDataUnavailable)
	ErrEmptyDataset    = fmt.Errorf("%w: empty dataset", ErrDataUnavailable)

	// Sample errors
	ErrInsufficientSample = errors.New("insufficient sample for analysis")

	// Fitness errors
	ErrDegenerateFitness    = errors.New("degenerate fitness")
	ErrUndefinedCorrelation = fmt.Errorf("%w: undefined correlation", ErrDegenerateFitness)
	ErrZeroVarianceOutcome  = fmt.Errorf("%w: zero-variance outcome", ErrDegenerateFitness)

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")

	// Configuration errors
	ErrConfigInvalid = errors.New("invalid run configuration")
)

// Error constructors with context
func NewDataUnavailableError(domain DomainKey, cause error) error {
	return fmt.Errorf("%w for domain %s: %v", ErrDataUnavailable, domain, cause)
}

func NewInsufficientSampleError(domain DomainKey, have, want int) error {
	return fmt.Errorf("%w: domain %s has %d entities, needs %d", ErrInsufficientSample, domain, have, want)
}

func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfigInvalid, field, reason)
}

// Error checking helpers
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

func IsInsufficientSample(err error) bool {
	return errors.Is(err, ErrInsufficientSample)
}

func IsDegenerateFitness(err error) bool {
	return errors.Is(err, ErrDegenerateFitness)
}

func IsConfigInvalid(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}
