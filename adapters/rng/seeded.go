// Package rng implements ports.RNGPort with sha256-derived stream seeds so
// every named operation gets its own reproducible source.
package rng

import (
	"context"
	"math/rand"

	"nomengine/domain/core"
)

// SeededRNG derives independent deterministic streams from a base seed
type SeededRNG struct{}

// New creates a SeededRNG
func New() *SeededRNG {
	return &SeededRNG{}
}

// SeededStream creates a deterministic generator for a named operation
func (r *SeededRNG) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(core.SeedHash(seed, name))), nil
}
