package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// FeatureCacheKey identifies one (raw name, scheme) encoding in the feature cache
type FeatureCacheKey Hash

// NewFeatureCacheKey builds a cache key from a raw entity name and a scheme tag.
// A delimiter between the parts keeps ("ab","c") distinct from ("a","bc").
func NewFeatureCacheKey(rawName, scheme string) FeatureCacheKey {
	return FeatureCacheKey(NewHash([]byte(rawName + "\x00" + scheme)))
}

func (k FeatureCacheKey) String() string { return Hash(k).String() }

// SeedHash derives a stable int64 seed from named parts. Used to give each
// (run, domain, scheme) pair its own deterministic RNG stream.
func SeedHash(baseSeed int64, parts ...string) int64 {
	data := fmt.Sprintf("%d", baseSeed)
	for _, p := range parts {
		data += "\x00" + p
	}
	sum := sha256.Sum256([]byte(data))
	var seed int64
	for i := 0; i < 8; i++ {
		seed = (seed << 8) | int64(sum[i])
	}
	if seed < 0 {
		seed = -seed
	}
	return seed
}
