package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID       ID
	EntityID    ID
	DomainKey   ID
	PropertyKey ID
)

// String conversions for domain IDs
func (id RunID) String() string       { return ID(id).String() }
func (id EntityID) String() string    { return ID(id).String() }
func (id DomainKey) String() string   { return ID(id).String() }
func (id PropertyKey) String() string { return ID(id).String() }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// ParseDomainKey parses a string into DomainKey
func ParseDomainKey(s string) (DomainKey, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("domain key cannot be empty")
	}
	return DomainKey(trimmed), nil
}

// ParseDomainKeys parses a comma-separated list into DomainKeys
func ParseDomainKeys(s string) ([]DomainKey, error) {
	parts := strings.Split(s, ",")
	keys := make([]DomainKey, 0, len(parts))
	for _, part := range parts {
		key, err := ParseDomainKey(part)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no domain keys in %q", s)
	}
	return keys, nil
}
