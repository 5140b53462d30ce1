package core

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// ID is a KSUID-backed identifier used across all entities.
type ID string

// NewID generates a new unique ID.
func NewID() (ID, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return ID(id.String()), nil
}

// MustNewID generates a new ID and panics on failure. Intended for tests and
// initialization paths where randomness failure is unrecoverable.
func MustNewID() ID {
	id, err := NewID()
	if err != nil {
		panic(err)
	}
	return id
}

// ParseID validates that the given string is a well-formed KSUID.
func ParseID(s string) (ID, error) {
	if s == "" {
		return "", fmt.Errorf("empty ID")
	}
	if _, err := ksuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid ID format: %w", err)
	}
	return ID(s), nil
}

func (i ID) String() string {
	return string(i)
}

func (i ID) IsZero() bool {
	return i == ""
}
