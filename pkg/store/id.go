package store

import "github.com/google/uuid"

// NewID returns a fresh identifier for a catalog record.
func NewID() string {
	return uuid.NewString()
}
