package protocol

import "github.com/google/uuid"

// NewID returns a collision-resistant identifier for a fresh envelope.
// No ordering guarantee.
func NewID() string {
	return uuid.NewString()
}
