package pipeline

import "github.com/google/uuid"

// newJobID returns a time-ordered UUIDv7, so job IDs sort by creation.
func newJobID() string {
	return uuid.Must(uuid.NewV7()).String()
}
