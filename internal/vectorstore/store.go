package vectorstore

import (
	"context"

	"quorum/internal/meeting"
)

// Record is the payload stored alongside a meeting vector.
type Record struct {
	MeetingID    string
	Title        string
	Excerpt      string
	Speaker      string
	SpeakerCount int
	Timestamp    string
}

// Store persists meeting vectors and answers similarity queries.
type Store interface {
	// EnsureCollection creates the backing collection when it does not exist.
	EnsureCollection(ctx context.Context) error
	// Upsert writes the vector and payload keyed by meeting identifier.
	// Re-processing a meeting overwrites the previous point.
	Upsert(ctx context.Context, record Record, vector []float32) error
	// Query returns up to limit matches above the score threshold, ordered
	// by descending similarity. Points belonging to excludeMeetingID are
	// filtered inside the store so the result is never under-filled.
	Query(ctx context.Context, vector []float32, excludeMeetingID string, limit int, scoreThreshold float64) ([]meeting.ContextMatch, error)
	// Delete removes the vector for a meeting.
	Delete(ctx context.Context, meetingID string) error
	// Health probes the backing service.
	Health(ctx context.Context) error
}
