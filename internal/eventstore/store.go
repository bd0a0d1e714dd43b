package eventstore

import (
	"context"
	"time"
)

// Store defines the interface for persisting and retrieving build events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID retrieves all events for a specific build, oldest first.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range, oldest first.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// Close closes the store and releases resources.
	Close() error
}

// Record appends a constructed event to store.
func Record(ctx context.Context, store Store, e Event) error {
	return store.Append(ctx, e.BuildID(), e.Type(), e.Payload(), e.Metadata())
}
