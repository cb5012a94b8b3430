package eventlog

import (
	"context"
	"errors"
)

// Common event log errors.
var (
	// ErrVersionConflict is returned by Append when an event's version does
	// not equal lastKnownVersion(aggregateId)+k for its position k.
	ErrVersionConflict = errors.New("version conflict: aggregate version mismatch")
)

// Log is the append-only, per-aggregate, globally time-ordered event
// store. It is the system's only source of authoritative state; append is
// its only mutation.
type Log interface {
	// Append stores events for a single aggregate atomically, in order.
	// Each event's Version must equal lastKnownVersion(aggregateId)+k for
	// the k-th element (1-based). Returns ErrVersionConflict on mismatch.
	Append(ctx context.Context, aggregateId AggregateId, events []Event) error

	// Read returns all events for an aggregate, chronological by version.
	Read(ctx context.Context, aggregateId AggregateId) ([]Event, error)

	// ReadAll returns every event in the log, chronological by
	// OccurredAt, ties broken by insertion order.
	ReadAll(ctx context.Context) ([]Event, error)

	// Exists reports whether any events have been appended for aggregateId.
	Exists(ctx context.Context, aggregateId AggregateId) (bool, error)
}
