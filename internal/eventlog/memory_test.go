package eventlog

import (
	"context"
	"testing"

	"github.com/nivenhub/timelinecore/internal/shared/types"
)

func TestMemoryLogAppendAndRead(t *testing.T) {
	log := NewMemoryLog()
	ctx := context.Background()
	aggId := AggregateId(types.NewUserId())

	e1 := NewUserRegistered(aggId, 1, types.Username("alice"))
	if err := log.Append(ctx, aggId, []Event{e1}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := log.Read(ctx, aggId)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 1 || events[0].Kind != UserRegistered {
		t.Fatalf("unexpected events: %+v", events)
	}

	exists, err := log.Exists(ctx, aggId)
	if err != nil || !exists {
		t.Fatalf("expected aggregate to exist, err=%v exists=%v", err, exists)
	}
}

func TestMemoryLogVersionConflict(t *testing.T) {
	log := NewMemoryLog()
	ctx := context.Background()
	aggId := AggregateId(types.NewUserId())

	e1 := NewUserRegistered(aggId, 1, types.Username("alice"))
	if err := log.Append(ctx, aggId, []Event{e1}); err != nil {
		t.Fatalf("first append: %v", err)
	}

	// Re-append at the same version should conflict.
	stale := NewUserRegistered(aggId, 1, types.Username("alice"))
	if err := log.Append(ctx, aggId, []Event{stale}); err != ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestMemoryLogReadAllChronological(t *testing.T) {
	log := NewMemoryLog()
	ctx := context.Background()

	agg1 := AggregateId(types.NewUserId())
	agg2 := AggregateId(types.NewUserId())

	e1 := NewUserRegistered(agg1, 1, types.Username("alice"))
	e2 := NewUserRegistered(agg2, 1, types.Username("bob"))

	if err := log.Append(ctx, agg1, []Event{e1}); err != nil {
		t.Fatalf("append agg1: %v", err)
	}
	if err := log.Append(ctx, agg2, []Event{e2}); err != nil {
		t.Fatalf("append agg2: %v", err)
	}

	all, err := log.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 events, got %d", len(all))
	}
	if all[0].EventId != e1.EventId {
		t.Fatalf("expected insertion order preserved, got %+v first", all[0])
	}
}

func TestMemoryLogExistsFalseForUnknown(t *testing.T) {
	log := NewMemoryLog()
	exists, err := log.Exists(context.Background(), AggregateId(types.NewUserId()))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("expected false for unknown aggregate")
	}
}
