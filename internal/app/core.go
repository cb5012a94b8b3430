// Package app wires the event log, read store, projector, and
// command/query handlers together into one unit, and provides the
// replay-on-startup routine that rebuilds read-side state from the
// authoritative log.
package app

import (
	"context"
	"fmt"

	"github.com/nivenhub/timelinecore/internal/command"
	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/projector"
	"github.com/nivenhub/timelinecore/internal/query"
	"github.com/nivenhub/timelinecore/internal/readstore"
)

// Core holds the fully wired application: one event log, one read store,
// one projector, and the command/query handlers built over them.
type Core struct {
	Log       eventlog.Log
	Store     readstore.Store
	Projector *projector.Projector
	Commands  *command.Handlers
	Queries   *query.Handlers
}

// New wires a Core from its parts. The same Projector instance backs both
// the live commit path (command.Handlers) and Replay, so the two can
// never diverge in behavior (spec §8's determinism property).
func New(log eventlog.Log, store readstore.Store, tunables readstore.Tunables, observer projector.Observer) *Core {
	proj := projector.New(store, observer)
	return &Core{
		Log:       log,
		Store:     store,
		Projector: proj,
		Commands:  command.New(log, store, proj),
		Queries:   query.New(store, tunables),
	}
}

// Replay rebuilds the read store from scratch by re-projecting every
// event in the log, in the log's global chronological order. Call it at
// startup whenever the read store does not already reflect the log (a
// fresh in-memory store paired with a durable log, or a Postgres store
// being rebuilt after a schema change).
func (c *Core) Replay(ctx context.Context) error {
	events, err := c.Log.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("app: reading log for replay: %w", err)
	}
	for _, e := range events {
		if err := c.Projector.Apply(ctx, e); err != nil {
			return fmt.Errorf("app: replaying event %s: %w", e.EventId, err)
		}
	}
	return nil
}
