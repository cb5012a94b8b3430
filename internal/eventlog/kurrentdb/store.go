package kurrentdb

import (
	"context"
	"fmt"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/nivenhub/timelinecore/internal/eventlog"
)

// Store implements eventlog.Log against KurrentDB. Each aggregate owns a
// stream named "aggregate-<aggregateId>"; events are encoded with
// eventlog.EncodeWire, matching the persisted record layout in spec §6.
type Store struct {
	client *Client
}

// NewStore creates a KurrentDB-backed event log.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

func streamFor(id eventlog.AggregateId) string {
	return fmt.Sprintf("aggregate-%s", id)
}

// Append implements eventlog.Log.
func (s *Store) Append(ctx context.Context, aggregateId eventlog.AggregateId, events []eventlog.Event) error {
	if len(events) == 0 {
		return nil
	}

	esdbEvents := make([]esdb.EventData, len(events))
	for i, e := range events {
		data, err := eventlog.EncodeWire(e)
		if err != nil {
			return fmt.Errorf("kurrentdb: encode event: %w", err)
		}
		esdbEvents[i] = esdb.EventData{
			EventType:   string(e.Kind),
			ContentType: esdb.ContentTypeBinary,
			Data:        data,
			EventID:     e.EventId,
		}
	}

	var options esdb.AppendToStreamOptions
	firstVersion := events[0].Version
	if firstVersion == 1 {
		options.ExpectedRevision = esdb.NoStream{}
	} else {
		options.ExpectedRevision = esdb.Revision(uint64(firstVersion - 2))
	}

	_, err := s.client.DB().AppendToStream(ctx, streamFor(aggregateId), options, esdbEvents...)
	if err != nil {
		if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeWrongExpectedVersion {
			return eventlog.ErrVersionConflict
		}
		return fmt.Errorf("kurrentdb: append: %w", err)
	}

	return nil
}

// Read implements eventlog.Log.
func (s *Store) Read(ctx context.Context, aggregateId eventlog.AggregateId) ([]eventlog.Event, error) {
	stream, err := s.client.DB().ReadStream(ctx, streamFor(aggregateId), esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 10_000)
	if err != nil {
		if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeResourceNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("kurrentdb: read stream: %w", err)
	}
	defer stream.Close()

	var events []eventlog.Event
	for {
		resolved, err := stream.Recv()
		if err != nil {
			break
		}
		e, err := eventlog.DecodeWire(resolved.Event.Data)
		if err != nil {
			return nil, fmt.Errorf("kurrentdb: decode event: %w", err)
		}
		events = append(events, e)
	}

	return events, nil
}

// ReadAll implements eventlog.Log by reading the $all system stream and
// skipping entries that aren't our own encoded events.
func (s *Store) ReadAll(ctx context.Context) ([]eventlog.Event, error) {
	stream, err := s.client.DB().ReadAll(ctx, esdb.ReadAllOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 1_000_000)
	if err != nil {
		return nil, fmt.Errorf("kurrentdb: read $all: %w", err)
	}
	defer stream.Close()

	var events []eventlog.Event
	for {
		resolved, err := stream.Recv()
		if err != nil {
			break
		}
		if resolved.Event == nil {
			continue
		}
		if len(resolved.Event.EventType) > 0 && resolved.Event.EventType[0] == '$' {
			continue
		}
		e, err := eventlog.DecodeWire(resolved.Event.Data)
		if err != nil {
			continue
		}
		events = append(events, e)
	}

	return events, nil
}

// Exists implements eventlog.Log.
func (s *Store) Exists(ctx context.Context, aggregateId eventlog.AggregateId) (bool, error) {
	stream, err := s.client.DB().ReadStream(ctx, streamFor(aggregateId), esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 1)
	if err != nil {
		if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeResourceNotFound {
			return false, nil
		}
		return false, fmt.Errorf("kurrentdb: exists: %w", err)
	}
	defer stream.Close()

	_, err = stream.Recv()
	if err != nil {
		return false, nil
	}
	return true, nil
}

var _ eventlog.Log = (*Store)(nil)
