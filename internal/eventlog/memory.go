package eventlog

import (
	"context"
	"sort"
	"sync"
)

// MemoryLog is the in-memory Log implementation the core is defined
// against; durability is a substitution (see the kurrentdb subpackage).
//
// Concurrency: appends to a single aggregate's stream are serialized by a
// per-aggregate lock (stripeLock below); appends to different aggregates
// may proceed in parallel. A coarse mutex protects the global insertion
// sequence used by ReadAll.
type MemoryLog struct {
	mu       sync.RWMutex
	streams  map[AggregateId][]Event
	locks    map[AggregateId]*sync.Mutex
	all      []Event
	sequence int64
}

// NewMemoryLog creates an empty in-memory event log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		streams: make(map[AggregateId][]Event),
		locks:   make(map[AggregateId]*sync.Mutex),
	}
}

func (l *MemoryLog) stripeLock(aggregateId AggregateId) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[aggregateId]
	if !ok {
		m = &sync.Mutex{}
		l.locks[aggregateId] = m
	}
	return m
}

// Append implements Log.
func (l *MemoryLog) Append(ctx context.Context, aggregateId AggregateId, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	lock := l.stripeLock(aggregateId)
	lock.Lock()
	defer lock.Unlock()

	l.mu.RLock()
	current := len(l.streams[aggregateId])
	l.mu.RUnlock()

	for k, e := range events {
		if e.Version != current+k+1 {
			return ErrVersionConflict
		}
	}

	l.mu.Lock()
	l.streams[aggregateId] = append(l.streams[aggregateId], events...)
	for _, e := range events {
		l.sequence++
		l.all = append(l.all, e)
	}
	l.mu.Unlock()

	return nil
}

// Read implements Log.
func (l *MemoryLog) Read(ctx context.Context, aggregateId AggregateId) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stream := l.streams[aggregateId]
	out := make([]Event, len(stream))
	copy(out, stream)
	return out, nil
}

// ReadAll implements Log. Events are chronological by OccurredAt, ties
// broken by insertion order — since appends happen in insertion order and
// OccurredAt is monotonic non-decreasing in practice, a stable sort over
// the insertion-ordered slice satisfies both requirements.
func (l *MemoryLog) ReadAll(ctx context.Context) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.all))
	copy(out, l.all)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}

// Exists implements Log.
func (l *MemoryLog) Exists(ctx context.Context, aggregateId AggregateId) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.streams[aggregateId]) > 0, nil
}

var _ Log = (*MemoryLog)(nil)
