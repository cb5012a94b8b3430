package aggregate

import "github.com/nivenhub/timelinecore/internal/eventlog"

// uncommitted tracks the version reached by replaying committed events
// plus any events a decision method has emitted (and already applied to
// in-memory state) but not yet appended to the log.
type uncommitted struct {
	committedVersion int
	events           []eventlog.Event
}

// version is the aggregate's current version, i.e. the version its
// in-memory state reflects right now (committed + buffered).
func (u *uncommitted) version() int {
	return u.committedVersion + len(u.events)
}

// nextVersion is the version the next emitted event must carry.
func (u *uncommitted) nextVersion() int {
	return u.version() + 1
}

func (u *uncommitted) record(e eventlog.Event) {
	u.events = append(u.events, e)
}

// Drain returns buffered events and clears the buffer, treating them as
// now committed (the caller is expected to append them to the log).
func (u *uncommitted) Drain() []eventlog.Event {
	events := u.events
	u.events = nil
	u.committedVersion += len(events)
	return events
}
