package aggregate

import (
	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// FollowRelationship is the write-model aggregate for one ordered
// (follower, followee) edge. State machine: Absent (implicit) -> Active
// -> Ended (terminal; a fresh relationship id is required to re-follow).
type FollowRelationship struct {
	uncommitted

	id         types.RelationshipId
	followerId types.UserId
	followeeId types.UserId
	active     bool
}

// NewFollowRelationship creates a transient aggregate ready to decide Start.
func NewFollowRelationship(id types.RelationshipId) *FollowRelationship {
	return &FollowRelationship{id: id}
}

// RehydrateFollowRelationship rebuilds a FollowRelationship by replaying
// its event stream in version order. Fails with ErrEmptyStream if events
// is empty or its first event is not FollowStarted.
func RehydrateFollowRelationship(id types.RelationshipId, events []eventlog.Event) (*FollowRelationship, error) {
	if len(events) == 0 || events[0].Kind != eventlog.FollowStarted {
		return nil, ErrEmptyStream
	}

	f := &FollowRelationship{id: id}
	for _, e := range events {
		switch e.Kind {
		case eventlog.FollowStarted:
			f.followerId = e.FollowStartedBody.FollowerId
			f.followeeId = e.FollowStartedBody.FolloweeId
			f.active = true
		case eventlog.FollowEnded:
			f.active = false
		}
	}
	f.committedVersion = len(events)
	return f, nil
}

func (f *FollowRelationship) Id() types.RelationshipId { return f.id }
func (f *FollowRelationship) FollowerId() types.UserId { return f.followerId }
func (f *FollowRelationship) FolloweeId() types.UserId { return f.followeeId }
func (f *FollowRelationship) Active() bool             { return f.active }
func (f *FollowRelationship) Version() int             { return f.version() }

// Start emits FollowStarted. Only valid on an aggregate rehydrated from an
// empty stream. Fails ErrSelfFollow if followerId == followeeId.
func (f *FollowRelationship) Start(followerId, followeeId types.UserId) error {
	if f.version() != 0 {
		return ErrAlreadyStarted
	}
	if followerId == followeeId {
		return ErrSelfFollow
	}
	e := eventlog.NewFollowStarted(eventlog.AggregateId(f.id), f.nextVersion(), followerId, followeeId)
	f.followerId = followerId
	f.followeeId = followeeId
	f.active = true
	f.record(e)
	return nil
}

// End emits FollowEnded if the relationship is active.
func (f *FollowRelationship) End() error {
	if !f.active {
		return ErrNotActive
	}
	e := eventlog.NewFollowEnded(eventlog.AggregateId(f.id), f.nextVersion(), f.followerId, f.followeeId)
	f.active = false
	f.record(e)
	return nil
}
