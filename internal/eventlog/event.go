// Package eventlog defines the domain event model and the append-only,
// per-aggregate, globally time-ordered log that is the system's single
// source of authoritative state.
package eventlog

import (
	"time"

	"github.com/google/uuid"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// Kind is a closed tagged variant over the event kinds the system emits.
// The projector dispatches on Kind, never on a type hierarchy.
type Kind string

const (
	UserRegistered Kind = "UserRegistered"
	PostPublished  Kind = "PostPublished"
	PostRetracted  Kind = "PostRetracted"
	FollowStarted  Kind = "FollowStarted"
	FollowEnded    Kind = "FollowEnded"
)

// AggregateId is the union of the three aggregate identifier types, wide
// enough to tag a DomainEvent regardless of which aggregate it belongs to.
type AggregateId string

// Event is the common header every domain event carries, plus a
// kind-specific body. Exactly one of the body fields is populated,
// selected by Kind — this is Go's idiom for a closed sum type.
type Event struct {
	EventId     uuid.UUID
	AggregateId AggregateId
	Kind        Kind
	Version     int
	OccurredAt  time.Time

	UserRegisteredBody *UserRegisteredBody
	PostPublishedBody  *PostPublishedBody
	PostRetractedBody  *PostRetractedBody
	FollowStartedBody  *FollowStartedBody
	FollowEndedBody    *FollowEndedBody
}

// UserRegisteredBody is the body of a UserRegistered event.
type UserRegisteredBody struct {
	Username types.Username
}

// PostPublishedBody is the body of a PostPublished event.
type PostPublishedBody struct {
	AuthorId    types.UserId
	Body        types.PostBody
	PublishedAt time.Time
}

// PostRetractedBody is the (empty) body of a PostRetracted event.
type PostRetractedBody struct{}

// FollowStartedBody is the body of a FollowStarted event.
type FollowStartedBody struct {
	FollowerId types.UserId
	FolloweeId types.UserId
}

// FollowEndedBody is the body of a FollowEnded event.
type FollowEndedBody struct {
	FollowerId types.UserId
	FolloweeId types.UserId
}

func newEvent(aggregateId AggregateId, kind Kind, version int) Event {
	return Event{
		EventId:     uuid.New(),
		AggregateId: aggregateId,
		Kind:        kind,
		Version:     version,
		OccurredAt:  time.Now().UTC(),
	}
}

// NewUserRegistered constructs a UserRegistered event at the given version.
func NewUserRegistered(aggregateId AggregateId, version int, username types.Username) Event {
	e := newEvent(aggregateId, UserRegistered, version)
	e.UserRegisteredBody = &UserRegisteredBody{Username: username}
	return e
}

// NewPostPublished constructs a PostPublished event at the given version.
func NewPostPublished(aggregateId AggregateId, version int, authorId types.UserId, body types.PostBody) Event {
	e := newEvent(aggregateId, PostPublished, version)
	e.PostPublishedBody = &PostPublishedBody{AuthorId: authorId, Body: body, PublishedAt: e.OccurredAt}
	return e
}

// NewPostRetracted constructs a PostRetracted event at the given version.
func NewPostRetracted(aggregateId AggregateId, version int) Event {
	e := newEvent(aggregateId, PostRetracted, version)
	e.PostRetractedBody = &PostRetractedBody{}
	return e
}

// NewFollowStarted constructs a FollowStarted event at the given version.
func NewFollowStarted(aggregateId AggregateId, version int, follower, followee types.UserId) Event {
	e := newEvent(aggregateId, FollowStarted, version)
	e.FollowStartedBody = &FollowStartedBody{FollowerId: follower, FolloweeId: followee}
	return e
}

// NewFollowEnded constructs a FollowEnded event at the given version.
func NewFollowEnded(aggregateId AggregateId, version int, follower, followee types.UserId) Event {
	e := newEvent(aggregateId, FollowEnded, version)
	e.FollowEndedBody = &FollowEndedBody{FollowerId: follower, FolloweeId: followee}
	return e
}
