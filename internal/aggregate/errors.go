// Package aggregate implements the three write-model aggregates — User,
// Post, and FollowRelationship — each of which decides and emits events
// from its own event stream, per spec §4.2.
package aggregate

import "errors"

var (
	// ErrEmptyStream is returned by rehydrate when given no events, or
	// whose first event is the wrong kind for the aggregate being rebuilt.
	ErrEmptyStream = errors.New("aggregate: empty or mistyped event stream")

	// ErrAlreadyRegistered is returned by User.Register on a non-empty stream.
	ErrAlreadyRegistered = errors.New("aggregate: user already registered")

	// ErrAlreadyPublished is returned by Post.Publish on a non-empty stream.
	ErrAlreadyPublished = errors.New("aggregate: post already published")

	// ErrAlreadyRetracted is returned by Post.Retract on an already-retracted post.
	ErrAlreadyRetracted = errors.New("aggregate: post already retracted")

	// ErrSelfFollow is returned by FollowRelationship.Start when follower == followee.
	ErrSelfFollow = errors.New("aggregate: cannot follow self")

	// ErrAlreadyStarted is returned by FollowRelationship.Start on a non-empty stream.
	ErrAlreadyStarted = errors.New("aggregate: follow relationship already started")

	// ErrNotActive is returned by FollowRelationship.End on an inactive relationship.
	ErrNotActive = errors.New("aggregate: follow relationship not active")
)
