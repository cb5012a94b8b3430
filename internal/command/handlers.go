// Package command implements the system's write side: one handler per
// spec §4 operation, each following load-or-create aggregate -> decide ->
// append -> project.
package command

import (
	"context"

	"github.com/nivenhub/timelinecore/internal/aggregate"
	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/projector"
	"github.com/nivenhub/timelinecore/internal/readstore"
	apperrors "github.com/nivenhub/timelinecore/internal/shared/errors"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// Handlers is the write-side entry point. It holds the event log, the
// read store, and the projector explicitly rather than through package
// globals, so a test can wire up an isolated in-memory instance.
type Handlers struct {
	Log       eventlog.Log
	Store     readstore.Store
	Projector *projector.Projector
}

// New builds a Handlers wired over the given log, store, and projector.
func New(log eventlog.Log, store readstore.Store, proj *projector.Projector) *Handlers {
	return &Handlers{Log: log, Store: store, Projector: proj}
}

// commit appends events to the aggregate's stream then projects each one
// in order, giving the caller a read-your-writes guarantee before it
// returns (spec §5).
func (h *Handlers) commit(ctx context.Context, aggregateId eventlog.AggregateId, events []eventlog.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "command deadline exceeded before append")
	}
	if err := h.Log.Append(ctx, aggregateId, events); err != nil {
		if err == eventlog.ErrVersionConflict {
			return apperrors.VersionConflict()
		}
		return apperrors.Internal(err)
	}
	for _, e := range events {
		if err := h.Projector.Apply(ctx, e); err != nil {
			return apperrors.Internal(err)
		}
	}
	return nil
}

// RegisterUser creates a new user account with the given username.
func (h *Handlers) RegisterUser(ctx context.Context, username string) (types.UserId, error) {
	name, err := types.ParseUsername(username)
	if err != nil {
		return "", apperrors.InvalidUsername(err.Error(), username)
	}

	existing, ok, err := h.Store.FindProfileByUsername(ctx, name)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if ok {
		return existing.UserId, apperrors.UsernameTaken(username)
	}

	id := types.NewUserId()
	user := aggregate.NewUser(id)
	if err := user.Register(name); err != nil {
		return "", apperrors.Internal(err)
	}
	if err := h.commit(ctx, eventlog.AggregateId(id), user.Drain()); err != nil {
		return "", err
	}
	return id, nil
}

// PublishPost publishes a new post authored by authorId.
func (h *Handlers) PublishPost(ctx context.Context, authorId types.UserId, body string) (types.PostId, error) {
	text, err := types.ParsePostBody(body)
	if err != nil {
		return "", apperrors.InvalidBody(err.Error(), body)
	}

	if _, ok, err := h.Store.GetProfile(ctx, authorId); err != nil {
		return "", apperrors.Internal(err)
	} else if !ok {
		return "", apperrors.UserNotFound(string(authorId))
	}

	id := types.NewPostId()
	post := aggregate.NewPost(id)
	if err := post.Publish(authorId, text); err != nil {
		return "", apperrors.Internal(err)
	}
	if err := h.commit(ctx, eventlog.AggregateId(id), post.Drain()); err != nil {
		return "", err
	}
	return id, nil
}

// RetractPost retracts an existing post. callerId must match the post's
// author.
func (h *Handlers) RetractPost(ctx context.Context, callerId types.UserId, postId types.PostId) error {
	events, err := h.Log.Read(ctx, eventlog.AggregateId(postId))
	if err != nil {
		return apperrors.Internal(err)
	}
	post, err := aggregate.RehydratePost(postId, events)
	if err != nil {
		return apperrors.PostNotFound(string(postId))
	}
	if post.AuthorId() != callerId {
		return apperrors.Forbidden("only the author may retract this post")
	}
	if err := post.Retract(); err != nil {
		return apperrors.AlreadyRetracted()
	}
	return h.commit(ctx, eventlog.AggregateId(postId), post.Drain())
}

// StartFollow creates an active follow relationship from followerId to
// followeeId, identified by a freshly minted relationship id.
func (h *Handlers) StartFollow(ctx context.Context, followerId, followeeId types.UserId) (types.RelationshipId, error) {
	if _, ok, err := h.Store.GetProfile(ctx, followerId); err != nil {
		return "", apperrors.Internal(err)
	} else if !ok {
		return "", apperrors.UserNotFound(string(followerId))
	}
	if _, ok, err := h.Store.GetProfile(ctx, followeeId); err != nil {
		return "", apperrors.Internal(err)
	} else if !ok {
		return "", apperrors.UserNotFound(string(followeeId))
	}

	if already, err := h.Store.IsFollowing(ctx, followerId, followeeId); err != nil {
		return "", apperrors.Internal(err)
	} else if already {
		return "", apperrors.AlreadyFollowing()
	}

	id := types.NewRelationshipId()
	rel := aggregate.NewFollowRelationship(id)
	if err := rel.Start(followerId, followeeId); err != nil {
		return "", apperrors.SelfFollow()
	}
	if err := h.commit(ctx, eventlog.AggregateId(id), rel.Drain()); err != nil {
		return "", err
	}
	return id, nil
}

// EndFollow ends an active follow relationship.
func (h *Handlers) EndFollow(ctx context.Context, followerId, followeeId types.UserId) error {
	relationshipId, ok, err := h.Store.RelationshipOf(ctx, followerId, followeeId)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !ok {
		return apperrors.NotFollowing()
	}

	events, err := h.Log.Read(ctx, eventlog.AggregateId(relationshipId))
	if err != nil {
		return apperrors.Internal(err)
	}
	rel, err := aggregate.RehydrateFollowRelationship(relationshipId, events)
	if err != nil {
		return apperrors.RelationshipNotFound(string(relationshipId))
	}
	if err := rel.End(); err != nil {
		return apperrors.NotFollowing()
	}
	return h.commit(ctx, eventlog.AggregateId(relationshipId), rel.Drain())
}
