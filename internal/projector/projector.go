// Package projector turns committed domain events into read-side state.
// Projection is deterministic and replay-safe: running the same event
// stream through a fresh Projector and a fresh Store twice yields
// identical read-side state both times (spec §8).
package projector

import (
	"context"
	"fmt"
	"sync"

	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/readstore"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// Projector applies committed events to a readstore.Store. It holds no
// state of its own beyond the store and observer it was built with (and a
// mutex that serializes Apply), so a fresh Projector over a fresh Store is
// exactly equivalent to replaying history from the start.
type Projector struct {
	mu       sync.Mutex
	store    readstore.Store
	observer Observer
}

// New builds a Projector over store. A nil observer is replaced with a
// NoopObserver.
func New(store readstore.Store, observer Observer) *Projector {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Projector{store: store, observer: observer}
}

// Apply projects a single event. Callers are expected to invoke Apply for
// every event of an aggregate's append, in version order, as part of the
// same command that produced them (spec §5's read-your-writes guarantee).
// Apply holds the projector's mutex for the whole event, so the store
// mutations of one event never interleave with those of another.
func (p *Projector) Apply(ctx context.Context, e eventlog.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.observer.ObserveProjected(e)

	switch e.Kind {
	case eventlog.UserRegistered:
		return p.applyUserRegistered(ctx, e)
	case eventlog.PostPublished:
		return p.applyPostPublished(ctx, e)
	case eventlog.PostRetracted:
		return p.applyPostRetracted(ctx, e)
	case eventlog.FollowStarted:
		return p.applyFollowStarted(ctx, e)
	case eventlog.FollowEnded:
		return p.applyFollowEnded(ctx, e)
	default:
		return fmt.Errorf("projector: unknown event kind %q", e.Kind)
	}
}

func (p *Projector) applyUserRegistered(ctx context.Context, e eventlog.Event) error {
	userId := types.UserId(e.AggregateId)
	return p.store.SaveProfile(ctx, readstore.UserProfile{
		UserId:   userId,
		Username: e.UserRegisteredBody.Username,
	})
}

// applyPostPublished materializes the post and, per spec §4.4, either
// fans it out to every current follower's timeline or, if the author is a
// celebrity, skips fan-out entirely and relies on the celebrity index for
// query-time merge.
func (p *Projector) applyPostPublished(ctx context.Context, e eventlog.Event) error {
	body := e.PostPublishedBody
	postId := types.PostId(e.AggregateId)

	profile, _, err := p.store.GetProfile(ctx, body.AuthorId)
	if err != nil {
		return err
	}

	if err := p.store.SavePost(ctx, readstore.Post{
		PostId:         postId,
		AuthorId:       body.AuthorId,
		AuthorUsername: profile.Username,
		Body:           body.Body,
		PublishedAt:    body.PublishedAt,
	}); err != nil {
		return err
	}

	celebrity, err := p.store.IsCelebrity(ctx, body.AuthorId)
	if err != nil {
		return err
	}
	if celebrity {
		p.observer.ObserveCelebritySkip(string(body.AuthorId))
		return p.store.MarkCelebrityPost(ctx, postId, body.AuthorId)
	}

	followers, err := p.store.Incoming(ctx, body.AuthorId)
	if err != nil {
		return err
	}
	p.observer.ObserveFanout(string(body.AuthorId), len(followers))
	for _, followerId := range followers {
		if err := p.store.PushTimeline(ctx, followerId, postId); err != nil {
			return err
		}
	}
	return nil
}

// applyPostRetracted removes the post from materialized state, undoing
// whichever of fan-out or celebrity-indexing applyPostPublished did.
func (p *Projector) applyPostRetracted(ctx context.Context, e eventlog.Event) error {
	postId := types.PostId(e.AggregateId)

	post, ok, err := p.store.GetPost(ctx, postId)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	// Decide by whether the post was indexed at publish time, not by the
	// author's celebrity status now, which may have changed since.
	indexedIds, err := p.store.CelebrityPostsOf(ctx, []types.UserId{post.AuthorId})
	if err != nil {
		return err
	}
	indexed := false
	for _, id := range indexedIds {
		if id == postId {
			indexed = true
			break
		}
	}
	if indexed {
		if err := p.store.ForgetCelebrityPost(ctx, postId); err != nil {
			return err
		}
	} else {
		followers, err := p.store.Incoming(ctx, post.AuthorId)
		if err != nil {
			return err
		}
		for _, followerId := range followers {
			if err := p.store.RemoveFromTimeline(ctx, followerId, postId); err != nil {
				return err
			}
		}
	}
	return p.store.DeletePost(ctx, postId)
}

// applyFollowStarted records the edge and, unless the followee is a
// celebrity (served from the celebrity index instead), backfills the
// follower's timeline with the followee's existing posts.
func (p *Projector) applyFollowStarted(ctx context.Context, e eventlog.Event) error {
	body := e.FollowStartedBody
	relationshipId := types.RelationshipId(e.AggregateId)

	if err := p.store.AddEdge(ctx, body.FollowerId, body.FolloweeId, relationshipId); err != nil {
		return err
	}

	celebrity, err := p.store.IsCelebrity(ctx, body.FolloweeId)
	if err != nil {
		return err
	}
	if celebrity {
		return nil
	}

	posts, err := p.store.ListPostsByAuthor(ctx, body.FolloweeId)
	if err != nil {
		return err
	}
	// posts is newest-first; push oldest-first so PushTimeline's
	// prepend leaves the follower's timeline newest-first too.
	for i := len(posts) - 1; i >= 0; i-- {
		if err := p.store.PushTimeline(ctx, body.FollowerId, posts[i].PostId); err != nil {
			return err
		}
	}
	return nil
}

// applyFollowEnded removes the edge and, symmetrically with
// applyFollowStarted's backfill, strips the followee's posts back out of
// the follower's timeline.
func (p *Projector) applyFollowEnded(ctx context.Context, e eventlog.Event) error {
	body := e.FollowEndedBody

	if err := p.store.RemoveEdge(ctx, body.FollowerId, body.FolloweeId); err != nil {
		return err
	}

	celebrity, err := p.store.IsCelebrity(ctx, body.FolloweeId)
	if err != nil {
		return err
	}
	if celebrity {
		return nil
	}

	return p.store.RemoveAuthorFromTimeline(ctx, body.FollowerId, body.FolloweeId)
}
