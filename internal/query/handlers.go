// Package query implements the system's read side: feed assembly and the
// other lookups the read store alone doesn't already expose directly.
package query

import (
	"context"
	"sort"

	apperrors "github.com/nivenhub/timelinecore/internal/shared/errors"
	"github.com/nivenhub/timelinecore/internal/readstore"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// Handlers is the read-side entry point.
type Handlers struct {
	Store    readstore.Store
	Tunables readstore.Tunables
}

// New builds a Handlers wired over the given read store and tunables.
func New(store readstore.Store, tunables readstore.Tunables) *Handlers {
	return &Handlers{Store: store, Tunables: tunables}
}

// ListUsers returns every registered user profile.
func (h *Handlers) ListUsers(ctx context.Context) ([]readstore.UserProfile, error) {
	profiles, err := h.Store.ListProfiles(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return profiles, nil
}

// PostsByAuthor returns an author's posts, newest first.
func (h *Handlers) PostsByAuthor(ctx context.Context, authorId types.UserId) ([]readstore.Post, error) {
	if _, ok, err := h.Store.GetProfile(ctx, authorId); err != nil {
		return nil, apperrors.Internal(err)
	} else if !ok {
		return nil, apperrors.UserNotFound(string(authorId))
	}
	posts, err := h.Store.ListPostsByAuthor(ctx, authorId)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return posts, nil
}

// IsFollowing reports whether followerId currently follows followeeId.
func (h *Handlers) IsFollowing(ctx context.Context, followerId, followeeId types.UserId) (bool, error) {
	ok, err := h.Store.IsFollowing(ctx, followerId, followeeId)
	if err != nil {
		return false, apperrors.Internal(err)
	}
	return ok, nil
}

// GetFeed assembles a user's feed: the materialized timeline (fed by
// fan-out at publish time and backfilled at follow time) merged with the
// current posts of any celebrities the user follows, since those never
// get fanned out (spec §4.4). The merge is by publishedAt descending,
// postId breaking ties, then capped to the store's MaxTimeline tunable.
func (h *Handlers) GetFeed(ctx context.Context, userId types.UserId) ([]readstore.Post, error) {
	if _, ok, err := h.Store.GetProfile(ctx, userId); err != nil {
		return nil, apperrors.Internal(err)
	} else if !ok {
		return nil, apperrors.UserNotFound(string(userId))
	}

	timelinePostIds, err := h.Store.GetTimeline(ctx, userId)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	following, err := h.Store.Outgoing(ctx, userId)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	// Query the celebrity index with the full outgoing set, not just
	// followees who are celebrities right now (spec §4.6 step 2): a
	// followee's celebrity status can drop after a post was indexed
	// there (e.g. other followers unfollow), and that post must stay
	// visible to followers who never stopped following.
	var celebrityPostIds []types.PostId
	if len(following) > 0 {
		celebrityPostIds, err = h.Store.CelebrityPostsOf(ctx, following)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	seen := make(map[types.PostId]struct{}, len(timelinePostIds)+len(celebrityPostIds))
	var merged []readstore.Post
	for _, postId := range append(append([]types.PostId{}, timelinePostIds...), celebrityPostIds...) {
		if _, dup := seen[postId]; dup {
			continue
		}
		seen[postId] = struct{}{}
		post, ok, err := h.Store.GetPost(ctx, postId)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if !ok {
			continue
		}
		merged = append(merged, post)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].PublishedAt.Equal(merged[j].PublishedAt) {
			return merged[i].PublishedAt.After(merged[j].PublishedAt)
		}
		return merged[i].PostId > merged[j].PostId
	})

	if limit := h.Tunables.MaxTimeline; len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}
