// Package readstore holds the derived, rebuildable-by-replay read-side
// state: user profiles, post bodies, the follow graph, per-user
// materialized timelines, and the celebrity post index (spec §4.4).
package readstore

import (
	"context"
	"time"

	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// UserProfile is the read-side projection of a registered user.
type UserProfile struct {
	UserId   types.UserId
	Username types.Username
}

// Post is the read-side projection of a published post.
type Post struct {
	PostId         types.PostId
	AuthorId       types.UserId
	AuthorUsername types.Username
	Body           types.PostBody
	PublishedAt    time.Time
}

// Store is the full read-side contract: profiles, posts, the follow
// graph, materialized timelines, and the celebrity index. All mutation
// methods are invoked exclusively by the projector; queries are safe for
// concurrent callers.
type Store interface {
	// Profiles
	SaveProfile(ctx context.Context, profile UserProfile) error
	GetProfile(ctx context.Context, userId types.UserId) (UserProfile, bool, error)
	FindProfileByUsername(ctx context.Context, username types.Username) (UserProfile, bool, error)
	ListProfiles(ctx context.Context) ([]UserProfile, error)

	// Posts
	SavePost(ctx context.Context, post Post) error
	GetPost(ctx context.Context, postId types.PostId) (Post, bool, error)
	DeletePost(ctx context.Context, postId types.PostId) error
	ListPostsByAuthor(ctx context.Context, authorId types.UserId) ([]Post, error)

	// Follow graph
	AddEdge(ctx context.Context, follower, followee types.UserId, relationshipId types.RelationshipId) error
	RemoveEdge(ctx context.Context, follower, followee types.UserId) error
	Outgoing(ctx context.Context, userId types.UserId) ([]types.UserId, error)
	Incoming(ctx context.Context, userId types.UserId) ([]types.UserId, error)
	IsFollowing(ctx context.Context, follower, followee types.UserId) (bool, error)
	RelationshipOf(ctx context.Context, follower, followee types.UserId) (types.RelationshipId, bool, error)

	// Timeline
	PushTimeline(ctx context.Context, ownerId types.UserId, postId types.PostId) error
	RemoveFromTimeline(ctx context.Context, ownerId types.UserId, postId types.PostId) error
	RemoveAuthorFromTimeline(ctx context.Context, ownerId types.UserId, authorId types.UserId) error
	GetTimeline(ctx context.Context, ownerId types.UserId) ([]types.PostId, error)

	// Celebrity index
	MarkCelebrityPost(ctx context.Context, postId types.PostId, authorId types.UserId) error
	ForgetCelebrityPost(ctx context.Context, postId types.PostId) error
	CelebrityPostsOf(ctx context.Context, authorIds []types.UserId) ([]types.PostId, error)
	IsCelebrity(ctx context.Context, userId types.UserId) (bool, error)
}

// Tunables holds the design-time constants that parameterize projection
// and feed assembly.
type Tunables struct {
	CelebrityThreshold int
	MaxTimeline        int
}

// DefaultTunables returns the spec's defaults: CELEBRITY_THRESHOLD=1000,
// MAX_TIMELINE=800.
func DefaultTunables() Tunables {
	return Tunables{CelebrityThreshold: 1000, MaxTimeline: 800}
}
