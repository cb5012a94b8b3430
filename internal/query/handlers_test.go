package query

import (
	"context"
	"testing"

	"github.com/nivenhub/timelinecore/internal/command"
	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/projector"
	"github.com/nivenhub/timelinecore/internal/readstore"
)

func newTestWiring(tunables readstore.Tunables) (*command.Handlers, *Handlers) {
	log := eventlog.NewMemoryLog()
	store := readstore.NewMemoryStore(tunables)
	proj := projector.New(store, nil)
	return command.New(log, store, proj), New(store, tunables)
}

func TestGetFeedMergesTimelineAndCelebrityPosts(t *testing.T) {
	ctx := context.Background()
	cmds, queries := newTestWiring(readstore.Tunables{CelebrityThreshold: 2, MaxTimeline: 800})

	viewerId, _ := cmds.RegisterUser(ctx, "viewer")
	regularId, _ := cmds.RegisterUser(ctx, "regular")
	celebId, _ := cmds.RegisterUser(ctx, "celeb")
	fanId, _ := cmds.RegisterUser(ctx, "fan")

	// celeb gets two followers (a celebrity at threshold 2); regular gets
	// one, so its post is fanned out to viewer's timeline.
	if _, err := cmds.StartFollow(ctx, fanId, celebId); err != nil {
		t.Fatalf("fan follow celeb: %v", err)
	}
	if _, err := cmds.StartFollow(ctx, viewerId, regularId); err != nil {
		t.Fatalf("follow regular: %v", err)
	}
	if _, err := cmds.StartFollow(ctx, viewerId, celebId); err != nil {
		t.Fatalf("follow celeb: %v", err)
	}

	regularPost, err := cmds.PublishPost(ctx, regularId, "regular post")
	if err != nil {
		t.Fatalf("publish regular post: %v", err)
	}
	celebPost, err := cmds.PublishPost(ctx, celebId, "celeb post")
	if err != nil {
		t.Fatalf("publish celeb post: %v", err)
	}

	feed, err := queries.GetFeed(ctx, viewerId)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 posts in feed, got %d", len(feed))
	}

	found := map[string]bool{}
	for _, p := range feed {
		found[string(p.PostId)] = true
	}
	if !found[string(regularPost)] || !found[string(celebPost)] {
		t.Fatalf("expected feed to contain both posts, got %+v", feed)
	}
}

// TestGetFeedSurvivesCelebrityDemotion reproduces a scenario where a
// followee is a celebrity at publish time (fan-out skipped, post only
// indexed by author) but later drops below the threshold because other
// followers unfollow. A remaining follower who never unfollowed must
// still see the post: celebrityPostsOf is queried against the full
// outgoing set (spec §4.6 step 2), not filtered to currently-celebrity
// followees.
func TestGetFeedSurvivesCelebrityDemotion(t *testing.T) {
	ctx := context.Background()
	cmds, queries := newTestWiring(readstore.Tunables{CelebrityThreshold: 3, MaxTimeline: 800})

	star, _ := cmds.RegisterUser(ctx, "star")
	bob, _ := cmds.RegisterUser(ctx, "bob")
	f2, _ := cmds.RegisterUser(ctx, "f2")
	f3, _ := cmds.RegisterUser(ctx, "f3")

	if _, err := cmds.StartFollow(ctx, bob, star); err != nil {
		t.Fatalf("follow (bob): %v", err)
	}
	if _, err := cmds.StartFollow(ctx, f2, star); err != nil {
		t.Fatalf("follow (f2): %v", err)
	}
	if _, err := cmds.StartFollow(ctx, f3, star); err != nil {
		t.Fatalf("follow (f3): %v", err)
	}

	starPost, err := cmds.PublishPost(ctx, star, "celebrity post")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	// star now drops below the celebrity threshold, but bob never
	// unfollowed and the post was never retracted.
	if err := cmds.EndFollow(ctx, f2, star); err != nil {
		t.Fatalf("end follow (f2): %v", err)
	}
	if err := cmds.EndFollow(ctx, f3, star); err != nil {
		t.Fatalf("end follow (f3): %v", err)
	}

	feed, err := queries.GetFeed(ctx, bob)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(feed) != 1 || feed[0].PostId != starPost {
		t.Fatalf("expected bob's feed to still contain star's post after star's demotion, got %+v", feed)
	}
}

func TestGetFeedCapsAtMaxTimeline(t *testing.T) {
	ctx := context.Background()
	cmds, queries := newTestWiring(readstore.Tunables{CelebrityThreshold: 1000, MaxTimeline: 2})

	viewerId, _ := cmds.RegisterUser(ctx, "viewer")
	authorId, _ := cmds.RegisterUser(ctx, "author")
	if _, err := cmds.StartFollow(ctx, viewerId, authorId); err != nil {
		t.Fatalf("follow: %v", err)
	}

	for i := 0; i < 4; i++ {
		if _, err := cmds.PublishPost(ctx, authorId, "post"); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	feed, err := queries.GetFeed(ctx, viewerId)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected feed capped at 2, got %d", len(feed))
	}
}

func TestPostsByAuthorRequiresExistingUser(t *testing.T) {
	ctx := context.Background()
	_, queries := newTestWiring(readstore.DefaultTunables())
	if _, err := queries.PostsByAuthor(ctx, "nonexistent"); err == nil {
		t.Fatal("expected error for unknown author")
	}
}

func TestIsFollowingReflectsState(t *testing.T) {
	ctx := context.Background()
	cmds, queries := newTestWiring(readstore.DefaultTunables())

	followerId, _ := cmds.RegisterUser(ctx, "follower")
	followeeId, _ := cmds.RegisterUser(ctx, "followee")

	following, err := queries.IsFollowing(ctx, followerId, followeeId)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if following {
		t.Fatal("expected not following before StartFollow")
	}

	if _, err := cmds.StartFollow(ctx, followerId, followeeId); err != nil {
		t.Fatalf("start follow: %v", err)
	}
	following, err = queries.IsFollowing(ctx, followerId, followeeId)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if !following {
		t.Fatal("expected following after StartFollow")
	}
}
