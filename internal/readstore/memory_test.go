package readstore

import (
	"context"
	"testing"
	"time"

	"github.com/nivenhub/timelinecore/internal/shared/types"
)

func newTestStore(celebrityThreshold, maxTimeline int) *MemoryStore {
	return NewMemoryStore(Tunables{CelebrityThreshold: celebrityThreshold, MaxTimeline: maxTimeline})
}

func TestMemoryStoreProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(3, 5)
	userId := types.NewUserId()

	if err := s.SaveProfile(ctx, UserProfile{UserId: userId, Username: "alice"}); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	got, ok, err := s.GetProfile(ctx, userId)
	if err != nil || !ok {
		t.Fatalf("get profile: ok=%v err=%v", ok, err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected username: %v", got.Username)
	}

	byName, ok, err := s.FindProfileByUsername(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("find by username: ok=%v err=%v", ok, err)
	}
	if byName.UserId != userId {
		t.Fatalf("unexpected user id: %v", byName.UserId)
	}
}

func TestMemoryStoreTimelineTruncation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(1000, 3)
	owner := types.NewUserId()

	var ids []types.PostId
	for i := 0; i < 5; i++ {
		id := types.NewPostId()
		ids = append(ids, id)
		if err := s.PushTimeline(ctx, owner, id); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	timeline, err := s.GetTimeline(ctx, owner)
	if err != nil {
		t.Fatalf("get timeline: %v", err)
	}
	if len(timeline) != 3 {
		t.Fatalf("expected timeline capped at 3, got %d", len(timeline))
	}
	// newest-first: the last 3 pushed, in reverse push order.
	want := []types.PostId{ids[4], ids[3], ids[2]}
	for i := range want {
		if timeline[i] != want[i] {
			t.Fatalf("timeline[%d] = %v, want %v", i, timeline[i], want[i])
		}
	}
}

func TestMemoryStoreIsCelebrityThreshold(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(3, 100)
	celebrity := types.NewUserId()

	for i := 0; i < 2; i++ {
		if err := s.AddEdge(ctx, types.NewUserId(), celebrity, types.NewRelationshipId()); err != nil {
			t.Fatalf("add edge: %v", err)
		}
	}
	isCeleb, err := s.IsCelebrity(ctx, celebrity)
	if err != nil {
		t.Fatalf("is celebrity: %v", err)
	}
	if isCeleb {
		t.Fatal("expected not a celebrity with 2 followers and threshold 3")
	}

	if err := s.AddEdge(ctx, types.NewUserId(), celebrity, types.NewRelationshipId()); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	isCeleb, err = s.IsCelebrity(ctx, celebrity)
	if err != nil {
		t.Fatalf("is celebrity: %v", err)
	}
	if !isCeleb {
		t.Fatal("expected celebrity with 3 followers and threshold 3")
	}
}

func TestMemoryStoreRemoveAuthorFromTimeline(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(1000, 100)
	owner := types.NewUserId()
	author := types.NewUserId()
	other := types.NewUserId()

	authorPost := types.NewPostId()
	otherPost := types.NewPostId()

	if err := s.SavePost(ctx, Post{PostId: authorPost, AuthorId: author, PublishedAt: time.Now()}); err != nil {
		t.Fatalf("save post: %v", err)
	}
	if err := s.SavePost(ctx, Post{PostId: otherPost, AuthorId: other, PublishedAt: time.Now()}); err != nil {
		t.Fatalf("save post: %v", err)
	}
	if err := s.PushTimeline(ctx, owner, authorPost); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := s.PushTimeline(ctx, owner, otherPost); err != nil {
		t.Fatalf("push: %v", err)
	}

	if err := s.RemoveAuthorFromTimeline(ctx, owner, author); err != nil {
		t.Fatalf("remove author: %v", err)
	}

	timeline, err := s.GetTimeline(ctx, owner)
	if err != nil {
		t.Fatalf("get timeline: %v", err)
	}
	if len(timeline) != 1 || timeline[0] != otherPost {
		t.Fatalf("unexpected timeline after author removal: %+v", timeline)
	}
}

func TestMemoryStoreEdgeLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(1000, 100)
	follower := types.NewUserId()
	followee := types.NewUserId()
	relId := types.NewRelationshipId()

	if err := s.AddEdge(ctx, follower, followee, relId); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	following, err := s.IsFollowing(ctx, follower, followee)
	if err != nil || !following {
		t.Fatalf("expected following, ok=%v err=%v", following, err)
	}

	if err := s.RemoveEdge(ctx, follower, followee); err != nil {
		t.Fatalf("remove edge: %v", err)
	}
	following, err = s.IsFollowing(ctx, follower, followee)
	if err != nil || following {
		t.Fatalf("expected not following after remove, ok=%v err=%v", following, err)
	}
}
