package command

import (
	"context"
	"testing"

	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/projector"
	"github.com/nivenhub/timelinecore/internal/readstore"
	apperrors "github.com/nivenhub/timelinecore/internal/shared/errors"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

func newTestHandlers() *Handlers {
	log := eventlog.NewMemoryLog()
	store := readstore.NewMemoryStore(readstore.Tunables{CelebrityThreshold: 1000, MaxTimeline: 800})
	proj := projector.New(store, nil)
	return New(log, store, proj)
}

func TestRegisterUserAndDuplicate(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers()

	id, err := h.RegisterUser(ctx, "alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty user id")
	}

	if _, err := h.RegisterUser(ctx, "alice"); err == nil {
		t.Fatal("expected error registering duplicate username")
	}
}

func TestPublishAndRetractPost(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers()

	authorId, err := h.RegisterUser(ctx, "author")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	postId, err := h.PublishPost(ctx, authorId, "hello world")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	post, ok, err := h.Store.GetPost(ctx, postId)
	if err != nil || !ok {
		t.Fatalf("expected post to exist, ok=%v err=%v", ok, err)
	}
	if post.AuthorId != authorId {
		t.Fatalf("unexpected author: %v", post.AuthorId)
	}

	if err := h.RetractPost(ctx, authorId, postId); err != nil {
		t.Fatalf("retract: %v", err)
	}
	if _, ok, err := h.Store.GetPost(ctx, postId); err != nil || ok {
		t.Fatalf("expected post removed, ok=%v err=%v", ok, err)
	}
}

func TestRetractPostRequiresAuthor(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers()

	authorId, _ := h.RegisterUser(ctx, "author")
	otherId, _ := h.RegisterUser(ctx, "other")
	postId, err := h.PublishPost(ctx, authorId, "hello")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	err = h.RetractPost(ctx, otherId, postId)
	if err == nil {
		t.Fatal("expected error retracting another user's post")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN error, got %v", err)
	}
}

func TestStartAndEndFollow(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers()

	followerId, _ := h.RegisterUser(ctx, "follower")
	followeeId, _ := h.RegisterUser(ctx, "followee")

	if _, err := h.StartFollow(ctx, followerId, followeeId); err != nil {
		t.Fatalf("start follow: %v", err)
	}

	if _, err := h.StartFollow(ctx, followerId, followeeId); err == nil {
		t.Fatal("expected error starting duplicate follow")
	}

	if err := h.EndFollow(ctx, followerId, followeeId); err != nil {
		t.Fatalf("end follow: %v", err)
	}

	following, err := h.Store.IsFollowing(ctx, followerId, followeeId)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if following {
		t.Fatal("expected not following after end follow")
	}
}

func TestPublishPostRequiresExistingAuthor(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers()

	if _, err := h.PublishPost(ctx, types.NewUserId(), "hello"); err == nil {
		t.Fatal("expected error publishing for unknown author")
	}
}
