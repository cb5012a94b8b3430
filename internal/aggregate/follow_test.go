package aggregate

import (
	"testing"

	"github.com/nivenhub/timelinecore/internal/shared/types"
)

func TestFollowStartAndEnd(t *testing.T) {
	follower := types.NewUserId()
	followee := types.NewUserId()
	f := NewFollowRelationship(types.NewRelationshipId())

	if err := f.Start(follower, followee); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !f.Active() {
		t.Fatal("expected active after start")
	}

	if err := f.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if f.Active() {
		t.Fatal("expected inactive after end")
	}
}

func TestFollowSelfFollowRejected(t *testing.T) {
	user := types.NewUserId()
	f := NewFollowRelationship(types.NewRelationshipId())
	if err := f.Start(user, user); err != ErrSelfFollow {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestFollowEndWithoutStartFails(t *testing.T) {
	f := NewFollowRelationship(types.NewRelationshipId())
	if err := f.End(); err != ErrNotActive {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}
}

func TestFollowStartTwiceFails(t *testing.T) {
	f := NewFollowRelationship(types.NewRelationshipId())
	if err := f.Start(types.NewUserId(), types.NewUserId()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.Start(types.NewUserId(), types.NewUserId()); err != ErrAlreadyStarted {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestRehydrateFollowRelationshipEmptyStreamFails(t *testing.T) {
	if _, err := RehydrateFollowRelationship(types.NewRelationshipId(), nil); err != ErrEmptyStream {
		t.Fatalf("expected ErrEmptyStream, got %v", err)
	}
}
