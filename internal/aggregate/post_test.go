package aggregate

import (
	"testing"

	"github.com/nivenhub/timelinecore/internal/shared/types"
)

func TestPostPublishAndRetract(t *testing.T) {
	id := types.NewPostId()
	authorId := types.NewUserId()
	p := NewPost(id)

	body, err := types.ParsePostBody("hello world")
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}

	if err := p.Publish(authorId, body); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if p.Retracted() {
		t.Fatal("should not be retracted yet")
	}

	if err := p.Retract(); err != nil {
		t.Fatalf("retract: %v", err)
	}
	if !p.Retracted() {
		t.Fatal("expected retracted")
	}
	if p.Version() != 2 {
		t.Fatalf("expected version 2, got %d", p.Version())
	}
}

func TestPostPublishTwiceFails(t *testing.T) {
	p := NewPost(types.NewPostId())
	body, _ := types.ParsePostBody("hello")
	if err := p.Publish(types.NewUserId(), body); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Publish(types.NewUserId(), body); err != ErrAlreadyPublished {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}
}

func TestPostRetractTwiceFails(t *testing.T) {
	p := NewPost(types.NewPostId())
	body, _ := types.ParsePostBody("hello")
	if err := p.Publish(types.NewUserId(), body); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Retract(); err != nil {
		t.Fatalf("first retract: %v", err)
	}
	if err := p.Retract(); err != ErrAlreadyRetracted {
		t.Fatalf("expected ErrAlreadyRetracted, got %v", err)
	}
}

func TestRehydratePostEmptyStreamFails(t *testing.T) {
	if _, err := RehydratePost(types.NewPostId(), nil); err != ErrEmptyStream {
		t.Fatalf("expected ErrEmptyStream, got %v", err)
	}
}
