package aggregate

import (
	"testing"

	"github.com/nivenhub/timelinecore/internal/shared/types"
)

func TestUserRegister(t *testing.T) {
	id := types.NewUserId()
	u := NewUser(id)

	if err := u.Register(types.Username("alice")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Username() != types.Username("alice") {
		t.Fatalf("unexpected username: %v", u.Username())
	}
	if u.Version() != 1 {
		t.Fatalf("expected version 1, got %d", u.Version())
	}

	events := u.Drain()
	if len(events) != 1 {
		t.Fatalf("expected 1 drained event, got %d", len(events))
	}
	if u.Version() != 1 {
		t.Fatalf("version should survive drain, got %d", u.Version())
	}
}

func TestUserRegisterTwiceFails(t *testing.T) {
	u := NewUser(types.NewUserId())
	if err := u.Register(types.Username("alice")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := u.Register(types.Username("alice2")); err != ErrAlreadyRegistered {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRehydrateUserEmptyStreamFails(t *testing.T) {
	_, err := RehydrateUser(types.NewUserId(), nil)
	if err != ErrEmptyStream {
		t.Fatalf("expected ErrEmptyStream, got %v", err)
	}
}

func TestRehydrateUserRestoresState(t *testing.T) {
	id := types.NewUserId()
	u := NewUser(id)
	if err := u.Register(types.Username("alice")); err != nil {
		t.Fatalf("register: %v", err)
	}
	events := u.Drain()

	rehydrated, err := RehydrateUser(id, events)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if rehydrated.Username() != types.Username("alice") {
		t.Fatalf("unexpected username after rehydrate: %v", rehydrated.Username())
	}
	if rehydrated.Version() != 1 {
		t.Fatalf("expected version 1 after rehydrate, got %d", rehydrated.Version())
	}
}
