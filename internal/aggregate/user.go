package aggregate

import (
	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// User is the write-model aggregate for a registered account. It has no
// further mutating events in the current core: once registered, a user's
// state never changes.
type User struct {
	uncommitted

	id       types.UserId
	username types.Username
}

// NewUser creates a transient User aggregate ready to decide Register.
func NewUser(id types.UserId) *User {
	return &User{id: id}
}

// RehydrateUser rebuilds a User by replaying its event stream in version
// order. Fails with ErrEmptyStream if events is empty or its first event
// is not UserRegistered.
func RehydrateUser(id types.UserId, events []eventlog.Event) (*User, error) {
	if len(events) == 0 || events[0].Kind != eventlog.UserRegistered {
		return nil, ErrEmptyStream
	}

	u := &User{id: id}
	for _, e := range events {
		switch e.Kind {
		case eventlog.UserRegistered:
			u.username = e.UserRegisteredBody.Username
		}
	}
	u.committedVersion = len(events)
	return u, nil
}

func (u *User) Id() types.UserId          { return u.id }
func (u *User) Username() types.Username  { return u.username }
func (u *User) Version() int              { return u.version() }

// Register emits UserRegistered. Only valid on an aggregate rehydrated
// from an empty stream (i.e. never decided before).
func (u *User) Register(username types.Username) error {
	if u.version() != 0 {
		return ErrAlreadyRegistered
	}
	e := eventlog.NewUserRegistered(eventlog.AggregateId(u.id), u.nextVersion(), username)
	u.username = username
	u.record(e)
	return nil
}
