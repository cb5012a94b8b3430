package projector

import "github.com/nivenhub/timelinecore/internal/eventlog"

// Observer is the optional hook a caller may attach to watch projection as
// it happens. It is not on the critical path: a nil or no-op Observer must
// never change projection outcomes, only report on them.
type Observer interface {
	ObserveProjected(e eventlog.Event)
	ObserveFanout(authorId string, followerCount int)
	ObserveCelebritySkip(authorId string)
}

// NoopObserver discards every observation. It is the projector's default.
type NoopObserver struct{}

func (NoopObserver) ObserveProjected(e eventlog.Event)              {}
func (NoopObserver) ObserveFanout(authorId string, followerCount int) {}
func (NoopObserver) ObserveCelebritySkip(authorId string)           {}

var _ Observer = NoopObserver{}
