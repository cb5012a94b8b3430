package aggregate

import (
	"time"

	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// Post is the write-model aggregate for a single post. State machine:
// Draft (implicit) -> Published -> Retracted (terminal).
type Post struct {
	uncommitted

	id          types.PostId
	authorId    types.UserId
	body        types.PostBody
	publishedAt time.Time
	retracted   bool
}

// NewPost creates a transient Post aggregate ready to decide Publish.
func NewPost(id types.PostId) *Post {
	return &Post{id: id}
}

// RehydratePost rebuilds a Post by replaying its event stream in version
// order. Fails with ErrEmptyStream if events is empty or its first event
// is not PostPublished.
func RehydratePost(id types.PostId, events []eventlog.Event) (*Post, error) {
	if len(events) == 0 || events[0].Kind != eventlog.PostPublished {
		return nil, ErrEmptyStream
	}

	p := &Post{id: id}
	for _, e := range events {
		switch e.Kind {
		case eventlog.PostPublished:
			p.authorId = e.PostPublishedBody.AuthorId
			p.body = e.PostPublishedBody.Body
			p.publishedAt = e.PostPublishedBody.PublishedAt
		case eventlog.PostRetracted:
			p.retracted = true
		}
	}
	p.committedVersion = len(events)
	return p, nil
}

func (p *Post) Id() types.PostId          { return p.id }
func (p *Post) AuthorId() types.UserId    { return p.authorId }
func (p *Post) Body() types.PostBody      { return p.body }
func (p *Post) PublishedAt() time.Time    { return p.publishedAt }
func (p *Post) Retracted() bool           { return p.retracted }
func (p *Post) Version() int              { return p.version() }

// Publish emits PostPublished. Only valid on an aggregate rehydrated from
// an empty stream.
func (p *Post) Publish(authorId types.UserId, body types.PostBody) error {
	if p.version() != 0 {
		return ErrAlreadyPublished
	}
	e := eventlog.NewPostPublished(eventlog.AggregateId(p.id), p.nextVersion(), authorId, body)
	p.authorId = authorId
	p.body = body
	p.publishedAt = e.PostPublishedBody.PublishedAt
	p.record(e)
	return nil
}

// Retract emits PostRetracted if the post is not already retracted.
func (p *Post) Retract() error {
	if p.retracted {
		return ErrAlreadyRetracted
	}
	e := eventlog.NewPostRetracted(eventlog.AggregateId(p.id), p.nextVersion())
	p.retracted = true
	p.record(e)
	return nil
}
