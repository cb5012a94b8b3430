package eventlog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

// kindByte maps a Kind to the uint8 tag of the persisted event record.
var kindByte = map[Kind]uint8{
	UserRegistered: 0,
	PostPublished:  1,
	PostRetracted:  2,
	FollowStarted:  3,
	FollowEnded:    4,
}

var byteKind = map[uint8]Kind{
	0: UserRegistered,
	1: PostPublished,
	2: PostRetracted,
	3: FollowStarted,
	4: FollowEnded,
}

// EncodeWire serializes an Event to the bit-exact persisted record layout:
// header (eventId:16B, aggregateId:16B, version:uint64, kind:uint8,
// occurredAt:int64-ns-unix) followed by a kind-specific body with
// length-prefixed (uint16) variable-length strings.
func EncodeWire(e Event) ([]byte, error) {
	kb, ok := kindByte[e.Kind]
	if !ok {
		return nil, fmt.Errorf("eventlog: unknown event kind %q", e.Kind)
	}

	aggUUID, err := uuid.Parse(string(e.AggregateId))
	if err != nil {
		return nil, fmt.Errorf("eventlog: aggregate id is not a uuid: %w", err)
	}

	buf := &bytes.Buffer{}
	buf.Write(e.EventId[:])
	buf.Write(aggUUID[:])
	binary.Write(buf, binary.BigEndian, uint64(e.Version))
	buf.WriteByte(kb)
	binary.Write(buf, binary.BigEndian, e.OccurredAt.UnixNano())

	switch e.Kind {
	case UserRegistered:
		writeString(buf, string(e.UserRegisteredBody.Username))
	case PostPublished:
		authorUUID, err := uuid.Parse(string(e.PostPublishedBody.AuthorId))
		if err != nil {
			return nil, fmt.Errorf("eventlog: author id is not a uuid: %w", err)
		}
		buf.Write(authorUUID[:])
		writeString(buf, string(e.PostPublishedBody.Body))
		binary.Write(buf, binary.BigEndian, e.PostPublishedBody.PublishedAt.UnixNano())
	case PostRetracted:
		// empty body
	case FollowStarted:
		if err := writeUUIDPair(buf, string(e.FollowStartedBody.FollowerId), string(e.FollowStartedBody.FolloweeId)); err != nil {
			return nil, err
		}
	case FollowEnded:
		if err := writeUUIDPair(buf, string(e.FollowEndedBody.FollowerId), string(e.FollowEndedBody.FolloweeId)); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// DecodeWire parses the bit-exact persisted record layout back into an Event.
func DecodeWire(data []byte) (Event, error) {
	r := bytes.NewReader(data)
	var e Event

	var eventId [16]byte
	if _, err := r.Read(eventId[:]); err != nil {
		return Event{}, fmt.Errorf("eventlog: short header: %w", err)
	}
	e.EventId = uuid.UUID(eventId)

	var aggId [16]byte
	if _, err := r.Read(aggId[:]); err != nil {
		return Event{}, fmt.Errorf("eventlog: short header: %w", err)
	}
	e.AggregateId = AggregateId(uuid.UUID(aggId).String())

	var version uint64
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return Event{}, err
	}
	e.Version = int(version)

	kb, err := r.ReadByte()
	if err != nil {
		return Event{}, err
	}
	kind, ok := byteKind[kb]
	if !ok {
		return Event{}, fmt.Errorf("eventlog: unknown kind tag %d", kb)
	}
	e.Kind = kind

	var occurredAtNs int64
	if err := binary.Read(r, binary.BigEndian, &occurredAtNs); err != nil {
		return Event{}, err
	}
	e.OccurredAt = time.Unix(0, occurredAtNs).UTC()

	switch kind {
	case UserRegistered:
		username, err := readString(r)
		if err != nil {
			return Event{}, err
		}
		e.UserRegisteredBody = &UserRegisteredBody{Username: types.Username(username)}
	case PostPublished:
		var authorId [16]byte
		if _, err := r.Read(authorId[:]); err != nil {
			return Event{}, err
		}
		body, err := readString(r)
		if err != nil {
			return Event{}, err
		}
		var publishedAtNs int64
		if err := binary.Read(r, binary.BigEndian, &publishedAtNs); err != nil {
			return Event{}, err
		}
		e.PostPublishedBody = &PostPublishedBody{
			AuthorId:    types.UserId(uuid.UUID(authorId).String()),
			Body:        types.PostBody(body),
			PublishedAt: time.Unix(0, publishedAtNs).UTC(),
		}
	case PostRetracted:
		e.PostRetractedBody = &PostRetractedBody{}
	case FollowStarted:
		follower, followee, err := readUUIDPair(r)
		if err != nil {
			return Event{}, err
		}
		e.FollowStartedBody = &FollowStartedBody{FollowerId: types.UserId(follower), FolloweeId: types.UserId(followee)}
	case FollowEnded:
		follower, followee, err := readUUIDPair(r)
		if err != nil {
			return Event{}, err
		}
		e.FollowEndedBody = &FollowEndedBody{FollowerId: types.UserId(follower), FolloweeId: types.UserId(followee)}
	}

	return e, nil
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.BigEndian, uint16(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func writeUUIDPair(buf *bytes.Buffer, a, b string) error {
	au, err := uuid.Parse(a)
	if err != nil {
		return fmt.Errorf("eventlog: id is not a uuid: %w", err)
	}
	bu, err := uuid.Parse(b)
	if err != nil {
		return fmt.Errorf("eventlog: id is not a uuid: %w", err)
	}
	buf.Write(au[:])
	buf.Write(bu[:])
	return nil
}

func readUUIDPair(r *bytes.Reader) (string, string, error) {
	var a, b [16]byte
	if _, err := r.Read(a[:]); err != nil {
		return "", "", err
	}
	if _, err := r.Read(b[:]); err != nil {
		return "", "", err
	}
	return uuid.UUID(a).String(), uuid.UUID(b).String(), nil
}
