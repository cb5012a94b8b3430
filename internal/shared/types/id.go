// Package types provides the validated identifier and value types shared
// across the event log, aggregates, and read store.
package types

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// UserId identifies a User aggregate.
type UserId string

// PostId identifies a Post aggregate.
type PostId string

// RelationshipId identifies a FollowRelationship aggregate.
type RelationshipId string

// NewUserId generates a new random, negligible-collision-probability id.
func NewUserId() UserId { return UserId(uuid.New().String()) }

// NewPostId generates a new random, negligible-collision-probability id.
func NewPostId() PostId { return PostId(uuid.New().String()) }

// NewRelationshipId generates a new random, negligible-collision-probability id.
func NewRelationshipId() RelationshipId { return RelationshipId(uuid.New().String()) }

func (id UserId) String() string         { return string(id) }
func (id PostId) String() string         { return string(id) }
func (id RelationshipId) String() string { return string(id) }

func (id UserId) IsZero() bool         { return id == "" }
func (id PostId) IsZero() bool         { return id == "" }
func (id RelationshipId) IsZero() bool { return id == "" }

// Value implements driver.Valuer for the Postgres read-store substitution.
func (id UserId) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return string(id), nil
}

// Scan implements sql.Scanner for the Postgres read-store substitution.
func (id *UserId) Scan(value interface{}) error {
	v, err := scanString(value)
	if err != nil {
		return err
	}
	*id = UserId(v)
	return nil
}

func (id PostId) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return string(id), nil
}

func (id *PostId) Scan(value interface{}) error {
	v, err := scanString(value)
	if err != nil {
		return err
	}
	*id = PostId(v)
	return nil
}

func (id RelationshipId) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return string(id), nil
}

func (id *RelationshipId) Scan(value interface{}) error {
	v, err := scanString(value)
	if err != nil {
		return err
	}
	*id = RelationshipId(v)
	return nil
}

func scanString(value interface{}) (string, error) {
	if value == nil {
		return "", nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into id", value)
	}
}
