package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
	ErrValidation     = errors.New("validation error")
)

// Code values for the named error kinds spec.md §7 groups by category.
// Handlers map 1:1 onto these so callers can discriminate programmatically
// instead of pattern-matching on Message.
const (
	CodeInvalidUsername = "INVALID_USERNAME"
	CodeInvalidBody     = "INVALID_BODY"
	CodeSelfFollow      = "SELF_FOLLOW"

	CodeUserNotFound         = "USER_NOT_FOUND"
	CodePostNotFound         = "POST_NOT_FOUND"
	CodeRelationshipNotFound = "RELATIONSHIP_NOT_FOUND"

	CodeUsernameTaken    = "USERNAME_TAKEN"
	CodeAlreadyFollowing = "ALREADY_FOLLOWING"
	CodeNotFollowing     = "NOT_FOLLOWING"
	CodeAlreadyRetracted = "ALREADY_RETRACTED"
	CodeVersionConflict  = "VERSION_CONFLICT"
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	HTTPStatus int               `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a not found error
func NotFound(resource string, id string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Code:       "NOT_FOUND",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]string{"resource": resource, "id": id},
	}
}

// UserNotFound is spec.md §7's UserNotFound kind.
func UserNotFound(userId string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    "user not found",
		Code:       CodeUserNotFound,
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]string{"userId": userId},
	}
}

// PostNotFound is spec.md §7's PostNotFound kind.
func PostNotFound(postId string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    "post not found",
		Code:       CodePostNotFound,
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]string{"postId": postId},
	}
}

// RelationshipNotFound is spec.md §7's RelationshipNotFound kind.
func RelationshipNotFound(relationshipId string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    "relationship not found",
		Code:       CodeRelationshipNotFound,
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]string{"relationshipId": relationshipId},
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Message:    message,
		Code:       "FORBIDDEN",
		HTTPStatus: http.StatusForbidden,
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Message:    message,
		Code:       "BAD_REQUEST",
		HTTPStatus: http.StatusBadRequest,
	}
}

// Validation creates a validation error with field details
func Validation(message string, details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// InvalidUsername is spec.md §7's InvalidUsername kind.
func InvalidUsername(reason string, username string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    reason,
		Code:       CodeInvalidUsername,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]string{"username": username},
	}
}

// InvalidBody is spec.md §7's InvalidBody kind.
func InvalidBody(reason string, body string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    reason,
		Code:       CodeInvalidBody,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]string{"body": body},
	}
}

// SelfFollow is spec.md §7's SelfFollow kind.
func SelfFollow() *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    "cannot follow self",
		Code:       CodeSelfFollow,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    message,
		Code:       "CONFLICT",
		HTTPStatus: http.StatusConflict,
	}
}

// UsernameTaken is spec.md §7's UsernameTaken kind (Conflict group, 409).
func UsernameTaken(username string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    "username already taken",
		Code:       CodeUsernameTaken,
		HTTPStatus: http.StatusConflict,
		Details:    map[string]string{"username": username},
	}
}

// AlreadyFollowing is spec.md §7's AlreadyFollowing kind (Conflict group, 409).
func AlreadyFollowing() *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    "already following",
		Code:       CodeAlreadyFollowing,
		HTTPStatus: http.StatusConflict,
	}
}

// NotFollowing is spec.md §7's NotFollowing kind. It belongs to the
// Conflict group (409, "caller may retry after refreshing"), not
// Not-found: the follower and followee both exist, there is simply no
// active relationship between them right now.
func NotFollowing() *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    "not currently following",
		Code:       CodeNotFollowing,
		HTTPStatus: http.StatusConflict,
	}
}

// AlreadyRetracted is spec.md §7's AlreadyRetracted kind (Conflict group, 409).
func AlreadyRetracted() *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    "post already retracted",
		Code:       CodeAlreadyRetracted,
		HTTPStatus: http.StatusConflict,
	}
}

// VersionConflict is spec.md §7's VersionConflict kind (Conflict group, 409).
func VersionConflict() *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    "aggregate was modified concurrently",
		Code:       CodeVersionConflict,
		HTTPStatus: http.StatusConflict,
	}
}

// Internal creates an internal error
func Internal(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "internal server error",
		Code:       "INTERNAL_ERROR",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "INTERNAL_ERROR",
		HTTPStatus: http.StatusInternalServerError,
	}
}
