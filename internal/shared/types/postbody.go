package types

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// MaxPostBodyLength is the maximum length of a post body, measured in
// UTF-16 code units (spec: "code units").
const MaxPostBodyLength = 280

// ErrInvalidPostBody is returned by ParsePostBody when the input is empty
// after trimming or exceeds MaxPostBodyLength code units.
var ErrInvalidPostBody = fmt.Errorf("post body must be non-empty and at most %d code units", MaxPostBodyLength)

// PostBody is a validated post body, stored verbatim (untrimmed).
type PostBody string

// ParsePostBody validates s and returns it as a PostBody. The length check
// is applied to the original string (stored verbatim); emptiness is
// checked against the whitespace-trimmed form.
func ParsePostBody(s string) (PostBody, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrInvalidPostBody
	}
	if len(utf16.Encode([]rune(s))) > MaxPostBodyLength {
		return "", ErrInvalidPostBody
	}
	return PostBody(s), nil
}

func (b PostBody) String() string { return string(b) }
