package assistant_errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ErrChatNotFound is the single domain error of the chat store. It matches ErrNotFound
// with errors.Is so transport layers can treat every absence the same way.
var ErrChatNotFound = fmt.Errorf("chat %w", ErrNotFound)

// IsNotFound reports whether err signals an absent record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
