package core

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by lookups that found nothing
var ErrNotFound = errors.New("not found")

// IsNotFoundError reports whether err wraps ErrNotFound or reads like a not-found error
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
