package entities

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnrecognizedRevision is returned when a build carries a revision type this integration cannot read a hash from.
	ErrUnrecognizedRevision = errors.New("unrecognized revision type")
	// ErrOwnerNotFound is returned when a source owner name is not tracked.
	ErrOwnerNotFound = errors.New("source owner not found")
)

// ForgeRequestError is a failed call to the forge. StatusCode is 0 when the
// request never produced an HTTP response.
type ForgeRequestError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Err        error
}

func (e *ForgeRequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s failed: %s", e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.URL, e.StatusCode, e.Message)
}

func (e *ForgeRequestError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a forge 404.
func IsNotFound(err error) bool {
	var requestErr *ForgeRequestError
	if errors.As(err, &requestErr) {
		return requestErr.StatusCode == http.StatusNotFound
	}
	return false
}

// ConfigurationError is an invalid setting detected while loading the configuration.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
