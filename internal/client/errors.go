package client

import (
	"errors"
	"fmt"
)

// NetworkError means the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError means the response body was not the expected JSON or HTML.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message carries the server's "error"
// field when the body had one.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
}

// ErrInvalidName is returned for source or subreddit names that cannot be
// sent as a single path segment or query value.
var ErrInvalidName = errors.New("invalid name")

// InputError means the request was not sent because an argument was invalid.
type InputError struct {
	Op  string
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
