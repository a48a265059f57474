package api

import (
	"errors"
	"fmt"
)

// Kind classifies why a call failed so each screen can decide how to react.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindUnauthorized
	KindServer
	KindDecode
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

// Error is returned by every Client method on failure.
type Error struct {
	Op      string // login, fetch_todos, ...
	Kind    Kind
	Status  int    // HTTP status, 0 when no response was read
	Message string // server detail when present
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of an *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsUnauthorized reports whether the server rejected the credentials or token.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
