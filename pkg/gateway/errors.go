package gateway

import (
	"errors"
	"fmt"
)

// ErrUnreachable wraps transport-level failures (connection refused, DNS,
// timeouts). A timed-out call is treated like any other remote failure.
var ErrUnreachable = errors.New("remote unreachable")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned status %d: %s", e.Code, e.Body)
}

// DecodeError is a 2xx response whose body could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode remote response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
