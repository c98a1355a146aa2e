// Package service implements the sync engine: remote-first reads with a
// tagged local fallback, remote-first writes that queue failed mutations in
// the backup log, and a replay pass that drains the log in enqueue order.
//
// Services hold no persistent state of their own; they compose the gateway,
// the entity stores and the backup log.
package service

import "fmt"

// FallbackError tags a result served from the local store after a remote
// call failed. It is not a pure error: the returned data is usable but may
// be stale, and the wrapped error says why. Callers distinguish it from a
// clean success with errors.As.
type FallbackError struct {
	Err error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("serving local data, remote call failed: %v", e.Err)
}

func (e *FallbackError) Unwrap() error { return e.Err }
