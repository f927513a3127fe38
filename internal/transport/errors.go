package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrWouldBlock is returned by Receive when a read deadline expires
	// without data arriving (spec.md §5).
	ErrWouldBlock = errors.New("transport: would block")

	// ErrNotConnected is returned by Send/Receive when called before a
	// successful Connect.
	ErrNotConnected = errors.New("transport: not connected")

	// ErrInvalidAddress is returned when an address string fails to parse
	// as IPv4:Port (spec.md §4.4).
	ErrInvalidAddress = errors.New("transport: invalid address")
)

// Error wraps a transport-layer failure with the operation that failed.
type Error struct {
	Op   string
	Addr string
	Err  error
}

func (e *Error) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("transport %s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
