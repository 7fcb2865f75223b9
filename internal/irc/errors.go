package irc

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownDialect marks a line that matches neither server dialect.
// It is recorded on the Message, never returned to the read loop.
var ErrUnknownDialect = errors.New("line matches neither server dialect")

// StateError reports an operation that is invalid in the current channel
// state. No transport side effect occurs when one is returned.
type StateError struct {
	Op      string
	Channel string
	Reason  string
}

func (e *StateError) Error() string {
	if e.Channel == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s #%s: %s", e.Op, e.Channel, e.Reason)
}

// TransportError wraps a connection-level failure. It is fatal to the
// session and is not retried automatically.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolTimeoutError reports a join that was never confirmed within the
// timeout window. The channel is left in the Abandoned state.
type ProtocolTimeoutError struct {
	Channel string
	Timeout time.Duration
}

func (e *ProtocolTimeoutError) Error() string {
	return fmt.Sprintf("join #%s: no confirmation within %s", e.Channel, e.Timeout)
}
