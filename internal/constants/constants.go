package constants

import "time"

// Channel lifecycle timing constants
const (
	// JoinRetransmitInterval is how often an unconfirmed JOIN command is
	// re-sent. Retransmission is safe: the command is idempotent on the
	// server side.
	JoinRetransmitInterval = 500 * time.Millisecond

	// JoinConfirmPollInterval is how often the history tail is inspected
	// for a join confirmation.
	JoinConfirmPollInterval = 20 * time.Millisecond

	// JoinTimeout is how long a join may stay unconfirmed before it is
	// abandoned.
	JoinTimeout = 5 * time.Second

	// ConnectRetryDelay is how long a join issued before the transport is
	// connected is deferred before being retried.
	ConnectRetryDelay = 1 * time.Second
)

// JoinConfirmWindow is how many trailing history entries are inspected for
// a JOIN confirmation. The server emits a 3-line burst on a successful
// join, so a window of 3 tolerates ordering jitter within the burst.
const JoinConfirmWindow = 3
