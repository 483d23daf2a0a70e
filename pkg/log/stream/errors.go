// SPDX-License-Identifier: GPL-3.0-only
package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload marks an event whose data is not a log entry.
	ErrMalformedPayload = errors.New("malformed log payload")
	// ErrStreamEnded is reported when the server closes the feed.
	ErrStreamEnded = errors.New("stream closed by server")
)

// TransportError is reported each time a connection fails or drops. The
// subscriber keeps retrying after it.
type TransportError struct {
	Attempt int
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("stream connection failed (attempt %d): %v", e.Attempt, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
