// Package transport abstracts the byte channels envelopes travel over.
//
// A Transport delivers whole frames: one Send puts one frame on the air
// and one Receive returns one frame. Retry, backoff and duty-cycle policy
// belong to the caller; adapters never retry on their own.
package transport

import "time"

type TimeoutError struct{}

func (e *TimeoutError) Error() string {
	return "timeout"
}

// IsTimeout reports whether err is a receive poll that ran out of time
// rather than a transport failure. A timeout is a normal poll result.
func IsTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}

type Transport interface {
	// Send transmits one frame. Errors are surfaced to the caller.
	Send(frame []byte) error

	// Receive waits up to timeout for the next frame. It returns
	// *TimeoutError when no frame arrives in time, so callers can
	// periodically do other work (e.g. send a beacon) without blocking
	// forever.
	Receive(timeout time.Duration) ([]byte, error)

	// Close releases the underlying channel.
	Close() error
}
