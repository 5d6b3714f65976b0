package transport

import (
	"fmt"
	"time"
)

// Loopback is an in-process Transport for tests. NewLoopbackPair returns
// two ends wired together: frames sent on one end are received on the
// other.
type Loopback struct {
	out chan<- []byte
	in  <-chan []byte
}

func NewLoopbackPair() (*Loopback, *Loopback) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)

	a := &Loopback{out: ab, in: ba}
	b := &Loopback{out: ba, in: ab}

	return a, b
}

func (l *Loopback) Send(frame []byte) error {
	f := make([]byte, len(frame))
	copy(f, frame)

	select {
	case l.out <- f:
		return nil
	default:
		return fmt.Errorf("loopback: peer buffer full")
	}
}

func (l *Loopback) Receive(timeout time.Duration) ([]byte, error) {
	select {
	case frame := <-l.in:
		return frame, nil
	case <-time.After(timeout):
		return nil, &TimeoutError{}
	}
}

func (l *Loopback) Close() error {
	return nil
}
