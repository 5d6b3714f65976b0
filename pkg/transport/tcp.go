package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gerontec/lorachat/pkg/envelope"
)

// tcpBodyTimeout bounds the read of a frame body once its length header
// has arrived. The remainder of a started frame follows immediately, so a
// stall here means the connection is broken, not an idle link.
const tcpBodyTimeout = 5 * time.Second

// TCP is a Transport over a single TCP connection to a gateway. The
// stream is segmented into frames with a 2-byte big-endian length prefix,
// since TCP itself has no frame boundaries.
type TCP struct {
	conn net.Conn
}

func DialTCP(addr string) (*TCP, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &TCP{conn: conn}, nil
}

// NewTCP wraps an already established connection, e.g. one accepted by a
// gateway listener.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{conn: conn}
}

func (t *TCP) Send(frame []byte) error {
	if len(frame) > envelope.MaxFrameSize {
		return fmt.Errorf("tcp: frame of %d bytes exceeds maximum size", len(frame))
	}

	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(len(frame)))

	if _, err := t.conn.Write(hdr[:]); err != nil {
		return err
	}

	_, err := t.conn.Write(frame)
	return err
}

func (t *TCP) Receive(timeout time.Duration) ([]byte, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}

	var hdr [2]byte
	if _, err := io.ReadFull(t.conn, hdr[:]); err != nil {
		if isDeadline(err) {
			return nil, &TimeoutError{}
		}
		return nil, err
	}

	sz := int(binary.BigEndian.Uint16(hdr[:]))
	if sz > envelope.MaxFrameSize {
		return nil, fmt.Errorf("tcp: frame of %d bytes exceeds maximum size", sz)
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(tcpBodyTimeout)); err != nil {
		return nil, err
	}

	frame := make([]byte, sz)
	if _, err := io.ReadFull(t.conn, frame); err != nil {
		return nil, err
	}

	return frame, nil
}

func (t *TCP) Close() error {
	return t.conn.Close()
}

func isDeadline(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}
