package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTCPPair(t *testing.T) (*TCP, *TCP) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	client, err := DialTCP(ln.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-accepted:
		server := NewTCP(conn)
		t.Cleanup(func() { server.Close() })
		return client, server
	case <-time.After(2 * time.Second):
		t.Fatal("no connection accepted")
		return nil, nil
	}
}

func TestTCPFraming(t *testing.T) {
	client, server := newTCPPair(t)

	// Two back-to-back frames stay separate despite the byte stream
	require.NoError(t, client.Send([]byte("first frame")))
	require.NoError(t, client.Send([]byte("second")))

	frame, err := server.Receive(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("first frame"), frame)

	frame, err = server.Receive(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), frame)
}

func TestTCPEmptyFrame(t *testing.T) {
	client, server := newTCPPair(t)

	require.NoError(t, client.Send(nil))

	frame, err := server.Receive(2 * time.Second)
	require.NoError(t, err)
	assert.Empty(t, frame)
}

func TestTCPReceiveTimeout(t *testing.T) {
	_, server := newTCPPair(t)

	_, err := server.Receive(50 * time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestTCPOversizedSendRejected(t *testing.T) {
	client, _ := newTCPPair(t)

	err := client.Send(make([]byte, 1024))
	assert.ErrorContains(t, err, "exceeds maximum size")
}
