package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackPair(t *testing.T) {
	a, b := NewLoopbackPair()

	require.NoError(t, a.Send([]byte{0x00, 0x34, 0x10, 0x01, 0xFF, 0xFF}))

	frame, err := b.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x34, 0x10, 0x01, 0xFF, 0xFF}, frame)

	// Nothing travels back unless the peer sends.
	_, err = a.Receive(10 * time.Millisecond)
	assert.True(t, IsTimeout(err))
}

func TestLoopbackReceiveTimeout(t *testing.T) {
	a, _ := NewLoopbackPair()

	start := time.Now()
	_, err := a.Receive(20 * time.Millisecond)

	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLoopbackSendCopiesFrame(t *testing.T) {
	a, b := NewLoopbackPair()

	frame := []byte{0x01, 0x02, 0x03}
	require.NoError(t, a.Send(frame))
	frame[0] = 0xFF

	received, err := b.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, received)
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(&TimeoutError{}))
	assert.False(t, IsTimeout(nil))
	assert.False(t, IsTimeout(assert.AnError))
}
