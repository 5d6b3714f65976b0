package envelope

import (
	"bytes"
	"testing"

	"github.com/gerontec/lorachat/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKnownFrame(t *testing.T) {
	env := Envelope{
		NetworkID:   0x0034,
		Source:      0x1001,
		Destination: Broadcast,
		Payload:     []byte("Hello"),
	}

	frame, err := env.Encode()
	require.NoError(t, err)

	expected := []byte{0x00, 0x34, 0x10, 0x01, 0xFF, 0xFF, 0x48, 0x65, 0x6C, 0x6C, 0x6F}
	assert.Equal(t, expected, frame)
}

func TestDecodeKnownFrame(t *testing.T) {
	frame := []byte{0x00, 0x34, 0x10, 0x01, 0xFF, 0xFF, 0x48, 0x65, 0x6C, 0x6C, 0x6F}

	env, err := Decode(frame)
	require.NoError(t, err)

	assert.Equal(t, types.NetID(0x0034), env.NetworkID)
	assert.Equal(t, types.Address(0x1001), env.Source)
	assert.Equal(t, Broadcast, env.Destination)
	assert.Equal(t, []byte("Hello"), env.Payload)
	assert.True(t, env.IsBroadcast())
}

func TestRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		{},
		[]byte("Status OK"),
		{0x00, 0xFF, 0x7D, 0xAA, 0x00},
		bytes.Repeat([]byte{0x42}, MaxPayloadSize),
	}

	for _, payload := range payloads {
		env := Envelope{
			NetworkID:   0x0012,
			Source:      0x03E8,
			Destination: 0x2001,
			Payload:     payload,
		}

		frame, err := env.Encode()
		require.NoError(t, err)

		decoded, err := Decode(frame)
		require.NoError(t, err)

		assert.Equal(t, env.NetworkID, decoded.NetworkID)
		assert.Equal(t, env.Source, decoded.Source)
		assert.Equal(t, env.Destination, decoded.Destination)
		assert.Equal(t, len(payload), len(decoded.Payload))
		assert.True(t, bytes.Equal(payload, decoded.Payload))
	}
}

func TestDecodeShortFrame(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		_, err := Decode(make([]byte, n))
		assert.ErrorIs(t, err, ErrFrameTooShort, "frame of %d bytes", n)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	// A bare header is a valid heartbeat.
	env, err := Decode([]byte{0x00, 0x34, 0x10, 0x01, 0x10, 0x02})
	require.NoError(t, err)
	assert.Empty(t, env.Payload)
	assert.False(t, env.IsBroadcast())
}

func TestEncodePayloadTooLarge(t *testing.T) {
	env := Envelope{
		NetworkID:   0x0034,
		Source:      0x1001,
		Destination: Broadcast,
		Payload:     bytes.Repeat([]byte{0x00}, MaxPayloadSize+1),
	}

	_, err := env.Encode()
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodeCopiesPayload(t *testing.T) {
	frame := []byte{0x00, 0x34, 0x10, 0x01, 0xFF, 0xFF, 0x41}

	env, err := Decode(frame)
	require.NoError(t, err)

	frame[6] = 0x42
	assert.Equal(t, []byte{0x41}, env.Payload)
}
