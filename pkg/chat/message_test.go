package chat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		Channel:  "emergency",
		Username: "Alice",
		Text:     "Need water at the bridge",
	}

	payload, err := msg.EncodePayload()
	require.NoError(t, err)
	assert.Equal(t, 2*FieldSize+len(msg.Text), len(payload))

	decoded, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, msg, *decoded)
}

func TestMessageFieldPadding(t *testing.T) {
	msg := Message{Channel: "status", Username: "Node1", Text: "ok"}

	payload, err := msg.EncodePayload()
	require.NoError(t, err)

	// Fixed fields are NUL padded to their full width
	assert.Equal(t, []byte("status"), payload[0:6])
	assert.Equal(t, bytes.Repeat([]byte{0x00}, FieldSize-6), payload[6:FieldSize])
	assert.Equal(t, []byte("Node1"), payload[FieldSize:FieldSize+5])
}

func TestMessageFieldTruncation(t *testing.T) {
	msg := Message{
		Channel:  strings.Repeat("c", FieldSize+5),
		Username: strings.Repeat("u", FieldSize+5),
		Text:     "hi",
	}

	payload, err := msg.EncodePayload()
	require.NoError(t, err)

	decoded, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("c", FieldSize), decoded.Channel)
	assert.Equal(t, strings.Repeat("u", FieldSize), decoded.Username)
}

func TestMessageEmptyText(t *testing.T) {
	msg := Message{Channel: "emergency", Username: "Bob"}

	payload, err := msg.EncodePayload()
	require.NoError(t, err)
	assert.Equal(t, 2*FieldSize, len(payload))

	decoded, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Empty(t, decoded.Text)
}

func TestMessageTextTooLong(t *testing.T) {
	msg := Message{
		Channel:  "emergency",
		Username: "Bob",
		Text:     strings.Repeat("x", MaxTextSize+1),
	}

	_, err := msg.EncodePayload()
	assert.ErrorIs(t, err, ErrTextTooLong)
}

func TestDecodeNonChatPayload(t *testing.T) {
	for _, payload := range [][]byte{nil, {}, []byte("short"), make([]byte, 2*FieldSize-1)} {
		_, err := DecodePayload(payload)
		assert.ErrorIs(t, err, ErrNotChatPayload)
	}
}

func TestMessageTextMayContainDelimiters(t *testing.T) {
	// Arbitrary bytes are valid text, including the old pipe delimiter
	msg := Message{Channel: "emergency", Username: "Eve", Text: "a|b|c"}

	payload, err := msg.EncodePayload()
	require.NoError(t, err)

	decoded, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "a|b|c", decoded.Text)
}
