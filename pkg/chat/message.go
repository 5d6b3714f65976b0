// Package chat implements the crisis chat session layer on top of the
// envelope protocol: a public message board where every participant on a
// channel sees every broadcast.
package chat

import (
	"bytes"
	"errors"
)

// Chat payload layout, shared with the microcontroller nodes:
//
//	channel[20] || username[20] || text
//
// Channel and username are NUL-padded fixed-width fields so a receiver
// can split the payload without a delimiter scan; text is free-form
// UTF-8. With the 6-byte envelope header this keeps a full chat frame
// within a single radio transmission.
const (
	FieldSize      = 20
	payloadMinSize = 2 * FieldSize

	// MaxTextSize keeps the air time of a single message low.
	MaxTextSize = 207
)

var (
	ErrNotChatPayload = errors.New("chat: payload shorter than chat header")
	ErrTextTooLong    = errors.New("chat: text exceeds maximum size")
)

type Message struct {
	Channel  string
	Username string
	Text     string
}

// EncodePayload serializes the message as an envelope payload.
// Channel and username are truncated to the fixed field width.
func (m *Message) EncodePayload() ([]byte, error) {
	if len(m.Text) > MaxTextSize {
		return nil, ErrTextTooLong
	}

	payload := make([]byte, payloadMinSize+len(m.Text))
	copy(payload[0:FieldSize], m.Channel)
	copy(payload[FieldSize:payloadMinSize], m.Username)
	copy(payload[payloadMinSize:], m.Text)

	return payload, nil
}

// DecodePayload parses an envelope payload as a chat message. Payloads
// shorter than the two fixed fields are not chat messages (they may still
// be valid envelopes, e.g. heartbeats).
func DecodePayload(payload []byte) (*Message, error) {
	if len(payload) < payloadMinSize {
		return nil, ErrNotChatPayload
	}

	return &Message{
		Channel:  trimField(payload[0:FieldSize]),
		Username: trimField(payload[FieldSize:payloadMinSize]),
		Text:     string(payload[payloadMinSize:]),
	}, nil
}

func trimField(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
