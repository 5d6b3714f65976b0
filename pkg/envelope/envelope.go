// Package envelope implements the fixed-header wire format shared by all
// nodes on a channel.
//
// Frame layout:
//
//	Offset  Size  Field
//	0       2     network id (big endian)
//	2       2     source address (big endian)
//	4       2     destination address (big endian); 0xFFFF = broadcast
//	6       N     payload
//
// The header is big endian so that microcontroller nodes and server-side
// tools agree on byte order without negotiation. There is no length
// prefix: the radio links in scope deliver whole frames.
package envelope

import (
	"encoding/binary"
	"errors"

	"github.com/gerontec/lorachat/pkg/types"
)

const (
	HeaderSize = 6

	// MaxFrameSize is the largest frame the radio links in scope can
	// carry in a single transmission.
	MaxFrameSize = 255

	MaxPayloadSize = MaxFrameSize - HeaderSize
)

// Broadcast is the reserved destination address accepted by every node
// on the matching network.
const Broadcast types.Address = 0xFFFF

var (
	ErrFrameTooShort   = errors.New("envelope: frame shorter than header")
	ErrPayloadTooLarge = errors.New("envelope: payload exceeds maximum frame size")
)

type Envelope struct {
	NetworkID   types.NetID
	Source      types.Address
	Destination types.Address
	Payload     []byte
}

func (e *Envelope) IsBroadcast() bool {
	return e.Destination == Broadcast
}

// Encode serializes the envelope as header followed by payload.
func (e *Envelope) Encode() ([]byte, error) {
	if len(e.Payload) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}

	frame := make([]byte, HeaderSize+len(e.Payload))
	binary.BigEndian.PutUint16(frame[0:2], uint16(e.NetworkID))
	binary.BigEndian.PutUint16(frame[2:4], uint16(e.Source))
	binary.BigEndian.PutUint16(frame[4:6], uint16(e.Destination))
	copy(frame[HeaderSize:], e.Payload)

	return frame, nil
}

// Decode parses a received frame. Frames shorter than the header are
// rejected whole; everything after the header is payload, and any byte
// sequence is a valid payload. A zero-length payload is legal (heartbeat).
func Decode(frame []byte) (*Envelope, error) {
	if len(frame) < HeaderSize {
		return nil, ErrFrameTooShort
	}

	payload := make([]byte, len(frame)-HeaderSize)
	copy(payload, frame[HeaderSize:])

	return &Envelope{
		NetworkID:   types.NetID(binary.BigEndian.Uint16(frame[0:2])),
		Source:      types.Address(binary.BigEndian.Uint16(frame[2:4])),
		Destination: types.Address(binary.BigEndian.Uint16(frame[4:6])),
		Payload:     payload,
	}, nil
}
