package node

import (
	"github.com/gerontec/lorachat/pkg/envelope"
	"github.com/gerontec/lorachat/pkg/types"
)

// Disposition is the filter pipeline's verdict on a received frame.
type Disposition int

const (
	Accept Disposition = iota
	DropMalformed
	DropEcho
	DropForeignNet
	DropNotForUs
)

func (d Disposition) String() string {
	switch d {
	case Accept:
		return "accept"
	case DropMalformed:
		return "malformed"
	case DropEcho:
		return "echo"
	case DropForeignNet:
		return "foreign network"
	case DropNotForUs:
		return "not for us"
	}
	return "unknown"
}

// Filter decides the disposition of raw frames for a node with a known
// network id and address.
type Filter struct {
	networkID types.NetID
	address   types.Address
	history   *SentHistory
}

func NewFilter(networkID types.NetID, address types.Address, history *SentHistory) *Filter {
	return &Filter{
		networkID: networkID,
		address:   address,
		history:   history,
	}
}

// Evaluate applies the filter rules in order; the first matching rule
// wins. The backhaul check runs before decoding because it compares the
// exact raw bytes that were transmitted, not the parsed fields.
func (f *Filter) Evaluate(frame []byte) (*envelope.Envelope, Disposition) {
	if f.history.Contains(frame) {
		return nil, DropEcho
	}

	env, err := envelope.Decode(frame)
	if err != nil {
		return nil, DropMalformed
	}

	if env.NetworkID != f.networkID {
		return nil, DropForeignNet
	}

	if env.Destination != f.address && !env.IsBroadcast() {
		return nil, DropNotForUs
	}

	return env, Accept
}
