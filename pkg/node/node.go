package node

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gerontec/lorachat/pkg/envelope"
	"github.com/gerontec/lorachat/pkg/transport"
	"github.com/gerontec/lorachat/pkg/types"
)

// receivePollInterval bounds each transport poll so Stop is honored
// promptly and timer-driven senders get a turn.
const receivePollInterval = 200 * time.Millisecond

// Stats is a snapshot of the node's frame counters.
type Stats struct {
	Transmitted uint64
	Received    uint64
	Filtered    uint64
}

// Node owns one transport and processes its frames sequentially, in the
// order the transport delivers them. Accepted envelopes appear on the
// Incoming channel.
type Node struct {
	networkID types.NetID
	address   types.Address

	tr      transport.Transport
	history *SentHistory
	filter  *Filter

	txCount       atomic.Uint64
	rxCount       atomic.Uint64
	filteredCount atomic.Uint64

	Incoming chan *envelope.Envelope
	Errors   chan error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(networkID types.NetID, address types.Address, tr transport.Transport, historySize int) *Node {
	history := NewSentHistory(historySize)

	return &Node{
		networkID: networkID,
		address:   address,
		tr:        tr,
		history:   history,
		filter:    NewFilter(networkID, address, history),
		Incoming:  make(chan *envelope.Envelope, 10),
		Errors:    make(chan error, 10),
	}
}

func (n *Node) NetworkID() types.NetID {
	return n.networkID
}

func (n *Node) Address() types.Address {
	return n.address
}

// Start launches the receive loop.
func (n *Node) Start() {
	n.ctx, n.cancel = context.WithCancel(context.Background())

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
	loop:
		for {
			select {
			case <-n.ctx.Done():
				break loop
			default:
			}

			frame, err := n.tr.Receive(receivePollInterval)
			if err != nil {
				if transport.IsTimeout(err) {
					// Normal poll result, keep listening
					continue
				}

				select {
				case n.Errors <- err:
				default:
				}
				continue
			}

			env, disposition := n.filter.Evaluate(frame)

			switch disposition {
			case Accept:
				n.rxCount.Add(1)
				select {
				case n.Incoming <- env:
				case <-n.ctx.Done():
					break loop
				}
			case DropMalformed:
				n.filteredCount.Add(1)
				log.Printf("node %s: dropping malformed %d-byte frame", n.address, len(frame))
			default:
				n.filteredCount.Add(1)
			}
		}
	}()
}

// Stop terminates the receive loop and closes the transport.
func (n *Node) Stop() error {
	if n.cancel == nil {
		return nil
	}

	n.cancel()
	n.wg.Wait()

	return n.tr.Close()
}

// Send encodes and transmits one envelope from this node. On success the
// raw frame is remembered so the repeater's echo of it is suppressed.
func (n *Node) Send(destination types.Address, payload []byte) error {
	env := &envelope.Envelope{
		NetworkID:   n.networkID,
		Source:      n.address,
		Destination: destination,
		Payload:     payload,
	}

	frame, err := env.Encode()
	if err != nil {
		return err
	}

	if err := n.tr.Send(frame); err != nil {
		return err
	}

	n.history.Remember(frame)
	n.txCount.Add(1)

	return nil
}

// Broadcast sends a payload to every node on the network.
func (n *Node) Broadcast(payload []byte) error {
	return n.Send(envelope.Broadcast, payload)
}

func (n *Node) Stats() Stats {
	return Stats{
		Transmitted: n.txCount.Load(),
		Received:    n.rxCount.Load(),
		Filtered:    n.filteredCount.Load(),
	}
}
