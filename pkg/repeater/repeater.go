// Package repeater implements the store-nothing relay used to bridge a
// radio channel to a broker backhaul. Every frame arriving on one side is
// forwarded unmodified to the other side; frames the repeater forwarded
// recently are dropped so a pair of bridged repeaters cannot loop.
//
// The repeater does not decode envelopes. NetID and address filtering
// happen on the nodes; the relay stays an opaque byte forwarder.
package repeater

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gerontec/lorachat/pkg/node"
	"github.com/gerontec/lorachat/pkg/transport"
)

const receivePollInterval = 200 * time.Millisecond

type Repeater struct {
	radio    transport.Transport
	backhaul transport.Transport

	forwarded *node.SentHistory

	forwardedCount  atomic.Uint64
	suppressedCount atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(radio, backhaul transport.Transport, historySize int) *Repeater {
	return &Repeater{
		radio:     radio,
		backhaul:  backhaul,
		forwarded: node.NewSentHistory(historySize),
	}
}

// Start launches one pump per direction.
func (r *Repeater) Start() {
	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.pump(r.radio, r.backhaul, "radio")
	}()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.pump(r.backhaul, r.radio, "backhaul")
	}()
}

// Stop terminates both pumps and closes both transports.
func (r *Repeater) Stop() error {
	if r.cancel == nil {
		return nil
	}

	r.cancel()
	r.wg.Wait()

	err := r.radio.Close()
	if berr := r.backhaul.Close(); err == nil {
		err = berr
	}

	return err
}

// Forwarded returns the number of frames relayed so far.
func (r *Repeater) Forwarded() uint64 {
	return r.forwardedCount.Load()
}

// Suppressed returns the number of frames dropped by loop prevention.
func (r *Repeater) Suppressed() uint64 {
	return r.suppressedCount.Load()
}

func (r *Repeater) pump(from, to transport.Transport, side string) {
	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		frame, err := from.Receive(receivePollInterval)
		if err != nil {
			if transport.IsTimeout(err) {
				continue
			}

			log.Printf("repeater: %s receive: %s", side, err)
			continue
		}

		// Both pumps share the forwarded set, so a frame bounced back by
		// the far side is recognised regardless of direction.
		if r.forwarded.Contains(frame) {
			r.suppressedCount.Add(1)
			continue
		}

		r.forwarded.Remember(frame)

		if err := to.Send(frame); err != nil {
			log.Printf("repeater: forward from %s: %s", side, err)
			continue
		}

		r.forwardedCount.Add(1)
	}
}
