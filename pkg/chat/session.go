package chat

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gerontec/lorachat/pkg/envelope"
	"github.com/gerontec/lorachat/pkg/node"
	"github.com/gerontec/lorachat/pkg/types"
)

// DefaultMinSendInterval is the shared-band duty cycle the field
// deployments operate under.
const DefaultMinSendInterval = 60 * time.Second

// DefaultBeaconText is broadcast by unattended nodes in beacon mode.
const DefaultBeaconText = "Status OK"

// DutyCycleError reports a send attempted before the minimum interval
// since the previous send has elapsed. The caller decides whether to wait
// or drop the message.
type DutyCycleError struct {
	Wait time.Duration
}

func (e *DutyCycleError) Error() string {
	return fmt.Sprintf("duty cycle: wait %s before sending", e.Wait.Round(time.Second))
}

// Session is one user's view of a channel. It stamps outgoing messages
// with the username and channel tag and enforces the minimum inter-send
// interval; the node underneath handles addressing and echo suppression.
type Session struct {
	username string
	channel  string
	node     *node.Node

	minSendInterval time.Duration

	mu       sync.Mutex
	lastSend time.Time
}

func NewSession(username, channel string, n *node.Node, minSendInterval time.Duration) *Session {
	if len(username) > FieldSize {
		username = username[:FieldSize]
	}
	if len(channel) > FieldSize {
		channel = channel[:FieldSize]
	}
	if minSendInterval < 0 {
		minSendInterval = 0
	}

	return &Session{
		username:        username,
		channel:         channel,
		node:            n,
		minSendInterval: minSendInterval,
	}
}

func (s *Session) Username() string {
	return s.username
}

func (s *Session) Channel() string {
	return s.channel
}

// SendText sends a chat message to the given destination address,
// enforcing the duty cycle gate.
func (s *Session) SendText(destination types.Address, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastSend.IsZero() {
		if wait := s.minSendInterval - time.Since(s.lastSend); wait > 0 {
			return &DutyCycleError{Wait: wait}
		}
	}

	msg := Message{
		Channel:  s.channel,
		Username: s.username,
		Text:     text,
	}

	payload, err := msg.EncodePayload()
	if err != nil {
		return err
	}

	if err := s.node.Send(destination, payload); err != nil {
		return err
	}

	s.lastSend = time.Now()

	return nil
}

// Broadcast sends a chat message to everyone on the channel.
func (s *Session) Broadcast(text string) error {
	return s.SendText(envelope.Broadcast, text)
}

// Receive waits for the next chat message on this session's channel.
// Envelopes whose payload is not a chat message and messages tagged for
// other channels are skipped. ctx bounds the wait.
func (s *Session) Receive(ctx context.Context) (*Message, *envelope.Envelope, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case env := <-s.node.Incoming:
			msg, err := DecodePayload(env.Payload)
			if err != nil {
				log.Printf("chat: ignoring %d-byte non-chat payload from %s", len(env.Payload), env.Source)
				continue
			}

			if msg.Channel != s.channel {
				continue
			}

			return msg, env, nil
		}
	}
}

// RunBeacon broadcasts a status message every interval until ctx is
// cancelled. Battery-powered nodes run this instead of the interactive
// loop; receiving continues on the node as usual.
func (s *Session) RunBeacon(ctx context.Context, interval time.Duration, text string) {
	if text == "" {
		text = DefaultBeaconText
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Broadcast(text); err != nil {
				log.Printf("beacon: %s", err)
			}
		}
	}
}
