package transport

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Bridge is a Transport over a pair of NATS subjects, used as the opaque
// backhaul channel between a repeater and remote nodes. Frames are
// published on one subject and received on another, so a bridge never
// sees its own frames come back from the broker.
type Bridge struct {
	conn       *nats.Conn
	sub        *nats.Subscription
	pubSubject string
	incoming   chan *nats.Msg
}

func DialBridge(url, pubSubject, subSubject string) (*Bridge, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	incoming := make(chan *nats.Msg, 64)

	sub, err := nc.ChanSubscribe(subSubject, incoming)
	if err != nil {
		nc.Close()
		return nil, err
	}

	return &Bridge{
		conn:       nc,
		sub:        sub,
		pubSubject: pubSubject,
		incoming:   incoming,
	}, nil
}

func (b *Bridge) Send(frame []byte) error {
	return b.conn.Publish(b.pubSubject, frame)
}

func (b *Bridge) Receive(timeout time.Duration) ([]byte, error) {
	select {
	case msg := <-b.incoming:
		return msg.Data, nil
	case <-time.After(timeout):
		return nil, &TimeoutError{}
	}
}

func (b *Bridge) Close() error {
	if err := b.sub.Unsubscribe(); err != nil {
		b.conn.Close()
		return err
	}

	b.conn.Close()
	return nil
}
