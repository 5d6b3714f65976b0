// Package node implements the receive filter every chat participant runs:
// drop our own frames echoed back by a repeater, drop frames from other
// logical networks sharing the channel, drop unicasts addressed to
// somebody else.
package node

import (
	"bytes"
	"sync"
)

// DefaultHistorySize matches the 50-message suppression window used by
// the field deployments.
const DefaultHistorySize = 50

// SentHistory is a bounded FIFO of raw transmitted frames, used only for
// backhaul echo suppression. Matching is on the exact byte encoding: a
// repeater retransmits frames unmodified, so the bytes that left this
// node are the bytes that come back.
type SentHistory struct {
	mu     sync.Mutex
	frames [][]byte
	limit  int
}

func NewSentHistory(limit int) *SentHistory {
	if limit <= 0 {
		limit = DefaultHistorySize
	}

	return &SentHistory{limit: limit}
}

// Remember appends frame, evicting the oldest entry once the bound is
// exceeded. Entries are never removed otherwise.
func (h *SentHistory) Remember(frame []byte) {
	f := make([]byte, len(frame))
	copy(f, frame)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.frames = append(h.frames, f)
	if len(h.frames) > h.limit {
		h.frames = h.frames[1:]
	}
}

// Contains reports whether frame was recently transmitted by this node.
func (h *SentHistory) Contains(frame []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, f := range h.frames {
		if bytes.Equal(f, frame) {
			return true
		}
	}

	return false
}

func (h *SentHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.frames)
}
