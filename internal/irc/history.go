package irc

import (
	"sync"

	"github.com/idflores/twitch-irc/internal/telemetry"
)

// HistoryCapacity bounds the message log; the oldest entry is evicted
// first once it is exceeded.
const HistoryCapacity = 200

// HistoryBuffer is a bounded, ordered, append-only log of parsed messages,
// backed by a ring. Insertion order is arrival order. It is also the
// signal source the join-confirmation watchers read.
type HistoryBuffer struct {
	mu      sync.RWMutex
	entries []Message
	head    int
	size    int
}

// NewHistoryBuffer returns an empty buffer with the standard capacity.
func NewHistoryBuffer() *HistoryBuffer {
	return &HistoryBuffer{entries: make([]Message, HistoryCapacity)}
}

// Append adds a message, evicting the oldest entry first when full.
func (h *HistoryBuffer) Append(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size == len(h.entries) {
		h.entries[h.head] = m
		h.head = (h.head + 1) % len(h.entries)
		telemetry.IncHistoryEviction()
		return
	}
	h.entries[(h.head+h.size)%len(h.entries)] = m
	h.size++
}

// Len returns the number of messages currently held.
func (h *HistoryBuffer) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// TailWindow returns copies of the last n messages, oldest first, or fewer
// if the buffer is shorter.
func (h *HistoryBuffer) TailWindow(n int) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > h.size {
		n = h.size
	}
	out := make([]Message, 0, n)
	for i := h.size - n; i < h.size; i++ {
		out = append(out, h.entries[(h.head+i)%len(h.entries)])
	}
	return out
}

// All returns copies of every held message in arrival order.
func (h *HistoryBuffer) All() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.entries[(h.head+i)%len(h.entries)])
	}
	return out
}

// Filter returns copies of the messages keep accepts, in arrival order.
func (h *HistoryBuffer) Filter(keep func(Message) bool) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []Message
	for i := 0; i < h.size; i++ {
		if m := h.entries[(h.head+i)%len(h.entries)]; keep(m) {
			out = append(out, m)
		}
	}
	return out
}
