package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultRingSize is the number of entries kept for the diagnostics page.
const DefaultRingSize = 100

// Entry is one log record kept in memory.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// RingBuffer keeps the most recent log entries, dropping the oldest first,
// and fans new entries out to subscribers.
type RingBuffer struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	subs    map[chan Entry]struct{}
}

// NewRingBuffer returns a buffer holding up to size entries.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{
		entries: make([]Entry, size),
		subs:    make(map[chan Entry]struct{}),
	}
}

// Add stores e and forwards it to every subscriber. Subscribers whose
// buffer is full miss the entry.
func (b *RingBuffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}

	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Entries returns a copy of the stored entries, oldest first.
func (b *RingBuffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		out := make([]Entry, b.next)
		copy(out, b.entries[:b.next])
		return out
	}

	out := make([]Entry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	out = append(out, b.entries[:b.next]...)
	return out
}

// Len returns the number of stored entries.
func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full {
		return len(b.entries)
	}
	return b.next
}

// Subscribe returns a channel receiving new entries and a function that
// detaches and closes it.
func (b *RingBuffer) Subscribe(buffer int) (<-chan Entry, func()) {
	ch := make(chan Entry, buffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// ringHandler copies records into a RingBuffer before passing them on.
type ringHandler struct {
	next  slog.Handler
	ring  *RingBuffer
	attrs []slog.Attr
	group string
}

func newRingHandler(next slog.Handler, ring *RingBuffer) slog.Handler {
	return &ringHandler{next: next, ring: ring}
}

func (h *ringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ringHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		attrs[key] = a.Value.Resolve().Any()
		return true
	})

	h.ring.Add(Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
		Attrs:   attrs,
	})

	return h.next.Handle(ctx, r)
}

func (h *ringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		merged = append(merged, a)
	}
	return &ringHandler{next: h.next.WithAttrs(attrs), ring: h.ring, attrs: merged, group: h.group}
}

func (h *ringHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &ringHandler{next: h.next.WithGroup(name), ring: h.ring, attrs: h.attrs, group: group}
}
