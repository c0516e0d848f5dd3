// Package merge interleaves multiple single-symbol bar supplies into one
// chronological stream. Ordering is deterministic: ascending timestamp with
// an alphabetical symbol tie-break when two supplies share a timestamp
package merge

import (
	"container/heap"
	"errors"

	"github.com/apexquant/apexbt/data"
	"github.com/apexquant/apexbt/eventtypes/kline"
)

// ErrNoHandlers occurs when a merge handler is created without supplies
var ErrNoHandlers = errors.New("merge requires at least one data handler")

// Handler merges N bar supplies lazily, one pull at a time. It satisfies the
// same contract as any other bar supply: once a bar is produced, no earlier
// bar is ever produced again
type Handler struct {
	sources []data.Handler
	heads   barHeap
	history []kline.Event
	latest  kline.Event
	offset  int
	primed  bool
}

type head struct {
	bar kline.Event
	src int
}

type barHeap []head

func (h barHeap) Len() int { return len(h) }
func (h barHeap) Less(i, j int) bool {
	ti, tj := h[i].bar.GetTime(), h[j].bar.GetTime()
	if ti.Equal(tj) {
		return h[i].bar.GetSymbol() < h[j].bar.GetSymbol()
	}
	return ti.Before(tj)
}
func (h barHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *barHeap) Push(x interface{}) {
	*h = append(*h, x.(head))
}

func (h *barHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// NewHandler creates a merge handler over the given supplies
func NewHandler(sources ...data.Handler) (*Handler, error) {
	if len(sources) == 0 {
		return nil, ErrNoHandlers
	}
	return &Handler{sources: sources}, nil
}

func (m *Handler) prime() {
	for i := range m.sources {
		if bar, ok := m.sources[i].Next(); ok {
			heap.Push(&m.heads, head{bar: bar, src: i})
		}
	}
	m.primed = true
}

// Next returns the chronologically next bar across all supplies
func (m *Handler) Next() (kline.Event, bool) {
	if !m.primed {
		m.prime()
	}
	if m.heads.Len() == 0 {
		return nil, false
	}
	h := heap.Pop(&m.heads).(head)
	if replacement, ok := m.sources[h.src].Next(); ok {
		heap.Push(&m.heads, head{bar: replacement, src: h.src})
	}
	m.offset++
	h.bar.SetOffset(int64(m.offset))
	m.latest = h.bar
	m.history = append(m.history, h.bar)
	return h.bar, true
}

// Latest returns the most recently produced bar
func (m *Handler) Latest() kline.Event {
	return m.latest
}

// History returns all bars produced so far across all supplies
func (m *Handler) History() []kline.Event {
	return m.history[:len(m.history):len(m.history)]
}

// Offset returns how many merged bars have been produced
func (m *Handler) Offset() int {
	return m.offset
}

// Reset rewinds the merge and every underlying supply
func (m *Handler) Reset() {
	for i := range m.sources {
		m.sources[i].Reset()
	}
	m.heads = nil
	m.history = nil
	m.latest = nil
	m.offset = 0
	m.primed = false
}
