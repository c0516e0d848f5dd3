package eventholder

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/order"
	"github.com/apexquant/apexbt/eventtypes/signal"
)

// Reset returns the event holder to its default state
func (h *Holder) Reset() {
	h.queue = nil
}

// AppendEvent enqueues an event. Anything that is not one of the four event
// value types is rejected
func (h *Holder) AppendEvent(ev common.Event) error {
	if ev == nil {
		return common.ErrNilEvent
	}
	switch ev.(type) {
	case kline.Event, signal.Event, order.Event, fill.Event:
	default:
		return fmt.Errorf("%w, received %T", ErrInvalidEventType, ev)
	}
	h.queue = append(h.queue, ev)
	return nil
}

// NextEvent dequeues the oldest pending event, or nil when the queue is
// empty. Callers check emptiness via IsEmpty or Len
func (h *Holder) NextEvent() common.Event {
	if len(h.queue) == 0 {
		return nil
	}
	ev := h.queue[0]
	h.queue = h.queue[1:]
	return ev
}

// Len returns the number of pending events
func (h *Holder) Len() int {
	return len(h.queue)
}

// IsEmpty returns whether the queue has no pending events
func (h *Holder) IsEmpty() bool {
	return len(h.queue) == 0
}
