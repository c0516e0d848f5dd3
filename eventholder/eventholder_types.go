package eventholder

import (
	"errors"

	"github.com/apexquant/apexbt/common"
)

// ErrInvalidEventType occurs when something other than the four event value
// types is appended to the queue. The guard is structural, it keeps foreign
// objects out of the dispatch loop
var ErrInvalidEventType = errors.New("event queue only accepts kline, signal, order and fill events")

// Holder contains the event queue for backtester processing. Events are
// dequeued in strict arrival order with no reordering, priority or batching.
// The holder carries no business logic and is not safe for concurrent use,
// the engine is defined as a single sequential dispatch loop
type Holder struct {
	queue []common.Event
}

// EventHolder interface details what is expected of an event holder
type EventHolder interface {
	Reset()
	AppendEvent(common.Event) error
	NextEvent() common.Event
	Len() int
	IsEmpty() bool
}
