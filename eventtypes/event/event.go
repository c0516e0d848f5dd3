package event

import (
	"fmt"
	"time"

	"github.com/apexquant/apexbt/common"
)

// GetOffset returns the offset of the event, which matches the bar number
// that caused it
func (b *Base) GetOffset() int64 {
	return b.Offset
}

// SetOffset sets the offset
func (b *Base) SetOffset(o int64) {
	b.Offset = o
}

// GetTime returns the time of the event
func (b *Base) GetTime() time.Time {
	return b.Time
}

// GetSymbol returns the symbol the event relates to
func (b *Base) GetSymbol() string {
	return b.Symbol
}

// GetInterval returns the bar timeframe the event relates to
func (b *Base) GetInterval() common.Interval {
	return b.Interval
}

// GetReason returns the concatenated reasons recorded against the event
func (b *Base) GetReason() string {
	return b.Reason
}

// AppendReason adds a human readable note of what happened to the event
func (b *Base) AppendReason(y string) {
	if b.Reason == "" {
		b.Reason = y
		return
	}
	b.Reason = b.Reason + ". " + y
}

// AppendReasonf adds a formatted note of what happened to the event
func (b *Base) AppendReasonf(format string, elems ...interface{}) {
	b.AppendReason(fmt.Sprintf(format, elems...))
}
