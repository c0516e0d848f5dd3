package event

import (
	"time"

	"github.com/apexquant/apexbt/common"
)

// Base is the underlying event across all actions that occur for the
// backtester. Data, signal, order and fill events all contain base
type Base struct {
	Offset   int64           `json:"-"`
	Symbol   string          `json:"symbol"`
	Time     time.Time       `json:"timestamp"`
	Interval common.Interval `json:"interval"`
	Reason   string          `json:"reason"`
}
