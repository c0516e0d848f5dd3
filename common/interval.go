package common

import (
	"fmt"
	"time"
)

// Interval is the timeframe a bar covers
type Interval time.Duration

// Supported intervals
const (
	OneMin     = Interval(time.Minute)
	FiveMin    = Interval(5 * time.Minute)
	FifteenMin = Interval(15 * time.Minute)
	OneHour    = Interval(time.Hour)
	FourHour   = Interval(4 * time.Hour)
	OneDay     = Interval(24 * time.Hour)
	OneWeek    = Interval(7 * 24 * time.Hour)
)

// Duration returns the interval as a time.Duration
func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

// String returns the config-readable label for an interval
func (i Interval) String() string {
	switch i {
	case OneMin:
		return "1m"
	case FiveMin:
		return "5m"
	case FifteenMin:
		return "15m"
	case OneHour:
		return "1h"
	case FourHour:
		return "4h"
	case OneDay:
		return "1d"
	case OneWeek:
		return "1w"
	default:
		return i.Duration().String()
	}
}

// ParseInterval converts a config label into an Interval
func ParseInterval(s string) (Interval, error) {
	switch s {
	case "1m":
		return OneMin, nil
	case "5m":
		return FiveMin, nil
	case "15m":
		return FifteenMin, nil
	case "1h":
		return OneHour, nil
	case "4h":
		return FourHour, nil
	case "1d":
		return OneDay, nil
	case "1w":
		return OneWeek, nil
	default:
		return 0, fmt.Errorf("unrecognised interval '%v'", s)
	}
}
