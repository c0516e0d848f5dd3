package data

import (
	"errors"

	"github.com/apexquant/apexbt/eventtypes/kline"
)

var (
	// ErrUnorderedStream occurs when bars are loaded out of ascending
	// timestamp order. Ascending order is the structural half of the
	// causality guarantee and is enforced at load time
	ErrUnorderedStream = errors.New("bars must be in strictly ascending timestamp order")
	// ErrMixedSymbols occurs when one stream carries bars for more than one
	// symbol. Interleaving belongs to the merge handler
	ErrMixedSymbols = errors.New("a data stream holds bars for exactly one symbol")
	// ErrNoData occurs when a handler is created with an empty stream
	ErrNoData = errors.New("no data loaded")
)

// Handler is the bar supply contract. It exposes pull-one semantics only,
// there is no random access and no peek-ahead. Once a bar has been produced
// no earlier bar can be produced again
type Handler interface {
	Next() (kline.Event, bool)
	Latest() kline.Event
	History() []kline.Event
	Offset() int
	Reset()
}

// Base is an in-memory implementation of the bar supply contract
type Base struct {
	stream []kline.Event
	latest kline.Event
	offset int
}
