package data

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/kline"
)

// NewHandler validates and loads a bar stream, returning a Handler honouring
// the bar supply contract
func NewHandler(stream []kline.Event) (*Base, error) {
	b := &Base{}
	if err := b.Load(stream); err != nil {
		return nil, err
	}
	return b, nil
}

// Load validates the stream and takes ownership of it. Each bar is checked
// for internal consistency, single-symbol membership and strictly ascending
// timestamps. Offsets are assigned in stream order starting at 1
func (b *Base) Load(stream []kline.Event) error {
	if len(stream) == 0 {
		return ErrNoData
	}
	symbol := stream[0].GetSymbol()
	for i := range stream {
		if stream[i] == nil {
			return common.ErrNilEvent
		}
		k, ok := stream[i].(*kline.Kline)
		if !ok {
			return fmt.Errorf("unexpected stream entry %T at %v", stream[i], i)
		}
		if err := k.Validate(); err != nil {
			return err
		}
		if k.GetSymbol() != symbol {
			return fmt.Errorf("%w, received %v and %v", ErrMixedSymbols, symbol, k.GetSymbol())
		}
		if i > 0 && !stream[i].GetTime().After(stream[i-1].GetTime()) {
			return fmt.Errorf("%w, %v does not follow %v",
				ErrUnorderedStream, stream[i].GetTime(), stream[i-1].GetTime())
		}
		stream[i].SetOffset(int64(i) + 1)
	}
	b.stream = stream
	b.latest = nil
	b.offset = 0
	return nil
}

// Next returns the next bar in the stream and advances the offset by one.
// This is the only way any component gains access to a new bar
func (b *Base) Next() (kline.Event, bool) {
	if b.offset >= len(b.stream) {
		return nil, false
	}
	ret := b.stream[b.offset]
	b.offset++
	b.latest = ret
	return ret, true
}

// Latest returns the most recently produced bar
func (b *Base) Latest() kline.Event {
	return b.latest
}

// History returns all bars produced so far. The returned slice cannot be
// grown into unproduced bars
func (b *Base) History() []kline.Event {
	return b.stream[:b.offset:b.offset]
}

// Offset returns how many bars have been produced
func (b *Base) Offset() int {
	return b.offset
}

// Reset rewinds the handler to the start of its stream
func (b *Base) Reset() {
	b.latest = nil
	b.offset = 0
}
