// Copyright (c) 2024 Neomantra Corp

package hsvf

import (
	"fmt"

	mdfeed "github.com/marketfeeds/mdcore-go"
)

// Level is one priced rung of a local order book.
type Level struct {
	Price int64
	Qty   int32
}

// OrderBook is a small, purely-local top-of-book tracker, kept only to
// derive a synthetic indicative opening price/qty when the real top of
// book is crossed during an auction. It is not a full order book.
type OrderBook struct {
	Bids []Level
	Asks []Level
}

func (ob *OrderBook) side(s mdfeed.Side) *[]Level {
	if s == mdfeed.Side_Ask {
		return &ob.Asks
	}
	return &ob.Bids
}

// NewOrChange sets the level for a side, appending if it is exactly one
// past the current depth, overwriting if already present, or erroring if
// the level would leave a gap.
func (ob *OrderBook) NewOrChange(s mdfeed.Side, level int, price int64, qty int32) error {
	levels := ob.side(s)
	switch {
	case level == len(*levels):
		*levels = append(*levels, Level{Price: price, Qty: qty})
	case level >= 0 && level < len(*levels):
		(*levels)[level] = Level{Price: price, Qty: qty}
	default:
		return fmt.Errorf("hsvf: level %d beyond current depth %d", level, len(*levels))
	}
	return nil
}

// DeleteFrom truncates a side's levels at and beyond the given level.
func (ob *OrderBook) DeleteFrom(s mdfeed.Side, level int) {
	levels := ob.side(s)
	if level < 0 {
		level = 0
	}
	if level < len(*levels) {
		*levels = (*levels)[:level]
	}
}

// TopBidEqualsTopAsk reports whether both sides are populated and their
// best prices match, returning that price and the smaller of the two
// quantities.
func (ob *OrderBook) TopBidEqualsTopAsk() (bool, int64, int32) {
	if len(ob.Bids) == 0 || len(ob.Asks) == 0 {
		return false, 0, 0
	}
	if ob.Bids[0].Price != ob.Asks[0].Price {
		return false, 0, 0
	}
	qty := ob.Bids[0].Qty
	if ob.Asks[0].Qty < qty {
		qty = ob.Asks[0].Qty
	}
	return true, ob.Bids[0].Price, qty
}

// OrderBooks is the per-identifier collection of local order books a
// ChannelProcessor maintains.
type OrderBooks struct {
	books map[int64]*OrderBook
}

// NewOrderBooks creates an empty collection.
func NewOrderBooks() *OrderBooks {
	return &OrderBooks{books: make(map[int64]*OrderBook)}
}

// Get returns the book for identifier, creating an empty one if absent.
func (b *OrderBooks) Get(identifier int64) *OrderBook {
	ob, ok := b.books[identifier]
	if !ok {
		ob = &OrderBook{}
		b.books[identifier] = ob
	}
	return ob
}
