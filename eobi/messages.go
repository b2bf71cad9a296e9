// Copyright (c) 2024 Neomantra Corp

package eobi

import (
	"encoding/binary"

	mdfeed "github.com/marketfeeds/mdcore-go"
)

// OrderDetailsGrp is the common per-order payload: side, price, displayed
// quantity, and the combined time-priority/order-id field. EOBI uses the
// same TrdRegTSTimePriority value as both an order identifier and its book
// priority, so callers read it once and use it for both.
type OrderDetailsGrp struct {
	Side                 WireSide
	Price                int64
	DisplayQty           int32
	TrdRegTSTimePriority uint64
}

const orderDetailsGrpSize = 1 + 8 + 4 + 8

func (o *OrderDetailsGrp) fillRaw(b []byte) error {
	if len(b) < orderDetailsGrpSize {
		return mdfeed.UnexpectedBytesError(len(b), orderDetailsGrpSize)
	}
	o.Side = WireSide(b[0])
	o.Price = int64(binary.BigEndian.Uint64(b[1:9]))
	o.DisplayQty = int32(binary.BigEndian.Uint32(b[9:13]))
	o.TrdRegTSTimePriority = binary.BigEndian.Uint64(b[13:21])
	return nil
}

// OrderID returns the order's wire identifier.
func (o OrderDetailsGrp) OrderID() uint64 { return o.TrdRegTSTimePriority }

// Priority returns the order's book priority, which EOBI encodes as the
// same field as its identifier.
func (o OrderDetailsGrp) Priority() uint64 { return o.TrdRegTSTimePriority }

///////////////////////////////////////////////////////////////////////////////

// OrderAddMsg announces a new resting order.
type OrderAddMsg struct {
	SecurityID int64
	Order      OrderDetailsGrp
}

func (m *OrderAddMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+8+orderDetailsGrpSize {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+8+orderDetailsGrpSize)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	return m.Order.fillRaw(b[bodyOffset+8:])
}

// OrderDeleteMsg removes a resting order identified by side+order id.
type OrderDeleteMsg struct {
	SecurityID           int64
	Side                 WireSide
	TrdRegTSTimePriority uint64
}

func (m *OrderDeleteMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	const size = 8 + 1 + 8
	if len(b) < bodyOffset+size {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+size)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	m.Side = WireSide(b[bodyOffset+8])
	m.TrdRegTSTimePriority = binary.BigEndian.Uint64(b[bodyOffset+9 : bodyOffset+17])
	return nil
}

func (m OrderDeleteMsg) OrderID() uint64 { return m.TrdRegTSTimePriority }

// OrderModifyMsg replaces a resting order with a new one, losing priority.
// The prior order is identified by PrevSide/PrevTrdRegTSTimePriority; New
// carries the replacement's full details.
type OrderModifyMsg struct {
	SecurityID               int64
	PrevSide                 WireSide
	PrevTrdRegTSTimePriority uint64
	New                      OrderDetailsGrp
}

func (m *OrderModifyMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	const prevSize = 8 + 1 + 8
	if len(b) < bodyOffset+prevSize+orderDetailsGrpSize {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+prevSize+orderDetailsGrpSize)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	m.PrevSide = WireSide(b[bodyOffset+8])
	m.PrevTrdRegTSTimePriority = binary.BigEndian.Uint64(b[bodyOffset+9 : bodyOffset+17])
	return m.New.fillRaw(b[bodyOffset+prevSize:])
}

// OrderModifySamePrioMsg updates a resting order's price/qty while keeping
// its existing book priority.
type OrderModifySamePrioMsg struct {
	SecurityID int64
	Order      OrderDetailsGrp
}

func (m *OrderModifySamePrioMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+8+orderDetailsGrpSize {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+8+orderDetailsGrpSize)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	return m.Order.fillRaw(b[bodyOffset+8:])
}

// OrderMassDeleteMsg clears the entire book for a security.
type OrderMassDeleteMsg struct {
	SecurityID int64
}

func (m *OrderMassDeleteMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+8 {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+8)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	return nil
}

// OrderExecutionMsg covers both PartialOrderExecution and
// FullOrderExecution, which share a wire layout.
type OrderExecutionMsg struct {
	SecurityID int64
	Order      OrderDetailsGrp
}

func (m *OrderExecutionMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+8+orderDetailsGrpSize {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+8+orderDetailsGrpSize)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	return m.Order.fillRaw(b[bodyOffset+8:])
}

// ExecutionSummaryMsg reports a trade.
type ExecutionSummaryMsg struct {
	SecurityID    int64
	TradeCondition uint8
	AggressorSide HitOrTake
	Price         int64
	Qty           int32
	ExecID        uint64
	TsTrade       uint64
}

func (m *ExecutionSummaryMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	const size = 8 + 1 + 1 + 8 + 4 + 8 + 8
	if len(b) < bodyOffset+size {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+size)
	}
	o := bodyOffset
	m.SecurityID = int64(binary.BigEndian.Uint64(b[o : o+8]))
	m.TradeCondition = b[o+8]
	m.AggressorSide = HitOrTake(b[o+9])
	m.Price = int64(binary.BigEndian.Uint64(b[o+10 : o+18]))
	m.Qty = int32(binary.BigEndian.Uint32(b[o+18 : o+22]))
	m.ExecID = binary.BigEndian.Uint64(b[o+22 : o+30])
	m.TsTrade = binary.BigEndian.Uint64(b[o+30 : o+38])
	return nil
}

// TradeReportMsg duplicates information already carried by
// ExecutionSummaryMsg; kept only so SecurityID participates in
// current_descs tracking (spec.md §4.3.3: "log only").
type TradeReportMsg struct {
	SecurityID int64
}

func (m *TradeReportMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+8 {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+8)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	return nil
}

// ProductStateChangeMsg changes the session phase for every instrument in
// the product (i.e. the whole market segment the packet addresses).
type ProductStateChangeMsg struct {
	SubID TradingSessionSubID
}

func (m *ProductStateChangeMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+1 {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+1)
	}
	m.SubID = TradingSessionSubID(b[bodyOffset])
	return nil
}

// InstrumentStateChangeMsg changes the trading status of a single instrument.
type InstrumentStateChangeMsg struct {
	SecurityID            int64
	SecurityStatus        SecurityStatus
	SecurityTradingStatus SecurityTradingStatus
	FastMarketIndicator   uint8
	TransactTime          uint64
}

func (m *InstrumentStateChangeMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	const size = 8 + 1 + 2 + 1 + 8
	if len(b) < bodyOffset+size {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+size)
	}
	o := bodyOffset
	m.SecurityID = int64(binary.BigEndian.Uint64(b[o : o+8]))
	m.SecurityStatus = SecurityStatus(b[o+8])
	m.SecurityTradingStatus = SecurityTradingStatus(binary.BigEndian.Uint16(b[o+9 : o+11]))
	m.FastMarketIndicator = b[o+11]
	m.TransactTime = binary.BigEndian.Uint64(b[o+12 : o+20])
	return nil
}

// QuoteRequestMsg solicits a quote on one side of the book.
type QuoteRequestMsg struct {
	SecurityID int64
	Side       WireSide
}

func (m *QuoteRequestMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+9 {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+9)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	m.Side = WireSide(b[bodyOffset+8])
	return nil
}

// CrossRequestMsg announces an upcoming cross trade.
type CrossRequestMsg struct {
	SecurityID int64
}

func (m *CrossRequestMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+8 {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+8)
	}
	m.SecurityID = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	return nil
}

// AuctionBBOMsg and AuctionClearingPriceMsg are reserved: decoded only so
// their SecurityID can feed current_descs tracking; they emit no event
// (spec.md §4.3.3).
type AuctionBBOMsg struct{ SecurityID int64 }
type AuctionClearingPriceMsg struct{ SecurityID int64 }

func (m *AuctionBBOMsg) FillRaw(b []byte) error { return fillSecurityIDOnly(b, &m.SecurityID) }
func (m *AuctionClearingPriceMsg) FillRaw(b []byte) error {
	return fillSecurityIDOnly(b, &m.SecurityID)
}

func fillSecurityIDOnly(b []byte, out *int64) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+8 {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+8)
	}
	*out = int64(binary.BigEndian.Uint64(b[bodyOffset : bodyOffset+8]))
	return nil
}

// HeartbeatMsg carries the segment's last-processed sequence for gap
// detection even in the absence of other traffic.
type HeartbeatMsg struct {
	LastMsgSeqNumProcessed uint32
}

func (m *HeartbeatMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+4 {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+4)
	}
	m.LastMsgSeqNumProcessed = binary.BigEndian.Uint32(b[bodyOffset : bodyOffset+4])
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Snapshot-feed-only messages.

// ProductSummaryMsg marks the loop boundary of a snapshot cycle.
type ProductSummaryMsg struct {
	LastMsgSeqNumProcessed uint32
}

func (m *ProductSummaryMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+4 {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+4)
	}
	m.LastMsgSeqNumProcessed = binary.BigEndian.Uint32(b[bodyOffset : bodyOffset+4])
	return nil
}

// MDEntry is one statistical entry in InstrumentSummary's repeating group.
type MDEntry struct {
	MDEntryType MDEntryType
	MDEntryPx   int64
	MDEntrySize uint64
}

const mdEntrySize = 1 + 8 + 8

// InstrumentSummaryMsg is the per-instrument snapshot record; it carries
// the instrument's status plus a repeating group of statistical entries.
type InstrumentSummaryMsg struct {
	SecurityID            int64
	SecurityStatus        SecurityStatus
	SecurityTradingStatus SecurityTradingStatus
	FastMarketIndicator   uint8
	Entries                []MDEntry
}

func (m *InstrumentSummaryMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	const fixedSize = 8 + 1 + 2 + 1 + 1 // ... + NoMDEntries
	if len(b) < bodyOffset+fixedSize {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+fixedSize)
	}
	o := bodyOffset
	m.SecurityID = int64(binary.BigEndian.Uint64(b[o : o+8]))
	m.SecurityStatus = SecurityStatus(b[o+8])
	m.SecurityTradingStatus = SecurityTradingStatus(binary.BigEndian.Uint16(b[o+9 : o+11]))
	m.FastMarketIndicator = b[o+11]
	noEntries := int(b[o+12])
	o += fixedSize

	want := o + noEntries*mdEntrySize
	if len(b) < want {
		return mdfeed.UnexpectedBytesError(len(b), want)
	}
	m.Entries = make([]MDEntry, noEntries)
	for i := 0; i < noEntries; i++ {
		e := b[o : o+mdEntrySize]
		m.Entries[i] = MDEntry{
			MDEntryType: MDEntryType(e[0]),
			MDEntryPx:   int64(binary.BigEndian.Uint64(e[1:9])),
			MDEntrySize: binary.BigEndian.Uint64(e[9:17]),
		}
		o += mdEntrySize
	}
	return nil
}

// SnapshotOrderMsg carries one resting order within the instrument
// currently being snapshotted; it has no SecurityID of its own — the
// enclosing snapshot loop's InstrumentSummary supplies it (spec.md §4.3.2).
type SnapshotOrderMsg struct {
	Order OrderDetailsGrp
}

func (m *SnapshotOrderMsg) FillRaw(b []byte) error {
	const bodyOffset = MessageHeaderSize
	if len(b) < bodyOffset+orderDetailsGrpSize {
		return mdfeed.UnexpectedBytesError(len(b), bodyOffset+orderDetailsGrpSize)
	}
	return m.Order.fillRaw(b[bodyOffset:])
}
