// Copyright (c) 2024 Neomantra Corp

package mdfeed

// ChannelID names a logical feed subscription: one incremental multicast
// group (and its paired snapshot/recovery channel) for BIN, one line-handler
// session for TXT.
type ChannelID string

// Envelope carries the fields common to every MarketEvent.
type Envelope struct {
	ChannelID       ChannelID
	Indesc          int64  // venue instrument descriptor (SecurityID / instrument key)
	PacketSequence  uint64 // transport-level sequence number (ApplSeqNum or HSVF seq)
	MessageSequence uint64 // message-level sequence number, when the protocol has one
	TsExchangeSend  uint64 // nanoseconds since epoch, as stamped by the exchange
	TsServerRecv    uint64 // nanoseconds since epoch, as stamped on receipt
}

// EventKind discriminates the MarketEvent union.
type EventKind uint8

const (
	EventOrderBook EventKind = iota
	EventLevelBook
	EventTrade
	EventStatus
	EventStatPrice
	EventStatQty
	EventStatTime
	EventQuoteRequest
	EventBookReset
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventOrderBook:
		return "OrderBook"
	case EventLevelBook:
		return "LevelBook"
	case EventTrade:
		return "Trade"
	case EventStatus:
		return "Status"
	case EventStatPrice:
		return "StatPrice"
	case EventStatQty:
		return "StatQty"
	case EventStatTime:
		return "StatTime"
	case EventQuoteRequest:
		return "QuoteRequest"
	case EventBookReset:
		return "BookReset"
	case EventEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// OrderBookEntry carries a single per-order book change.
type OrderBookEntry struct {
	Action   MarketUpdateAction
	Side     Side
	Price    int64
	Qty      int32
	OrderID  uint64
	Priority uint64
}

// LevelBookEntry carries a single per-level (aggregated) book change.
type LevelBookEntry struct {
	Action    MarketUpdateAction
	Side      Side
	Level     int
	Price     int64
	Qty       int32
	NumOrders int32
}

// TradeEntry carries a trade report.
type TradeEntry struct {
	Type            TradeType
	Qualifier       TradeQualifier
	Side            Side
	Price           int64
	Qty             int32
	TsTrade         uint64
	ExecID          uint64
	CounterpartyIDs [2]int64
}

// StatusEntry carries an instrument or product trading-status change.
type StatusEntry struct {
	Value InstrumentStatus
}

// StatPriceEntry carries a single price-like reference value (open, high,
// low, close, settle, ...).
type StatPriceEntry struct {
	ID     StatPriceID
	Action MarketUpdateAction
	Value  int64
}

// StatQtyEntry carries a single quantity-like reference value (volume,
// open interest, ...).
type StatQtyEntry struct {
	ID     StatQtyID
	Action MarketUpdateAction
	Value  int64
}

// StatTimeEntry carries a single timestamp-like reference value (settlement
// time). Kept symmetric with StatPriceEntry/StatQtyEntry even though there
// is presently one timestamp-like statistic.
type StatTimeEntry struct {
	Action MarketUpdateAction
	Value  uint64
}

// QuoteRequestEntry carries a solicitation for a quote, or a cross-trade
// notice, on a given side.
type QuoteRequestEntry struct {
	Type       QuoteRequestType
	Side       Side
	Price      int64
	Qty        int32
	TsTransact uint64
}

// MarketEvent is the normalized event emitted to a Sink. Exactly one of the
// payload pointers is non-nil, selected by Kind; BookReset and End carry no
// payload.
type MarketEvent struct {
	Envelope
	Kind EventKind

	OrderBook    *OrderBookEntry
	LevelBook    *LevelBookEntry
	Trade        *TradeEntry
	Status       *StatusEntry
	StatPrice    *StatPriceEntry
	StatQty      *StatQtyEntry
	StatTime     *StatTimeEntry
	QuoteRequest *QuoteRequestEntry
}

// NewBookResetEvent builds a BookReset event: the book for Indesc must be
// torn down and rebuilt from whatever follows.
func NewBookResetEvent(env Envelope) MarketEvent {
	return MarketEvent{Envelope: env, Kind: EventBookReset}
}

// NewEndEvent builds an End event: it closes one group of updates for
// Indesc. The processors emit it after each packet or record that touched
// the instrument, and for every instrument when a snapshot or recovery ends.
func NewEndEvent(env Envelope) MarketEvent {
	return MarketEvent{Envelope: env, Kind: EventEnd}
}
