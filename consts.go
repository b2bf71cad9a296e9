// Copyright (c) 2024 Neomantra Corp

package mdfeed

// Side identifies which side of a book, quote, or trade a value belongs to.
type Side uint8

const (
	Side_Unspecified Side = iota
	Side_Bid
	Side_Ask
	Side_ImpliedBid
	Side_ImpliedAsk
	Side_Cross
)

func (s Side) String() string {
	switch s {
	case Side_Bid:
		return "Bid"
	case Side_Ask:
		return "Ask"
	case Side_ImpliedBid:
		return "ImpliedBid"
	case Side_ImpliedAsk:
		return "ImpliedAsk"
	case Side_Cross:
		return "Cross"
	default:
		return "Unspecified"
	}
}

// MarketUpdateAction describes how an incoming message changes book state.
type MarketUpdateAction uint8

const (
	Action_New MarketUpdateAction = iota
	Action_Change
	Action_Delete
	Action_Execute
	Action_NewOrChange
	Action_DeleteFrom
)

func (a MarketUpdateAction) String() string {
	switch a {
	case Action_New:
		return "New"
	case Action_Change:
		return "Change"
	case Action_Delete:
		return "Delete"
	case Action_Execute:
		return "Execute"
	case Action_NewOrChange:
		return "NewOrChange"
	case Action_DeleteFrom:
		return "DeleteFrom"
	default:
		return "Unknown"
	}
}

// InstrumentStatus is the normalized trading status of an instrument.
type InstrumentStatus uint8

const (
	Status_Unknown InstrumentStatus = iota
	Status_Expired
	Status_Closed
	Status_PreTrading
	Status_Open
	Status_FastMarket
	Status_PreOpen
	Status_Auction
	Status_Freeze
	Status_PostTrading
)

func (s InstrumentStatus) String() string {
	switch s {
	case Status_Expired:
		return "Expired"
	case Status_Closed:
		return "Closed"
	case Status_PreTrading:
		return "PreTrading"
	case Status_Open:
		return "Open"
	case Status_FastMarket:
		return "FastMarket"
	case Status_PreOpen:
		return "PreOpen"
	case Status_Auction:
		return "Auction"
	case Status_Freeze:
		return "Freeze"
	case Status_PostTrading:
		return "PostTrading"
	default:
		return "Unknown"
	}
}

// StatPriceID enumerates the price-like statistics carried in StatPrice events.
type StatPriceID uint8

const (
	StatPrice_Open StatPriceID = iota
	StatPrice_High
	StatPrice_Low
	StatPrice_Close
	StatPrice_Settle
	StatPrice_IndicativeSettle
	StatPrice_IndicativeOpenPrice
)

// StatQtyID enumerates the quantity-like statistics carried in StatQty events.
type StatQtyID uint8

const (
	StatQty_Volume StatQtyID = iota
	StatQty_IndicativeOpenQty
	StatQty_OpenInterest
)

// TradeType classifies a trade report as a regular match or one of the
// off-book trade types carried by both protocols.
type TradeType uint8

const (
	Trade_Regular TradeType = iota
	Trade_GuaranteedCross
	Trade_BlockTrade
	Trade_ExchangeForSwap
	Trade_ExchangeForPhysical
)

// TradeQualifier distinguishes a trade matched against resting interest
// from one matched against an implied order.
type TradeQualifier uint8

const (
	TradeQualifier_Regular TradeQualifier = iota
	TradeQualifier_Implied
)

// QuoteRequestType distinguishes a quote solicitation from a cross-trade
// notification, both of which arrive as "quote request" records on the
// wire in both protocols.
type QuoteRequestType uint8

const (
	QuoteRequest_Tradable QuoteRequestType = iota
	QuoteRequest_CrossTradeNotice
)

// ChannelStatus reports the operational state of a channel to the sink.
type ChannelStatus uint8

const (
	ChannelStatus_Unknown ChannelStatus = iota
	ChannelStatus_Stable
	ChannelStatus_Recovering
)

func (s ChannelStatus) String() string {
	switch s {
	case ChannelStatus_Stable:
		return "Stable"
	case ChannelStatus_Recovering:
		return "Recovering"
	default:
		return "Unknown"
	}
}

// InstrumentAction tells whether an instrument definition arrived on the
// real-time feed (New) or was replayed by a retransmission (Update).
type InstrumentAction uint8

const (
	InstrumentAction_New InstrumentAction = iota
	InstrumentAction_Update
)

// BookType identifies which book representation an instrument uses.
type BookType uint8

const (
	BookType_OrderBook BookType = iota // per-order depth (price, qty, order id, priority)
	BookType_LevelBook                 // per-level depth (price, aggregate qty, order count)
)
