// Copyright (c) 2024 Neomantra Corp

// Package eobi decodes the BIN protocol: Eurex-EOBI-style per-market-segment
// incremental and snapshot multicast feeds.
package eobi

// TemplateID identifies the payload layout following a MessageHeader.
type TemplateID uint16

const (
	TemplateProductSummary         TemplateID = 16040
	TemplateInstrumentSummary      TemplateID = 16030
	TemplateSnapshotOrder          TemplateID = 16060
	TemplateOrderAdd               TemplateID = 15020
	TemplateOrderDelete            TemplateID = 15022
	TemplateOrderModify            TemplateID = 15023
	TemplateOrderModifySamePrio    TemplateID = 15024
	TemplateOrderMassDelete        TemplateID = 15030
	TemplatePartialOrderExecution  TemplateID = 15040
	TemplateFullOrderExecution     TemplateID = 15041
	TemplateExecutionSummary       TemplateID = 15042
	TemplateTradeReport            TemplateID = 15050
	TemplateProductStateChange     TemplateID = 15100
	TemplateInstrumentStateChange TemplateID = 15101
	TemplateQuoteRequest            TemplateID = 15110
	TemplateCrossRequest            TemplateID = 15111
	TemplateAuctionBBO              TemplateID = 15120
	TemplateAuctionClearingPrice     TemplateID = 15121
	TemplateHeartbeat                TemplateID = 15200
)

func (t TemplateID) String() string {
	switch t {
	case TemplateProductSummary:
		return "ProductSummary"
	case TemplateInstrumentSummary:
		return "InstrumentSummary"
	case TemplateSnapshotOrder:
		return "SnapshotOrder"
	case TemplateOrderAdd:
		return "OrderAdd"
	case TemplateOrderDelete:
		return "OrderDelete"
	case TemplateOrderModify:
		return "OrderModify"
	case TemplateOrderModifySamePrio:
		return "OrderModifySamePrio"
	case TemplateOrderMassDelete:
		return "OrderMassDelete"
	case TemplatePartialOrderExecution:
		return "PartialOrderExecution"
	case TemplateFullOrderExecution:
		return "FullOrderExecution"
	case TemplateExecutionSummary:
		return "ExecutionSummary"
	case TemplateTradeReport:
		return "TradeReport"
	case TemplateProductStateChange:
		return "ProductStateChange"
	case TemplateInstrumentStateChange:
		return "InstrumentStateChange"
	case TemplateQuoteRequest:
		return "QuoteRequest"
	case TemplateCrossRequest:
		return "CrossRequest"
	case TemplateAuctionBBO:
		return "AuctionBBO"
	case TemplateAuctionClearingPrice:
		return "AuctionClearingPrice"
	case TemplateHeartbeat:
		return "Heartbeat"
	default:
		return "Unknown"
	}
}

// WireSide is the raw wire encoding of a book side: 1=Bid, 2=Ask.
type WireSide uint8

const (
	WireSideBid WireSide = 1
	WireSideAsk WireSide = 2
)

// HitOrTake is the raw wire encoding of an execution's aggressor side.
type HitOrTake uint8

const (
	HitOrTakeTake HitOrTake = 1 // aggressor bought, i.e. "took" the offer
	HitOrTakeHit  HitOrTake = 2 // aggressor sold, i.e. "hit" the bid
)

// SecurityStatus is the raw top-level instrument status field.
type SecurityStatus uint8

const (
	SecurityStatusActive  SecurityStatus = 1
	SecurityStatusExpired SecurityStatus = 2
)

// SecurityTradingStatus is the raw per-instrument trading-status field.
type SecurityTradingStatus uint16

const (
	TradingStatusBook                        SecurityTradingStatus = 2
	TradingStatusContinuous                  SecurityTradingStatus = 3
	TradingStatusOpeningAuction               SecurityTradingStatus = 4
	TradingStatusIntradayAuction              SecurityTradingStatus = 5
	TradingStatusCircuitBreakerAuction        SecurityTradingStatus = 6
	TradingStatusClosingAuction                SecurityTradingStatus = 7
	TradingStatusOpeningAuctionFreeze          SecurityTradingStatus = 8
	TradingStatusIntradayAuctionFreeze         SecurityTradingStatus = 9
	TradingStatusCircuitBreakerAuctionFreeze   SecurityTradingStatus = 10
	TradingStatusClosingAuctionFreeze          SecurityTradingStatus = 11
	TradingStatusTradingHalt                   SecurityTradingStatus = 12
	TradingStatusClosed                        SecurityTradingStatus = 13
	TradingStatusRestricted                    SecurityTradingStatus = 14
)

// TradingSessionSubID is the raw per-product session-phase field.
type TradingSessionSubID uint8

const (
	SessionSubIDPreTrading  TradingSessionSubID = 1
	SessionSubIDPostTrading TradingSessionSubID = 2
)

// MDEntryType is the raw statistical-entry discriminator carried in
// InstrumentSummary's repeating group.
type MDEntryType uint8

const (
	MDEntryLowPrice     MDEntryType = '7'
	MDEntryHighPrice    MDEntryType = '8'
	MDEntryOpeningPrice MDEntryType = '4'
	MDEntryClosingPrice MDEntryType = '6'
	MDEntryTradeVolume  MDEntryType = 'B'
)

// CompletionIndicator marks the end of an atomic update group in a BIN
// packet header.
type CompletionIndicator uint8

const (
	CompletionIncomplete CompletionIndicator = 0
	CompletionComplete   CompletionIndicator = 1
)

// Wire sentinel values for unset numeric fields.
const (
	NoValueUint  uint32 = 0xFFFFFFFF
	NoValueSint  int32  = -0x80000000
	NoValueSlong int64  = -0x8000000000000000
)
