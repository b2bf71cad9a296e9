// Copyright (c) 2024 Neomantra Corp

package eobi

import mdfeed "github.com/marketfeeds/mdcore-go"

func wireSideToSide(ws WireSide) mdfeed.Side {
	if ws == WireSideAsk {
		return mdfeed.Side_Ask
	}
	return mdfeed.Side_Bid
}

// instrumentStatus maps the raw status/trading-status/fast-market fields
// to a normalized InstrumentStatus (spec.md §4.3.5).
func instrumentStatus(status SecurityStatus, tradingStatus SecurityTradingStatus, fastMarketIndicator uint8) mdfeed.InstrumentStatus {
	if status == SecurityStatusExpired {
		return mdfeed.Status_Expired
	}
	switch tradingStatus {
	case TradingStatusClosed, TradingStatusRestricted:
		return mdfeed.Status_Closed
	case TradingStatusBook:
		return mdfeed.Status_PreTrading
	case TradingStatusContinuous:
		if fastMarketIndicator == 1 {
			return mdfeed.Status_FastMarket
		}
		return mdfeed.Status_Open
	case TradingStatusOpeningAuction:
		return mdfeed.Status_PreOpen
	case TradingStatusIntradayAuction, TradingStatusCircuitBreakerAuction, TradingStatusClosingAuction:
		return mdfeed.Status_Auction
	case TradingStatusOpeningAuctionFreeze, TradingStatusIntradayAuctionFreeze,
		TradingStatusCircuitBreakerAuctionFreeze, TradingStatusClosingAuctionFreeze, TradingStatusTradingHalt:
		return mdfeed.Status_Freeze
	default:
		return mdfeed.Status_Unknown
	}
}

// productStatusFromSubID maps a product-wide session-phase change
// (spec.md §4.3.5).
func productStatusFromSubID(subID TradingSessionSubID) mdfeed.InstrumentStatus {
	switch subID {
	case SessionSubIDPreTrading:
		return mdfeed.Status_PreTrading
	case SessionSubIDPostTrading:
		return mdfeed.Status_PostTrading
	default:
		return mdfeed.Status_Unknown
	}
}
