// Copyright (c) 2024 Neomantra Corp

package hsvf_test

import (
	"fmt"

	mdfeed "github.com/marketfeeds/mdcore-go"
)

// fakeSink records every event, definition, and status handed to it.
type fakeSink struct {
	Definitions []definitionCall
	Incremental []mdfeed.MarketEvent
	Snapshot    []mdfeed.MarketEvent
	Statuses    []mdfeed.ChannelStatus
}

type definitionCall struct {
	Identifier int64
	ChannelID  mdfeed.ChannelID
	BookType   mdfeed.BookType
	Action     mdfeed.InstrumentAction
	Def        any
}

func (s *fakeSink) OnInstrumentDefinition(identifier int64, channelID mdfeed.ChannelID, bookType mdfeed.BookType, action mdfeed.InstrumentAction, def any) {
	s.Definitions = append(s.Definitions, definitionCall{identifier, channelID, bookType, action, def})
}
func (s *fakeSink) OnIncremental(e mdfeed.MarketEvent) { s.Incremental = append(s.Incremental, e) }
func (s *fakeSink) OnSnapshot(e mdfeed.MarketEvent)    { s.Snapshot = append(s.Snapshot, e) }
func (s *fakeSink) OnChannelStatus(_ mdfeed.ChannelID, status mdfeed.ChannelStatus) {
	s.Statuses = append(s.Statuses, status)
}

func digits(v int64, width int) string {
	return fmt.Sprintf("%0*d", width, v)
}

func pad(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s[:width]
}

// record builds one MsgHeader-prefixed record body (no STX/ETX). msgType is
// right-padded to the wire format's fixed 2-byte message-type field.
func record(seq uint64, msgType string, body string) []byte {
	return []byte(digits(int64(seq), 10) + pad(msgType, 2) + body)
}

// longRecord builds a record with the 20-byte timestamp variant of MsgHeader.
func longRecord(seq uint64, msgType string, timestamp string, body string) []byte {
	return []byte(digits(int64(seq), 10) + pad(msgType, 2) + pad(timestamp, 20) + body)
}

// packet wraps one or more records in STX...ETX framing, concatenated into
// a single datagram.
func packet(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, 0x02)
		out = append(out, r...)
		out = append(out, 0x03)
	}
	return out
}

// depthBody builds the body of an H/HF/HB/HS record.
func depthBody(identifier int64, level byte, status byte, bidFrac byte, bidPrice, bidSize int64, askFrac byte, askPrice, askSize int64) string {
	return digits(identifier, 8) + string(level) + string(status) +
		string(bidFrac) + digits(bidPrice, 9) + digits(bidSize, 8) +
		string(askFrac) + digits(askPrice, 9) + digits(askSize, 8)
}

// summaryBody builds the body of an N/NF/NB/NS record.
func summaryBody(identifier int64, high, low, open int64, frac byte, volume int64, reason byte, settlement, prevSettlement int64) string {
	price := func(v int64) string { return digits(v, 9) + string(frac) }
	return digits(identifier, 8) + price(high) + price(low) + price(open) +
		digits(volume, 8) + string(reason) + price(settlement) + price(prevSettlement)
}

// tradeBody builds the body of a C/CF/CB/CS record.
func tradeBody(identifier int64, marker byte, price int64, frac byte, volume, cp1, cp2, execID int64) string {
	return digits(identifier, 8) + string(marker) + digits(price, 9) + string(frac) +
		digits(volume, 8) + digits(cp1, 8) + digits(cp2, 8) + digits(execID, 8)
}

// outrightKeysBody builds the body of a J/JF/JB record.
func outrightKeysBody(identifier int64, symbol string, tickSize int64, tickFrac byte, tickIncrementRef string,
	contractSize, tickValueScaled int64, currency byte, group string, depth, impliedDepth byte) string {
	return digits(identifier, 8) + pad(symbol, 12) + digits(tickSize, 9) + string(tickFrac) +
		pad(tickIncrementRef, 6) + digits(contractSize, 8) + digits(tickValueScaled, 10) +
		string(currency) + pad(group, 4) + string(depth) + string(impliedDepth)
}
