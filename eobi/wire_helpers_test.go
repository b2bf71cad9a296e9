// Copyright (c) 2024 Neomantra Corp

package eobi_test

import (
	"encoding/binary"

	mdfeed "github.com/marketfeeds/mdcore-go"
	"github.com/marketfeeds/mdcore-go/eobi"
)

// fakeSink records every event and definition handed to it, for assertion
// in tests.
type fakeSink struct {
	Incremental []mdfeed.MarketEvent
	Snapshot    []mdfeed.MarketEvent
	Statuses    []mdfeed.ChannelStatus
}

func (s *fakeSink) OnInstrumentDefinition(int64, mdfeed.ChannelID, mdfeed.BookType, mdfeed.InstrumentAction, any) {
}
func (s *fakeSink) OnIncremental(e mdfeed.MarketEvent) { s.Incremental = append(s.Incremental, e) }
func (s *fakeSink) OnSnapshot(e mdfeed.MarketEvent)    { s.Snapshot = append(s.Snapshot, e) }
func (s *fakeSink) OnChannelStatus(_ mdfeed.ChannelID, status mdfeed.ChannelStatus) {
	s.Statuses = append(s.Statuses, status)
}

func putU32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func putU16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }
func putU64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

func packetHeaderBytes(applSeqNum uint32, marketSegmentID int32, completion eobi.CompletionIndicator) []byte {
	b := make([]byte, eobi.PacketHeaderSize)
	putU32(b[0:4], applSeqNum)
	putU32(b[4:8], uint32(marketSegmentID))
	b[8] = byte(completion)
	return b
}

func msgHeaderBytes(templateID eobi.TemplateID, msgSeqNum uint32, bodyLen uint16) []byte {
	b := make([]byte, eobi.MessageHeaderSize)
	putU16(b[0:2], bodyLen)
	putU16(b[2:4], uint16(templateID))
	putU32(b[4:8], msgSeqNum)
	return b
}

// orderAddMessage builds a complete OrderAdd message (header + body).
func orderAddMessage(msgSeqNum uint32, securityID int64, side eobi.WireSide, price int64, qty int32, orderID uint64) []byte {
	const bodyLen = eobi.MessageHeaderSize + 8 + 21
	b := make([]byte, bodyLen)
	copy(b, msgHeaderBytes(eobi.TemplateOrderAdd, msgSeqNum, bodyLen))
	o := eobi.MessageHeaderSize
	putU64(b[o:o+8], uint64(securityID))
	o += 8
	b[o] = byte(side)
	putU64(b[o+1:o+9], uint64(price))
	putU32(b[o+9:o+13], uint32(qty))
	putU64(b[o+13:o+21], orderID)
	return b
}

func orderMassDeleteMessage(msgSeqNum uint32, securityID int64) []byte {
	const bodyLen = eobi.MessageHeaderSize + 8
	b := make([]byte, bodyLen)
	copy(b, msgHeaderBytes(eobi.TemplateOrderMassDelete, msgSeqNum, bodyLen))
	putU64(b[eobi.MessageHeaderSize:], uint64(securityID))
	return b
}

func productSummaryMessage(msgSeqNum uint32, lastMsgSeqNumProcessed uint32) []byte {
	const bodyLen = eobi.MessageHeaderSize + 4
	b := make([]byte, bodyLen)
	copy(b, msgHeaderBytes(eobi.TemplateProductSummary, msgSeqNum, bodyLen))
	putU32(b[eobi.MessageHeaderSize:], lastMsgSeqNumProcessed)
	return b
}

func instrumentSummaryMessage(msgSeqNum uint32, securityID int64) []byte {
	const bodyLen = eobi.MessageHeaderSize + 8 + 1 + 2 + 1 + 1
	b := make([]byte, bodyLen)
	copy(b, msgHeaderBytes(eobi.TemplateInstrumentSummary, msgSeqNum, bodyLen))
	o := eobi.MessageHeaderSize
	putU64(b[o:o+8], uint64(securityID))
	b[o+8] = byte(eobi.SecurityStatusActive)
	putU16(b[o+9:o+11], uint16(eobi.TradingStatusContinuous))
	b[o+11] = 0 // fast market indicator
	b[o+12] = 0 // NoMDEntries
	return b
}

func snapshotOrderMessage(msgSeqNum uint32, side eobi.WireSide, price int64, qty int32, orderID uint64) []byte {
	const bodyLen = eobi.MessageHeaderSize + 21
	b := make([]byte, bodyLen)
	copy(b, msgHeaderBytes(eobi.TemplateSnapshotOrder, msgSeqNum, bodyLen))
	o := eobi.MessageHeaderSize
	b[o] = byte(side)
	putU64(b[o+1:o+9], uint64(price))
	putU32(b[o+9:o+13], uint32(qty))
	putU64(b[o+13:o+21], orderID)
	return b
}

// concatMessages joins several whole messages into one packet body.
func concatMessages(msgs ...[]byte) []byte {
	var out []byte
	for _, m := range msgs {
		out = append(out, m...)
	}
	return out
}

func fullPacket(applSeqNum uint32, marketSegmentID int32, completion eobi.CompletionIndicator, body []byte) []byte {
	return append(packetHeaderBytes(applSeqNum, marketSegmentID, completion), body...)
}
