// Copyright (c) 2024 Neomantra Corp

package eobi

import (
	"encoding/binary"

	mdfeed "github.com/marketfeeds/mdcore-go"
)

// PacketHeaderSize is the fixed byte length of PacketHeader on the wire.
const PacketHeaderSize = 9

// MessageHeaderSize is the fixed byte length of MessageHeader on the wire.
const MessageHeaderSize = 8

// PacketHeader is the big-endian header prefixing every BIN packet,
// real-time or snapshot.
type PacketHeader struct {
	ApplSeqNum          uint32
	MarketSegmentID     int32
	CompletionIndicator CompletionIndicator
}

// FillRaw decodes a PacketHeader from its wire bytes.
func (h *PacketHeader) FillRaw(b []byte) error {
	if len(b) < PacketHeaderSize {
		return mdfeed.UnexpectedBytesError(len(b), PacketHeaderSize)
	}
	h.ApplSeqNum = binary.BigEndian.Uint32(b[0:4])
	h.MarketSegmentID = int32(binary.BigEndian.Uint32(b[4:8]))
	h.CompletionIndicator = CompletionIndicator(b[8])
	return nil
}

// MessageHeader prefixes every message within a packet's body.
type MessageHeader struct {
	BodyLen    uint16
	TemplateID TemplateID
	MsgSeqNum  uint32
}

// FillRaw decodes a MessageHeader from its wire bytes.
func (h *MessageHeader) FillRaw(b []byte) error {
	if len(b) < MessageHeaderSize {
		return mdfeed.UnexpectedBytesError(len(b), MessageHeaderSize)
	}
	h.BodyLen = binary.BigEndian.Uint16(b[0:2])
	h.TemplateID = TemplateID(binary.BigEndian.Uint16(b[2:4]))
	h.MsgSeqNum = binary.BigEndian.Uint32(b[4:8])
	return nil
}

// RawMessage is one MessageHeader-prefixed slice within a packet's body,
// as handed back by SplitMessages.
type RawMessage struct {
	Header MessageHeader
	Body   []byte // the full message, including its header
}

// SplitMessages walks a packet body (the bytes following PacketHeader),
// yielding each message in order by advancing BodyLen. It stops cleanly at
// the end of the buffer; a short trailing message is reported as an error.
func SplitMessages(body []byte) ([]RawMessage, error) {
	var out []RawMessage
	for len(body) > 0 {
		var hdr MessageHeader
		if err := hdr.FillRaw(body); err != nil {
			return out, err
		}
		if int(hdr.BodyLen) > len(body) {
			return out, mdfeed.UnexpectedBytesError(len(body), int(hdr.BodyLen))
		}
		out = append(out, RawMessage{Header: hdr, Body: body[:hdr.BodyLen]})
		body = body[hdr.BodyLen:]
	}
	return out, nil
}
