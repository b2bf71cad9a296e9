// Copyright (c) 2024 Neomantra Corp

package mdfeed_test

import (
	mdfeed "github.com/marketfeeds/mdcore-go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MarketEvent", func() {
	It("renders an order book event as JSON", func() {
		event := mdfeed.MarketEvent{
			Envelope: mdfeed.Envelope{
				ChannelID:      "XEUR.FDAX.1",
				Indesc:         12345,
				PacketSequence: 9,
			},
			Kind: mdfeed.EventOrderBook,
			OrderBook: &mdfeed.OrderBookEntry{
				Action: mdfeed.Action_New,
				Side:   mdfeed.Side_Bid,
				Price:  125075,
				Qty:    10,
			},
		}
		out := event.AppendJSON(nil)
		Expect(string(out)).To(ContainSubstring(`"kind":"OrderBook"`))
		Expect(string(out)).To(ContainSubstring(`"channel_id":"XEUR.FDAX.1"`))
	})

	It("builds book-reset and end events with no payload", func() {
		env := mdfeed.Envelope{ChannelID: "c1", Indesc: 1}
		Expect(mdfeed.NewBookResetEvent(env).Kind).To(Equal(mdfeed.EventBookReset))
		Expect(mdfeed.NewEndEvent(env).Kind).To(Equal(mdfeed.EventEnd))
	})
})

var _ = Describe("TrimNullBytes and TrimSpaceBytes", func() {
	It("trims trailing NUL and space padding", func() {
		Expect(mdfeed.TrimNullBytes([]byte("FDAX\x00\x00"))).To(Equal("FDAX"))
		Expect(mdfeed.TrimSpaceBytes([]byte("FDAX    "))).To(Equal("FDAX"))
	})
})
