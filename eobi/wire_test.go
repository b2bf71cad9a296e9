// Copyright (c) 2024 Neomantra Corp

package eobi_test

import (
	"github.com/marketfeeds/mdcore-go/eobi"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("wire framing", func() {
	It("splits a packet body into its constituent messages", func() {
		body := concatMessages(
			orderAddMessage(1, 42, eobi.WireSideBid, 10000, 5, 1001),
			orderMassDeleteMessage(2, 42),
		)
		msgs, err := eobi.SplitMessages(body)
		Expect(err).ToNot(HaveOccurred())
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0].Header.TemplateID).To(Equal(eobi.TemplateOrderAdd))
		Expect(msgs[1].Header.TemplateID).To(Equal(eobi.TemplateOrderMassDelete))
	})

	It("reports a short trailing message as an error", func() {
		body := orderAddMessage(1, 42, eobi.WireSideBid, 10000, 5, 1001)
		_, err := eobi.SplitMessages(body[:len(body)-1])
		Expect(err).To(HaveOccurred())
	})

	It("decodes a PacketHeader", func() {
		packet := fullPacket(7, 3, eobi.CompletionComplete, nil)
		var hdr eobi.PacketHeader
		Expect(hdr.FillRaw(packet)).To(Succeed())
		Expect(hdr.ApplSeqNum).To(Equal(uint32(7)))
		Expect(hdr.MarketSegmentID).To(Equal(int32(3)))
		Expect(hdr.CompletionIndicator).To(Equal(eobi.CompletionComplete))
	})
})
