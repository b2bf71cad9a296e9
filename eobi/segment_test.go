// Copyright (c) 2024 Neomantra Corp

package eobi_test

import (
	mdfeed "github.com/marketfeeds/mdcore-go"
	"github.com/marketfeeds/mdcore-go/eobi"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SegmentProcessor", func() {
	var (
		sink *fakeSink
		seg  *eobi.SegmentProcessor
	)

	BeforeEach(func() {
		sink = &fakeSink{}
		rt := mdfeed.Runtime{Sink: sink}
		seg = eobi.NewSegmentProcessor(rt, "XEUR.FDAX", 1, nil)
	})

	Context("an in-order real-time stream", func() {
		It("emits one OrderBook{New} and one EventEnd per packet", func() {
			for _, seqNum := range []uint32{1, 2, 3} {
				var hdr eobi.PacketHeader
				packet := fullPacket(seqNum, 1, eobi.CompletionComplete,
					orderAddMessage(seqNum, 42, eobi.WireSideBid, 10000, 5, 1001))
				Expect(hdr.FillRaw(packet)).To(Succeed())
				Expect(seg.OnPacket(hdr, packet[eobi.PacketHeaderSize:])).To(Succeed())
			}

			Expect(sink.Incremental).To(HaveLen(6)) // 3x (OrderBook + EventEnd)
			for i := 0; i < 3; i++ {
				ev := sink.Incremental[i*2]
				Expect(ev.Kind).To(Equal(mdfeed.EventOrderBook))
				Expect(ev.Indesc).To(Equal(int64(42)))
				Expect(ev.OrderBook.Action).To(Equal(mdfeed.Action_New))
				Expect(ev.OrderBook.Side).To(Equal(mdfeed.Side_Bid))
				Expect(ev.OrderBook.Price).To(Equal(int64(10000)))
				Expect(ev.OrderBook.Qty).To(Equal(int32(5)))
				Expect(ev.OrderBook.OrderID).To(Equal(uint64(1001)))

				end := sink.Incremental[i*2+1]
				Expect(end.Kind).To(Equal(mdfeed.EventEnd))
				Expect(end.Indesc).To(Equal(int64(42)))
			}
			Expect(seg.LastSeq()).To(Equal(uint32(3)))
		})
	})

	Context("a mass delete", func() {
		It("emits a BookReset for the referenced security", func() {
			packet := fullPacket(1, 1, eobi.CompletionComplete, orderMassDeleteMessage(1, 42))
			var hdr eobi.PacketHeader
			Expect(hdr.FillRaw(packet)).To(Succeed())
			Expect(seg.OnPacket(hdr, packet[eobi.PacketHeaderSize:])).To(Succeed())

			Expect(sink.Incremental).To(HaveLen(2))
			Expect(sink.Incremental[0].Kind).To(Equal(mdfeed.EventBookReset))
			Expect(sink.Incremental[0].Indesc).To(Equal(int64(42)))
		})
	})

	Context("a gap followed by a completed snapshot loop", func() {
		It("recovers, reconciles buffered traffic, and clears in_recovery", func() {
			// msg 1 applies normally.
			p1 := fullPacket(1, 1, eobi.CompletionComplete, orderAddMessage(1, 42, eobi.WireSideBid, 10000, 5, 1001))
			var hdr1 eobi.PacketHeader
			Expect(hdr1.FillRaw(p1)).To(Succeed())
			Expect(seg.OnPacket(hdr1, p1[eobi.PacketHeaderSize:])).To(Succeed())

			// msg 5: gap, enters recovery, buffered.
			p5 := fullPacket(5, 1, eobi.CompletionComplete, orderAddMessage(5, 42, eobi.WireSideBid, 10001, 3, 1002))
			var hdr5 eobi.PacketHeader
			Expect(hdr5.FillRaw(p5)).To(Succeed())
			Expect(seg.OnPacket(hdr5, p5[eobi.PacketHeaderSize:])).To(Succeed())
			Expect(seg.RequireSnapshot()).To(BeTrue())

			// msg 7 arrives while still recovering: also buffered.
			p7 := fullPacket(7, 1, eobi.CompletionComplete, orderAddMessage(7, 42, eobi.WireSideAsk, 10002, 2, 1003))
			var hdr7 eobi.PacketHeader
			Expect(hdr7.FillRaw(p7)).To(Succeed())
			Expect(seg.OnPacket(hdr7, p7[eobi.PacketHeaderSize:])).To(Succeed())

			// Snapshot loop: ProductSummary(6), InstrumentSummary(42), SnapshotOrder, ProductSummary (boundary).
			snapBody := concatMessages(
				productSummaryMessage(100, 6),
				instrumentSummaryMessage(101, 42),
				snapshotOrderMessage(102, eobi.WireSideBid, 10000, 5, 1001),
				productSummaryMessage(103, 6),
			)
			snapPacket := fullPacket(1, 1, eobi.CompletionComplete, snapBody)
			var snapHdr eobi.PacketHeader
			Expect(snapHdr.FillRaw(snapPacket)).To(Succeed())
			Expect(seg.OnSnapshotPacket(snapHdr, snapPacket[eobi.PacketHeaderSize:])).To(Succeed())

			// Snapshot channel got the InstrumentSummary status, the SnapshotOrder, then EventEnd.
			Expect(sink.Snapshot).ToNot(BeEmpty())
			var sawSnapshotOrder bool
			for _, ev := range sink.Snapshot {
				if ev.Kind == mdfeed.EventOrderBook {
					sawSnapshotOrder = true
					Expect(ev.Indesc).To(Equal(int64(42)))
				}
			}
			Expect(sawSnapshotOrder).To(BeTrue())

			// Recovery complete: msg 5 (<=6) dropped, msg 7 (>6) applied.
			Expect(seg.RequireSnapshot()).To(BeFalse())
			Expect(seg.LastSeq()).To(Equal(uint32(7)))

			var sawMsg7 bool
			for _, ev := range sink.Incremental {
				if ev.Kind == mdfeed.EventOrderBook && ev.MessageSequence == 7 {
					sawMsg7 = true
				}
				Expect(ev.MessageSequence).ToNot(Equal(uint64(5)))
			}
			Expect(sawMsg7).To(BeTrue())
		})
	})
})
