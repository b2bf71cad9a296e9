// Copyright (c) 2024 Neomantra Corp

package hsvf_test

import (
	mdfeed "github.com/marketfeeds/mdcore-go"
	"github.com/marketfeeds/mdcore-go/hsvf"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ChannelProcessor", func() {
	var (
		sink *fakeSink
		proc *hsvf.ChannelProcessor
	)

	BeforeEach(func() {
		sink = &fakeSink{}
		rt := mdfeed.Runtime{Sink: sink}
		proc = hsvf.NewChannelProcessor(rt, "TXT.TEST", nil)
	})

	Context("market depth", func() {
		It("emits level updates for both sides and an EventEnd", func() {
			body := depthBody(42, '2', 'T', '0', 10000, 5, '0', 10005, 3)
			Expect(proc.OnPacket(packet(record(1, "H", body)))).To(Succeed())

			Expect(sink.Incremental).To(HaveLen(4)) // bid, ask, Status, End (status==Open: no indicative opening)
			Expect(sink.Incremental[0].Kind).To(Equal(mdfeed.EventLevelBook))
			Expect(sink.Incremental[0].LevelBook.Side).To(Equal(mdfeed.Side_Bid))
			Expect(sink.Incremental[0].LevelBook.Action).To(Equal(mdfeed.Action_NewOrChange))
			Expect(sink.Incremental[0].LevelBook.Price).To(Equal(int64(10000)))
			Expect(sink.Incremental[0].LevelBook.Level).To(Equal(2))

			Expect(sink.Incremental[1].LevelBook.Side).To(Equal(mdfeed.Side_Ask))
			Expect(sink.Incremental[3].Kind).To(Equal(mdfeed.EventEnd))
		})

		It("handles an implied level with one side deleted (§7 scenario 4)", func() {
			body := depthBody(42, 'A', 'T', '0', 12345, 3, '0', 0, 0)
			Expect(proc.OnPacket(packet(record(1, "HF", body)))).To(Succeed())

			Expect(sink.Incremental[0].LevelBook.Side).To(Equal(mdfeed.Side_ImpliedBid))
			Expect(sink.Incremental[0].LevelBook.Action).To(Equal(mdfeed.Action_NewOrChange))
			Expect(sink.Incremental[0].LevelBook.Qty).To(Equal(int32(3)))

			Expect(sink.Incremental[1].LevelBook.Side).To(Equal(mdfeed.Side_ImpliedAsk))
			Expect(sink.Incremental[1].LevelBook.Action).To(Equal(mdfeed.Action_Delete))
		})

		It("emits a theoretical opening when the book is crossed and status is not continuous", func() {
			body := depthBody(7, '0', 'O', '0', 10000, 5, '0', 10000, 2)
			Expect(proc.OnPacket(packet(record(1, "H", body)))).To(Succeed())

			var sawOpen, sawQty bool
			for _, ev := range sink.Incremental {
				if ev.Kind == mdfeed.EventStatPrice && ev.StatPrice.ID == mdfeed.StatPrice_IndicativeOpenPrice {
					sawOpen = true
					Expect(ev.StatPrice.Value).To(Equal(int64(10000)))
				}
				if ev.Kind == mdfeed.EventStatQty && ev.StatQty.ID == mdfeed.StatQty_IndicativeOpenQty {
					sawQty = true
					Expect(ev.StatQty.Value).To(Equal(int64(2)))
				}
			}
			Expect(sawOpen).To(BeTrue())
			Expect(sawQty).To(BeTrue())
		})
	})

	Context("trades", func() {
		It("emits a regular trade", func() {
			body := tradeBody(42, ' ', 10000, '0', 5, 1, 2, 999)
			Expect(proc.OnPacket(packet(longRecord(1, "C", "20260730093000123", body)))).To(Succeed())

			Expect(sink.Incremental).To(HaveLen(1))
			tr := sink.Incremental[0].Trade
			Expect(tr.Type).To(Equal(mdfeed.Trade_Regular))
			Expect(tr.Price).To(Equal(int64(10000)))
			Expect(tr.Qty).To(Equal(int32(5)))
		})

		It("treats a ReferencePrice marker as an indicative settlement when opted in", func() {
			proc2 := hsvf.NewChannelProcessor(mdfeed.Runtime{Sink: sink}, "TXT.TEST2", nil)
			proc2.ReferencePriceAsSettlement = true
			body := tradeBody(42, byte(hsvf.MarkerReferencePrice), 9900, '0', 0, 0, 0, 0)
			Expect(proc2.OnPacket(packet(longRecord(1, "CF", "20260730000000000", body)))).To(Succeed())

			Expect(sink.Incremental).To(HaveLen(2))
			Expect(sink.Incremental[0].Kind).To(Equal(mdfeed.EventStatPrice))
			Expect(sink.Incremental[0].StatPrice.ID).To(Equal(mdfeed.StatPrice_IndicativeSettle))
			Expect(sink.Incremental[1].Kind).To(Equal(mdfeed.EventStatTime))
		})

		It("drops a strategy trade report without emitting a Trade event", func() {
			body := tradeBody(42, byte(hsvf.MarkerStrategyReporting), 10000, '0', 5, 1, 2, 1)
			Expect(proc.OnPacket(packet(longRecord(1, "CS", "20260730093000123", body)))).To(Succeed())
			Expect(sink.Incremental).To(BeEmpty())
		})

		It("drops a non-positive-volume trade that isn't ReferencePrice", func() {
			body := tradeBody(42, ' ', 10000, '0', 0, 0, 0, 0)
			Expect(proc.OnPacket(packet(longRecord(1, "C", "20260730093000123", body)))).To(Succeed())
			Expect(sink.Incremental).To(BeEmpty())
		})
	})

	Context("summary records", func() {
		It("emits high/low/open/volume and a settlement on end-of-day", func() {
			body := summaryBody(42, 10100, 9900, 10000, '0', 500, byte(hsvf.ReasonEndOfDay), 10050, 10000)
			Expect(proc.OnPacket(packet(record(1, "N", body)))).To(Succeed())

			kinds := map[mdfeed.EventKind]int{}
			for _, ev := range sink.Incremental {
				kinds[ev.Kind]++
			}
			Expect(kinds[mdfeed.EventStatPrice]).To(Equal(4)) // high, low, open, settle
			Expect(kinds[mdfeed.EventStatQty]).To(Equal(1))
			Expect(kinds[mdfeed.EventStatTime]).To(Equal(1))
			Expect(kinds[mdfeed.EventEnd]).To(Equal(1))
		})

		It("skips the settlement shortcut for a strategy summary", func() {
			body := summaryBody(42, 0, 0, 0, '0', 0, byte(hsvf.ReasonEndOfDay), 10050, 10000)
			Expect(proc.OnPacket(packet(record(1, "NS", body)))).To(Succeed())

			for _, ev := range sink.Incremental {
				Expect(ev.Kind).ToNot(Equal(mdfeed.EventStatTime))
			}
		})
	})

	Context("group status", func() {
		It("fans a status marker out to every instrument touched for that group", func() {
			outBody := outrightKeysBody(42, "CGB U6", 100, '0', "000001", 1000, 10000, 'U', "FUT", '5', '1')
			Expect(proc.OnPacket(packet(record(1, "J", outBody)))).To(Succeed())

			Expect(proc.OnPacket(packet(record(2, "GR", "FUT "+string(hsvf.StatusMarkerHaltedTrading))))).To(Succeed())

			var sawStatus, sawEnd bool
			for _, ev := range sink.Incremental {
				if ev.Kind == mdfeed.EventStatus {
					sawStatus = true
					Expect(ev.Status.Value).To(Equal(mdfeed.Status_Freeze))
				}
				if ev.Kind == mdfeed.EventEnd {
					sawEnd = true
				}
			}
			Expect(sawStatus).To(BeTrue())
			Expect(sawEnd).To(BeTrue())
		})
	})

	Context("tick tables", func() {
		It("builds a table from lower-bound rows and resolves an instrument's increment", func() {
			// two rows given lowest-bound-first, as the exchange publishes them.
			body := "TTBL" +
				digits(0, 9) + digits(1, 6) + "2" +
				digits(100000, 9) + digits(5, 6) + "2"
			Expect(proc.OnPacket(packet(record(1, "TT", body)))).To(Succeed())

			outBody := outrightKeysBody(99, "CGB Z6", 50000, '2', "TTBL  ", 1000, 10000, 'C', "FUT", '5', '1')
			Expect(proc.OnPacket(packet(record(2, "J", outBody)))).To(Succeed())

			Expect(sink.Definitions).To(HaveLen(1))
			inst := sink.Definitions[0].Def.(*hsvf.InstrumentDefinition)
			Expect(inst.TickIncrementNum).To(Equal(int64(1)))
			Expect(inst.Decimals).To(Equal(2))
		})
	})

	Context("instrument keys", func() {
		It("builds and emits an outright InstrumentDefinition", func() {
			body := outrightKeysBody(42, "CGB U6", 100, '0', "000001", 1000, 10000, 'U', "FUT", '5', '1')
			Expect(proc.OnPacket(packet(record(1, "J", body)))).To(Succeed())

			Expect(sink.Definitions).To(HaveLen(1))
			def := sink.Definitions[0]
			Expect(def.Identifier).To(Equal(int64(42)))
			inst := def.Def.(*hsvf.InstrumentDefinition)
			Expect(inst.Decimals).To(Equal(2))
			Expect(inst.CurrencyCode).To(Equal("USD"))
			Expect(inst.Depth).To(Equal(5))
			Expect(inst.ImpliedDepth).To(Equal(1))

			Expect(sink.Snapshot).To(HaveLen(1))
			Expect(sink.Snapshot[0].Kind).To(Equal(mdfeed.EventEnd))
		})
	})

	Context("a gap in real-time traffic", func() {
		It("buffers subsequent packets and requests recovery exactly once", func() {
			var gotFrom, gotTo uint64
			requests := 0
			proc2 := hsvf.NewChannelProcessor(mdfeed.Runtime{Sink: sink}, "TXT.TEST3", func(from, to uint64) {
				requests++
				gotFrom, gotTo = from, to
			})
			Expect(proc2.OnPacket(packet(record(5, "V", "")))).To(Succeed())
			Expect(proc2.OnPacket(packet(record(6, "V", "")))).To(Succeed())

			Expect(requests).To(Equal(1))
			Expect(gotFrom).To(Equal(uint64(2)))
			Expect(gotTo).To(Equal(uint64(4)))
			Expect(proc2.InRecovery()).To(BeTrue())
		})
	})
})
