// Copyright (c) 2024 Neomantra Corp

package hsvf_test

import (
	mdfeed "github.com/marketfeeds/mdcore-go"
	"github.com/marketfeeds/mdcore-go/hsvf"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OrderBook", func() {
	var ob *hsvf.OrderBook

	BeforeEach(func() {
		ob = &hsvf.OrderBook{}
	})

	It("appends a new level and overwrites an existing one", func() {
		Expect(ob.NewOrChange(mdfeed.Side_Bid, 0, 100, 5)).To(Succeed())
		Expect(ob.NewOrChange(mdfeed.Side_Bid, 1, 99, 3)).To(Succeed())
		Expect(ob.NewOrChange(mdfeed.Side_Bid, 0, 101, 6)).To(Succeed())
		Expect(ob.Bids).To(Equal([]hsvf.Level{{Price: 101, Qty: 6}, {Price: 99, Qty: 3}}))
	})

	It("errors when a level would leave a gap", func() {
		Expect(ob.NewOrChange(mdfeed.Side_Ask, 2, 100, 5)).To(HaveOccurred())
	})

	It("truncates from a level downward", func() {
		Expect(ob.NewOrChange(mdfeed.Side_Bid, 0, 100, 5)).To(Succeed())
		Expect(ob.NewOrChange(mdfeed.Side_Bid, 1, 99, 3)).To(Succeed())
		ob.DeleteFrom(mdfeed.Side_Bid, 0)
		Expect(ob.Bids).To(BeEmpty())
	})

	It("reports top-of-book crossed state", func() {
		eq, _, _ := ob.TopBidEqualsTopAsk()
		Expect(eq).To(BeFalse())

		Expect(ob.NewOrChange(mdfeed.Side_Bid, 0, 100, 5)).To(Succeed())
		Expect(ob.NewOrChange(mdfeed.Side_Ask, 0, 100, 3)).To(Succeed())
		eq, price, qty := ob.TopBidEqualsTopAsk()
		Expect(eq).To(BeTrue())
		Expect(price).To(Equal(int64(100)))
		Expect(qty).To(Equal(int32(3)))
	})
})
