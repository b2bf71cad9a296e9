// Copyright (c) 2024 Neomantra Corp

package hsvf_test

import (
	"github.com/marketfeeds/mdcore-go/hsvf"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("wire framing", func() {
	It("splits multiple STX...ETX records from one buffer", func() {
		buf := append([]byte{0x02}, append([]byte("0000000001SD"), 0x03)...)
		buf = append(buf, append([]byte{0x02}, append([]byte("0000000002V"), 0x03)...)...)
		records, err := hsvf.SplitRecords(buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(string(records[0])).To(Equal("0000000001SD"))
		Expect(string(records[1])).To(Equal("0000000002V"))
	})

	It("errors on a missing ETX", func() {
		buf := append([]byte{0x02}, []byte("0000000001SD")...)
		_, err := hsvf.SplitRecords(buf)
		Expect(err).To(Equal(hsvf.ErrNoETX))
	})

	It("decodes a short MsgHeader", func() {
		hdr, body, err := hsvf.FillHeader([]byte("0000000042SDrest"), false)
		Expect(err).ToNot(HaveOccurred())
		Expect(hdr.SeqNum).To(Equal(uint64(42)))
		Expect(hdr.MsgType).To(Equal("SD"))
		Expect(string(body)).To(Equal("rest"))
	})
})

var _ = Describe("GetPrice fraction indicator", func() {
	It("divides by 10^n for digit indicators", func() {
		Expect(hsvf.GetPrice(123400, '2')).To(Equal(int64(1234)))
		Expect(hsvf.GetPrice(123400, '0')).To(Equal(int64(123400)))
	})

	It("negates the divided value for letter indicators A..G", func() {
		Expect(hsvf.GetPrice(123400, 'B')).To(Equal(int64(-1234)))
	})

	It("multiplies for the Z..U multiplier codes", func() {
		Expect(hsvf.GetPrice(5, 'Z')).To(Equal(int64(50)))
		Expect(hsvf.GetPrice(5, 'Y')).To(Equal(int64(500)))
	})
})

var _ = Describe("AdjustPrice", func() {
	It("multiplies up when the instrument carries more decimals", func() {
		Expect(hsvf.AdjustPrice(100, 4, 2)).To(Equal(int64(10000)))
	})
	It("divides down when the instrument carries fewer decimals", func() {
		Expect(hsvf.AdjustPrice(10000, 2, 4)).To(Equal(int64(100)))
	})
	It("is a no-op when decimals match", func() {
		Expect(hsvf.AdjustPrice(555, 3, 3)).To(Equal(int64(555)))
	})
})

var _ = Describe("size field parsing", func() {
	It("parses plain digits", func() {
		Expect(hsvf.ParseSizeField([]byte("00000123"))).To(Equal(int64(123)))
	})
	It("applies a trailing exponent letter", func() {
		Expect(hsvf.ParseSizeField([]byte("0000012C"))).To(Equal(int64(1200)))
	})
})

var _ = Describe("month codes", func() {
	It("decodes futures month codes", func() {
		m, err := hsvf.DecodeFuturesMonth('Z')
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal(12))
	})
	It("decodes option month codes with a put/call flag", func() {
		m, isPut, err := hsvf.DecodeOptionMonth('A')
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal(1))
		Expect(isPut).To(BeFalse())

		m, isPut, err = hsvf.DecodeOptionMonth('M')
		Expect(err).ToNot(HaveOccurred())
		Expect(m).To(Equal(1))
		Expect(isPut).To(BeTrue())
	})
	It("rejects unrecognized codes", func() {
		_, err := hsvf.DecodeFuturesMonth('A')
		Expect(err).To(HaveOccurred())
	})
})
