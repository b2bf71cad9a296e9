// Copyright (c) 2024 Neomantra Corp

package hsvf_test

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	mdfeed "github.com/marketfeeds/mdcore-go"
	"github.com/marketfeeds/mdcore-go/hsvf"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func readServerRecord(r *bufio.Reader) (seq uint64, msgType string, payload []byte) {
	if _, err := r.ReadByte(); err != nil {
		return 0, "", nil
	}
	inner, err := r.ReadBytes(0x03)
	if err != nil {
		return 0, "", nil
	}
	inner = inner[:len(inner)-1]
	seq = hsvf.ParseDigits(inner[0:10])
	msgType = string(inner[10:12])
	payload = inner[12:]
	return
}

func writeServerRecord(w net.Conn, seq uint64, msgType string, payload string) {
	rec := []byte{0x02}
	rec = append(rec, []byte(fmt.Sprintf("%010d", seq))...)
	rec = append(rec, []byte(pad(msgType, 2))...)
	rec = append(rec, []byte(payload)...)
	rec = append(rec, 0x03)
	w.Write(rec)
}

var _ = Describe("RecoveryDriver", func() {
	It("fills a real-time gap end to end: LI/KI/RT/RB/replay/RE/LO/KO", func() {
		sink := &fakeSink{}
		rt := mdfeed.Runtime{Sink: sink}

		serverCh := make(chan net.Conn, 1)
		dial := func(ctx context.Context, address string) (net.Conn, error) {
			client, server := net.Pipe()
			serverCh <- server
			return client, nil
		}

		cfg := hsvf.RecoveryConfig{
			Address: "test", Username: "user", Password: "pass",
			Line: "L1", Timeout: 5 * time.Second, PageSize: 10,
		}
		ch := hsvf.NewChannel(rt, "TXT.TEST", hsvf.ChannelConfig{InterfaceA: "eth0", Recovery: cfg}, dial)

		// msg 5 arrives real-time against a fresh processor (last_realtime_seq
		// starts at 1): a gap of 4, so the channel requests a retransmission
		// for [2..4] and buffers msg 5 until it completes.
		done := make(chan error, 1)
		go func() { done <- ch.OnPacket(packet(record(5, "V", ""))) }()

		server := <-serverCh
		r := bufio.NewReader(server)

		_, msgType, _ := readServerRecord(r)
		Expect(msgType).To(Equal("LI"))

		writeServerRecord(server, 1, "KI", "")

		_, msgType, payload := readServerRecord(r)
		Expect(msgType).To(Equal("RT"))
		Expect(string(payload)).To(Equal("00000000020000000004"))
		Expect(<-done).To(Succeed())

		writeServerRecord(server, 0, "RB", "")
		writeServerRecord(server, 2, "V", "")
		writeServerRecord(server, 3, "V", "")
		writeServerRecord(server, 4, "V", "")
		writeServerRecord(server, 0, "RE", "")

		_, msgType, _ = readServerRecord(r)
		Expect(msgType).To(Equal("LO"))

		writeServerRecord(server, 0, "KO", "")

		Eventually(ch.Recovery().State).Should(Equal("Idle"))
		Eventually(func() bool { return ch.Processor().InRecovery() }).Should(BeFalse())
		Expect(ch.Processor().LastRealtimeSeq()).To(Equal(uint64(5)))
		Expect(sink.Statuses).To(Equal([]mdfeed.ChannelStatus{
			mdfeed.ChannelStatus_Recovering, mdfeed.ChannelStatus_Stable,
		}))
	})
})
