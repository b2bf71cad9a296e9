// Copyright (c) 2024 Neomantra Corp

package hsvf

import (
	mdfeed "github.com/marketfeeds/mdcore-go"
	"github.com/marketfeeds/mdcore-go/internal/assertx"
)

// OnRetransmissionMsg dispatches one record replayed by the RecoveryDriver
// (spec.md §4.5). It is the "same handlers, marked as replay" path: the
// record is sanity-checked against the requested span and deduplicated,
// then pushed through the ordinary decode path.
func (p *ChannelProcessor) OnRetransmissionMsg(rec []byte) error {
	long := isLongMsgType(rec)
	hdr, body, err := FillHeader(rec, long)
	if err != nil {
		return err
	}
	if hdr.SeqNum < p.fromSeq || hdr.SeqNum > p.toSeq {
		p.rt.Logger.Warn("[ChannelProcessor] retransmitted message outside requested span",
			"seq", hdr.SeqNum, "from", p.fromSeq, "to", p.toSeq)
		return nil
	}
	if _, seen := p.recoverySeqSeen[hdr.SeqNum]; seen {
		p.rt.Logger.Warn("[ChannelProcessor] duplicate retransmitted sequence", "seq", hdr.SeqNum)
		assertx.Assert(false, "duplicate retransmitted sequence %d", hdr.SeqNum)
		return nil
	}
	p.recoverySeqSeen[hdr.SeqNum] = struct{}{}
	if hdr.SeqNum > p.lastRealtimeSeq {
		p.lastRealtimeSeq = hdr.SeqNum
	}
	return p.dispatch(hdr, body, p.recoveryEmitMode(), true)
}

func (p *ChannelProcessor) recoveryEmitMode() emitMode {
	if p.startupReplay {
		return modeSnapshot
	}
	return modeIncremental
}

// OnRetransmissionComplete implements the success half of §4.7.
func (p *ChannelProcessor) OnRetransmissionComplete() {
	p.finishRecovery()
}

// OnRetransmissionFailed implements the abandon-timer half of §4.7: the
// channel still surfaces whatever it reconciled rather than wedging.
func (p *ChannelProcessor) OnRetransmissionFailed() {
	p.rt.Logger.Warn("[ChannelProcessor] retransmission abandoned", "from", p.fromSeq, "to", p.toSeq)
	p.finishRecovery()
}

func (p *ChannelProcessor) finishRecovery() {
	mode := p.recoveryEmitMode()
	p.rt.Sink.OnChannelStatus(p.channelID, mdfeed.ChannelStatus_Stable)

	buffered := p.buffered
	p.buffered = nil
	for _, br := range buffered {
		records, err := SplitRecords(br.data)
		if err != nil {
			p.rt.Logger.Warn("[ChannelProcessor] malformed buffered packet during reconciliation", "error", err.Error())
			continue
		}
		for _, rec := range records {
			if err := p.applyRealtime(rec); err != nil {
				p.rt.Logger.Warn("[ChannelProcessor] replay dispatch error", "error", err.Error())
			}
		}
	}

	for id := range p.securityIDs {
		p.emitEnd(mode, p.lastRealtimeSeq, id)
	}

	p.inRecovery = false
	p.startupReplay = false
	p.recoverySeqSeen = make(map[uint64]struct{})
}
