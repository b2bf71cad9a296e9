// Copyright (c) 2024 Neomantra Corp

package eobi

import (
	mdfeed "github.com/marketfeeds/mdcore-go"
)

type emitMode uint8

const (
	modeIncremental emitMode = iota
	modeSnapshot
)

type bufferedPacket struct {
	header   PacketHeader
	messages []RawMessage
}

// SegmentProcessor tracks sequencing and recovery state for one market
// segment within a BIN channel (spec.md §3/§4.3). It is the sole mutator
// of its own state; callers (the Channel orchestrator) are expected to
// serialize calls to it from a single executor.
type SegmentProcessor struct {
	rt              mdfeed.Runtime
	channelID       mdfeed.ChannelID
	marketSegmentID int32
	onRequireSnapshot func(marketSegmentID int32)

	lastSeq            uint32
	inRecovery         bool
	snapshotSeq        uint32
	snapshotLastMsgSeq *uint32
	snapshotSecurityID *int64

	buffered []bufferedPacket

	securityIDs  map[int64]struct{}
	currentDescs map[int64]struct{}

	bufferingSkipLogCounter int
}

// NewSegmentProcessor creates a processor for one market segment. onRequireSnapshot
// is invoked the moment the segment first enters recovery, so the channel can
// start the shared snapshot feed (spec.md §4.6); it may be nil in tests that
// drive OnSnapshotPacket directly.
func NewSegmentProcessor(rt mdfeed.Runtime, channelID mdfeed.ChannelID, marketSegmentID int32, onRequireSnapshot func(int32)) *SegmentProcessor {
	return &SegmentProcessor{
		rt:                rt.WithDefaults(),
		channelID:         channelID,
		marketSegmentID:   marketSegmentID,
		onRequireSnapshot: onRequireSnapshot,
		securityIDs:       make(map[int64]struct{}),
		currentDescs:      make(map[int64]struct{}),
	}
}

// RequireSnapshot reports whether this segment is currently recovering,
// i.e. whether the channel must keep the shared snapshot feed running on
// its behalf (spec.md §4.6, design notes §4.9).
func (p *SegmentProcessor) RequireSnapshot() bool { return p.inRecovery }

// MarketSegmentID returns the segment this processor was created for.
func (p *SegmentProcessor) MarketSegmentID() int32 { return p.marketSegmentID }

// LastSeq returns the highest real-time message sequence successfully applied.
func (p *SegmentProcessor) LastSeq() uint32 { return p.lastSeq }

///////////////////////////////////////////////////////////////////////////////
// Real-time path (spec.md §4.3.1)

// OnPacket processes one real-time packet: header plus the message bytes
// following it (i.e. everything SplitMessages can walk).
func (p *SegmentProcessor) OnPacket(header PacketHeader, body []byte) error {
	messages, err := SplitMessages(body)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return ErrEmptyPacket
	}
	msgSeq := messages[0].Header.MsgSeqNum

	if p.inRecovery || gapped(p.lastSeq, msgSeq) {
		if !p.inRecovery {
			p.enterRecovery(msgSeq)
		}
		p.buffered = append(p.buffered, bufferedPacket{header: header, messages: messages})
		p.bufferingSkipLogCounter++
		if p.bufferingSkipLogCounter%100 == 0 {
			p.rt.Logger.Warn("[SegmentProcessor] buffering during recovery",
				"market_segment_id", p.marketSegmentID, "buffered_count", p.bufferingSkipLogCounter)
		}
		return nil
	}

	for _, rm := range messages {
		if err := p.applyRealtime(header.ApplSeqNum, rm); err != nil {
			p.rt.Logger.Warn("[SegmentProcessor] dispatch error", "error", err.Error())
		}
	}
	if header.CompletionIndicator == CompletionComplete {
		p.flushCurrentDescs(modeIncremental)
	}
	return nil
}

// gapped reports whether msgSeq skips ahead of lastSeq by more than one.
func gapped(lastSeq, msgSeq uint32) bool {
	return int64(msgSeq)-int64(lastSeq) > 1
}

func (p *SegmentProcessor) enterRecovery(triggerSeq uint32) {
	if p.inRecovery {
		return
	}
	p.inRecovery = true
	p.snapshotSeq = triggerSeq
	p.bufferingSkipLogCounter = 0
	if p.onRequireSnapshot != nil {
		p.onRequireSnapshot(p.marketSegmentID)
	}
	p.rt.Sink.OnChannelStatus(p.channelID, mdfeed.ChannelStatus_Recovering)
}

func (p *SegmentProcessor) flushCurrentDescs(mode emitMode) {
	for id := range p.currentDescs {
		p.emit(mode, mdfeed.NewEndEvent(p.envelope(0, p.lastSeq, id)))
	}
	p.currentDescs = make(map[int64]struct{})
}

func (p *SegmentProcessor) touch(securityID int64) {
	p.securityIDs[securityID] = struct{}{}
	p.currentDescs[securityID] = struct{}{}
}

func (p *SegmentProcessor) envelope(applSeqNum uint32, msgSeqNum uint32, securityID int64) mdfeed.Envelope {
	return mdfeed.Envelope{
		ChannelID:       p.channelID,
		Indesc:          securityID,
		PacketSequence:  uint64(applSeqNum),
		MessageSequence: uint64(msgSeqNum),
		TsServerRecv:    uint64(p.rt.Clock.Now().UnixNano()),
	}
}

func (p *SegmentProcessor) emit(mode emitMode, ev mdfeed.MarketEvent) {
	if mode == modeSnapshot {
		p.rt.Sink.OnSnapshot(ev)
	} else {
		p.rt.Sink.OnIncremental(ev)
	}
}

///////////////////////////////////////////////////////////////////////////////
// Message-to-event mapping (spec.md §4.3.3)

// applyRealtime dispatches a single message already known to be in
// sequence: it advances lastSeq, maps the message to zero or more events,
// and records any SecurityID it touches.
func (p *SegmentProcessor) applyRealtime(applSeqNum uint32, rm RawMessage) error {
	p.lastSeq = rm.Header.MsgSeqNum
	return p.dispatch(applSeqNum, rm, modeIncremental)
}

func (p *SegmentProcessor) dispatch(applSeqNum uint32, rm RawMessage, mode emitMode) error {
	hdr := rm.Header
	switch hdr.TemplateID {

	case TemplateOrderAdd:
		var m OrderAddMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID),
			Kind:     mdfeed.EventOrderBook,
			OrderBook: &mdfeed.OrderBookEntry{
				Action: mdfeed.Action_New, Side: wireSideToSide(m.Order.Side),
				Price: m.Order.Price, Qty: m.Order.DisplayQty,
				OrderID: m.Order.OrderID(), Priority: m.Order.Priority(),
			},
		})

	case TemplateOrderDelete:
		var m OrderDeleteMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID),
			Kind:     mdfeed.EventOrderBook,
			OrderBook: &mdfeed.OrderBookEntry{
				Action: mdfeed.Action_Delete, Side: wireSideToSide(m.Side),
				OrderID: m.OrderID(), Priority: m.OrderID(),
			},
		})

	case TemplateOrderModify:
		var m OrderModifyMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		env := p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID)
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: env, Kind: mdfeed.EventOrderBook,
			OrderBook: &mdfeed.OrderBookEntry{
				Action: mdfeed.Action_Delete, Side: wireSideToSide(m.PrevSide),
				OrderID: m.PrevTrdRegTSTimePriority, Priority: m.PrevTrdRegTSTimePriority,
			},
		})
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: env, Kind: mdfeed.EventOrderBook,
			OrderBook: &mdfeed.OrderBookEntry{
				Action: mdfeed.Action_New, Side: wireSideToSide(m.New.Side),
				Price: m.New.Price, Qty: m.New.DisplayQty,
				OrderID: m.New.OrderID(), Priority: m.New.Priority(),
			},
		})

	case TemplateOrderModifySamePrio:
		var m OrderModifySamePrioMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID),
			Kind:     mdfeed.EventOrderBook,
			OrderBook: &mdfeed.OrderBookEntry{
				Action: mdfeed.Action_Change, Side: wireSideToSide(m.Order.Side),
				Price: m.Order.Price, Qty: m.Order.DisplayQty,
				OrderID: m.Order.OrderID(), Priority: m.Order.Priority(),
			},
		})

	case TemplateOrderMassDelete:
		var m OrderMassDeleteMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		p.emit(mode, mdfeed.NewBookResetEvent(p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID)))

	case TemplatePartialOrderExecution, TemplateFullOrderExecution:
		var m OrderExecutionMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID),
			Kind:     mdfeed.EventOrderBook,
			OrderBook: &mdfeed.OrderBookEntry{
				Action: mdfeed.Action_Execute, Side: wireSideToSide(m.Order.Side),
				Price: m.Order.Price, Qty: m.Order.DisplayQty,
				OrderID: m.Order.OrderID(), Priority: m.Order.Priority(),
			},
		})

	case TemplateExecutionSummary:
		var m ExecutionSummaryMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		qualifier := mdfeed.TradeQualifier_Regular
		if m.TradeCondition == 1 {
			qualifier = mdfeed.TradeQualifier_Implied
		}
		side := mdfeed.Side_Ask
		if m.AggressorSide == HitOrTakeTake {
			side = mdfeed.Side_Bid
		}
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID),
			Kind:     mdfeed.EventTrade,
			Trade: &mdfeed.TradeEntry{
				Type: mdfeed.Trade_Regular, Qualifier: qualifier, Side: side,
				Price: m.Price, Qty: m.Qty, TsTrade: m.TsTrade, ExecID: m.ExecID,
			},
		})

	case TemplateTradeReport:
		var m TradeReportMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID) // already covered by ExecutionSummary; log only

	case TemplateProductStateChange:
		var m ProductStateChangeMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		status := productStatusFromSubID(m.SubID)
		for id := range p.securityIDs {
			p.touch(id)
			p.emit(mode, mdfeed.MarketEvent{
				Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, id),
				Kind:     mdfeed.EventStatus,
				Status:   &mdfeed.StatusEntry{Value: status},
			})
		}

	case TemplateInstrumentStateChange:
		var m InstrumentStateChangeMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		status := instrumentStatus(m.SecurityStatus, m.SecurityTradingStatus, m.FastMarketIndicator)
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID),
			Kind:     mdfeed.EventStatus,
			Status:   &mdfeed.StatusEntry{Value: status},
		})

	case TemplateQuoteRequest:
		var m QuoteRequestMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID),
			Kind:     mdfeed.EventQuoteRequest,
			QuoteRequest: &mdfeed.QuoteRequestEntry{
				Type: mdfeed.QuoteRequest_Tradable, Side: wireSideToSide(m.Side),
			},
		})

	case TemplateCrossRequest:
		var m CrossRequestMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID)
		p.emit(mode, mdfeed.MarketEvent{
			Envelope: p.envelope(applSeqNum, hdr.MsgSeqNum, m.SecurityID),
			Kind:     mdfeed.EventQuoteRequest,
			QuoteRequest: &mdfeed.QuoteRequestEntry{
				Type: mdfeed.QuoteRequest_CrossTradeNotice, Side: mdfeed.Side_Cross,
			},
		})

	case TemplateAuctionBBO:
		var m AuctionBBOMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID) // reserved: emit nothing

	case TemplateAuctionClearingPrice:
		var m AuctionClearingPriceMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		p.touch(m.SecurityID) // reserved: emit nothing

	case TemplateHeartbeat:
		var m HeartbeatMsg
		if err := m.FillRaw(rm.Body); err != nil {
			return err
		}
		if m.LastMsgSeqNumProcessed > p.lastSeq {
			p.enterRecovery(m.LastMsgSeqNumProcessed)
		}

	default:
		p.rt.Logger.Warn("[SegmentProcessor] unknown template id", "template_id", uint16(hdr.TemplateID))
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Snapshot path (spec.md §4.3.2, §4.3.4)

// OnSnapshotPacket processes one packet from the shared BIN snapshot feed.
// It is a no-op when this segment is not currently recovering: the channel
// routes each snapshot packet to the segment named by its MarketSegmentID
// (spec.md §4.6), and a segment that has already completed recovery
// ignores stragglers.
func (p *SegmentProcessor) OnSnapshotPacket(header PacketHeader, body []byte) error {
	if !p.inRecovery {
		return nil
	}
	messages, err := SplitMessages(body)
	if err != nil {
		return err
	}

	for _, rm := range messages {
		switch rm.Header.TemplateID {
		case TemplateProductSummary:
			var m ProductSummaryMsg
			if err := m.FillRaw(rm.Body); err != nil {
				return err
			}
			if p.snapshotLastMsgSeq != nil {
				p.snapshotCompletion()
				return nil
			}
			if m.LastMsgSeqNumProcessed >= p.snapshotSeq-1 {
				seq := m.LastMsgSeqNumProcessed
				p.snapshotLastMsgSeq = &seq
			}
			// else: loop hasn't advanced far enough yet; wait for the next one.

		case TemplateInstrumentSummary:
			if p.snapshotLastMsgSeq == nil {
				continue
			}
			var m InstrumentSummaryMsg
			if err := m.FillRaw(rm.Body); err != nil {
				return err
			}
			secID := m.SecurityID
			p.snapshotSecurityID = &secID
			p.securityIDs[secID] = struct{}{}

			env := p.envelope(header.ApplSeqNum, rm.Header.MsgSeqNum, secID)
			status := instrumentStatus(m.SecurityStatus, m.SecurityTradingStatus, m.FastMarketIndicator)
			p.emit(modeSnapshot, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatus, Status: &mdfeed.StatusEntry{Value: status}})
			for _, e := range m.Entries {
				p.emitStatEntry(env, e)
			}

		case TemplateSnapshotOrder:
			if p.snapshotLastMsgSeq == nil || p.snapshotSecurityID == nil {
				continue
			}
			var m SnapshotOrderMsg
			if err := m.FillRaw(rm.Body); err != nil {
				return err
			}
			secID := *p.snapshotSecurityID
			p.emit(modeSnapshot, mdfeed.MarketEvent{
				Envelope: p.envelope(header.ApplSeqNum, rm.Header.MsgSeqNum, secID),
				Kind:     mdfeed.EventOrderBook,
				OrderBook: &mdfeed.OrderBookEntry{
					Action: mdfeed.Action_New, Side: wireSideToSide(m.Order.Side),
					Price: m.Order.Price, Qty: m.Order.DisplayQty,
					OrderID: m.Order.OrderID(), Priority: m.Order.Priority(),
				},
			})

		default:
			p.rt.Logger.Warn("[SegmentProcessor] unknown snapshot template id", "template_id", uint16(rm.Header.TemplateID))
		}
	}
	return nil
}

func (p *SegmentProcessor) emitStatEntry(env mdfeed.Envelope, e MDEntry) {
	switch e.MDEntryType {
	case MDEntryLowPrice:
		p.emit(modeSnapshot, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_Low, Action: mdfeed.Action_New, Value: e.MDEntryPx}})
	case MDEntryHighPrice:
		p.emit(modeSnapshot, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_High, Action: mdfeed.Action_New, Value: e.MDEntryPx}})
	case MDEntryOpeningPrice:
		p.emit(modeSnapshot, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_Open, Action: mdfeed.Action_New, Value: e.MDEntryPx}})
	case MDEntryClosingPrice:
		p.emit(modeSnapshot, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_Close, Action: mdfeed.Action_New, Value: e.MDEntryPx}})
	case MDEntryTradeVolume:
		p.emit(modeSnapshot, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatQty, StatQty: &mdfeed.StatQtyEntry{ID: mdfeed.StatQty_Volume, Action: mdfeed.Action_New, Value: int64(e.MDEntrySize)}})
	default:
		p.rt.Logger.Warn("[SegmentProcessor] unknown MDEntryType", "entry_type", e.MDEntryType)
	}
}

// snapshotCompletion replays buffered real-time packets, drops stale
// messages, and signals the end of recovery (spec.md §4.3.4).
func (p *SegmentProcessor) snapshotCompletion() {
	lastMsgSeq := *p.snapshotLastMsgSeq
	for _, bp := range p.buffered {
		for _, rm := range bp.messages {
			if rm.Header.MsgSeqNum <= lastMsgSeq {
				continue // stale, already covered by the snapshot
			}
			if err := p.applyRealtime(bp.header.ApplSeqNum, rm); err != nil {
				p.rt.Logger.Warn("[SegmentProcessor] replay dispatch error", "error", err.Error())
			}
		}
		if bp.header.CompletionIndicator == CompletionComplete {
			p.flushCurrentDescs(modeIncremental)
		}
	}

	p.buffered = nil
	p.snapshotSeq = 0
	p.snapshotLastMsgSeq = nil
	p.snapshotSecurityID = nil
	p.inRecovery = false
	p.rt.Sink.OnChannelStatus(p.channelID, mdfeed.ChannelStatus_Stable)

	for id := range p.securityIDs {
		p.emit(modeSnapshot, mdfeed.NewEndEvent(p.envelope(0, p.lastSeq, id)))
	}
}
