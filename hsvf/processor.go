// Copyright (c) 2024 Neomantra Corp

package hsvf

import (
	"time"

	mdfeed "github.com/marketfeeds/mdcore-go"
)

type emitMode uint8

const (
	modeIncremental emitMode = iota
	modeSnapshot
)

type bufferedRecord struct {
	seq  uint64
	data []byte // record inner bytes (header+body, STX/ETX already stripped)
}

// ChannelProcessor is the single flat sequence tracker and recovery engine
// for one TXT channel (spec.md §3/§4.4). It owns the last-seen real-time
// sequence, the instrument catalog, per-identifier local order books used
// only for theoretical-opening derivation, and the buffer of real-time
// records accumulated while a TCP retransmission session is in flight.
type ChannelProcessor struct {
	rt        mdfeed.Runtime
	channelID mdfeed.ChannelID

	onRequireRecovery func(fromSeq, toSeq uint64)

	// ReferencePriceAsSettlement enables the ReferencePrice-marker trade
	// shortcut (§4.4.2): a ReferencePrice-marked record of any trade message
	// type (C, CF, CB, CS) becomes an indicative settlement stamp rather
	// than a trade.
	ReferencePriceAsSettlement bool

	lastRealtimeSeq uint64
	inRecovery      bool
	fromSeq         uint64
	toSeq           uint64
	recoverySeqSeen map[uint64]struct{}
	startupReplay   bool

	buffered []bufferedRecord

	instruments map[int64]*InstrumentDefinition
	outrights   map[int64]*InstrumentDefinition
	statusCache map[int64]StatusMarker
	groups      map[string][]int64
	tickTables  map[string]*TickTable

	books *OrderBooks

	securityIDs map[int64]struct{}
}

// NewChannelProcessor creates a processor for one TXT channel.
// onRequireRecovery is invoked the moment the processor enters recovery so
// the channel can dial its RecoveryDriver; it may be nil in tests that
// drive recovery completion directly.
func NewChannelProcessor(rt mdfeed.Runtime, channelID mdfeed.ChannelID, onRequireRecovery func(uint64, uint64)) *ChannelProcessor {
	return &ChannelProcessor{
		rt:                rt.WithDefaults(),
		channelID:         channelID,
		onRequireRecovery: onRequireRecovery,
		lastRealtimeSeq:   1,
		recoverySeqSeen:   make(map[uint64]struct{}),
		instruments:       make(map[int64]*InstrumentDefinition),
		outrights:         make(map[int64]*InstrumentDefinition),
		statusCache:       make(map[int64]StatusMarker),
		groups:            make(map[string][]int64),
		tickTables:        make(map[string]*TickTable),
		books:             NewOrderBooks(),
		securityIDs:       make(map[int64]struct{}),
	}
}

// InRecovery reports whether the processor is currently waiting on a
// retransmission session.
func (p *ChannelProcessor) InRecovery() bool { return p.inRecovery }

// LastRealtimeSeq returns the highest real-time sequence successfully applied.
func (p *ChannelProcessor) LastRealtimeSeq() uint64 { return p.lastRealtimeSeq }

///////////////////////////////////////////////////////////////////////////////
// Real-time path (spec.md §4.4.1)

// OnPacket processes one UDP datagram: one or more STX...ETX framed records.
func (p *ChannelProcessor) OnPacket(data []byte) error {
	records, err := SplitRecords(data)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	seq := ParseDigits(records[0][:10])

	if p.inRecovery || int64(seq)-int64(p.lastRealtimeSeq) > 1 {
		if !p.inRecovery {
			p.enterRecovery(seq)
		}
		p.buffered = append(p.buffered, bufferedRecord{seq: seq, data: data})
		return nil
	}

	for _, rec := range records {
		if err := p.applyRealtime(rec); err != nil {
			p.rt.Logger.Warn("[ChannelProcessor] dispatch error", "error", err.Error())
		}
	}
	return nil
}

func (p *ChannelProcessor) enterRecovery(triggerSeq uint64) {
	if p.inRecovery {
		return
	}
	p.inRecovery = true
	p.fromSeq = p.lastRealtimeSeq + 1
	p.toSeq = triggerSeq - 1
	p.startupReplay = p.fromSeq == 1
	p.recoverySeqSeen = make(map[uint64]struct{})
	p.rt.Sink.OnChannelStatus(p.channelID, mdfeed.ChannelStatus_Recovering)
	if p.onRequireRecovery != nil {
		p.onRequireRecovery(p.fromSeq, p.toSeq)
	}
}

func (p *ChannelProcessor) applyRealtime(rec []byte) error {
	long := isLongMsgType(rec)
	hdr, body, err := FillHeader(rec, long)
	if err != nil {
		return err
	}
	p.lastRealtimeSeq = hdr.SeqNum
	return p.dispatch(hdr, body, modeIncremental, false)
}

// isLongMsgType peeks the msgType field of a raw record to decide whether
// it carries the 20-byte timestamp variant of MsgHeader. Trade records are
// the only family that does.
func isLongMsgType(rec []byte) bool {
	return len(rec) > 10 && rec[10] == 'C'
}

func (p *ChannelProcessor) touch(identifier int64) {
	p.securityIDs[identifier] = struct{}{}
}

func (p *ChannelProcessor) envelope(seq uint64, identifier int64) mdfeed.Envelope {
	return mdfeed.Envelope{
		ChannelID:       p.channelID,
		Indesc:          identifier,
		PacketSequence:  seq,
		MessageSequence: seq,
		TsServerRecv:    uint64(p.rt.Clock.Now().UnixNano()),
	}
}

func (p *ChannelProcessor) emit(mode emitMode, ev mdfeed.MarketEvent) {
	if mode == modeSnapshot {
		p.rt.Sink.OnSnapshot(ev)
	} else {
		p.rt.Sink.OnIncremental(ev)
	}
}

func (p *ChannelProcessor) emitEnd(mode emitMode, seq uint64, identifier int64) {
	p.emit(mode, mdfeed.NewEndEvent(p.envelope(seq, identifier)))
}

///////////////////////////////////////////////////////////////////////////////
// Message dispatch (spec.md §4.4.2)

func (p *ChannelProcessor) dispatch(hdr MsgHeader, body []byte, mode emitMode, replayed bool) error {
	switch hdr.MsgType {
	case "H", "HF", "HB", "HS":
		return p.handleDepth(hdr, body, mode)
	case "N", "NF", "NB", "NS":
		return p.handleSummary(hdr, body, mode)
	case "C", "CF", "CB", "CS":
		return p.handleTrade(hdr, body, mode)
	case "J", "JF", "JB":
		return p.handleOutrightKeys(hdr, body, mode, replayed)
	case "JS":
		return p.handleStrategyKeys(hdr, body, mode, replayed)
	case "GR", "GS":
		return p.handleGroupStatus(hdr, body, mode)
	case "TT":
		return p.handleTickTable(hdr, body)
	case "SD":
		if !p.inRecovery {
			p.rt.Sink.OnChannelStatus(p.channelID, mdfeed.ChannelStatus_Stable)
		}
	case "V", "U", "S":
		// Heartbeat, EndOfTransmission, EndOfSales: log only.
		p.rt.Logger.Debug("[ChannelProcessor] control record", "msg_type", hdr.MsgType, "seq", hdr.SeqNum)
	default:
		if len(hdr.MsgType) > 0 && hdr.MsgType[0] == 'Q' {
			return nil // summary boundary marker, no-op
		}
		p.rt.Logger.Warn("[ChannelProcessor] unknown message type", "msg_type", hdr.MsgType)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Market depth (spec.md §4.4.2)

// depthRecordWidth is the fixed body width for one level update: identifier
// (8), level marker (1), status marker (1), bid side (fraction indicator 1 +
// price 9 + size 8), ask side (same).
const depthRecordWidth = 8 + 1 + 1 + 1 + 9 + 8 + 1 + 9 + 8

func (p *ChannelProcessor) handleDepth(hdr MsgHeader, body []byte, mode emitMode) error {
	if len(body) < depthRecordWidth {
		return ErrShortHeader
	}
	o := 0
	identifier := int64(ParseDigits(body[o : o+8]))
	o += 8
	levelByte := body[o]
	o++
	statusByte := body[o]
	o++
	p.touch(identifier)

	var level int
	var bidSide, askSide mdfeed.Side = mdfeed.Side_Bid, mdfeed.Side_Ask
	implied := levelByte == 'A'
	if implied {
		level = 0
		bidSide, askSide = mdfeed.Side_ImpliedBid, mdfeed.Side_ImpliedAsk
	} else {
		level = int(levelByte - '0')
	}

	bidFrac := body[o]
	o++
	bidPriceRaw := int64(ParseDigits(body[o : o+9]))
	o += 9
	bidSize := ParseSizeField(body[o : o+8])
	o += 8

	askFrac := body[o]
	o++
	askPriceRaw := int64(ParseDigits(body[o : o+9]))
	o += 9
	askSize := ParseSizeField(body[o : o+8])

	decimals := p.decimalsFor(identifier)
	bidPrice := AdjustPrice(GetPrice(bidPriceRaw, bidFrac), decimals, FractionIndicatorDecimals(bidFrac))
	askPrice := AdjustPrice(GetPrice(askPriceRaw, askFrac), decimals, FractionIndicatorDecimals(askFrac))

	env := p.envelope(hdr.SeqNum, identifier)
	book := p.books.Get(identifier)

	if bidSize != 0 {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventLevelBook, LevelBook: &mdfeed.LevelBookEntry{
			Action: mdfeed.Action_NewOrChange, Side: bidSide, Level: level, Price: bidPrice, Qty: int32(bidSize),
		}})
		_ = book.NewOrChange(mdfeed.Side_Bid, level, bidPrice, int32(bidSize))
	} else if implied {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventLevelBook, LevelBook: &mdfeed.LevelBookEntry{
			Action: mdfeed.Action_Delete, Side: bidSide, Level: level,
		}})
	} else {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventLevelBook, LevelBook: &mdfeed.LevelBookEntry{
			Action: mdfeed.Action_DeleteFrom, Side: bidSide, Level: level,
		}})
		book.DeleteFrom(mdfeed.Side_Bid, level)
	}

	if askSize != 0 {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventLevelBook, LevelBook: &mdfeed.LevelBookEntry{
			Action: mdfeed.Action_NewOrChange, Side: askSide, Level: level, Price: askPrice, Qty: int32(askSize),
		}})
		_ = book.NewOrChange(mdfeed.Side_Ask, level, askPrice, int32(askSize))
	} else if implied {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventLevelBook, LevelBook: &mdfeed.LevelBookEntry{
			Action: mdfeed.Action_Delete, Side: askSide, Level: level,
		}})
	} else {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventLevelBook, LevelBook: &mdfeed.LevelBookEntry{
			Action: mdfeed.Action_DeleteFrom, Side: askSide, Level: level,
		}})
		book.DeleteFrom(mdfeed.Side_Ask, level)
	}

	status := p.handleStatusMarker(identifier, statusByte, env, mode)
	if status != mdfeed.Status_Open {
		if eq, price, qty := book.TopBidEqualsTopAsk(); eq {
			p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{
				ID: mdfeed.StatPrice_IndicativeOpenPrice, Action: mdfeed.Action_New, Value: price,
			}})
			p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatQty, StatQty: &mdfeed.StatQtyEntry{
				ID: mdfeed.StatQty_IndicativeOpenQty, Action: mdfeed.Action_New, Value: int64(qty),
			}})
		} else {
			p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{
				ID: mdfeed.StatPrice_IndicativeOpenPrice, Action: mdfeed.Action_Delete,
			}})
			p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatQty, StatQty: &mdfeed.StatQtyEntry{
				ID: mdfeed.StatQty_IndicativeOpenQty, Action: mdfeed.Action_Delete,
			}})
		}
	}

	p.emitEnd(mode, hdr.SeqNum, identifier)
	return nil
}

func (p *ChannelProcessor) decimalsFor(identifier int64) int {
	if inst, ok := p.instruments[identifier]; ok {
		return inst.Decimals
	}
	return 0
}

///////////////////////////////////////////////////////////////////////////////
// Status marker mapping (spec.md §4.4.3)

func statusFromMarker(b byte) mdfeed.InstrumentStatus {
	switch StatusMarker(b) {
	case StatusMarkerPreOpening:
		return mdfeed.Status_PreOpen
	case StatusMarkerOpening:
		return mdfeed.Status_Auction
	case StatusMarkerContinuousTrading:
		return mdfeed.Status_Open
	case StatusMarkerForbidden:
		return mdfeed.Status_Closed
	case StatusMarkerInterventionBeforeOpening:
		return mdfeed.Status_PreTrading
	case StatusMarkerHaltedTrading:
		return mdfeed.Status_Freeze
	case StatusMarkerReserved:
		return mdfeed.Status_Unknown
	case StatusMarkerSuspended:
		return mdfeed.Status_PreOpen
	case StatusMarkerSurveillanceIntervention:
		return mdfeed.Status_PostTrading
	case StatusMarkerEndOfDayInquiries:
		return mdfeed.Status_Closed
	case StatusMarkerIfNotUsed:
		return mdfeed.Status_Open
	default:
		return mdfeed.Status_Unknown
	}
}

func (p *ChannelProcessor) handleStatusMarker(identifier int64, marker byte, env mdfeed.Envelope, mode emitMode) mdfeed.InstrumentStatus {
	p.statusCache[identifier] = StatusMarker(marker)
	status := statusFromMarker(marker)
	p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatus, Status: &mdfeed.StatusEntry{Value: status}})
	return status
}

///////////////////////////////////////////////////////////////////////////////
// Summary records (spec.md §4.4.2, §4.4.4)

// summaryRecordWidth: identifier(8) + high(9+1) + low(9+1) + open(9+1) + volume(8) + reasonMarker(1) + settlement(9+1) + previousSettlement(9+1).
const summaryRecordWidth = 8 + 10 + 10 + 10 + 8 + 1 + 10 + 10

func (p *ChannelProcessor) handleSummary(hdr MsgHeader, body []byte, mode emitMode) error {
	if len(body) < summaryRecordWidth {
		return ErrShortHeader
	}
	o := 0
	identifier := int64(ParseDigits(body[o : o+8]))
	o += 8
	p.touch(identifier)
	decimals := p.decimalsFor(identifier)
	env := p.envelope(hdr.SeqNum, identifier)

	readPrice := func() int64 {
		raw := int64(ParseDigits(body[o : o+9]))
		frac := body[o+9]
		o += 10
		return AdjustPrice(GetPrice(raw, frac), decimals, FractionIndicatorDecimals(frac))
	}

	high := readPrice()
	low := readPrice()
	open := readPrice()
	volume := ParseSizeField(body[o : o+8])
	o += 8
	reason := body[o]
	o++
	settlement := readPrice()
	prevSettlement := readPrice()

	if high != 0 {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_High, Action: mdfeed.Action_New, Value: high}})
	}
	if low != 0 {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_Low, Action: mdfeed.Action_New, Value: low}})
	}
	if open != 0 {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_Open, Action: mdfeed.Action_New, Value: open}})
	}
	if volume != 0 {
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatQty, StatQty: &mdfeed.StatQtyEntry{ID: mdfeed.StatQty_Volume, Action: mdfeed.Action_New, Value: volume}})
	}

	isStrategy := hdr.MsgType == "NS"
	if !isStrategy {
		p.emitSettlement(hdr, env, mode, ReasonMarker(reason), settlement, prevSettlement)
	}

	p.emitEnd(mode, hdr.SeqNum, identifier)
	return nil
}

// emitSettlement implements §4.4.4.
func (p *ChannelProcessor) emitSettlement(hdr MsgHeader, env mdfeed.Envelope, mode emitMode, reason ReasonMarker, settlement, prevSettlement int64) {
	now := uint64(p.rt.Clock.Now().UnixNano())
	switch {
	case reason == ReasonEndOfDay && settlement != 0:
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_Settle, Action: mdfeed.Action_New, Value: settlement}})
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatTime, StatTime: &mdfeed.StatTimeEntry{Action: mdfeed.Action_New, Value: now}})
	case prevSettlement != 0:
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_Settle, Action: mdfeed.Action_New, Value: prevSettlement}})
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatTime, StatTime: &mdfeed.StatTimeEntry{Action: mdfeed.Action_New, Value: now}})
	}
}

///////////////////////////////////////////////////////////////////////////////
// Trade records (spec.md §4.4.2)

// tradeRecordWidth: identifier(8) + priceIndicatorMarker(1) + price(9) + fractionIndicator(1) + volume(8) + counterparty1(8) + counterparty2(8) + execID(8).
const tradeRecordWidth = 8 + 1 + 9 + 1 + 8 + 8 + 8 + 8

func (p *ChannelProcessor) handleTrade(hdr MsgHeader, body []byte, mode emitMode) error {
	if len(body) < tradeRecordWidth {
		return ErrShortHeader
	}
	o := 0
	identifier := int64(ParseDigits(body[o : o+8]))
	o += 8
	marker := PriceIndicatorMarker(body[o])
	o++
	priceRaw := int64(ParseDigits(body[o : o+9]))
	o += 9
	frac := body[o]
	o++
	volume := ParseSizeField(body[o : o+8])
	o += 8
	cp1 := int64(ParseDigits(body[o : o+8]))
	o += 8
	cp2 := int64(ParseDigits(body[o : o+8]))
	o += 8
	execID := ParseDigits(body[o : o+8])

	p.touch(identifier)
	env := p.envelope(hdr.SeqNum, identifier)

	if volume <= 0 && marker != MarkerReferencePrice {
		p.rt.Logger.Warn("[ChannelProcessor] trade with non-positive volume", "indesc", identifier)
		return nil
	}

	if marker == MarkerReferencePrice && p.ReferencePriceAsSettlement {
		decimals := p.decimalsFor(identifier)
		price := AdjustPrice(GetPrice(priceRaw, frac), decimals, FractionIndicatorDecimals(frac))
		now := uint64(p.rt.Clock.Now().UnixNano())
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatPrice, StatPrice: &mdfeed.StatPriceEntry{ID: mdfeed.StatPrice_IndicativeSettle, Action: mdfeed.Action_New, Value: price}})
		p.emit(mode, mdfeed.MarketEvent{Envelope: env, Kind: mdfeed.EventStatTime, StatTime: &mdfeed.StatTimeEntry{Action: mdfeed.Action_New, Value: now}})
		return nil
	}

	tradeType, logOnly := tradeTypeFromMarker(marker)
	if logOnly {
		p.rt.Logger.Debug("[ChannelProcessor] strategy trade report", "indesc", identifier)
		return nil
	}

	decimals := p.decimalsFor(identifier)
	price := AdjustPrice(GetPrice(priceRaw, frac), decimals, FractionIndicatorDecimals(frac))

	p.emit(mode, mdfeed.MarketEvent{
		Envelope: env, Kind: mdfeed.EventTrade,
		Trade: &mdfeed.TradeEntry{
			Type: tradeType, Qualifier: mdfeed.TradeQualifier_Regular,
			Price: price, Qty: int32(volume),
			TsTrade:         tradeTimestamp(p.rt.Clock, hdr),
			ExecID:          execID,
			CounterpartyIDs: [2]int64{cp1, cp2},
		},
	})
	return nil
}

func tradeTypeFromMarker(m PriceIndicatorMarker) (mdfeed.TradeType, bool) {
	switch m {
	case MarkerCrossed, MarkerCommitted:
		return mdfeed.Trade_GuaranteedCross, false
	case MarkerBlockTrade, MarkerCommittedBlock:
		return mdfeed.Trade_BlockTrade, false
	case MarkerEFRReporting:
		return mdfeed.Trade_ExchangeForSwap, false
	case MarkerEFPReporting:
		return mdfeed.Trade_ExchangeForPhysical, false
	case MarkerStrategyReporting:
		return mdfeed.Trade_Regular, true
	default:
		return mdfeed.Trade_Regular, false
	}
}

func tradeTimestamp(clock mdfeed.Clock, hdr MsgHeader) uint64 {
	hhmmssmmm, ok := hdr.TradeTime()
	if !ok {
		return uint64(clock.Now().UnixNano())
	}
	hh := ParseDigits([]byte(hhmmssmmm[0:2]))
	mm := ParseDigits([]byte(hhmmssmmm[2:4]))
	ss := ParseDigits([]byte(hhmmssmmm[4:6]))
	mmm := ParseDigits([]byte(hhmmssmmm[6:9]))
	now := clock.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dur := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute +
		time.Duration(ss)*time.Second + time.Duration(mmm)*time.Millisecond
	return uint64(midnight.Add(dur).UnixNano())
}

///////////////////////////////////////////////////////////////////////////////
// Group status (spec.md §4.4.2)

// groupStatusWidth: group(4) + statusMarker(1).
const groupStatusWidth = 4 + 1

func (p *ChannelProcessor) handleGroupStatus(hdr MsgHeader, body []byte, mode emitMode) error {
	if len(body) < groupStatusWidth {
		return ErrShortHeader
	}
	group := mdfeed.TrimSpaceBytes(body[0:4])
	marker := body[4]

	for _, identifier := range p.groups[group] {
		p.touch(identifier)
		env := p.envelope(hdr.SeqNum, identifier)
		p.handleStatusMarker(identifier, marker, env, mode)
		p.emitEnd(mode, hdr.SeqNum, identifier)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Tick tables (spec.md §4.4.2)

// tickTableRowWidth: lowerBound(9) + increment(6) + fractionIndicator(1).
const tickTableRowWidth = 9 + 6 + 1

func (p *ChannelProcessor) handleTickTable(hdr MsgHeader, body []byte) error {
	if len(body) < 4 {
		return ErrShortHeader
	}
	name := mdfeed.TrimSpaceBytes(body[0:4])
	rowBody := body[4:]

	var rows []TickRow
	for o := 0; o+tickTableRowWidth <= len(rowBody); o += tickTableRowWidth {
		lower := int64(ParseDigits(rowBody[o : o+9]))
		incrementRaw := int64(ParseDigits(rowBody[o+9 : o+15]))
		frac := rowBody[o+15]
		decimals := FractionIndicatorDecimals(frac)
		if decimals < 0 {
			decimals = 0
		}
		rows = append(rows, TickRow{UpperBound: lower, Increment: incrementRaw, Decimals: decimals})
	}
	p.tickTables[name] = TTFromLowerBounds(name, rows)
	return nil
}
