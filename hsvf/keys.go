// Copyright (c) 2024 Neomantra Corp

package hsvf

import (
	mdfeed "github.com/marketfeeds/mdcore-go"
)

// outrightKeysWidth: identifier(8) + symbol(12) + tickSize(9) + tickSizeFraction(1) +
// tickIncrementRef(6) + contractSize(8) + tickValue(10) + currency(1) + group(4) + depth(1) + impliedDepth(1).
const outrightKeysWidth = 8 + 12 + 9 + 1 + 6 + 8 + 10 + 1 + 4 + 1 + 1

func (p *ChannelProcessor) handleOutrightKeys(hdr MsgHeader, body []byte, mode emitMode, replayed bool) error {
	if len(body) < outrightKeysWidth {
		return ErrShortHeader
	}
	o := 0
	identifier := int64(ParseDigits(body[o : o+8]))
	o += 8
	symbol := mdfeed.TrimSpaceBytes(body[o : o+12])
	o += 12
	tickSizeRaw := int64(ParseDigits(body[o : o+9]))
	o += 9
	tickSizeFrac := body[o]
	o++
	tickSize := GetPrice(tickSizeRaw, tickSizeFrac)

	tickIncrementRef := body[o : o+6]
	o += 6
	contractSize := ParseSizeField(body[o : o+8])
	o += 8
	tickValueRaw := ParseDigits(body[o : o+10])
	o += 10
	tickValue := float64(tickValueRaw) / 10000.0
	currencyByte := body[o]
	o++
	group := mdfeed.TrimSpaceBytes(body[o : o+4])
	o += 4
	depthByte := body[o]
	o++
	impliedDepthByte := body[o]

	var productType ProductType
	switch hdr.MsgType {
	case "JF":
		productType = ProductOption
	default:
		productType = ProductFuture
	}

	var tickIncrementNum int64
	var decimals int
	if string(tickIncrementRef[0:2]) == "TT" {
		name := mdfeed.TrimSpaceBytes(tickIncrementRef)
		tt, ok := p.tickTables[name]
		if !ok {
			p.rt.Logger.Warn("[ChannelProcessor] instrument references unknown tick table", "indesc", identifier, "table", name)
			return nil
		}
		inc, dec, ok := tt.IncrementFor(tickSize)
		if !ok {
			p.rt.Logger.Warn("[ChannelProcessor] tick table has no row for instrument tick size", "indesc", identifier, "table", name)
			return nil
		}
		tickIncrementNum, decimals = inc, dec
	} else {
		tickIncrementNum = int64(ParseDigits(tickIncrementRef))
		decimals = decimalsFromTick(tickSize, tickIncrementNum)
	}

	currency, _ := CurrencyCode(currencyByte)
	depth := 5
	if depthByte >= '1' && depthByte <= '9' {
		depth = int(depthByte - '0')
	}
	impliedDepth := 1
	if impliedDepthByte >= '0' && impliedDepthByte <= '9' {
		impliedDepth = int(impliedDepthByte - '0')
	}

	inst := &InstrumentDefinition{
		Identifier:         identifier,
		Symbol:             symbol,
		ProductType:        productType,
		Decimals:           decimals,
		TickIncrementNum:   tickIncrementNum,
		TickValueNumerator: tickValueNumerator(tickValue, contractSize, tickSize, decimals),
		CurrencyCode:       currency,
		Group:              group,
		Depth:              depth,
		ImpliedDepth:       impliedDepth,
	}

	p.instruments[identifier] = inst
	p.outrights[identifier] = inst
	p.groups[group] = appendUnique(p.groups[group], identifier)
	p.touch(identifier)

	p.rt.Sink.OnInstrumentDefinition(identifier, p.channelID, mdfeed.BookType_LevelBook, instrumentAction(replayed), inst)

	p.emitKeysFollowup(hdr, identifier, replayed)
	return nil
}

// strategyKeysWidth: identifier(8) + symbol(12) + group(4) + legCount(1).
const strategyKeysWidth = 8 + 12 + 4 + 1
const legWidth = 8 + 1 + 3

func (p *ChannelProcessor) handleStrategyKeys(hdr MsgHeader, body []byte, mode emitMode, replayed bool) error {
	if len(body) < strategyKeysWidth {
		return ErrShortHeader
	}
	o := 0
	identifier := int64(ParseDigits(body[o : o+8]))
	o += 8
	symbol := mdfeed.TrimSpaceBytes(body[o : o+12])
	o += 12
	group := mdfeed.TrimSpaceBytes(body[o : o+4])
	o += 4
	legCount := int(body[o] - '0')
	o++

	if len(body) < o+legCount*legWidth {
		return ErrShortHeader
	}

	legs := make([]Leg, 0, legCount)
	hasOption := false
	for i := 0; i < legCount; i++ {
		legIdentifier := int64(ParseDigits(body[o : o+8]))
		o += 8
		ratioFrac := body[o]
		o++
		ratio := int(ParseDigits(body[o : o+3]))
		o += 3

		leg, ok := p.outrights[legIdentifier]
		if !ok {
			p.rt.Logger.Warn("[ChannelProcessor] strategy references unknown leg, dropping definition",
				"indesc", identifier, "leg", legIdentifier)
			return nil
		}
		if leg.ProductType == ProductOption {
			hasOption = true
		}
		side := mdfeed.Side_Bid
		if ratioFrac >= 'A' && ratioFrac <= 'G' {
			side = mdfeed.Side_Ask
		}
		legs = append(legs, Leg{Identifier: legIdentifier, Side: side, Ratio: ratio})
	}

	productType := ProductSpread
	if hasOption {
		productType = ProductOptionStrategy
	}

	inst := &InstrumentDefinition{
		Identifier:   identifier,
		Symbol:       symbol,
		ProductType:  productType,
		Group:        group,
		Depth:        5,
		ImpliedDepth: 1,
		Legs:         legs,
	}
	p.instruments[identifier] = inst
	p.groups[group] = appendUnique(p.groups[group], identifier)
	p.touch(identifier)

	p.rt.Sink.OnInstrumentDefinition(identifier, p.channelID, mdfeed.BookType_LevelBook, instrumentAction(replayed), inst)

	p.emitKeysFollowup(hdr, identifier, replayed)
	return nil
}

func (p *ChannelProcessor) emitKeysFollowup(hdr MsgHeader, identifier int64, replayed bool) {
	if p.startupReplay {
		p.emit(modeSnapshot, mdfeed.NewBookResetEvent(p.envelope(hdr.SeqNum, identifier)))
		return
	}
	p.emitEnd(modeSnapshot, hdr.SeqNum, identifier)
}

func instrumentAction(replayed bool) mdfeed.InstrumentAction {
	if replayed {
		return mdfeed.InstrumentAction_Update
	}
	return mdfeed.InstrumentAction_New
}

func appendUnique(ids []int64, id int64) []int64 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
