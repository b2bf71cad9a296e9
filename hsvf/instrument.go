// Copyright (c) 2024 Neomantra Corp

package hsvf

import (
	"math"

	mdfeed "github.com/marketfeeds/mdcore-go"
)

// TickRow is one row of a tick table: prices at or below UpperBound use
// Increment with Decimals decimal places.
type TickRow struct {
	UpperBound int64
	Increment  int64
	Decimals   int
}

// TickTable maps price ranges to a tick increment. The exchange publishes
// rows keyed by a *lower* bound; TTFromLowerBounds converts them into the
// ascending-upper-bound form IncrementFor expects.
type TickTable struct {
	Name string
	Rows []TickRow
}

// TTFromLowerBounds builds a TickTable from rows given in the exchange's
// own ascending lower-bound order (each row's UpperBound field carries its
// *lower* bound on input). Row i's increment applies up to row i+1's lower
// bound; the final row's bound is raised to the maximum representable price.
func TTFromLowerBounds(name string, lowerBoundRows []TickRow) *TickTable {
	rows := make([]TickRow, len(lowerBoundRows))
	for i, r := range lowerBoundRows {
		upper := int64(math.MaxInt64)
		if i+1 < len(lowerBoundRows) {
			upper = lowerBoundRows[i+1].UpperBound
		}
		rows[i] = TickRow{UpperBound: upper, Increment: r.Increment, Decimals: r.Decimals}
	}
	return &TickTable{Name: name, Rows: rows}
}

// IncrementFor returns the tick increment and decimal precision applying
// at price, scanning rows in ascending upper-bound order.
func (t *TickTable) IncrementFor(price int64) (increment int64, decimals int, ok bool) {
	for _, r := range t.Rows {
		if price <= r.UpperBound {
			return r.Increment, r.Decimals, true
		}
	}
	return 0, 0, false
}

// Leg is one component of a spread or option-strategy instrument.
type Leg struct {
	Identifier int64
	Side       mdfeed.Side
	Ratio      int
}

// InstrumentDefinition is the enriched instrument metadata a ChannelProcessor
// builds from instrument-keys records and hands to the consumer before any
// event referencing the instrument.
type InstrumentDefinition struct {
	Identifier         int64
	Symbol             string
	ProductType        ProductType
	Decimals           int
	TickIncrementNum   int64
	TickValueNumerator int64
	CurrencyCode       string
	Group              string
	Depth              int
	ImpliedDepth       int
	Legs               []Leg
}

// decimalsFromTick computes decimals = round(log10(tickSize / tickIncrementNumerator)).
func decimalsFromTick(tickSize, tickIncrementNumerator int64) int {
	if tickIncrementNumerator == 0 {
		return 0
	}
	ratio := float64(tickSize) / float64(tickIncrementNumerator)
	if ratio <= 0 {
		return 0
	}
	return int(math.Round(math.Log10(ratio)))
}

// tickValueNumerator computes tickValueNumerator per §4.4.2: from
// (tickValue * tickSize * 10^decimals) when tickValue carries a fractional
// unit value greater than one tick, else from (contractSize * tickSize * 10^decimals).
func tickValueNumerator(tickValue float64, contractSize, tickSize int64, decimals int) int64 {
	scale := pow10(uint(decimals))
	if tickValue > 1.0 {
		return int64(tickValue*float64(tickSize)) * scale
	}
	return contractSize * tickSize * scale
}
