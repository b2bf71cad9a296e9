// Copyright (c) 2024 Neomantra Corp

package hsvf

import (
	"fmt"
	"strings"
)

const (
	stx byte = 0x02
	etx byte = 0x03
)

// MsgHeaderShortSize is the width of a MsgHeader without a timestamp.
const MsgHeaderShortSize = 10 + 2

// MsgHeaderLongSize is the width of a MsgHeader carrying a 20-byte timestamp.
const MsgHeaderLongSize = MsgHeaderShortSize + 20

// MsgHeader is the fixed-width preamble every HSVF record carries between
// its STX and body: a 10-digit sequence number and a 2-character message
// type. Some message types append a 20-byte timestamp field.
type MsgHeader struct {
	SeqNum    uint64
	MsgType   string
	Timestamp string // empty unless the long variant was decoded
}

// TradeTime extracts the trailing 9-digit HHMMSSmmm clock reading carried
// in the tail of a long MsgHeader's 20-byte timestamp field, ignoring any
// trailing space padding.
func (h MsgHeader) TradeTime() (string, bool) {
	ts := strings.TrimRight(h.Timestamp, " ")
	if len(ts) < 9 {
		return "", false
	}
	return ts[len(ts)-9:], true
}

// SplitRecords scans a buffer (one TCP read or UDP datagram) into the
// inner bytes of each STX...ETX framed record, with the delimiters
// stripped.
func SplitRecords(data []byte) ([][]byte, error) {
	var records [][]byte
	i := 0
	for i < len(data) {
		if data[i] != stx {
			return records, ErrNoSTX
		}
		j := i + 1
		for j < len(data) && data[j] != etx {
			j++
		}
		if j >= len(data) {
			return records, ErrNoETX
		}
		records = append(records, data[i+1:j])
		i = j + 1
	}
	return records, nil
}

// FillHeader decodes the MsgHeader prefix of a record's inner bytes,
// returning the header and the remaining body.
func FillHeader(b []byte, long bool) (MsgHeader, []byte, error) {
	if len(b) < MsgHeaderShortSize {
		return MsgHeader{}, nil, ErrShortHeader
	}
	hdr := MsgHeader{
		SeqNum:  ParseDigits(b[0:10]),
		MsgType: strings.TrimRight(string(b[10:12]), " "),
	}
	if !long {
		return hdr, b[MsgHeaderShortSize:], nil
	}
	if len(b) < MsgHeaderLongSize {
		return MsgHeader{}, nil, ErrShortHeader
	}
	hdr.Timestamp = string(b[12:32])
	return hdr, b[MsgHeaderLongSize:], nil
}

// ParseDigits parses a field of ASCII digits into an unsigned integer,
// ignoring (treating as zero-width) a field of pure space padding.
func ParseDigits(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			continue
		}
		v = v*10 + uint64(c-'0')
	}
	return v
}

// ParseSignedDigits parses a field carrying an explicit leading sign byte
// ('+' or '-') followed by ASCII digits.
func ParseSignedDigits(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}
	neg := b[0] == '-'
	start := 0
	if b[0] == '+' || b[0] == '-' {
		start = 1
	}
	v := int64(ParseDigits(b[start:]))
	if neg {
		return -v
	}
	return v
}

// pow10 returns 10^n for small, non-negative n.
func pow10(n uint) int64 {
	v := int64(1)
	for i := uint(0); i < n; i++ {
		v *= 10
	}
	return v
}

var sizeExponents = map[byte]int64{
	'C': 100, 'D': 1000, 'E': 10000, 'F': 100000,
	'G': 1000000, 'H': 10000000, 'I': 100000000, 'J': 100000000,
}

// ParseSizeField parses a quantity field whose last byte may be a
// size-exponent letter (C..J) standing in for a power-of-ten multiplier
// on the leading digits, instead of an ordinary trailing digit.
func ParseSizeField(b []byte) int64 {
	if n := len(b); n > 0 {
		if exp, ok := sizeExponents[b[n-1]]; ok {
			return int64(ParseDigits(b[:n-1])) * exp
		}
	}
	return int64(ParseDigits(b))
}

// FractionIndicatorDecimals returns the decimal-place count a fraction
// indicator byte implies, negative values standing for the multiplier
// codes ('U'..'Z') rather than a divisor.
func FractionIndicatorDecimals(indicator byte) int {
	switch {
	case indicator >= '0' && indicator <= '9':
		return int(indicator - '0')
	case indicator >= 'A' && indicator <= 'G':
		return int(indicator-'A') + 1
	case indicator == 'Z':
		return -1
	case indicator == 'Y':
		return -2
	case indicator == 'X':
		return -3
	case indicator == 'W':
		return -4
	case indicator == 'V':
		return -5
	case indicator == 'U':
		return -6
	default:
		return 0
	}
}

// GetPrice converts a raw HSVF price integer into its fraction-adjusted
// value given the record's fraction indicator byte.
func GetPrice(p int64, indicator byte) int64 {
	switch {
	case indicator >= '0' && indicator <= '9':
		return p / pow10(uint(indicator-'0'))
	case indicator >= 'A' && indicator <= 'G':
		return -(p / pow10(uint(indicator-'A'+1)))
	case indicator == 'Z':
		return p * 10
	case indicator == 'Y':
		return p * 100
	case indicator == 'X':
		return p * 1000
	case indicator == 'W':
		return p * 10000
	case indicator == 'V':
		return p * 100000
	case indicator == 'U':
		return p * 1000000
	default:
		return p
	}
}

// AdjustPrice rescales a price already reduced by GetPrice at msgDecimals
// of precision to an instrument's own canonical decimal convention.
func AdjustPrice(price int64, instrumentDecimals, msgDecimals int) int64 {
	diff := instrumentDecimals - msgDecimals
	switch {
	case diff > 0:
		return price * pow10(uint(diff))
	case diff < 0:
		return price / pow10(uint(-diff))
	default:
		return price
	}
}

var futuresMonthCodes = map[byte]int{
	'F': 1, 'G': 2, 'H': 3, 'J': 4, 'K': 5, 'M': 6,
	'N': 7, 'Q': 8, 'U': 9, 'V': 10, 'X': 11, 'Z': 12,
}

// DecodeFuturesMonth decodes a single-letter futures contract month code.
func DecodeFuturesMonth(code byte) (int, error) {
	if m, ok := futuresMonthCodes[code]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("hsvf: unrecognized futures month code %q", code)
}

// DecodeOptionMonth decodes a single-letter option contract month code,
// where the letter alphabet (A-L versus M-X) also carries the put/call flag.
func DecodeOptionMonth(code byte) (month int, isPut bool, err error) {
	switch {
	case code >= 'A' && code <= 'L':
		return int(code-'A') + 1, false, nil
	case code >= 'M' && code <= 'X':
		return int(code-'M') + 1, true, nil
	default:
		return 0, false, fmt.Errorf("hsvf: unrecognized option month code %q", code)
	}
}

// DecodeStrategyMonth decodes a single-letter strategy leg month code.
func DecodeStrategyMonth(code byte) (int, error) {
	if code >= 'A' && code <= 'L' {
		return int(code-'A') + 1, nil
	}
	return 0, fmt.Errorf("hsvf: unrecognized strategy month code %q", code)
}
