// Copyright (c) 2024 Neomantra Corp

package mdfeed

import (
	"bytes"
	"time"

	"github.com/neomantra/ymdflag"
)

// TrimNullBytes removes trailing nulls from a byte slice and returns a string.
func TrimNullBytes(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// TrimSpaceBytes removes trailing ASCII spaces from a byte slice, the
// padding convention HSVF uses for its fixed-width alphanumeric fields.
func TrimSpaceBytes(b []byte) string {
	return string(bytes.TrimRight(b, " "))
}

// TimestampToSecNanos splits a nanosecond epoch timestamp into seconds and
// the remaining nanoseconds.
func TimestampToSecNanos(tsNanos uint64) (int64, int64) {
	secs := int64(tsNanos / 1e9)
	nano := int64(tsNanos) - int64(secs*1e9)
	return secs, nano
}

// TimestampToTime converts a nanosecond epoch timestamp to a time.Time.
func TimestampToTime(tsNanos uint64) time.Time {
	secs, nano := TimestampToSecNanos(tsNanos)
	return time.Unix(secs, nano)
}

// TimeToYMD returns YYYYMMDD for the time.Time in that Time's location.
func TimeToYMD(t time.Time) uint32 {
	return ymdflag.TimeToYMD(t)
}
