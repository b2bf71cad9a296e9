// Copyright (c) 2024 Neomantra Corp

package hsvf

import "errors"

var (
	// ErrNoSTX is returned when a record does not begin with the STX framing byte.
	ErrNoSTX = errors.New("hsvf: record missing STX")
	// ErrNoETX is returned when a record's ETX terminator could not be found.
	ErrNoETX = errors.New("hsvf: record missing ETX")
	// ErrShortHeader is returned when a record is too short to contain a MsgHeader,
	// and by the message handlers when a body is shorter than its fixed layout.
	ErrShortHeader = errors.New("hsvf: record shorter than MsgHeader")
	// ErrUnknownMsgType names an unrecognized two-character msg type. The
	// dispatcher does not return it: it logs a warning and skips the record.
	ErrUnknownMsgType = errors.New("hsvf: unknown message type")
	// ErrUnknownInstrument names an instrument key not yet defined. No function
	// in this package returns it.
	ErrUnknownInstrument = errors.New("hsvf: unknown instrument key")
	// ErrRecoveryNotIdle names a RecoveryDriver with a session already in flight.
	// No function in this package returns it: RequestGap on a busy driver
	// restarts the session.
	ErrRecoveryNotIdle = errors.New("hsvf: recovery driver not idle")
)
