// Copyright (c) 2024 Neomantra Corp

package hsvf

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	mdfeed "github.com/marketfeeds/mdcore-go"
)

// RecoveryConfig holds the fixed parameters of a TXT TCP retransmission
// session (spec.md §4.5, §5).
type RecoveryConfig struct {
	Address  string // host:port of the retransmission line
	Username string
	Password string
	Line     string // 2-character line identifier
	Timeout  time.Duration
	PageSize uint64
}

type recoveryState uint8

const (
	recoveryIdle recoveryState = iota
	recoveryConnecting
	recoveryLoggingIn
	recoveryRetransmitting
	recoveryLoggingOut
)

func (s recoveryState) String() string {
	switch s {
	case recoveryConnecting:
		return "Connecting"
	case recoveryLoggingIn:
		return "LoggingIn"
	case recoveryRetransmitting:
		return "Retransmitting"
	case recoveryLoggingOut:
		return "LoggingOut"
	default:
		return "Idle"
	}
}

// Dialer opens the TCP connection a RecoveryDriver replays over. Tests
// substitute an in-memory pipe; production wires net.Dialer.DialContext.
type Dialer func(ctx context.Context, address string) (net.Conn, error)

// NetDialer is the production Dialer, a thin wrapper over net.Dial.
func NetDialer(ctx context.Context, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp", address)
}

// RecoveryDriver is the TXT TCP retransmission state machine (spec.md
// §4.5): Idle -> Connecting -> LoggingIn -> Retransmitting -> LoggingOut.
// One driver serves one ChannelProcessor; RequestGap is its sole external
// trigger, called from the processor's onRequireRecovery hook.
type RecoveryDriver struct {
	rt   mdfeed.Runtime
	cfg  RecoveryConfig
	proc *ChannelProcessor
	dial Dialer

	mu           sync.Mutex
	state        recoveryState
	conn         net.Conn
	outboundSeq  uint64
	from, to     uint64
	cursor       uint64
	abandonTimer *time.Timer
}

// NewRecoveryDriver creates a driver bound to proc. dial defaults to
// NetDialer when nil.
func NewRecoveryDriver(rt mdfeed.Runtime, cfg RecoveryConfig, proc *ChannelProcessor, dial Dialer) *RecoveryDriver {
	if dial == nil {
		dial = NetDialer
	}
	return &RecoveryDriver{rt: rt.WithDefaults(), cfg: cfg, proc: proc, dial: dial}
}

// State reports the driver's current state, for tests and diagnostics.
func (d *RecoveryDriver) State() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.String()
}

// RequestGap begins (or restarts) a retransmission session for the span
// [from, to] inclusive.
func (d *RecoveryDriver) RequestGap(from, to uint64) error {
	d.mu.Lock()
	if d.conn != nil {
		d.disconnectLocked()
	}
	d.from, d.to, d.cursor = from, to, from-1
	d.resetAbandonTimerLocked()
	d.state = recoveryConnecting
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
	defer cancel()
	conn, err := d.dial(ctx, d.cfg.Address)
	if err != nil {
		d.mu.Lock()
		d.state = recoveryIdle
		d.mu.Unlock()
		return err
	}

	d.mu.Lock()
	d.conn = conn
	d.mu.Unlock()

	go d.readLoop(conn)
	return d.sendLogin()
}

func (d *RecoveryDriver) resetAbandonTimerLocked() {
	if d.abandonTimer != nil {
		d.abandonTimer.Stop()
	}
	d.abandonTimer = time.AfterFunc(d.cfg.Timeout, d.onAbandon)
}

func (d *RecoveryDriver) onAbandon() {
	d.mu.Lock()
	d.disconnectLocked()
	d.state = recoveryIdle
	d.mu.Unlock()
	d.proc.OnRetransmissionFailed()
}

func (d *RecoveryDriver) disconnectLocked() {
	if d.abandonTimer != nil {
		d.abandonTimer.Stop()
		d.abandonTimer = nil
	}
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// Outbound control messages (spec.md §5)

func (d *RecoveryDriver) nextSeq() uint64 {
	d.outboundSeq++
	return d.outboundSeq
}

// writeRecord frames payload as STX seq(10) msgType body ETX and writes it.
func writeRecord(w net.Conn, seq uint64, msgType string, payload []byte) error {
	rec := make([]byte, 0, 13+len(payload)+2)
	rec = append(rec, stx)
	rec = append(rec, []byte(fmt.Sprintf("%010d", seq))...)
	rec = append(rec, []byte(msgType)...)
	rec = append(rec, payload...)
	rec = append(rec, etx)
	_, err := w.Write(rec)
	return err
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return fmt.Sprintf("%*s", width, s)
}

func (d *RecoveryDriver) sendLogin() error {
	payload := leftPad(d.cfg.Username, 10) + leftPad(d.cfg.Password, 10) + leftPad(d.cfg.Line, 2) + "D7"
	d.mu.Lock()
	d.state = recoveryLoggingIn
	conn := d.conn
	seq := d.nextSeq()
	d.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("hsvf: recovery driver not connected")
	}
	return writeRecord(conn, seq, "LI", []byte(payload))
}

func (d *RecoveryDriver) sendNextPage() error {
	d.mu.Lock()
	pageEnd := d.to
	if d.cfg.PageSize > 0 {
		boundary := ((d.cursor / d.cfg.PageSize) + 1) * d.cfg.PageSize
		if boundary < pageEnd {
			pageEnd = boundary
		}
	}
	from := d.cursor + 1
	conn := d.conn
	seq := d.nextSeq()
	d.state = recoveryRetransmitting
	d.mu.Unlock()

	payload := fmt.Sprintf("%010d%010d", from, pageEnd)
	if conn == nil {
		return fmt.Errorf("hsvf: recovery driver not connected")
	}
	return writeRecord(conn, seq, "RT", []byte(payload))
}

func (d *RecoveryDriver) sendLogout() error {
	d.mu.Lock()
	d.state = recoveryLoggingOut
	conn := d.conn
	seq := d.nextSeq()
	d.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("hsvf: recovery driver not connected")
	}
	return writeRecord(conn, seq, "LO", nil)
}

///////////////////////////////////////////////////////////////////////////////
// Inbound dialog (spec.md §4.5)

func (d *RecoveryDriver) readLoop(conn net.Conn) {
	r := bufio.NewReader(conn)
	for {
		rec, err := readRecord(r)
		if err != nil {
			return
		}
		if err := d.handleRecord(rec); err != nil {
			d.rt.Logger.Warn("[RecoveryDriver] inbound record error", "error", err.Error())
		}
	}
}

// readRecord reads one STX...ETX framed record from a TCP stream,
// returning its inner bytes.
func readRecord(r *bufio.Reader) ([]byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if b != stx {
		return nil, ErrNoSTX
	}
	inner, err := r.ReadBytes(etx)
	if err != nil {
		return nil, err
	}
	return inner[:len(inner)-1], nil
}

func (d *RecoveryDriver) handleRecord(rec []byte) error {
	hdr, _, err := FillHeader(rec, false)
	if err != nil {
		return err
	}
	switch hdr.MsgType {
	case "KI":
		return d.sendNextPage()
	case "RB":
		d.mu.Lock()
		if d.abandonTimer != nil {
			d.abandonTimer.Stop()
		}
		d.mu.Unlock()
		return nil
	case "RE":
		d.mu.Lock()
		done := d.cursor >= d.to
		d.mu.Unlock()
		if done {
			d.proc.OnRetransmissionComplete()
			return d.sendLogout()
		}
		return d.sendNextPage()
	case "ER":
		d.rt.Logger.Warn("[RecoveryDriver] retransmission error record", "seq", hdr.SeqNum)
		return nil
	case "KO":
		d.mu.Lock()
		d.disconnectLocked()
		d.state = recoveryIdle
		d.mu.Unlock()
		return nil
	default:
		if err := d.proc.OnRetransmissionMsg(rec); err != nil {
			return err
		}
		d.mu.Lock()
		d.cursor = hdr.SeqNum
		d.mu.Unlock()
		return nil
	}
}
