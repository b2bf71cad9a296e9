// Copyright (c) 2024 Neomantra Corp
//
// Packet capture file reader/writer, adapted from dbn-go's compressed I/O
// helpers but simplified to a single length-prefixed record format so a
// replay command can walk a recorded BIN or TXT session packet by packet.

package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrShortRecord is returned when a capture file is truncated mid-record.
var ErrShortRecord = errors.New("capture: truncated record")

// Record is one captured packet: the channel it arrived on, the receive
// timestamp the capturing process stamped it with, and the raw wire bytes
// exactly as read off the socket (BIN UDP datagram or TXT framed record run).
type Record struct {
	ChannelID string
	TsRecv    uint64
	Data      []byte
}

// Writer appends Records to an underlying stream in capture file format:
// a 2-byte channel ID length, the channel ID, an 8-byte receive timestamp
// (nanoseconds, big-endian), a 4-byte payload length, and the payload.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) WriteRecord(rec Record) error {
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(len(rec.ChannelID)))
	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.w.WriteString(rec.ChannelID); err != nil {
		return err
	}
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], rec.TsRecv)
	if _, err := w.w.Write(ts[:]); err != nil {
		return err
	}
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(rec.Data)))
	if _, err := w.w.Write(length[:]); err != nil {
		return err
	}
	_, err := w.w.Write(rec.Data)
	return err
}

func (w *Writer) Flush() error { return w.w.Flush() }

// Reader walks a capture file record by record.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadRecord returns the next Record, or io.EOF when the stream is exhausted.
func (r *Reader) ReadRecord() (Record, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		return Record{}, err
	}
	idLen := binary.BigEndian.Uint16(hdr[:])
	channelID := make([]byte, idLen)
	if _, err := io.ReadFull(r.r, channelID); err != nil {
		return Record{}, ErrShortRecord
	}
	var ts [8]byte
	if _, err := io.ReadFull(r.r, ts[:]); err != nil {
		return Record{}, ErrShortRecord
	}
	var length [4]byte
	if _, err := io.ReadFull(r.r, length[:]); err != nil {
		return Record{}, ErrShortRecord
	}
	data := make([]byte, binary.BigEndian.Uint32(length[:]))
	if _, err := io.ReadFull(r.r, data); err != nil {
		return Record{}, ErrShortRecord
	}
	return Record{
		ChannelID: string(channelID),
		TsRecv:    binary.BigEndian.Uint64(ts[:]),
		Data:      data,
	}, nil
}

// OpenWriter opens filename ("-" for stdout) for capture output, wrapping
// it in a zstd encoder when useZstd is set or the filename carries a
// .zst/.zstd suffix. The returned close func flushes and closes every
// layer; callers must defer it.
func OpenWriter(filename string, useZstd bool) (*Writer, func() error, error) {
	var out io.Writer
	var file *os.File
	if filename != "-" {
		f, err := os.Create(filename)
		if err != nil {
			return nil, nil, err
		}
		file, out = f, f
	} else {
		out = os.Stdout
	}

	if useZstd || strings.HasSuffix(filename, ".zst") || strings.HasSuffix(filename, ".zstd") {
		zw, err := zstd.NewWriter(out)
		if err != nil {
			if file != nil {
				file.Close()
			}
			return nil, nil, err
		}
		cw := NewWriter(zw)
		return cw, func() error {
			if err := cw.Flush(); err != nil {
				return err
			}
			if err := zw.Close(); err != nil {
				return err
			}
			if file != nil {
				return file.Close()
			}
			return nil
		}, nil
	}

	cw := NewWriter(out)
	return cw, func() error {
		if err := cw.Flush(); err != nil {
			return err
		}
		if file != nil {
			return file.Close()
		}
		return nil
	}, nil
}

// OpenReader opens filename ("-" for stdin) for capture input, transparently
// zstd-decoding when useZstd is set or the filename carries a .zst/.zstd suffix.
func OpenReader(filename string, useZstd bool) (*Reader, func() error, error) {
	var in io.Reader
	var file *os.File
	if filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, nil, err
		}
		file, in = f, f
	} else {
		in = os.Stdin
	}

	closeFile := func() error {
		if file != nil {
			return file.Close()
		}
		return nil
	}

	if useZstd || strings.HasSuffix(filename, ".zst") || strings.HasSuffix(filename, ".zstd") {
		zr, err := zstd.NewReader(in)
		if err != nil {
			closeFile()
			return nil, nil, err
		}
		return NewReader(zr), func() error {
			zr.Close()
			return closeFile()
		}, nil
	}

	return NewReader(in), closeFile, nil
}
