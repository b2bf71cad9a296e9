// Copyright (c) 2024 Neomantra Corp

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	mdfeed "github.com/marketfeeds/mdcore-go"
	"github.com/marketfeeds/mdcore-go/eobi"
	"github.com/marketfeeds/mdcore-go/internal/capture"

	"github.com/google/uuid"
	"github.com/relvacode/iso8601"
	"github.com/spf13/pflag"
)

///////////////////////////////////////////////////////////////////////////////

type Config struct {
	InFilename string
	ChannelID  string
	UseZstd    bool
	EmitJSON   bool
	Verbose    bool
	Since      time.Time
}

///////////////////////////////////////////////////////////////////////////////

func main() {
	var config Config
	var showHelp bool
	var sinceArg string

	pflag.StringVarP(&config.InFilename, "in", "i", "-", "Capture file to replay ('-' for stdin)")
	pflag.StringVarP(&config.ChannelID, "channel", "c", "EOBI.A", "Channel ID to assign replayed packets to")
	pflag.BoolVarP(&config.UseZstd, "zstd", "z", false, "Treat the input as zstd-compressed regardless of extension")
	pflag.BoolVarP(&config.EmitJSON, "emit-json", "j", false, "Print each emitted MarketEvent as a line of JSON")
	pflag.StringVarP(&sinceArg, "since", "s", "", "Skip captured records stamped before this ISO 8601 timestamp")
	pflag.BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.Parse()

	if showHelp {
		fmt.Fprintf(os.Stdout, "usage: %s [opts]\n\nReplays a captured BIN packet-log through the EOBI segment processor.\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	if sinceArg != "" {
		var err error
		config.Since, err = iso8601.ParseString(sinceArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse --since as ISO 8601 time: %s\n", err.Error())
			os.Exit(1)
		}
	}

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////

func run(config Config) error {
	level := slog.LevelWarn
	if config.Verbose {
		level = slog.LevelDebug
	}
	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).With("run_id", runID)

	sink := &printSink{w: os.Stdout, emitJSON: config.EmitJSON}
	rt := mdfeed.Runtime{Sink: sink, Logger: logger}

	channel := eobi.NewChannel(rt, mdfeed.ChannelID(config.ChannelID), eobi.ChannelConfig{
		ChannelName: config.ChannelID,
		InterfaceA:  config.InFilename, // the capture file stands in for the A feed
	}, nil, nil)
	if !channel.Init() {
		return fmt.Errorf("channel %q has no configured interface", config.ChannelID)
	}

	reader, closeReader, err := capture.OpenReader(config.InFilename, config.UseZstd)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer closeReader()

	var packets, errs int
	for {
		rec, err := reader.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read capture record: %w", err)
		}
		if !config.Since.IsZero() && mdfeed.TimestampToTime(rec.TsRecv).Before(config.Since) {
			continue
		}
		packets++
		if err := channel.OnRealtimePacket(rec.Data); err != nil {
			errs++
			logger.Warn("packet dispatch failed", "error", err.Error(), "channel", rec.ChannelID, "seq", packets)
		}
	}

	logger.Info("replay complete", "packets", packets, "errors", errs)
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// printSink renders every event to an io.Writer, one JSON line per event
// when emitJSON is set, or a terse one-line summary otherwise.
type printSink struct {
	w        io.Writer
	emitJSON bool
}

func (s *printSink) OnInstrumentDefinition(indesc int64, channelID mdfeed.ChannelID, bookType mdfeed.BookType, action mdfeed.InstrumentAction, def any) {
	fmt.Fprintf(s.w, "definition indesc=%d channel=%s book=%d action=%d\n", indesc, channelID, bookType, action)
}

func (s *printSink) OnIncremental(ev mdfeed.MarketEvent) { s.emit(ev) }
func (s *printSink) OnSnapshot(ev mdfeed.MarketEvent)    { s.emit(ev) }

func (s *printSink) OnChannelStatus(channelID mdfeed.ChannelID, status mdfeed.ChannelStatus) {
	fmt.Fprintf(s.w, "status channel=%s value=%s\n", channelID, status)
}

func (s *printSink) emit(ev mdfeed.MarketEvent) {
	if s.emitJSON {
		buf := ev.AppendJSON(nil)
		buf = append(buf, '\n')
		s.w.Write(buf)
		return
	}
	fmt.Fprintf(s.w, "event channel=%s indesc=%d kind=%s seq=%d\n", ev.ChannelID, ev.Indesc, ev.Kind, ev.MessageSequence)
}
