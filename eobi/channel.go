// Copyright (c) 2024 Neomantra Corp

package eobi

import mdfeed "github.com/marketfeeds/mdcore-go"

// ChannelConfig describes one BIN channel's addressing. Dialing the actual
// multicast sockets is out of scope (spec.md §1 Non-goals); these fields
// exist so a caller's transport layer can be configured from the same
// struct the processor-selection logic reads.
type ChannelConfig struct {
	ChannelName   string
	InterfaceA    string
	InterfaceB    string
	RealtimeFeedA string
	RealtimeFeedB string
	SnapshotFeedA string
	SnapshotFeedB string
}

// Channel owns the set of SegmentProcessors for one BIN feed subscription,
// dispatches packets to them by MarketSegmentID, and starts/stops the
// shared snapshot feed on demand (spec.md §3, §4.6).
type Channel struct {
	rt        mdfeed.Runtime
	channelID mdfeed.ChannelID
	config    ChannelConfig

	segments    map[int32]*SegmentProcessor
	snapshotIDs map[int32]struct{}

	startSnapshotFeed func() error
	stopSnapshotFeed  func() error
}

// NewChannel creates a Channel. startSnapshotFeed/stopSnapshotFeed are
// called when the set of recovering segments transitions to/from empty;
// they are the caller's hook into the actual (out-of-scope) snapshot
// multicast receiver. Either may be nil.
func NewChannel(rt mdfeed.Runtime, channelID mdfeed.ChannelID, config ChannelConfig, startSnapshotFeed, stopSnapshotFeed func() error) *Channel {
	return &Channel{
		rt:                rt.WithDefaults(),
		channelID:         channelID,
		config:            config,
		segments:          make(map[int32]*SegmentProcessor),
		snapshotIDs:       make(map[int32]struct{}),
		startSnapshotFeed: startSnapshotFeed,
		stopSnapshotFeed:  stopSnapshotFeed,
	}
}

// Init reports whether the channel can operate: it succeeds if either the
// A or the B interface is configured (spec.md §7: "A- or B-feed init
// failure is non-fatal if the other succeeds").
func (c *Channel) Init() bool {
	successA := c.config.InterfaceA != ""
	successB := c.config.InterfaceB != ""
	return successA || successB
}

// Segment returns the processor for a market segment, creating it on first
// reference.
func (c *Channel) Segment(marketSegmentID int32) *SegmentProcessor {
	seg, ok := c.segments[marketSegmentID]
	if !ok {
		seg = NewSegmentProcessor(c.rt, c.channelID, marketSegmentID, c.onRequireSnapshot)
		c.segments[marketSegmentID] = seg
	}
	return seg
}

// Segments returns every processor known to the channel, for status
// reporting.
func (c *Channel) Segments() map[int32]*SegmentProcessor { return c.segments }

// OnRealtimePacket decodes a PacketHeader from the front of a real-time
// wire packet and routes the remainder to the addressed segment.
func (c *Channel) OnRealtimePacket(packet []byte) error {
	var hdr PacketHeader
	if err := hdr.FillRaw(packet); err != nil {
		return err
	}
	seg := c.Segment(hdr.MarketSegmentID)
	return seg.OnPacket(hdr, packet[PacketHeaderSize:])
}

// OnSnapshotPacket routes a packet from the shared snapshot feed to the
// segment it addresses, then re-evaluates whether the snapshot feed is
// still required.
func (c *Channel) OnSnapshotPacket(packet []byte) error {
	var hdr PacketHeader
	if err := hdr.FillRaw(packet); err != nil {
		return err
	}
	seg, ok := c.segments[hdr.MarketSegmentID]
	if !ok {
		return nil // snapshot traffic for a segment we've never seen real-time for
	}
	err := seg.OnSnapshotPacket(hdr, packet[PacketHeaderSize:])
	c.syncSnapshotFeed(seg)
	return err
}

func (c *Channel) onRequireSnapshot(marketSegmentID int32) {
	wasEmpty := len(c.snapshotIDs) == 0
	c.snapshotIDs[marketSegmentID] = struct{}{}
	if wasEmpty && c.startSnapshotFeed != nil {
		if err := c.startSnapshotFeed(); err != nil {
			c.rt.Logger.Warn("[Channel] failed to start snapshot feed", "error", err.Error())
		}
	}
}

func (c *Channel) syncSnapshotFeed(seg *SegmentProcessor) {
	if seg.RequireSnapshot() {
		return
	}
	delete(c.snapshotIDs, seg.MarketSegmentID())
	if len(c.snapshotIDs) == 0 && c.stopSnapshotFeed != nil {
		if err := c.stopSnapshotFeed(); err != nil {
			c.rt.Logger.Warn("[Channel] failed to stop snapshot feed", "error", err.Error())
		}
	}
}
