// Copyright (c) 2024 Neomantra Corp

package hsvf

import mdfeed "github.com/marketfeeds/mdcore-go"

// ChannelConfig describes one TXT channel's addressing and recovery
// credentials (spec.md §5). Dialing the real-time UDP socket is out of
// scope; RecoveryConfig is consumed directly by the RecoveryDriver this
// Channel owns.
type ChannelConfig struct {
	ChannelName string
	InterfaceA  string
	InterfaceB  string
	Recovery    RecoveryConfig
}

// Channel wraps one TXT ChannelProcessor together with the RecoveryDriver
// it drives on a gap (spec.md §3, §4.5).
type Channel struct {
	rt        mdfeed.Runtime
	channelID mdfeed.ChannelID
	config    ChannelConfig

	processor *ChannelProcessor
	recovery  *RecoveryDriver
}

// NewChannel creates a Channel, wiring its ChannelProcessor's
// onRequireRecovery hook to the RecoveryDriver's RequestGap. dial is
// forwarded to NewRecoveryDriver; pass nil in production to use NetDialer.
func NewChannel(rt mdfeed.Runtime, channelID mdfeed.ChannelID, config ChannelConfig, dial Dialer) *Channel {
	rt = rt.WithDefaults()
	c := &Channel{rt: rt, channelID: channelID, config: config}
	c.processor = NewChannelProcessor(rt, channelID, c.onRequireRecovery)
	c.recovery = NewRecoveryDriver(rt, config.Recovery, c.processor, dial)
	return c
}

// Init reports whether the channel can operate: either interface must be
// configured.
func (c *Channel) Init() bool {
	return c.config.InterfaceA != "" || c.config.InterfaceB != ""
}

// Processor returns the channel's ChannelProcessor.
func (c *Channel) Processor() *ChannelProcessor { return c.processor }

// Recovery returns the channel's RecoveryDriver.
func (c *Channel) Recovery() *RecoveryDriver { return c.recovery }

// OnPacket routes one real-time UDP datagram to the channel's processor.
func (c *Channel) OnPacket(data []byte) error {
	return c.processor.OnPacket(data)
}

func (c *Channel) onRequireRecovery(fromSeq, toSeq uint64) {
	if err := c.recovery.RequestGap(fromSeq, toSeq); err != nil {
		c.rt.Logger.Warn("[Channel] failed to start retransmission session", "error", err.Error())
	}
}
