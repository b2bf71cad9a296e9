// Copyright (c) 2024 Neomantra Corp

package mdfeed

import (
	"log/slog"
	"time"
)

// Clock abstracts "now" so tests can inject a fixed or stepped time instead
// of depending on the wall clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock is a Clock that always returns the same instant, advanced
// explicitly by test code.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Runtime is the small capability object threaded by value into every
// channel and processor: the sink events are delivered to, the logger
// diagnostics are written to, and the clock event timestamps are read from.
// Processors hold a Runtime instead of a pointer back to an owning channel,
// so there are no reference cycles between a channel and its segments.
type Runtime struct {
	Sink   Sink
	Logger *slog.Logger
	Clock  Clock
}

// WithDefaults fills in a usable Logger and Clock if the caller left them
// nil, returning the adjusted Runtime.
func (r Runtime) WithDefaults() Runtime {
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	if r.Clock == nil {
		r.Clock = SystemClock()
	}
	return r
}
