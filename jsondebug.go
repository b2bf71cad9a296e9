// Copyright (c) 2024 Neomantra Corp

package mdfeed

import (
	"strconv"

	"github.com/valyala/fastjson"
)

// AppendJSON renders a MarketEvent as a single-line JSON object, appending
// to buf and returning the extended slice. It is used by the replay
// commands' --emit-json debug output and is not meant to be a schema for
// downstream consumers; it exists so a capture replay can be eyeballed or
// piped into jq without standing up a real consumer.
func (e *MarketEvent) AppendJSON(buf []byte) []byte {
	var arena fastjson.Arena
	obj := arena.NewObject()
	obj.Set("channel_id", arena.NewString(string(e.ChannelID)))
	obj.Set("indesc", arena.NewNumberInt(int(e.Indesc)))
	obj.Set("packet_seq", arena.NewNumberInt(int(e.PacketSequence)))
	obj.Set("msg_seq", arena.NewNumberInt(int(e.MessageSequence)))
	obj.Set("ts_exchange", arena.NewNumberString(strconv.FormatUint(e.TsExchangeSend, 10)))
	obj.Set("ts_recv", arena.NewNumberString(strconv.FormatUint(e.TsServerRecv, 10)))
	obj.Set("kind", arena.NewString(e.Kind.String()))

	switch e.Kind {
	case EventOrderBook:
		if ob := e.OrderBook; ob != nil {
			o := arena.NewObject()
			o.Set("action", arena.NewString(ob.Action.String()))
			o.Set("side", arena.NewString(ob.Side.String()))
			o.Set("price", arena.NewNumberInt(int(ob.Price)))
			o.Set("qty", arena.NewNumberInt(int(ob.Qty)))
			o.Set("order_id", arena.NewNumberString(strconv.FormatUint(ob.OrderID, 10)))
			o.Set("priority", arena.NewNumberString(strconv.FormatUint(ob.Priority, 10)))
			obj.Set("order_book", o)
		}
	case EventLevelBook:
		if lb := e.LevelBook; lb != nil {
			o := arena.NewObject()
			o.Set("action", arena.NewString(lb.Action.String()))
			o.Set("side", arena.NewString(lb.Side.String()))
			o.Set("level", arena.NewNumberInt(lb.Level))
			o.Set("price", arena.NewNumberInt(int(lb.Price)))
			o.Set("qty", arena.NewNumberInt(int(lb.Qty)))
			o.Set("num_orders", arena.NewNumberInt(int(lb.NumOrders)))
			obj.Set("level_book", o)
		}
	case EventTrade:
		if t := e.Trade; t != nil {
			o := arena.NewObject()
			o.Set("side", arena.NewString(t.Side.String()))
			o.Set("price", arena.NewNumberInt(int(t.Price)))
			o.Set("qty", arena.NewNumberInt(int(t.Qty)))
			o.Set("exec_id", arena.NewNumberString(strconv.FormatUint(t.ExecID, 10)))
			obj.Set("trade", o)
		}
	case EventStatus:
		if s := e.Status; s != nil {
			o := arena.NewObject()
			o.Set("value", arena.NewString(s.Value.String()))
			obj.Set("status", o)
		}
	}

	return obj.MarshalTo(buf)
}
