package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/toshiba-abbus/acprocessor/internal/dashboard"
	"github.com/toshiba-abbus/acprocessor/internal/logging"
	"github.com/toshiba-abbus/acprocessor/internal/mqttbus"
	"github.com/toshiba-abbus/acprocessor/internal/session"
	"github.com/toshiba-abbus/acprocessor/internal/store"
)

// statusLogger adapts a *store.Store to session.Events, writing a status row
// on every model update and otherwise forwarding to Next.
type statusLogger struct {
	db   *store.Store
	sess *session.Session
	Next session.Events
}

func (l *statusLogger) OnStart() {
	if l.Next != nil {
		l.Next.OnStart()
	}
}

func (l *statusLogger) OnReady() {
	if l.Next != nil {
		l.Next.OnReady()
	}
}

func (l *statusLogger) OnStateChange(name string) {
	if l.Next != nil {
		l.Next.OnStateChange(name)
	}
}

func (l *statusLogger) OnStatus(kind string) {
	l.writeStatus()
	if l.Next != nil {
		l.Next.OnStatus(kind)
	}
}

func (l *statusLogger) OnUpdate() {
	l.writeStatus()
	if l.Next != nil {
		l.Next.OnUpdate()
	}
}

func (l *statusLogger) writeStatus() {
	row := store.StatusRowFromModel(l.sess.Model(), time.Now())
	if err := l.db.WriteStatus(row); err != nil {
		logging.Warn("statuslog write failed", zap.Error(err))
	}
}

// storeSink adapts a *store.Store to session.Sink, writing a packet row for
// every outbound frame before handing it to Next.
type storeSink struct {
	db   *store.Store
	Next session.Sink
}

func (s storeSink) Send(frame []byte) error {
	if err := s.db.WritePacket(store.PacketRow{
		Direction:  "tx",
		Payload:    frame,
		Status:     "ok",
		RecordedAt: time.Now(),
	}); err != nil {
		logging.Warn("packetlog write failed", zap.Error(err))
	}
	if s.Next == nil {
		return nil
	}
	return s.Next.Send(frame)
}

// wireSession assembles the session's Sink and Events from whichever of the
// MQTT client, dashboard, and packet/status store are active. dash and db may
// be nil when their flags are unset. bus is always non-nil (it is the only
// subscriber to inbound frames and control requests); when listenOnly is set
// it still supplies Events but is left out of the Sink chain, so frames are
// still decoded and modeled but nothing is published to <root>/packet/tx.
func wireSession(sess *session.Session, bus *mqttbus.Client, dash *dashboard.Dashboard, db *store.Store, packetlog, statuslog, listenOnly bool) (session.Sink, session.Events) {
	var sink session.Sink
	var events session.Events
	var rxObservers []func(direction string, data []byte)

	events = bus
	if !listenOnly {
		sink = bus
	}

	if dash != nil {
		sink = dashboard.Sink{Dashboard: dash, Next: sink}
		events = dashboard.Events{Dashboard: dash, Session: sess, Next: events}
		rxObservers = append(rxObservers, dash.LogFrame)
	}

	if db != nil && statuslog {
		events = &statusLogger{db: db, sess: sess, Next: events}
	}

	if db != nil && packetlog {
		sink = storeSink{db: db, Next: sink}
		rxObservers = append(rxObservers, func(direction string, data []byte) {
			if err := db.WritePacket(store.PacketRow{
				Direction:  direction,
				Payload:    data,
				Status:     "ok",
				RecordedAt: time.Now(),
			}); err != nil {
				logging.Warn("packetlog write failed", zap.Error(err))
			}
		})
	}

	if bus != nil && len(rxObservers) > 0 {
		bus.FrameObserver = func(direction string, data []byte) {
			for _, obs := range rxObservers {
				obs(direction, data)
			}
		}
	}

	return sink, events
}
