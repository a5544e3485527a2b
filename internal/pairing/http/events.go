package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/leadisle/faceid/internal/pairing/service"
	"github.com/leadisle/faceid/pkg/pairsdk"
)

// outboundBuffer is the per-connection push queue depth. A connection that
// cannot drain this many frames starts dropping pushes; the PC's polling of
// GET /v1/sessions/{id} remains the source of truth.
const outboundBuffer = 32

// EventsHandler upgrades GET /v1/events to a websocket carrying session
// state-change pushes.
//
// Protocol: the client sends {"event":"subscribe","session_id":...} and
// {"event":"unsubscribe","session_id":...} frames; the service pushes
// {"event":"sessionUpdate","data":{...}} frames for every state change on a
// subscribed session. All subscriptions are dropped when the connection
// closes.
//
//	@Summary		Session event stream
//	@Description	WebSocket endpoint. Clients subscribe to session ids and receive sessionUpdate pushes on every state change.
//	@Tags			Events
//	@Router			/v1/events [get].
func EventsHandler(hub *service.Hub, logger *slog.Logger) http.Handler {
	return websocket.Handler(func(ws *websocket.Conn) {
		serveEvents(ws, hub, logger)
	})
}

func serveEvents(ws *websocket.Conn, hub *service.Hub, logger *slog.Logger) {
	defer ws.Close()

	subs := make(map[string]*service.Subscriber)
	outbound := make(chan pairsdk.EventFrame, outboundBuffer)

	var wg sync.WaitGroup
	done := make(chan struct{})

	// Single writer goroutine; websocket writes are not concurrency-safe.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case frame := <-outbound:
				if err := websocket.JSON.Send(ws, frame); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		var frame pairsdk.EventFrame
		err := websocket.JSON.Receive(ws, &frame)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug("events connection closed", "err", err)
			}
			break
		}

		switch frame.Event {
		case pairsdk.EventSubscribe:
			if frame.SessionID == "" {
				continue
			}
			if _, ok := subs[frame.SessionID]; ok {
				continue
			}
			sub := hub.Subscribe(frame.SessionID)
			subs[frame.SessionID] = sub

			wg.Add(1)
			go func() {
				defer wg.Done()
				pumpEvents(sub, outbound, done)
			}()

		case pairsdk.EventUnsubscribe:
			if sub, ok := subs[frame.SessionID]; ok {
				hub.Unsubscribe(sub)
				delete(subs, frame.SessionID)
			}

		default:
			logger.Debug("ignoring unknown event frame", "event", frame.Event)
		}
	}

	// Connection gone: drop every subscription so the hub can GC the
	// channels, then stop the writer.
	for _, sub := range subs {
		hub.Unsubscribe(sub)
	}
	close(done)
	wg.Wait()
}

// pumpEvents forwards hub events to the connection's writer. It exits when
// the subscription is closed by Unsubscribe or the connection shuts down.
func pumpEvents(sub *service.Subscriber, outbound chan<- pairsdk.EventFrame, done <-chan struct{}) {
	for ev := range sub.Events() {
		frame := pairsdk.EventFrame{
			Event: pairsdk.EventSessionUpdate,
			Data: &pairsdk.SessionEvent{
				SessionID: ev.SessionID,
				Status:    string(ev.Status),
				Username:  ev.Username,
			},
		}
		select {
		case outbound <- frame:
		case <-done:
			return
		}
	}
}
