package httpinterface

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// EventStream is the source of the events streamed over websocket.
type EventStream interface {
	Listen(topic string) (<-chan ports.Event, func())
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type streamMessage struct {
	Topic string          `json:"topic"`
	Event json.RawMessage `json:"event"`
}

// streamEvents upgrades the connection to websocket and forwards the events
// of the requested topic, all if omitted, until the client goes away.
func (h handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if len(topic) <= 0 {
		topic = ports.AnyTopic
	}
	if !pubsub.IsValidTopic(topic) {
		writeDomainError(w, fmt.Errorf("%w: unknown topic %s", domain.ErrInvalidInput, topic))
		return
	}

	events, stop := h.stream.Listen(topic)
	defer stop()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade to websocket connection")
		return
	}
	defer conn.Close()

	// Incoming messages are discarded, reading is only needed to process
	// control frames and detect the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(
				websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout),
			); err != nil {
				return
			}
		case e, ok := <-events:
			if !ok {
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(wsWriteTimeout),
				)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(streamMessage{e.Topic, json.RawMessage(e.Payload)}); err != nil {
				log.WithError(err).Debug("failed to write event on websocket")
				return
			}
		}
	}
}
