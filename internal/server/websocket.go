package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// clientQueue is the number of events buffered per client before the
	// client is considered too slow and disconnected.
	clientQueue = 16
)

// Clients only listen, so any origin may subscribe to post events.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscriber is one websocket connection with its outgoing event queue.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans post events out to websocket subscribers. Every subscriber has
// its own queue and writer goroutine, so a slow client only loses its own
// events.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	broadcast   chan []byte
	done        chan struct{}
	stopOnce    sync.Once
	log         zerolog.Logger
}

// NewHub returns a Hub. Run must be started before events are delivered.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		broadcast:   make(chan []byte, 256),
		done:        make(chan struct{}),
		log:         logger.With().Str("component", "hub").Logger(),
	}
}

// Run hands queued events to the subscribers until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case msg := <-h.broadcast:
			h.mu.Lock()
			for sub := range h.subscribers {
				select {
				case sub.send <- msg:
				default:
					h.log.Debug().Msg("subscriber queue full, disconnecting")
					h.dropLocked(sub)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for sub := range h.subscribers {
				h.dropLocked(sub)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and disconnects every subscriber. It may be called more
// than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Publish encodes ev and queues it for every subscriber.
func (h *Hub) Publish(ev Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event for %s: %w", ev.Path, err)
	}
	h.Broadcast(msg)
	return nil
}

// Broadcast queues an encoded message. The message is dropped when the
// queue is full.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Msg("broadcast queue full, dropping event")
	}
}

// HandleWS upgrades the request and subscribes the connection until the
// client goes away or the hub stops.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sub := &subscriber{conn: conn, send: make(chan []byte, clientQueue)}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		conn.Close()
		return
	default:
	}
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	go h.write(sub)
	go h.read(sub)
}

// read discards client messages and unsubscribes on the first error.
func (h *Hub) read(sub *subscriber) {
	defer h.drop(sub)
	sub.conn.SetReadLimit(512)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// write sends queued events and keepalive pings until the queue is closed.
func (h *Hub) write(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug().Err(err).Msg("writing event")
				h.drop(sub)
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(sub)
				return
			}
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	h.dropLocked(sub)
	h.mu.Unlock()
}

func (h *Hub) dropLocked(sub *subscriber) {
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
}

// ClientCount returns the number of subscribed connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
