package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

type wsClient struct {
	conn *websocket.Conn
	// board is the subscribed board id; zero receives every event.
	board int64
	mu    sync.Mutex
}

func (c *wsClient) wants(event model.Event) bool {
	return c.board == 0 || event.BoardID == 0 || event.BoardID == c.board
}

type hub struct {
	upgrader   websocket.Upgrader
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan model.Event
	done       chan struct{}
	clients    map[*wsClient]struct{}
}

func newHub() *hub {
	h := &hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan model.Event, 128),
		done:       make(chan struct{}),
		clients:    make(map[*wsClient]struct{}),
	}
	go h.run()
	return h
}

func (h *hub) Close() {
	close(h.done)
}

func (h *hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	var board int64
	if raw := r.URL.Query().Get("board"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "board must be a positive integer", http.StatusBadRequest)
			return
		}
		board = parsed
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &wsClient{conn: conn, board: board}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- client:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := client.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish never blocks the caller. When the queue is full the oldest queued event is dropped
// and replaced by a resync.required event, so subscribers know to reload instead of silently
// missing a change.
func (h *hub) Publish(event model.Event) {
	select {
	case h.broadcast <- event:
		return
	default:
	}
	resync := model.NewEvent(model.EventTypeResyncRequired, event.BoardID, 0)
	select {
	case <-h.broadcast:
	default:
	}
	select {
	case h.broadcast <- resync:
	default:
	}
}

func (h *hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				_ = client.conn.Close()
			}
		case event := <-h.broadcast:
			for client := range h.clients {
				if !client.wants(event) {
					continue
				}
				client.mu.Lock()
				_ = client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				err := client.conn.WriteJSON(event)
				client.mu.Unlock()
				if err != nil {
					delete(h.clients, client)
					_ = client.conn.Close()
				}
			}
		case <-h.done:
			for client := range h.clients {
				_ = client.conn.Close()
			}
			return
		}
	}
}
