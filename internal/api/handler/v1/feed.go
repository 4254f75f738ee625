package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mintly/mintly-api/internal/domain"
)

const (
	feedSendBuffer = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxReadSize    = 512
)

type feedClient struct {
	conn    *websocket.Conn
	send    chan []byte
	eventID uuid.UUID
}

// FeedHub pushes committed ledger events to the websocket clients watching
// the same event. Run owns the client set. Slow clients are dropped rather
// than allowed to block the ledger.
type FeedHub struct {
	upgrader   websocket.Upgrader
	events     EventService
	clients    map[uuid.UUID]map[*feedClient]struct{}
	count      map[uuid.UUID]int
	countMutex sync.RWMutex
	broadcast  chan domain.LedgerEvent
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
}

func NewFeedHub(events EventService, allowedOrigins []string) *FeedHub {
	return &FeedHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		events:     events,
		clients:    make(map[uuid.UUID]map[*feedClient]struct{}),
		count:      make(map[uuid.UUID]int),
		broadcast:  make(chan domain.LedgerEvent, 256),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

// Run returns when ctx is done, closing every client.
func (h *FeedHub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for client := range set {
					h.remove(client)
				}
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.eventID]
			if !ok {
				set = make(map[*feedClient]struct{})
				h.clients[client.eventID] = set
			}
			set[client] = struct{}{}
			h.setCount(client.eventID, len(set))
		case client := <-h.unregister:
			h.remove(client)
		case ev := <-h.broadcast:
			message, err := json.Marshal(ev)
			if err != nil {
				zap.L().Warn("failed to encode feed message", zap.Error(err))
				continue
			}
			for client := range h.clients[ev.EventID] {
				select {
				case client.send <- message:
				default:
					h.remove(client)
				}
			}
		}
	}
}

// Broadcast never blocks. Events are dropped when the hub is saturated.
func (h *FeedHub) Broadcast(ev domain.LedgerEvent) {
	select {
	case h.broadcast <- ev:
	default:
		zap.L().Warn("feed hub saturated, dropping event",
			zap.String("kind", ev.Kind),
			zap.Stringer("event_id", ev.EventID),
		)
	}
}

// ClientCount returns the number of clients watching eventID.
func (h *FeedHub) ClientCount(eventID uuid.UUID) int {
	h.countMutex.RLock()
	defer h.countMutex.RUnlock()

	return h.count[eventID]
}

func (h *FeedHub) remove(client *feedClient) {
	set, ok := h.clients[client.eventID]
	if !ok {
		return
	}
	if _, ok = set[client]; !ok {
		return
	}

	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.eventID)
	}
	h.setCount(client.eventID, len(set))
}

func (h *FeedHub) setCount(eventID uuid.UUID, n int) {
	h.countMutex.Lock()
	defer h.countMutex.Unlock()

	if n == 0 {
		delete(h.count, eventID)
		return
	}
	h.count[eventID] = n
}

// HandleFeed godoc
// @Summary      Live ledger feed
// @Description  Upgrades to a WebSocket that streams payments, transfers, rewards and joins of the event
// @Tags         events
// @Param        eventID  path  string  true  "Event ID"
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /events/{eventID}/feed [get]
func (h *FeedHub) HandleFeed(ctx *gin.Context) {
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	if _, err := h.events.GetEvent(ctx.Request.Context(), eventID); err != nil {
		renderServiceErr(ctx, "v1.HandleFeed -> h.events.GetEvent", err)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn:    conn,
		send:    make(chan []byte, feedSendBuffer),
		eventID: eventID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames. The feed is one way.
func (c *feedClient) readPump(h *FeedHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxReadSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("feed client closed", zap.Error(err))
			}
			return
		}
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
