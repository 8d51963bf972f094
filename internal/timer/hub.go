package timer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"matchday-app/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	EventTimerState  = "timer_state"
	EventPeriodEnded = "period_ended"
)

// Event is the wire format pushed to websocket subscribers of a match clock.
type Event struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	MatchID   string       `json:"match_id"`
	State     StatePayload `json:"state"`
	Timestamp time.Time    `json:"timestamp"`
}

// StatePayload carries both the raw timer fields and the display projection,
// so subscribers can render without re-deriving either.
type StatePayload struct {
	MatchID        string            `json:"match_id"`
	Period         model.TimerPeriod `json:"period"`
	PeriodLabel    string            `json:"period_label"`
	ElapsedMinutes int               `json:"elapsed_minutes"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	Stoppage       int               `json:"stoppage"`
	IsRunning      bool              `json:"is_running"`
	IsPaused       bool              `json:"is_paused"`
	Clock          string            `json:"clock"`
	StoppageText   string            `json:"stoppage_text,omitempty"`
	Status         string            `json:"status"`
	Version        int64             `json:"version"`
}

// NewStatePayload builds the subscriber payload for a timer record.
func NewStatePayload(t model.MatchTimer) StatePayload {
	display := Display(t)
	return StatePayload{
		MatchID:        t.MatchID,
		Period:         t.Period,
		PeriodLabel:    display.PeriodLabel,
		ElapsedMinutes: t.ElapsedMinutes,
		ElapsedSeconds: t.ElapsedSeconds,
		Stoppage:       t.StoppageFor(t.Period),
		IsRunning:      t.IsRunning,
		IsPaused:       t.IsPaused,
		Clock:          display.ClockText,
		StoppageText:   display.StoppageText,
		Status:         display.StatusLabel,
		Version:        t.Version,
	}
}

// Hub fans timer events out to websocket subscribers, pooled per match.
type Hub struct {
	mu          sync.RWMutex
	matchConns  map[string]map[*hubConn]bool
	upgrader    websocket.Upgrader
	config      HubConfig
	broadcastCh chan Event
}

type hubConn struct {
	id      string
	matchID string
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
}

type HubConfig struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	CheckOrigin    func(r *http.Request) bool
}

func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 512,
		CheckOrigin:    func(r *http.Request) bool { return true },
	}
}

func NewHub(config HubConfig) *Hub {
	return &Hub{
		matchConns: make(map[string]map[*hubConn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan Event, 256),
	}
}

// Run processes queued broadcasts until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("timer hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("timer hub shutting down")
			return
		case event := <-h.broadcastCh:
			h.deliver(event)
		}
	}
}

// Subscribe upgrades the request to a websocket and registers it for the
// match's timer events.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, matchID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade connection: %w", err)
	}
	c := &hubConn{
		id:      uuid.NewString(),
		matchID: matchID,
		conn:    conn,
		send:    make(chan []byte, 64),
		hub:     h,
	}
	h.register(c)
	go c.writePump()
	go c.readPump()

	log.Debug().
		Str("connection_id", c.id).
		Str("match_id", matchID).
		Int("subscribers", h.SubscriberCount(matchID)).
		Msg("timer subscriber connected")
	return nil
}

// BroadcastState queues a timer-state event for the match's subscribers.
func (h *Hub) BroadcastState(t model.MatchTimer) {
	h.broadcast(EventTimerState, t)
}

// BroadcastPeriodEnded queues a period-ended event after an auto-pause.
func (h *Hub) BroadcastPeriodEnded(t model.MatchTimer) {
	h.broadcast(EventPeriodEnded, t)
}

func (h *Hub) broadcast(eventType string, t model.MatchTimer) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		MatchID:   t.MatchID,
		State:     NewStatePayload(t),
		Timestamp: time.Now(),
	}
	select {
	case h.broadcastCh <- event:
	default:
		log.Warn().Str("match_id", t.MatchID).Msg("broadcast channel full, dropping timer event")
	}
}

func (h *Hub) register(c *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.matchConns[c.matchID] == nil {
		h.matchConns[c.matchID] = make(map[*hubConn]bool)
	}
	h.matchConns[c.matchID][c] = true
}

func (h *Hub) unregister(c *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.matchConns[c.matchID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.matchConns, c.matchID)
			}
		}
	}
}

// SubscriberCount reports how many connections follow a match.
func (h *Hub) SubscriberCount(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matchConns[matchID])
}

func (h *Hub) deliver(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("marshal timer event")
		return
	}

	// Sends stay under the read lock: unregister needs the write lock to
	// close a send channel, so no channel can be closed mid-broadcast. The
	// sends never block, a full buffer marks the connection as slow instead.
	h.mu.RLock()
	var slow []*hubConn
	for c := range h.matchConns[event.MatchID] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		// Slow consumer; drop the connection rather than block the hub.
		log.Warn().Str("connection_id", c.id).Msg("subscriber send buffer full, closing")
		h.unregister(c)
		c.conn.Close()
	}
}

func (c *hubConn) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *hubConn) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})

	for {
		// Subscribers are read-only; incoming messages are discarded.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("connection_id", c.id).Msg("timer subscriber closed unexpectedly")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}
