package ws

import (
	"encoding/json"
	"sync"

	"matchpairs/internal/game"
	"matchpairs/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var connectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "matchpairs_ws_connections_active",
	Help: "Open websocket connections",
})

func init() {
	prometheus.MustRegister(connectionsActive)
}

// Hub tracks live connections and room membership and delivers the game
// core's events. It implements game.Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // conn id → client
	rooms   map[string]map[string]*Client // room id → conn id → client

	manager *game.Manager
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// SetManager wires the lifecycle controller in after construction; the
// manager needs the hub as its Broadcaster.
func (h *Hub) SetManager(m *game.Manager) {
	h.manager = m
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	connectionsActive.Set(float64(len(h.clients)))
	h.mu.Unlock()

	c.enqueue(marshal(game.Event{Type: MsgConnected, Payload: ConnectedPayload{ConnectionID: c.ID, Name: c.Name}}))
	logger.Info("connection registered", "conn", c.ID, "name", c.Name)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	for roomID, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	connectionsActive.Set(float64(len(h.clients)))
	h.mu.Unlock()

	h.manager.Disconnect(c.ID)
	logger.Info("connection closed", "conn", c.ID)
}

// JoinRoom implements game.Broadcaster.
func (h *Hub) JoinRoom(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[roomID] = members
	}
	members[connID] = c
}

// LeaveRoom implements game.Broadcaster.
func (h *Hub) LeaveRoom(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// ToRoom implements game.Broadcaster.
func (h *Hub) ToRoom(roomID string, evt game.Event) {
	data := marshal(evt)

	h.mu.RLock()
	members := make([]*Client, 0, 2)
	for _, c := range h.rooms[roomID] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(data)
	}
}

// ToConn implements game.Broadcaster.
func (h *Hub) ToConn(connID string, evt game.Event) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if ok {
		c.enqueue(marshal(evt))
	}
}

// route validates one inbound frame and hands it to the lifecycle
// controller. Errors go back to the sender only.
func (h *Hub) route(c *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.enqueue(marshal(game.Event{Type: MsgError, Payload: game.ErrorPayload{Code: "badMessage", Message: "malformed message"}}))
		return
	}

	switch env.Type {
	case MsgCreateRoom:
		var p CreateRoomPayload
		if err := decodePayload(env, &p); err != nil {
			h.sendError(c, game.EvtJoinError, game.ErrInvalidConfig)
			return
		}
		if p.PlayerName == "" {
			p.PlayerName = c.Name
		}
		_, err := h.manager.CreateRoom(c.ID, game.CreateParams{
			RoomID:      p.RoomID,
			PlayerName:  p.PlayerName,
			Password:    p.Password,
			PairCount:   p.PairCount,
			TurnSeconds: p.TurnSeconds,
		})
		if err != nil {
			h.sendError(c, game.EvtJoinError, err)
		}

	case MsgJoinRoom:
		var p JoinRoomPayload
		if err := decodePayload(env, &p); err != nil {
			h.sendError(c, game.EvtJoinError, game.ErrInvalidConfig)
			return
		}
		if p.PlayerName == "" {
			p.PlayerName = c.Name
		}
		if err := h.manager.JoinRoom(c.ID, p.RoomID, p.PlayerName, p.Password); err != nil {
			h.sendError(c, game.EvtJoinError, err)
		}

	case MsgFlipCard:
		var p FlipCardPayload
		if err := decodePayload(env, &p); err != nil || p.CardID == nil {
			h.sendError(c, game.EvtFlipError, game.ErrInvalidConfig)
			return
		}
		if err := h.manager.FlipCard(c.ID, p.RoomID, *p.CardID); err != nil {
			h.sendError(c, game.EvtFlipError, err)
		}

	case MsgRestartGame:
		var p RestartGamePayload
		if err := decodePayload(env, &p); err != nil {
			h.sendError(c, game.EvtFlipError, game.ErrInvalidConfig)
			return
		}
		if err := h.manager.RestartGame(c.ID, p.RoomID); err != nil {
			h.sendError(c, game.EvtFlipError, err)
		}

	default:
		c.enqueue(marshal(game.Event{Type: MsgError, Payload: game.ErrorPayload{Code: "unknownType", Message: "unknown message type"}}))
	}
}

func (h *Hub) sendError(c *Client, evtType string, err error) {
	c.enqueue(marshal(game.Event{Type: evtType, Payload: game.ErrorPayload{
		Code:    game.ErrorCode(err),
		Message: err.Error(),
	}}))
}

func marshal(evt game.Event) []byte {
	data, err := json.Marshal(evt)
	if err != nil {
		logger.Error("event marshal failed", "type", evt.Type, "error", err)
		return []byte(`{"type":"error"}`)
	}
	return data
}
