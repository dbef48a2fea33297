package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ladle-dev/ladle/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Event is a push message for a tenant's dashboard: order and
// reservation status changes and low-stock alerts.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Hub tracks websocket connections per tenant and fans events out to
// them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*websocket.Conn]bool),
		log:     log,
	}
}

func (hub *Hub) add(userID uint, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if hub.clients[userID] == nil {
		hub.clients[userID] = make(map[*websocket.Conn]bool)
	}
	hub.clients[userID][conn] = true
}

func (hub *Hub) remove(userID uint, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if clients, exists := hub.clients[userID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(hub.clients, userID)
		}
	}
}

// Broadcast sends the event to every connection of the tenant.
func (hub *Hub) Broadcast(userID uint, event Event) {
	hub.mu.RLock()
	clients, exists := hub.clients[userID]
	if !exists || len(clients) == 0 {
		hub.mu.RUnlock()
		return
	}

	// Copy so the lock is not held while writing.
	conns := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		conns = append(conns, conn)
	}
	hub.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			hub.log.WithError(err).Warn("setting write deadline for broadcast")
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			hub.log.WithError(err).Warn("broadcasting event")
			hub.remove(userID, conn)
			conn.Close()
		}
	}
}

// WebSocket upgrades the request and streams tenant events until the
// client goes away.
func (h *Handler) WebSocket(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)

	if err != nil {
		h.log.WithError(err).Warn("upgrading websocket")
		return
	}

	h.hub.add(userID, conn)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.remove(userID, conn)
	conn.Close()
}
