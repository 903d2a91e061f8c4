package notify

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rade-studio/printing-cost-app/internal/lib/sl"
)

// StateMessage — кадр состояния баннера, отправляемый клиенту.
type StateMessage struct {
	Closed bool `json:"closed"`
}

// Hub раздаёт смену состояния баннера подключённым по websocket клиентам
// арендатора. Подписывается на Broadcast один раз при создании.
type Hub struct {
	broadcast *Broadcast
	log       *slog.Logger
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]string
}

// NewHub создаёт hub и подписывает его на рассылку.
func NewHub(broadcast *Broadcast, log *slog.Logger) *Hub {
	h := &Hub{
		broadcast: broadcast,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]string),
	}
	broadcast.Subscribe(h.push)
	return h
}

// Serve апгрейдит соединение и регистрирует клиента арендатора.
// Первым кадром клиент получает текущее известное состояние.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, tenantUID string) error {
	const op = "notify.Serve"

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.clients[conn] = tenantUID
	h.mu.Unlock()

	if closed, known := h.broadcast.State(tenantUID); known {
		h.mu.Lock()
		if err := conn.WriteJSON(StateMessage{Closed: closed}); err != nil {
			h.log.Warn("failed to send initial banner state", slog.String("op", op), sl.Err(err))
		}
		h.mu.Unlock()
	}

	go h.readLoop(conn)
	return nil
}

// readLoop держит соединение открытым и убирает клиента при закрытии.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// push рассылает новое состояние всем клиентам арендатора.
func (h *Hub) push(tenantUID string, closed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, uid := range h.clients {
		if uid != tenantUID {
			continue
		}
		if err := conn.WriteJSON(StateMessage{Closed: closed}); err != nil {
			h.log.Warn("failed to push banner state", sl.Err(err))
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}
