package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event сообщение, рассылаемое подписчикам управляющего API
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
	Time    time.Time   `json:"time"`
}

// Hub рассылает события воркфлоу всем подключенным клиентам
// Реализует EventSink контроллеров
type Hub struct {
	log Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewHub создает новый экземпляр хаба
func NewHub(log Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Publish рассылает событие всем клиентам
// Ошибки записи не фатальны: отвалившийся клиент снимется со счета
// своим читающим циклом
func (h *Hub) Publish(event string, payload interface{}) {
	msg := Event{Event: event, Payload: payload, Time: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if err := client.WriteJSON(msg); err != nil {
			h.log.Warn("WS write failed: %v", err)
		}
	}
}

// Handle GET /ws
// Держит соединение открытым, входящие сообщения игнорируются
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WS upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.log.Info("WS client connected (%d total)", h.clientCount())

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		h.log.Info("WS client disconnected (%d left)", h.clientCount())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return
			}
			return
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
