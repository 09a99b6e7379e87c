package websocket

import (
	"log"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"memodeck-client/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub pushes engine events (job status, tick counts, completions, errors)
// to connected UI clients. It implements notify.Notifier so the poller
// and tracker can feed it without knowing about WebSockets.
type Hub struct {
	mu          sync.Mutex
	connections []*websocket.Conn
	jwtSecret   []byte
}

func NewHub(jwtSecret string) *Hub {
	return &Hub{jwtSecret: []byte(jwtSecret)}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.register(conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections = append(h.connections, conn)
	log.Printf("WebSocket connected (total: %d)", len(h.connections))
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	for i, c := range h.connections {
		if c == conn {
			h.connections = append(h.connections[:i], h.connections[i+1:]...)
			break
		}
	}
	log.Printf("WebSocket disconnected (total: %d)", len(h.connections))
}

// Notify broadcasts one event to every connected client. The poller and
// tracker goroutines call this concurrently; writes are serialized under
// the full lock because a gorilla connection supports one writer at a time.
func (h *Hub) Notify(msg models.WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("WebSocket write failed: %v", err)
		}
	}
}
