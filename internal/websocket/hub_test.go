package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gorilla "github.com/gorilla/websocket"

	"memodeck-client/internal/models"
)

const testSecret = "hub-test-secret"

func uiToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ui",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func dialHub(t *testing.T, hub *Hub, token string) *gorilla.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// The handshake completes before the server side registers the
	// connection; wait for registration so no broadcast is missed.
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.Lock()
		registered := len(hub.connections) > 0
		hub.mu.Unlock()
		if registered {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatalf("connection never registered")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestHandleWebSocketRejectsBadToken(t *testing.T) {
	hub := NewHub(testSecret)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	tests := []struct {
		name  string
		query string
	}{
		{"missing token", ""},
		{"garbage token", "?token=not.a.jwt"},
		{"wrong secret", "?token=" + uiToken(t, "other-secret")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			url := "ws" + strings.TrimPrefix(srv.URL, "http") + tc.query
			conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
			if err == nil {
				conn.Close()
				t.Fatalf("Expected handshake rejection")
			}
			if resp == nil || resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected 401 on handshake, got %+v", resp)
			}
		})
	}
}

func TestNotifyDeliversToClient(t *testing.T) {
	hub := NewHub(testSecret)
	conn := dialHub(t, hub, uiToken(t, testSecret))

	hub.Notify(models.WSMessage{
		Type:    "status_update",
		Payload: models.StatusUpdate{JobID: "job-1", Status: models.JobStatusProcessing},
	})

	var msg models.WSMessage
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if msg.Type != "status_update" {
		t.Errorf("Unexpected message type %q", msg.Type)
	}
}

// Job events and tick events arrive from different goroutines; every
// write must reach the client without tripping gorilla's single-writer rule.
func TestNotifyFromConcurrentGoroutines(t *testing.T) {
	hub := NewHub(testSecret)
	conn := dialHub(t, hub, uiToken(t, testSecret))

	const writers = 4
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				hub.Notify(models.WSMessage{
					Type:    "tick",
					Payload: models.TickEvent{ElapsedSeconds: i},
				})
			}
		}(w)
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < writers*perWriter; i++ {
		var msg models.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON failed after %d messages: %v", i, err)
		}
	}
}
