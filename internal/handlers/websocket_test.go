package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"casino-miniapp-gateway/internal/services"
)

// The hub goroutine and the per-connection reader both write to the same
// connection; frames must come out serialized even when price ticks and
// pongs interleave.
func TestWebSocketConcurrentWrites(t *testing.T) {
	h := NewWebSocketHandler(nil, zap.NewNop())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade: %v", err)
			return
		}

		client := &Client{SessionID: "sess_ws_test", Conn: conn}
		client.setFeedSub(true)
		h.hub.register <- client
		defer func() {
			h.hub.unregister <- client
			conn.Close()
		}()

		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			h.handleMessage(client, &msg)
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	// One ping/pong round trip proves the client is registered before the
	// broadcasts start.
	if err := conn.WriteJSON(Message{Type: "PING"}); err != nil {
		t.Fatalf("Failed to send ping: %v", err)
	}
	var first Message
	if err := conn.ReadJSON(&first); err != nil || first.Type != "PONG" {
		t.Fatalf("Expected an initial pong, got %+v (%v)", first, err)
	}

	const rounds = 100

	go func() {
		for i := 0; i < rounds; i++ {
			if err := conn.WriteJSON(Message{Type: "PING"}); err != nil {
				return
			}
		}
	}()

	go func() {
		for i := 0; i < rounds; i++ {
			h.BroadcastPriceTick(services.PricePoint{Time: int64(i), Value: 900})
		}
	}()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	pongs, ticks := 0, 0
	for pongs < rounds || ticks < rounds {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Read failed after %d pongs / %d ticks: %v", pongs, ticks, err)
		}
		switch msg.Type {
		case "PONG":
			pongs++
		case "PRICE_TICK":
			ticks++
		default:
			t.Fatalf("Unexpected frame type %q", msg.Type)
		}
	}
}
