package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	mux := http.NewServeMux()
	hub.SetupRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	first := dialTestHub(t, server)
	defer first.Close()
	second := dialTestHub(t, server)
	defer second.Close()
	waitForClients(t, hub, 2)

	hub.Broadcast("issue:created", map[string]string{"id": "issue-1"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("failed to read broadcast: %v", err)
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("failed to parse broadcast: %v", err)
		}
		if msg.Event != "issue:created" {
			t.Errorf("expected issue:created, got %s", msg.Event)
		}
		payload, ok := msg.Data.(map[string]interface{})
		if !ok || payload["id"] != "issue-1" {
			t.Errorf("unexpected payload: %v", msg.Data)
		}
		if msg.Timestamp.IsZero() {
			t.Error("expected timestamp to be set")
		}
	}
}

func TestHub_RemovesDisconnectedClients(t *testing.T) {
	hub := NewHub()
	mux := http.NewServeMux()
	hub.SetupRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dialTestHub(t, server)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Broadcasting with nobody connected must not panic.
	hub.Broadcast("issue:updated", nil)
}

func TestHub_BroadcastSurvivesAbruptDisconnects(t *testing.T) {
	hub := NewHub()
	mux := http.NewServeMux()
	hub.SetupRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	// Clients that never read fill their send buffers and disconnect
	// without a close handshake, racing removal against the broadcast loop.
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/events"
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				continue
			}
			time.Sleep(time.Millisecond)
			conn.Close()
		}
	}()

	for {
		select {
		case <-done:
			waitForClients(t, hub, 0)
			return
		default:
			hub.Broadcast("issue:merged", map[string]string{"id": "issue-1"})
		}
	}
}

func TestHub_DropsSlowClientWithoutStalling(t *testing.T) {
	hub := NewHub()
	mux := http.NewServeMux()
	hub.SetupRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	healthy := dialTestHub(t, server)
	defer healthy.Close()
	stuckConn := dialTestHub(t, server)
	waitForClients(t, hub, 2)

	// Register a client whose queue can never accept a message. The
	// broadcast must drop it instead of blocking or deadlocking, and the
	// healthy client must still receive the event.
	stuck := &client{conn: stuckConn, send: make(chan []byte)}
	hub.mu.Lock()
	hub.clients[stuck] = true
	hub.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		hub.Broadcast("issue:updated", map[string]string{"id": "issue-1"})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast stalled on a stuck client")
	}

	healthy.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := healthy.ReadMessage(); err != nil {
		t.Fatalf("healthy client missed the broadcast: %v", err)
	}

	// Dropping the stuck client closes its connection, which also tears
	// down the hub's own registration for that socket.
	waitForClients(t, hub, 1)
}
