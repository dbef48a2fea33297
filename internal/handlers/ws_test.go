package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ladle-dev/ladle/internal/handlers"
)

func TestWebSocketReceivesBroadcast(t *testing.T) {
	app := newTestApp(t)

	token, userID := app.register("owner@example.com", "free")

	srv := httptest.NewServer(app.engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	header := http.Header{"Authorization": []string{"Bearer " + token}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)

	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	if resp != nil {
		resp.Body.Close()
	}

	// The handshake finishing client-side does not mean the server has
	// registered the connection yet, so keep broadcasting until the
	// client hears one.
	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				app.hub.Broadcast(userID, handlers.Event{
					Type:    "low_stock",
					Message: "Flour is low on stock",
				})
			}
		}
	}()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("setting read deadline: %v", err)
	}

	var event handlers.Event

	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("reading event: %v", err)
	}

	if event.Type != "low_stock" {
		t.Errorf("event type = %q, want low_stock", event.Type)
	}

	if event.Message != "Flour is low on stock" {
		t.Errorf("event message = %q", event.Message)
	}
}

func TestWebSocketIgnoresForeignTenantEvents(t *testing.T) {
	app := newTestApp(t)

	token, _ := app.register("owner@example.com", "free")
	_, otherID := app.register("other@example.com", "free")

	srv := httptest.NewServer(app.engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	header := http.Header{"Authorization": []string{"Bearer " + token}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)

	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	if resp != nil {
		resp.Body.Close()
	}

	app.hub.Broadcast(otherID, handlers.Event{Type: "order_created", Message: "foreign"})

	if err := conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)); err != nil {
		t.Fatalf("setting read deadline: %v", err)
	}

	var event handlers.Event

	if err := conn.ReadJSON(&event); err == nil {
		t.Errorf("received another tenant's event: %+v", event)
	}
}
