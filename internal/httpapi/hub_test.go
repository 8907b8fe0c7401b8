package httpapi

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"camwatch/internal/monitor"
	"camwatch/pkg/types"
)

func TestHub_PushesEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	srv := httptest.NewServer(NewMux(&mockService{}, Options{Hub: hub, Logger: zerolog.Nop()}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("clients=%d", hub.ClientCount())
	}

	at := time.UnixMilli(1700000000123)
	hub.Publish(monitor.Event{Name: monitor.EventDetection, Time: at, Fields: map[string]any{"count": 1}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg types.EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("json: %v", err)
	}
	if msg.Name != monitor.EventDetection || msg.TimeUnixMS != 1700000000123 || msg.Fields["count"] != float64(1) {
		t.Fatalf("msg=%+v", msg)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("client not removed")
	}
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	hub.Publish(monitor.Event{Name: monitor.EventAlert, Time: time.Now()})
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub(zerolog.Nop(), []string{"http://viewer.lan"})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	h := map[string][]string{"Origin": {"http://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(url, h); err == nil {
		t.Fatalf("dial with foreign origin should fail")
	}
}
