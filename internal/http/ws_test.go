package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hperssn/unibalance/internal/runner"
)

func TestSessionSocket(t *testing.T) {
	s := newTestServer(t, "")
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	rec := s.do(t, http.MethodPost, "/sessions", "alice", map[string]any{"kind": "eye-movement"})
	expectStatus(t, rec, http.StatusCreated)
	id := decode[runner.Snapshot](t, rec).Session.ID

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/ws"
	header := http.Header{"X-Auth-User": []string{"alice"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"action": "start"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var sawStarted, sawSnapshot bool
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for !sawStarted || !sawSnapshot {
		var msg struct {
			Type     string           `json:"type"`
			Snapshot *runner.Snapshot `json:"snapshot"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		switch msg.Type {
		case string(runner.EventStarted):
			sawStarted = true
		case "snapshot":
			if msg.Snapshot == nil || !msg.Snapshot.Countdown.Running {
				t.Fatalf("snapshot after start = %+v", msg.Snapshot)
			}
			sawSnapshot = true
		}
	}

	if err := conn.WriteJSON(map[string]string{"action": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for {
		var msg struct {
			Type  string `json:"type"`
			Error string `json:"error"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == "error" {
			if !strings.Contains(msg.Error, "dance") {
				t.Fatalf("error = %q", msg.Error)
			}
			break
		}
	}
}

func TestSessionSocketRequiresOwner(t *testing.T) {
	s := newTestServer(t, "")
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	rec := s.do(t, http.MethodPost, "/sessions", "alice", map[string]any{"kind": "blink"})
	id := decode[runner.Snapshot](t, rec).Session.ID

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"X-Auth-User": []string{"bob"}})
	if err == nil {
		t.Fatalf("bob should not reach alice's session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("response = %v, want 404", resp)
	}
}
