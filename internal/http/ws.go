package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hperssn/unibalance/internal/runner"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// controlMessage is what a socket client sends to drive its session.
type controlMessage struct {
	Action  string `json:"action"`
	Minutes int    `json:"minutes,omitempty"`
}

type socketReply struct {
	Type     string           `json:"type"`
	Snapshot *runner.Snapshot `json:"snapshot,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// sessionSocket is the two-way alternative to the SSE stream: events go
// out, control messages come in and are answered with a snapshot or an
// error.
func (s *Server) sessionSocket(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	id := snap.Session.ID

	events, ok := s.manager.Events(id)
	if !ok {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	replies := make(chan socketReply, 16)
	done := make(chan struct{})

	go s.socketWriter(conn, events, replies, done)

	defer func() {
		close(done)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			s.reply(replies, socketReply{Type: "error", Error: "Invalid message format"})
			continue
		}

		if err := s.applyControl(id, msg); err != nil {
			s.reply(replies, socketReply{Type: "error", Error: err.Error()})
			continue
		}
		if snap, ok := s.manager.Get(id); ok {
			s.reply(replies, socketReply{Type: "snapshot", Snapshot: &snap})
		}
	}
}

func (s *Server) applyControl(id string, msg controlMessage) error {
	switch msg.Action {
	case "start":
		return s.manager.Start(id)
	case "pause":
		return s.manager.Pause(id)
	case "toggle":
		return s.manager.Toggle(id)
	case "reset":
		return s.manager.Reset(id)
	case "duration":
		return s.manager.SetDuration(id, msg.Minutes)
	case "snapshot":
		return nil
	default:
		return fmt.Errorf("unknown action %q", msg.Action)
	}
}

func (s *Server) reply(replies chan<- socketReply, r socketReply) {
	select {
	case replies <- r:
	default:
	}
}

func (s *Server) socketWriter(conn *websocket.Conn, events <-chan runner.Event, replies <-chan socketReply, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session stopped"))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}

		case r := <-replies:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(r); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
