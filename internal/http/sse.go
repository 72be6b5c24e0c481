package httpapi

import (
	"encoding/json"
	"net/http"
)

// streamSessionEvents relays the session's events as Server-Sent Events
// until the session stops or the client goes away. A session has a single
// event stream, so concurrent subscribers split the events between them.
func (s *Server) streamSessionEvents(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.ownedSession(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, ok := s.manager.Events(snap.Session.ID)
	if !ok {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}

			data, _ := json.Marshal(event)
			w.Write([]byte("event: " + string(event.Type) + "\n"))
			w.Write([]byte("data: "))
			w.Write(data)
			w.Write([]byte("\n\n"))

			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
