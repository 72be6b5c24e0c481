package httpapi_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	httpapi "github.com/hperssn/unibalance/internal/http"
	"github.com/hperssn/unibalance/internal/media"
)

func recordSomething(t *testing.T, s *testServer, user string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/recordings/current/start", user, media.Permissions{Camera: true, Microphone: true})
	expectStatus(t, rec, http.StatusOK)
	rec = s.do(t, http.MethodPost, "/recordings/current/stop", user, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestRecordingFlow(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/recordings/current/start", "alice", media.Permissions{Microphone: true})
	expectStatus(t, rec, http.StatusForbidden)
	denied := decode[struct {
		Retry bool `json:"retry"`
	}](t, rec)
	if !denied.Retry {
		t.Fatalf("permission error should offer a retry")
	}

	rec = s.do(t, http.MethodPost, "/recordings/current/start", "alice", media.Permissions{Camera: true, Microphone: true})
	expectStatus(t, rec, http.StatusOK)
	if r := decode[media.Recording](t, rec); r.State != media.StateRecording {
		t.Fatalf("state = %s, want recording", r.State)
	}

	rec = s.do(t, http.MethodPost, "/recordings/current/stop", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	if r := decode[media.Recording](t, rec); r.State != media.StateRecorded {
		t.Fatalf("state = %s, want recorded", r.State)
	}

	rec = s.do(t, http.MethodGet, "/recordings/current/clip", "alice", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = s.do(t, http.MethodPost, "/recordings/current/save", "alice", "clip-bytes")
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(t, http.MethodPost, "/recordings/current/save?mediaLibrary=true", "alice", "")
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodPost, "/recordings/current/save?mediaLibrary=true", "alice", "clip-bytes")
	expectStatus(t, rec, http.StatusOK)
	saved := decode[media.Recording](t, rec)
	if saved.State != media.StateSaved || !strings.HasSuffix(saved.Location, ".mp4") {
		t.Fatalf("saved = %+v", saved)
	}

	rec = s.do(t, http.MethodGet, "/recordings/current/clip", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "clip-bytes" {
		t.Fatalf("clip = %q", rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/recordings/current", "bob", nil)
	expectStatus(t, rec, http.StatusOK)
	if r := decode[media.Recording](t, rec); r.State != media.StateIdle {
		t.Fatalf("bob's recorder state = %s, want idle", r.State)
	}

	rec = s.do(t, http.MethodPost, "/recordings/current/reset", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	if r := decode[media.Recording](t, rec); r.State != media.StateIdle || r.ID == saved.ID {
		t.Fatalf("reset recording = %+v", r)
	}
}

func TestSaveRecordingStreamedUploads(t *testing.T) {
	s := newTestServer(t, "", func(d *httpapi.Deps) { d.MaxClipBytes = 16 })
	recordSomething(t, s, "alice")

	rec := s.do(t, http.MethodPost, "/recordings/current/save?mediaLibrary=true", "alice", io.MultiReader())
	expectStatus(t, rec, http.StatusBadRequest)

	big := io.MultiReader(strings.NewReader(strings.Repeat("x", 64)))
	rec = s.do(t, http.MethodPost, "/recordings/current/save?mediaLibrary=true", "alice", big)
	expectStatus(t, rec, http.StatusRequestEntityTooLarge)

	rec = s.do(t, http.MethodGet, "/recordings/current", "alice", nil)
	if r := decode[media.Recording](t, rec); r.State != media.StateRecorded {
		t.Fatalf("state after rejected uploads = %s, want recorded", r.State)
	}

	small := io.MultiReader(strings.NewReader("short clip"))
	rec = s.do(t, http.MethodPost, "/recordings/current/save?mediaLibrary=true", "alice", small)
	expectStatus(t, rec, http.StatusOK)
	if r := decode[media.Recording](t, rec); r.State != media.StateSaved {
		t.Fatalf("state = %s, want saved", r.State)
	}
}

func TestDiscardClip(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodDelete, "/recordings/current/clip", "alice", nil)
	expectStatus(t, rec, http.StatusConflict)

	recordSomething(t, s, "alice")
	rec = s.do(t, http.MethodPost, "/recordings/current/save?mediaLibrary=true", "alice", "clip-bytes")
	expectStatus(t, rec, http.StatusOK)
	saved := decode[media.Recording](t, rec)

	rec = s.do(t, http.MethodDelete, "/recordings/current/clip", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	if r := decode[media.Recording](t, rec); r.State != media.StateIdle || r.ID == saved.ID {
		t.Fatalf("after discard = %+v", r)
	}

	rec = s.do(t, http.MethodGet, "/recordings/current/clip", "alice", nil)
	expectStatus(t, rec, http.StatusNotFound)
}
