package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "github.com/hperssn/unibalance/internal/http"
	"github.com/hperssn/unibalance/internal/media"
	"github.com/hperssn/unibalance/internal/quiz"
	"github.com/hperssn/unibalance/internal/runner"
	"github.com/hperssn/unibalance/internal/scoring"
	"github.com/hperssn/unibalance/internal/storage"
)

// stillTicker never fires, so session state only changes on commands.
type stillTicker struct{}

func (stillTicker) C() <-chan time.Time { return nil }
func (stillTicker) Stop()               {}

type testServer struct {
	handler http.Handler
	manager *runner.Manager
	repo    *storage.MemoryRepository
	now     time.Time
}

func newTestServer(t *testing.T, secret string, opts ...func(*httpapi.Deps)) *testServer {
	t.Helper()

	manager := runner.NewManager(runner.ManagerConfig{
		NewTicker: func(time.Duration) runner.Ticker { return stillTicker{} },
	})
	t.Cleanup(manager.Close)

	album, err := media.NewDirAlbum(t.TempDir())
	if err != nil {
		t.Fatalf("album: %v", err)
	}

	repo := storage.NewMemoryRepository()
	now := time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)

	deps := httpapi.Deps{
		Manager:   manager,
		Quizzes:   quiz.NewService(quiz.NewMemoryStore()),
		Repo:      repo,
		Studio:    media.NewStudio(media.RecorderConfig{}),
		Album:     album,
		Analyzer:  scoring.NewAnalyzer(rand.New(rand.NewSource(1))),
		Rand:      rand.New(rand.NewSource(1)),
		JWTSecret: secret,
		Now:       func() time.Time { return now },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h := httpapi.NewRouter(deps)
	return &testServer{handler: h, manager: manager, repo: repo, now: now}
}

func (s *testServer) do(t *testing.T, method, target, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	case io.Reader:
		// Unknown length, as with a chunked upload.
		r = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, r)
	if user != "" {
		req.Header.Set("X-Auth-User", user)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestListExercises(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/exercises", "alice", nil)
	expectStatus(t, rec, http.StatusOK)

	got := decode[[]struct {
		Kind          string `json:"kind"`
		Resizable     bool   `json:"resizable"`
		MinuteChoices []int  `json:"minuteChoices"`
	}](t, rec)
	if len(got) != 5 {
		t.Fatalf("exercises = %d, want 5", len(got))
	}
	if got[0].Kind != "breathing" || !got[0].Resizable || len(got[0].MinuteChoices) == 0 {
		t.Fatalf("breathing summary = %+v", got[0])
	}

	rec = s.do(t, http.MethodGet, "/exercises/juggling", "alice", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = s.do(t, http.MethodGet, "/exercises/speed-reading?wordsPerMinute=abc", "alice", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/sessions", "alice", map[string]any{"kind": "breathing", "minutes": 3})
	expectStatus(t, rec, http.StatusCreated)
	snap := decode[runner.Snapshot](t, rec)
	if snap.Countdown.Total != 180 || snap.Countdown.Running {
		t.Fatalf("new session countdown = %+v", snap.Countdown)
	}
	if snap.Clock != "03:00" {
		t.Fatalf("clock = %q, want 03:00", snap.Clock)
	}
	id := snap.Session.ID

	rec = s.do(t, http.MethodPost, "/sessions/"+id+"/start", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	if snap = decode[runner.Snapshot](t, rec); !snap.Countdown.Running {
		t.Fatalf("session should be running after start")
	}

	rec = s.do(t, http.MethodPost, "/sessions/"+id+"/pause", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	if snap = decode[runner.Snapshot](t, rec); snap.Countdown.Running {
		t.Fatalf("session should be paused")
	}

	rec = s.do(t, http.MethodGet, "/sessions/"+id, "bob", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = s.do(t, http.MethodGet, "/sessions", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]runner.Snapshot](t, rec); len(list) != 1 {
		t.Fatalf("alice has %d sessions, want 1", len(list))
	}

	rec = s.do(t, http.MethodDelete, "/sessions/"+id, "alice", nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = s.do(t, http.MethodGet, "/sessions/"+id, "alice", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCreateSessionRejects(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "unknown kind", body: map[string]any{"kind": "juggling"}, want: http.StatusBadRequest},
		{name: "minutes not offered", body: map[string]any{"kind": "breathing", "minutes": 4}, want: http.StatusBadRequest},
		{name: "speed out of range", body: map[string]any{"kind": "speed-reading", "wordsPerMinute": 900}, want: http.StatusBadRequest},
		{name: "unknown field", body: map[string]any{"kind": "blink", "colour": "red"}, want: http.StatusBadRequest},
		{name: "not json", body: "{", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/sessions", "alice", tt.body)
			expectStatus(t, rec, tt.want)
		})
	}
}

func TestSetDurationOnlyForBreathing(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/sessions", "alice", map[string]any{"kind": "blink"})
	expectStatus(t, rec, http.StatusCreated)
	id := decode[runner.Snapshot](t, rec).Session.ID

	rec = s.do(t, http.MethodPut, "/sessions/"+id+"/duration", "alice", map[string]any{"minutes": 3})
	expectStatus(t, rec, http.StatusConflict)

	rec = s.do(t, http.MethodPost, "/sessions", "alice", map[string]any{"kind": "breathing"})
	expectStatus(t, rec, http.StatusCreated)
	id = decode[runner.Snapshot](t, rec).Session.ID

	rec = s.do(t, http.MethodPut, "/sessions/"+id+"/duration", "alice", map[string]any{"minutes": 5})
	expectStatus(t, rec, http.StatusOK)
	if snap := decode[runner.Snapshot](t, rec); snap.Countdown.Total != 300 {
		t.Fatalf("total = %d, want 300", snap.Countdown.Total)
	}
}

func TestAuthWithSecret(t *testing.T) {
	const secret = "test-secret"
	s := newTestServer(t, secret)

	rec := s.do(t, http.MethodGet, "/exercises", "alice", nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	token, err := httpapi.IssueToken(secret, "alice", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/exercises", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodGet, "/exercises?token="+token, "", nil)
	expectStatus(t, rec, http.StatusOK)

	other, _ := httpapi.IssueToken("another-secret", "alice", time.Hour)
	rec = s.do(t, http.MethodGet, "/exercises?token="+other, "", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := httpapi.IssueToken("s", "alice", -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := httpapi.ValidateToken(token, "s"); err == nil {
		t.Fatalf("expired token accepted")
	}

	token, _ = httpapi.IssueToken("s", "alice", time.Minute)
	claims, err := httpapi.ValidateToken(token, "s")
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if claims.UserID != "alice" {
		t.Fatalf("user = %q, want alice", claims.UserID)
	}
}

func TestAnalysis(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/results/analysis", "alice", nil)
	expectStatus(t, rec, http.StatusOK)

	a := decode[scoring.Analysis](t, rec)
	if a.Score < scoring.MinScore || a.Score > scoring.MaxScore {
		t.Fatalf("score = %d, want within [%d, %d]", a.Score, scoring.MinScore, scoring.MaxScore)
	}
}
