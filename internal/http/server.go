// Package httpapi exposes the exercise engine over HTTP: JSON commands,
// plus Server-Sent Events and WebSocket streams of timer and phase events.
package httpapi

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hperssn/unibalance/internal/media"
	"github.com/hperssn/unibalance/internal/quiz"
	"github.com/hperssn/unibalance/internal/runner"
	"github.com/hperssn/unibalance/internal/scoring"
	"github.com/hperssn/unibalance/internal/storage"
)

type Deps struct {
	Manager  *runner.Manager
	Quizzes  *quiz.Service
	Repo     storage.Repository
	Studio   *media.Studio
	Album    media.Album
	Analyzer *scoring.Analyzer
	// Rand drives the simulated mood history.
	Rand *rand.Rand

	JWTSecret string
	StaticDir string
	// AnalysisDelay makes the fake voice analysis look like work.
	AnalysisDelay time.Duration
	// MaxClipBytes caps an uploaded clip. Zero means maxClipBytes.
	MaxClipBytes int64
	Now          func() time.Time
}

type Server struct {
	manager  *runner.Manager
	quizzes  *quiz.Service
	repo     storage.Repository
	studio   *media.Studio
	album    media.Album
	analyzer *scoring.Analyzer

	rngMu sync.Mutex
	rng   *rand.Rand

	analysisDelay time.Duration
	maxClipBytes  int64
	now           func() time.Time
}

func NewRouter(d Deps) http.Handler {
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Analyzer == nil {
		d.Analyzer = scoring.NewAnalyzer(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.MaxClipBytes <= 0 {
		d.MaxClipBytes = maxClipBytes
	}
	s := &Server{
		manager:       d.Manager,
		quizzes:       d.Quizzes,
		repo:          d.Repo,
		studio:        d.Studio,
		album:         d.Album,
		analyzer:      d.Analyzer,
		rng:           d.Rand,
		analysisDelay: d.AnalysisDelay,
		maxClipBytes:  d.MaxClipBytes,
		now:           d.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	if d.StaticDir != "" {
		fs := http.FileServer(http.Dir(d.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(d.JWTSecret))

		r.Get("/exercises", s.listExercises)
		r.Get("/exercises/{kind}", s.getExercise)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Get("/", s.listSessions)
			r.Get("/{id}", s.getSession)
			r.Delete("/{id}", s.stopSession)
			r.Post("/{id}/start", s.sessionCommand(s.manager.Start))
			r.Post("/{id}/pause", s.sessionCommand(s.manager.Pause))
			r.Post("/{id}/toggle", s.sessionCommand(s.manager.Toggle))
			r.Post("/{id}/reset", s.sessionCommand(s.manager.Reset))
			r.Put("/{id}/duration", s.setDuration)
			r.Get("/{id}/events", s.streamSessionEvents)
			r.Get("/{id}/ws", s.sessionSocket)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/themes", s.listThemes)
			r.Post("/", s.startQuiz)
			r.Get("/{id}", s.currentQuestion)
			r.Post("/{id}/answers", s.answerQuestion)
			r.Get("/{id}/result", s.quizResult)
			r.Post("/{id}/restart", s.restartQuiz)
			r.Delete("/{id}", s.abandonQuiz)
		})

		r.Route("/reading", func(r chi.Router) {
			r.Get("/texts", s.listTexts)
			r.Get("/texts/{index}", s.getText)
			r.Post("/texts/{index}/answers", s.checkComprehension)
		})

		r.Route("/emotions", func(r chi.Router) {
			r.Get("/", s.listEmotions)
			r.Post("/check-ins", s.checkIn)
			r.Get("/chart", s.emotionChart)
		})

		r.Route("/recordings/current", func(r chi.Router) {
			r.Get("/", s.getRecording)
			r.Post("/start", s.startRecording)
			r.Post("/stop", s.stopRecording)
			r.Post("/save", s.saveRecording)
			r.Post("/reset", s.resetRecording)
			r.Get("/clip", s.getClip)
			r.Delete("/clip", s.discardClip)
		})

		r.Get("/results/analysis", s.analysis)

		r.Get("/history", s.history)
		r.Get("/history/stats", s.historyStats)
	})

	return r
}
