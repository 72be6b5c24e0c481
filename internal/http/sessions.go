package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/exercise"
	"github.com/hperssn/unibalance/internal/runner"
)

type exerciseSummary struct {
	Kind          domain.ExerciseKind `json:"kind"`
	TotalSeconds  int                 `json:"totalSeconds"`
	Phases        int                 `json:"phases"`
	Resizable     bool                `json:"resizable"`
	MinuteChoices []int               `json:"minuteChoices,omitempty"`
}

func (s *Server) listExercises(w http.ResponseWriter, r *http.Request) {
	out := make([]exerciseSummary, 0, len(domain.ExerciseKinds))
	for _, k := range domain.ExerciseKinds {
		plan, err := exercise.Build(k, exercise.Options{})
		if err != nil {
			respondErr(w, err)
			return
		}
		sum := exerciseSummary{
			Kind:         k,
			TotalSeconds: plan.TotalSeconds,
			Phases:       len(plan.Sequence.Phases),
			Resizable:    plan.Resizable,
		}
		if plan.Resizable {
			sum.MinuteChoices = content.BreathingSettings().MinuteChoices
		}
		out = append(out, sum)
	}
	respondJSON(w, out, http.StatusOK)
}

// getExercise returns the full plan, phases included, for the options in
// the query string.
func (s *Server) getExercise(w http.ResponseWriter, r *http.Request) {
	kind, ok := domain.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, "unknown exercise", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	opts := exercise.Options{}
	for name, dst := range map[string]*int{
		"minutes":        &opts.Minutes,
		"text":           &opts.TextIndex,
		"wordsPerMinute": &opts.WordsPerMinute,
	} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				respondError(w, "invalid "+name, http.StatusBadRequest)
				return
			}
			*dst = n
		}
	}

	plan, err := exercise.Build(kind, opts)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, plan, http.StatusOK)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
		exercise.Options
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	kind, ok := domain.ParseKind(req.Kind)
	if !ok {
		respondError(w, "unknown exercise", http.StatusBadRequest)
		return
	}

	snap, err := s.manager.Create(GetUserID(r), kind, req.Options)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, snap, http.StatusCreated)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.manager.List(GetUserID(r)), http.StatusOK)
}

// ownedSession loads the session in the URL and hides sessions that belong
// to somebody else.
func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request) (runner.Snapshot, bool) {
	snap, ok := s.manager.Get(chi.URLParam(r, "id"))
	if !ok || snap.Session.UserID != GetUserID(r) {
		respondError(w, "session not found", http.StatusNotFound)
		return runner.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, snap, http.StatusOK)
}

// stopSession is what leaving the exercise screen does.
func (s *Server) stopSession(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	if err := s.manager.Stop(snap.Session.ID); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionCommand(cmd func(id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.ownedSession(w, r)
		if !ok {
			return
		}
		if err := cmd(snap.Session.ID); err != nil {
			respondErr(w, err)
			return
		}
		s.respondSnapshot(w, snap.Session.ID)
	}
}

func (s *Server) setDuration(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.ownedSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.manager.SetDuration(snap.Session.ID, req.Minutes); err != nil {
		respondErr(w, err)
		return
	}
	s.respondSnapshot(w, snap.Session.ID)
}

func (s *Server) respondSnapshot(w http.ResponseWriter, id string) {
	snap, ok := s.manager.Get(id)
	if !ok {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}
	respondJSON(w, snap, http.StatusOK)
}
