package httpapi

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/storage"
)

func (s *Server) listThemes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"default": content.DefaultTheme(),
		"themes":  content.Themes(),
	}, http.StatusOK)
}

func (s *Server) startQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	q, err := s.quizzes.Start(r.Context(), GetUserID(r), req.Theme)
	if err != nil {
		respondErr(w, err)
		return
	}
	v, err := s.quizzes.Current(r.Context(), q.UserID, q.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, v, http.StatusCreated)
}

func (s *Server) currentQuestion(w http.ResponseWriter, r *http.Request) {
	v, err := s.quizzes.Current(r.Context(), GetUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, v, http.StatusOK)
}

// answerQuestion records the answer; the last answer also files the quiz in
// the user's history.
func (s *Server) answerQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, id := GetUserID(r), chi.URLParam(r, "id")
	res, err := s.quizzes.Answer(r.Context(), userID, id, req.Answer)
	if err != nil {
		respondErr(w, err)
		return
	}

	if res.Finished && s.repo != nil {
		s.saveQuiz(r, userID, id)
	}
	respondJSON(w, res, http.StatusOK)
}

func (s *Server) saveQuiz(r *http.Request, userID, id string) {
	q, err := s.quizzes.Get(r.Context(), userID, id)
	if err != nil {
		log.Printf("failed to load finished quiz %s: %v", id, err)
		return
	}
	result, err := s.quizzes.Result(r.Context(), userID, id)
	if err != nil {
		log.Printf("failed to score quiz %s: %v", id, err)
		return
	}
	if err := s.repo.SaveQuiz(storage.FromQuiz(q, result)); err != nil {
		log.Printf("failed to save quiz %s: %v", id, err)
	}
}

func (s *Server) quizResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.quizzes.Result(r.Context(), GetUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, res, http.StatusOK)
}

func (s *Server) restartQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := s.quizzes.Restart(r.Context(), GetUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	v, err := s.quizzes.Current(r.Context(), q.UserID, q.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, v, http.StatusOK)
}

func (s *Server) abandonQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.quizzes.Abandon(r.Context(), GetUserID(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
