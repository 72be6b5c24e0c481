package httpapi

import (
	"net/http"
	"time"

	"github.com/hperssn/unibalance/internal/storage"
)

// analysis returns the simulated voice report after AnalysisDelay, or
// nothing if the client hangs up first.
func (s *Server) analysis(w http.ResponseWriter, r *http.Request) {
	if s.analysisDelay > 0 {
		timer := time.NewTimer(s.analysisDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}
	respondJSON(w, s.analyzer.Analyze(), http.StatusOK)
}

type historyResponse struct {
	Exercises []storage.ExerciseRecord `json:"exercises"`
	Quizzes   []storage.QuizRecord     `json:"quizzes"`
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		respondJSON(w, historyResponse{}, http.StatusOK)
		return
	}
	userID := GetUserID(r)

	exercises, err := s.repo.GetExercisesByUser(userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	quizzes, err := s.repo.GetQuizzesByUser(userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, historyResponse{Exercises: exercises, Quizzes: quizzes}, http.StatusOK)
}

func (s *Server) historyStats(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		respondJSON(w, storage.Stats{}, http.StatusOK)
		return
	}
	stats, err := s.repo.GetStats(GetUserID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, stats, http.StatusOK)
}
