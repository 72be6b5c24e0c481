package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/scoring"
)

type textSummary struct {
	Index      int    `json:"index"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Words      int    `json:"words"`
	Questions  int    `json:"questions"`
}

func (s *Server) listTexts(w http.ResponseWriter, r *http.Request) {
	texts := content.ReadingTexts()
	out := make([]textSummary, len(texts))
	for i, t := range texts {
		out[i] = textSummary{
			Index:      i,
			Title:      t.Title,
			Difficulty: t.Difficulty,
			Words:      len(strings.Fields(t.Content)),
			Questions:  len(t.Questions),
		}
	}
	respondJSON(w, out, http.StatusOK)
}

func textFromURL(w http.ResponseWriter, r *http.Request) (content.ReadingText, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, "invalid text index", http.StatusBadRequest)
		return content.ReadingText{}, false
	}
	t, ok := content.ReadingTextAt(idx)
	if !ok {
		respondError(w, "text not found", http.StatusNotFound)
		return content.ReadingText{}, false
	}
	return t, true
}

func (s *Server) getText(w http.ResponseWriter, r *http.Request) {
	t, ok := textFromURL(w, r)
	if !ok {
		return
	}
	respondJSON(w, t, http.StatusOK)
}

type comprehensionResult struct {
	domain.ScoreReport
	Correct []int `json:"correctOptions"`
}

func (s *Server) checkComprehension(w http.ResponseWriter, r *http.Request) {
	t, ok := textFromURL(w, r)
	if !ok {
		return
	}

	var req struct {
		Answers []int `json:"answers"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Answers) > len(t.Questions) {
		respondError(w, "more answers than questions", http.StatusBadRequest)
		return
	}

	correct := make([]int, len(t.Questions))
	for i, q := range t.Questions {
		correct[i] = q.CorrectOption
	}
	respondJSON(w, comprehensionResult{
		ScoreReport: scoring.Comprehension(t, req.Answers),
		Correct:     correct,
	}, http.StatusOK)
}
