package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/hperssn/unibalance/internal/quiz"
	"github.com/hperssn/unibalance/internal/scoring"
	"github.com/hperssn/unibalance/internal/storage"
)

func TestQuizFlow(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/quiz", "alice", nil)
	expectStatus(t, rec, http.StatusCreated)
	view := decode[quiz.QuestionView](t, rec)
	if view.Theme != "nutrition" || view.Total != 3 || view.Index != 0 {
		t.Fatalf("first question = %+v", view)
	}
	base := "/quiz/" + view.QuizID

	rec = s.do(t, http.MethodGet, base+"/result", "alice", nil)
	expectStatus(t, rec, http.StatusConflict)

	rec = s.do(t, http.MethodPost, base+"/answers", "alice", map[string]string{"answer": "Pizza"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodGet, base, "bob", nil)
	expectStatus(t, rec, http.StatusNotFound)

	answers := []string{"Lentils", "Vitamin D", "Provide energy"}
	var last quiz.AnswerResult
	for _, a := range answers {
		rec = s.do(t, http.MethodPost, base+"/answers", "alice", map[string]string{"answer": a})
		expectStatus(t, rec, http.StatusOK)
		last = decode[quiz.AnswerResult](t, rec)
	}
	if !last.Finished || last.IsCorrect {
		t.Fatalf("last answer = %+v, want finished and wrong", last)
	}

	rec = s.do(t, http.MethodPost, base+"/answers", "alice", map[string]string{"answer": "Lentils"})
	expectStatus(t, rec, http.StatusConflict)

	rec = s.do(t, http.MethodGet, base+"/result", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	res := decode[scoring.QuizResult](t, rec)
	if res.Percentage != 67 || res.Trophy || res.Correct != 2 {
		t.Fatalf("result = %+v", res)
	}

	rec = s.do(t, http.MethodGet, "/history", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	hist := decode[struct {
		Quizzes []storage.QuizRecord `json:"quizzes"`
	}](t, rec)
	if len(hist.Quizzes) != 1 || hist.Quizzes[0].Percentage != 67 {
		t.Fatalf("history = %+v", hist.Quizzes)
	}

	rec = s.do(t, http.MethodPost, base+"/restart", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	if view = decode[quiz.QuestionView](t, rec); view.Index != 0 {
		t.Fatalf("restart index = %d, want 0", view.Index)
	}
}

func TestQuizUnknownThemeFallsBack(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodPost, "/quiz", "alice", map[string]string{"theme": "astronomy"})
	expectStatus(t, rec, http.StatusCreated)
	if view := decode[quiz.QuestionView](t, rec); view.Theme != "nutrition" {
		t.Fatalf("theme = %q, want nutrition", view.Theme)
	}
}
