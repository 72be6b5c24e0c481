package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/scoring"
)

func TestCheckInActions(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		emotion   string
		want      int
		action    string
		resources bool
	}{
		{emotion: "happy", want: http.StatusCreated, action: "see-resources"},
		{emotion: "worried", want: http.StatusCreated, action: "call-counseling", resources: true},
		{emotion: "ecstatic", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.emotion, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/emotions/check-ins", "alice", map[string]string{"emotion": tt.emotion})
			expectStatus(t, rec, tt.want)
			if tt.want != http.StatusCreated {
				return
			}

			got := decode[struct {
				Action    string             `json:"action"`
				Resources []content.Resource `json:"resources"`
			}](t, rec)
			if got.Action != tt.action {
				t.Fatalf("action = %q, want %q", got.Action, tt.action)
			}
			if (len(got.Resources) > 0) != tt.resources {
				t.Fatalf("resources = %v, want present=%v", got.Resources, tt.resources)
			}
		})
	}

	saved, err := s.repo.GetCheckIns("alice", s.now.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("GetCheckIns: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("stored %d check-ins, want 2", len(saved))
	}
}

func TestEmotionChart(t *testing.T) {
	s := newTestServer(t, "")

	s.do(t, http.MethodPost, "/emotions/check-ins", "alice", map[string]string{"emotion": "happy"})
	s.do(t, http.MethodPost, "/emotions/check-ins", "alice", map[string]string{"emotion": "happy"})
	s.do(t, http.MethodPost, "/emotions/check-ins", "alice", map[string]string{"emotion": "tired"})

	rec := s.do(t, http.MethodGet, "/emotions/chart?period=10", "alice", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodGet, "/emotions/chart", "alice", nil)
	expectStatus(t, rec, http.StatusOK)
	chart := decode[scoring.EmotionChart](t, rec)
	if chart.Period != 7 || len(chart.Points) != 1 {
		t.Fatalf("chart = %+v", chart)
	}
	if chart.Stats == nil || chart.Stats.TotalRecords != 3 || chart.Stats.MostCommonEmotion != "happy" {
		t.Fatalf("stats = %+v", chart.Stats)
	}

	rec = s.do(t, http.MethodGet, "/emotions/chart?period=14&simulate=true", "bob", nil)
	expectStatus(t, rec, http.StatusOK)
	chart = decode[scoring.EmotionChart](t, rec)
	if chart.Stats == nil || chart.Stats.TotalRecords != 14 {
		t.Fatalf("simulated stats = %+v", chart.Stats)
	}

	rec = s.do(t, http.MethodGet, "/emotions/chart", "bob", nil)
	expectStatus(t, rec, http.StatusOK)
	if chart = decode[scoring.EmotionChart](t, rec); chart.Stats != nil {
		t.Fatalf("bob has no check-ins, stats = %+v", chart.Stats)
	}
}

func TestReadingComprehension(t *testing.T) {
	s := newTestServer(t, "")

	text, _ := content.ReadingTextAt(0)
	correct := make([]int, len(text.Questions))
	for i, q := range text.Questions {
		correct[i] = q.CorrectOption
	}

	rec := s.do(t, http.MethodGet, "/reading/texts/0", "alice", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodGet, "/reading/texts/99", "alice", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = s.do(t, http.MethodPost, "/reading/texts/0/answers", "alice", map[string]any{"answers": correct})
	expectStatus(t, rec, http.StatusOK)
	got := decode[struct {
		Percentage int                     `json:"percentage"`
		Category   domain.FeedbackCategory `json:"feedbackCategory"`
		Correct    []int                   `json:"correctOptions"`
	}](t, rec)
	if got.Percentage != 100 || got.Category != domain.FeedbackHigh || len(got.Correct) != len(correct) {
		t.Fatalf("result = %+v", got)
	}

	rec = s.do(t, http.MethodPost, "/reading/texts/0/answers", "alice", map[string]any{"answers": []int{}})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[domain.ScoreReport](t, rec); got.Percentage != 0 || got.Category != domain.FeedbackLow {
		t.Fatalf("empty answers = %+v", got)
	}

	tooMany := append(correct, 0)
	rec = s.do(t, http.MethodPost, "/reading/texts/0/answers", "alice", map[string]any{"answers": tooMany})
	expectStatus(t, rec, http.StatusBadRequest)
}
