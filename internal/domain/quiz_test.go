package domain

import "testing"

func TestQuizSessionRecord(t *testing.T) {
	q := NewQuizSession("u1", "nutrition", 2)

	a, err := q.Record("q1", "Lentils", "Lentils")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.IsCorrect {
		t.Fatalf("matching answer should be correct")
	}

	a, _ = q.Record("q2", "Vitamin A", "Vitamin D")
	if a.IsCorrect {
		t.Fatalf("different answer should be incorrect")
	}
	if !q.Finished() {
		t.Fatalf("quiz should be finished after %d answers", q.Total)
	}
	if _, err := q.Record("q3", "x", "x"); err != ErrQuizFinished {
		t.Fatalf("err = %v, want %v", err, ErrQuizFinished)
	}
	if q.CorrectCount() != 1 {
		t.Fatalf("correct = %d, want 1", q.CorrectCount())
	}

	q.Restart()
	if q.Current != 0 || len(q.Answers) != 0 {
		t.Fatalf("restart did not clear progress: %+v", q)
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		pct  int
		want FeedbackCategory
	}{
		{0, FeedbackLow},
		{59, FeedbackLow},
		{60, FeedbackMedium},
		{79, FeedbackMedium},
		{80, FeedbackHigh},
		{100, FeedbackHigh},
	}
	for _, tt := range tests {
		if got := CategoryFor(tt.pct); got != tt.want {
			t.Errorf("CategoryFor(%d) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}
