package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hperssn/unibalance/internal/domain"
)

func TestDollarPlaceholders(t *testing.T) {
	got := dollarPlaceholders("SELECT * FROM t WHERE a = ? AND b >= ?")
	want := "SELECT * FROM t WHERE a = $1 AND b >= $2"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, NewMemoryRepository())
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer repo.Close()
	testRepository(t, repo)
}

func testRepository(t *testing.T, repo Repository) {
	t.Helper()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	records := []*ExerciseRecord{
		{ID: "e1", UserID: "u1", Kind: domain.KindBreathing, Seconds: 60, StartedAt: base, CompletedAt: base.Add(time.Minute)},
		{ID: "e2", UserID: "u1", Kind: domain.KindBreathing, Seconds: 180, StartedAt: base.Add(time.Hour), CompletedAt: base.Add(time.Hour + 3*time.Minute)},
		{ID: "e3", UserID: "u1", Kind: domain.KindStretching, Seconds: 60, StartedAt: base.Add(2 * time.Hour), CompletedAt: base.Add(2*time.Hour + time.Minute)},
		{ID: "e4", UserID: "u2", Kind: domain.KindBlink, Seconds: 60, StartedAt: base, CompletedAt: base.Add(time.Minute)},
	}
	for _, r := range records {
		if err := repo.SaveExercise(r); err != nil {
			t.Fatalf("SaveExercise(%s): %v", r.ID, err)
		}
	}
	if err := repo.SaveExercise(records[0]); err == nil {
		t.Fatalf("expected an error saving a duplicate exercise")
	}

	all, err := repo.GetExercisesByUser("u1")
	if err != nil {
		t.Fatalf("GetExercisesByUser: %v", err)
	}
	if len(all) != 3 || all[0].ID != "e3" {
		t.Fatalf("exercises = %+v, want 3 newest first", all)
	}

	recent, err := repo.GetRecentExercises("u1", base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("GetRecentExercises: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d want 2", len(recent))
	}

	quiz := &QuizRecord{
		ID: "q1", UserID: "u1", Theme: "nutrition", Percentage: 67, Category: domain.FeedbackMedium,
		Answers:     []domain.Answer{{Question: "q", UserAnswer: "a", CorrectAnswer: "a", IsCorrect: true}},
		CompletedAt: base,
	}
	if err := repo.SaveQuiz(quiz); err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}
	quizzes, err := repo.GetQuizzesByUser("u1")
	if err != nil {
		t.Fatalf("GetQuizzesByUser: %v", err)
	}
	if len(quizzes) != 1 || len(quizzes[0].Answers) != 1 || !quizzes[0].Answers[0].IsCorrect {
		t.Fatalf("quizzes = %+v", quizzes)
	}

	for i, e := range []string{"happy", "worried", "happy"} {
		c := domain.NewCheckIn("u1", e, base.AddDate(0, 0, i))
		if err := repo.SaveCheckIn(c); err != nil {
			t.Fatalf("SaveCheckIn: %v", err)
		}
	}
	checkIns, err := repo.GetCheckIns("u1", base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("GetCheckIns: %v", err)
	}
	if len(checkIns) != 2 || checkIns[0].Emotion != "worried" {
		t.Fatalf("check-ins = %+v", checkIns)
	}
	if !checkIns[0].RecordedAt.Equal(base.AddDate(0, 0, 1)) {
		t.Fatalf("recordedAt = %v", checkIns[0].RecordedAt)
	}

	stats, err := repo.GetStats("u1")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalExercises != 3 || stats.TotalSeconds != 300 || stats.AverageSeconds != 100 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.ByKind[domain.KindBreathing] != 2 || stats.ByKind[domain.KindStretching] != 1 {
		t.Fatalf("by kind = %v", stats.ByKind)
	}
	if stats.QuizzesTaken != 1 || stats.AverageQuizScore != 67 || stats.CheckIns != 3 {
		t.Fatalf("stats = %+v", stats)
	}

	empty, err := repo.GetStats("nobody")
	if err != nil {
		t.Fatalf("GetStats for unknown user: %v", err)
	}
	if empty.TotalExercises != 0 || empty.AverageSeconds != 0 {
		t.Fatalf("empty stats = %+v", empty)
	}
}
