package storage

import (
	"time"

	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/scoring"
)

// ExerciseRecord is a finished guided exercise.
type ExerciseRecord struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	Kind        domain.ExerciseKind `json:"kind"`
	Seconds     int                 `json:"seconds"`
	StartedAt   time.Time           `json:"startedAt"`
	CompletedAt time.Time           `json:"completedAt"`
}

func FromSession(s domain.Session, seconds int) *ExerciseRecord {
	completed := s.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}
	return &ExerciseRecord{
		ID:          s.ID,
		UserID:      s.UserID,
		Kind:        s.Kind,
		Seconds:     seconds,
		StartedAt:   s.StartedAt,
		CompletedAt: completed,
	}
}

// QuizRecord is a finished quiz with its answers.
type QuizRecord struct {
	ID          string                  `json:"id"`
	UserID      string                  `json:"userId"`
	Theme       string                  `json:"theme"`
	Percentage  int                     `json:"percentage"`
	Category    domain.FeedbackCategory `json:"feedbackCategory"`
	Answers     []domain.Answer         `json:"answers"`
	CompletedAt time.Time               `json:"completedAt"`
}

func FromQuiz(q *domain.QuizSession, r scoring.QuizResult) *QuizRecord {
	return &QuizRecord{
		ID:          q.ID,
		UserID:      q.UserID,
		Theme:       q.Theme,
		Percentage:  r.Percentage,
		Category:    r.Category,
		Answers:     append([]domain.Answer{}, q.Answers...),
		CompletedAt: time.Now(),
	}
}
