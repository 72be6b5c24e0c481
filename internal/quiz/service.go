// Package quiz runs trivia sessions: one question at a time, immediate
// feedback, and a scored summary at the end.
package quiz

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/scoring"
)

var (
	ErrInvalidOption = errors.New("answer is not one of the options")
	ErrInProgress    = errors.New("quiz still has unanswered questions")
)

type QuestionView struct {
	QuizID    string           `json:"quizId"`
	Theme     string           `json:"theme"`
	ThemeName string           `json:"themeName"`
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	Question  content.Question `json:"question"`
}

type AnswerResult struct {
	domain.Answer
	Explanation string `json:"explanation"`
	Finished    bool   `json:"finished"`
}

type Service struct {
	// mu serialises read-modify-write cycles against the store.
	mu    sync.Mutex
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Start opens a quiz on theme. An unknown theme falls back to the default
// one.
func (s *Service) Start(ctx context.Context, userID, theme string) (*domain.QuizSession, error) {
	t, ok := content.ThemeByKey(theme)
	if !ok {
		t, _ = content.ThemeByKey(content.DefaultTheme())
	}

	q := domain.NewQuizSession(userID, t.Key, len(t.Questions))
	if err := s.store.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Get returns the quiz only to the user who started it.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.QuizSession, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.UserID != userID {
		return nil, ErrQuizNotFound
	}
	return q, nil
}

func (s *Service) Current(ctx context.Context, userID, id string) (QuestionView, error) {
	q, err := s.Get(ctx, userID, id)
	if err != nil {
		return QuestionView{}, err
	}
	if q.Finished() {
		return QuestionView{}, domain.ErrQuizFinished
	}
	return view(q), nil
}

func (s *Service) Answer(ctx context.Context, userID, id, answer string) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.Get(ctx, userID, id)
	if err != nil {
		return AnswerResult{}, err
	}
	if q.Finished() {
		return AnswerResult{}, domain.ErrQuizFinished
	}

	question := content.Questions(q.Theme)[q.Current]
	if !slices.Contains(question.Options, answer) {
		return AnswerResult{}, ErrInvalidOption
	}

	a, err := q.Record(question.Text, answer, question.CorrectAnswer)
	if err != nil {
		return AnswerResult{}, err
	}
	if err := s.store.Save(ctx, q); err != nil {
		return AnswerResult{}, err
	}

	return AnswerResult{
		Answer:      a,
		Explanation: question.Explanation,
		Finished:    q.Finished(),
	}, nil
}

func (s *Service) Result(ctx context.Context, userID, id string) (scoring.QuizResult, error) {
	q, err := s.Get(ctx, userID, id)
	if err != nil {
		return scoring.QuizResult{}, err
	}
	if !q.Finished() {
		return scoring.QuizResult{}, ErrInProgress
	}
	return scoring.QuizFeedback(q), nil
}

// Restart clears the answers and goes back to the first question of the
// same theme.
func (s *Service) Restart(ctx context.Context, userID, id string) (*domain.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	q.Restart()
	if err := s.store.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Abandon throws the quiz away. Only its owner may do that.
func (s *Service) Abandon(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func view(q *domain.QuizSession) QuestionView {
	t, _ := content.ThemeByKey(q.Theme)
	return QuestionView{
		QuizID:    q.ID,
		Theme:     t.Key,
		ThemeName: t.Name,
		Index:     q.Current,
		Total:     q.Total,
		Question:  t.Questions[q.Current],
	}
}
