package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrQuizFinished = errors.New("quiz already finished")

type Answer struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// QuizSession grows by one answer per question. Answers are never edited
// once appended.
type QuizSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Theme     string    `json:"theme"`
	Current   int       `json:"currentQuestionIndex"`
	Total     int       `json:"totalQuestions"`
	Answers   []Answer  `json:"answers"`
	StartedAt time.Time `json:"startedAt"`
}

func NewQuizSession(userID, theme string, total int) *QuizSession {
	return &QuizSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Theme:     theme,
		Total:     total,
		Answers:   []Answer{},
		StartedAt: time.Now(),
	}
}

func (q *QuizSession) Finished() bool {
	return q.Current >= q.Total
}

func (q *QuizSession) Record(question, userAnswer, correctAnswer string) (Answer, error) {
	if q.Finished() {
		return Answer{}, ErrQuizFinished
	}
	a := Answer{
		Question:      question,
		UserAnswer:    userAnswer,
		CorrectAnswer: correctAnswer,
		IsCorrect:     userAnswer == correctAnswer,
	}
	q.Answers = append(q.Answers, a)
	q.Current++
	return a, nil
}

func (q *QuizSession) Restart() {
	q.Current = 0
	q.Answers = []Answer{}
	q.StartedAt = time.Now()
}

func (q *QuizSession) CorrectCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}
