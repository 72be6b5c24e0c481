package storage

import (
	"time"

	"github.com/hperssn/unibalance/internal/domain"
)

type Repository interface {
	SaveExercise(record *ExerciseRecord) error

	GetExercisesByUser(userID string) ([]ExerciseRecord, error)

	GetRecentExercises(userID string, since time.Time) ([]ExerciseRecord, error)

	GetStats(userID string) (*Stats, error)

	SaveQuiz(record *QuizRecord) error

	GetQuizzesByUser(userID string) ([]QuizRecord, error)

	SaveCheckIn(c domain.CheckIn) error

	GetCheckIns(userID string, since time.Time) ([]domain.CheckIn, error)

	Close() error
}

type Stats struct {
	TotalExercises   int                         `json:"totalExercises"`
	TotalSeconds     int                         `json:"totalSeconds"`
	AverageSeconds   float64                     `json:"averageSeconds"`
	ByKind           map[domain.ExerciseKind]int `json:"byKind"`
	QuizzesTaken     int                         `json:"quizzesTaken"`
	AverageQuizScore float64                     `json:"averageQuizScore"`
	CheckIns         int                         `json:"checkIns"`
}
