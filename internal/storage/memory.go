package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/hperssn/unibalance/internal/domain"
)

var ErrDuplicate = errors.New("record already exists")

// MemoryRepository keeps everything in process. History is lost on restart.
type MemoryRepository struct {
	mu        sync.RWMutex
	exercises map[string]ExerciseRecord
	quizzes   map[string]QuizRecord
	checkIns  []domain.CheckIn
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		exercises: make(map[string]ExerciseRecord),
		quizzes:   make(map[string]QuizRecord),
	}
}

func (r *MemoryRepository) SaveExercise(record *ExerciseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.exercises[record.ID]; ok {
		return ErrDuplicate
	}
	r.exercises[record.ID] = *record
	return nil
}

func (r *MemoryRepository) GetExercisesByUser(userID string) ([]ExerciseRecord, error) {
	return r.GetRecentExercises(userID, time.Time{})
}

func (r *MemoryRepository) GetRecentExercises(userID string, since time.Time) ([]ExerciseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ExerciseRecord
	for _, rec := range r.exercises {
		if rec.UserID == userID && !rec.CompletedAt.Before(since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

func (r *MemoryRepository) GetStats(userID string) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{ByKind: map[domain.ExerciseKind]int{}}
	for _, rec := range r.exercises {
		if rec.UserID != userID {
			continue
		}
		stats.TotalExercises++
		stats.TotalSeconds += rec.Seconds
		stats.ByKind[rec.Kind]++
	}
	if stats.TotalExercises > 0 {
		stats.AverageSeconds = float64(stats.TotalSeconds) / float64(stats.TotalExercises)
	}

	scoreSum := 0
	for _, q := range r.quizzes {
		if q.UserID == userID {
			stats.QuizzesTaken++
			scoreSum += q.Percentage
		}
	}
	if stats.QuizzesTaken > 0 {
		stats.AverageQuizScore = float64(scoreSum) / float64(stats.QuizzesTaken)
	}

	for _, c := range r.checkIns {
		if c.UserID == userID {
			stats.CheckIns++
		}
	}

	return &stats, nil
}

func (r *MemoryRepository) SaveQuiz(record *QuizRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.quizzes[record.ID]; ok {
		return ErrDuplicate
	}
	cp := *record
	cp.Answers = append([]domain.Answer{}, record.Answers...)
	r.quizzes[record.ID] = cp
	return nil
}

func (r *MemoryRepository) GetQuizzesByUser(userID string) ([]QuizRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []QuizRecord
	for _, q := range r.quizzes {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

func (r *MemoryRepository) SaveCheckIn(c domain.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkIns = append(r.checkIns, c)
	return nil
}

func (r *MemoryRepository) GetCheckIns(userID string, since time.Time) ([]domain.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.CheckIn
	for _, c := range r.checkIns {
		if c.UserID == userID && !c.RecordedAt.Before(since) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
