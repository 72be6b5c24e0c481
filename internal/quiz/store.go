package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hperssn/unibalance/internal/cache"
	"github.com/hperssn/unibalance/internal/domain"
)

var ErrQuizNotFound = errors.New("quiz not found")

// Store keeps quiz sessions between requests. Implementations hand out
// copies; callers save after every change.
type Store interface {
	Save(ctx context.Context, q *domain.QuizSession) error
	Get(ctx context.Context, id string) (*domain.QuizSession, error)
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu      sync.Mutex
	quizzes map[string]domain.QuizSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quizzes: make(map[string]domain.QuizSession)}
}

func (s *MemoryStore) Save(_ context.Context, q *domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[q.ID] = clone(q)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quizzes[id]
	if !ok {
		return nil, ErrQuizNotFound
	}
	c := clone(&q)
	return &c, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quizzes, id)
	return nil
}

func clone(q *domain.QuizSession) domain.QuizSession {
	c := *q
	c.Answers = append([]domain.Answer{}, q.Answers...)
	return c
}

// RedisStore keeps quizzes as JSON with a sliding expiry.
type RedisStore struct {
	client *cache.RedisClient
	ttl    time.Duration
}

func NewRedisStore(client *cache.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func quizKey(id string) string {
	return "quiz:" + id
}

func (s *RedisStore) Save(ctx context.Context, q *domain.QuizSession) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	if err := s.client.Set(ctx, quizKey(q.ID), data, s.ttl); err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.QuizSession, error) {
	raw, err := s.client.Get(ctx, quizKey(id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	var q domain.QuizSession
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}
	return &q, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, quizKey(id))
}
