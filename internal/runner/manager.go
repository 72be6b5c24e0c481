package runner

import (
	"errors"
	"sync"
	"time"

	"github.com/hperssn/unibalance/internal/audio"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/exercise"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

type ManagerConfig struct {
	NewTicker TickerFunc
	Player    audio.Player
	// CleanupInterval and MaxAge control how long finished sessions stay
	// around. Zero values mean every 5 minutes and one hour.
	CleanupInterval time.Duration
	MaxAge          time.Duration
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*ExerciseRunner
	hooks    []CompletionHook

	cfg  ManagerConfig
	done chan struct{}
	once sync.Once
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = time.Hour
	}
	m := &Manager{
		sessions: make(map[string]*ExerciseRunner),
		cfg:      cfg,
		done:     make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// OnComplete registers a hook run after every completed exercise.
func (m *Manager) OnComplete(h CompletionHook) {
	m.mu.Lock()
	m.hooks = append(m.hooks, h)
	m.mu.Unlock()
}

func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.done)

		m.mu.Lock()
		defer m.mu.Unlock()
		for id, r := range m.sessions {
			r.Stop()
			delete(m.sessions, id)
		}
	})
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOlderThan(time.Now().Add(-m.cfg.MaxAge))
		case <-m.done:
			return
		}
	}
}

// CleanupOlderThan drops completed sessions that started before cutoff and
// returns how many were removed.
func (m *Manager) CleanupOlderThan(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, r := range m.sessions {
		sess := r.Session()
		if sess.Completed && sess.StartedAt.Before(cutoff) {
			r.Stop()
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Create builds the plan for kind and registers an idle runner for it.
func (m *Manager) Create(userID string, kind domain.ExerciseKind, opts exercise.Options) (Snapshot, error) {
	plan, err := exercise.Build(kind, opts)
	if err != nil {
		return Snapshot{}, err
	}

	s := domain.NewSession("", userID, kind)
	r, err := NewExerciseRunner(s, plan, RunnerConfig{
		NewTicker: m.cfg.NewTicker,
		Player:    m.cfg.Player,
		OnDone:    m.completed,
	})
	if err != nil {
		return Snapshot{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; exists {
		return Snapshot{}, ErrSessionExists
	}
	m.sessions[s.ID] = r

	return r.Snapshot(), nil
}

func (m *Manager) completed(s domain.Session, seconds int) {
	m.mu.Lock()
	hooks := make([]CompletionHook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	for _, h := range hooks {
		h(s, seconds)
	}
}

func (m *Manager) runner(id string) (*ExerciseRunner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (m *Manager) Start(id string) error {
	r, err := m.runner(id)
	if err != nil {
		return err
	}
	return r.Start()
}

func (m *Manager) Pause(id string) error {
	r, err := m.runner(id)
	if err != nil {
		return err
	}
	return r.Pause()
}

func (m *Manager) Toggle(id string) error {
	r, err := m.runner(id)
	if err != nil {
		return err
	}
	return r.Toggle()
}

func (m *Manager) Reset(id string) error {
	r, err := m.runner(id)
	if err != nil {
		return err
	}
	return r.Reset()
}

func (m *Manager) SetDuration(id string, minutes int) error {
	r, err := m.runner(id)
	if err != nil {
		return err
	}
	return r.SetDuration(minutes)
}

// Stop cancels the session and forgets it.
func (m *Manager) Stop(id string) error {
	m.mu.Lock()
	r, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	r.Stop()
	return nil
}

func (m *Manager) Get(id string) (Snapshot, bool) {
	r, err := m.runner(id)
	if err != nil {
		return Snapshot{}, false
	}
	return r.Snapshot(), true
}

func (m *Manager) Events(id string) (<-chan Event, bool) {
	r, err := m.runner(id)
	if err != nil {
		return nil, false
	}
	return r.Events(), true
}

// List returns snapshots of the user's sessions.
func (m *Manager) List(userID string) []Snapshot {
	m.mu.Lock()
	runners := make([]*ExerciseRunner, 0, len(m.sessions))
	for _, r := range m.sessions {
		runners = append(runners, r)
	}
	m.mu.Unlock()

	out := []Snapshot{}
	for _, r := range runners {
		snap := r.Snapshot()
		if snap.Session.UserID == userID {
			out = append(out, snap)
		}
	}
	return out
}
