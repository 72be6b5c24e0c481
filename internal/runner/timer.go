package runner

import (
	"errors"
	"sync"
	"time"

	"github.com/hperssn/unibalance/internal/domain"
)

var (
	ErrAlreadyRunning = errors.New("already running")
	ErrNotRunning     = errors.New("not running")
)

type TimerConfig struct {
	Total     int
	Interval  time.Duration
	NewTicker TickerFunc
	OnTick    func(domain.CountdownState)
	OnDone    func()
}

// Timer drives a CountdownState from a ticker goroutine. Every run gets its
// own cancel channel; a tick that arrives after the run was cancelled is
// dropped without touching the state.
type Timer struct {
	mu sync.Mutex

	state     domain.CountdownState
	interval  time.Duration
	newTicker TickerFunc
	cancel    chan struct{}

	onTick func(domain.CountdownState)
	onDone func()
}

func NewTimer(cfg TimerConfig) (*Timer, error) {
	state, err := domain.NewCountdown(cfg.Total)
	if err != nil {
		return nil, err
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.NewTicker == nil {
		cfg.NewTicker = RealTicker
	}
	return &Timer{
		state:     state,
		interval:  cfg.Interval,
		newTicker: cfg.NewTicker,
		onTick:    cfg.OnTick,
		onDone:    cfg.OnDone,
	}, nil
}

func (t *Timer) Start() error {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	if err := t.state.Start(); err != nil {
		t.mu.Unlock()
		return err
	}

	cancel := make(chan struct{})
	t.cancel = cancel
	ticker := t.newTicker(t.interval)
	t.mu.Unlock()

	go t.run(ticker, cancel)
	return nil
}

func (t *Timer) run(ticker Ticker, cancel chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			if t.tick(cancel) {
				return
			}
		case <-cancel:
			return
		}
	}
}

func (t *Timer) tick(cancel chan struct{}) bool {
	t.mu.Lock()
	if t.cancel != cancel {
		t.mu.Unlock()
		return true
	}

	done := t.state.Tick()
	snap := t.state
	if done {
		close(t.cancel)
		t.cancel = nil
	}
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(snap)
	}
	if done && t.onDone != nil {
		t.onDone()
	}
	return done
}

func (t *Timer) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel == nil {
		return ErrNotRunning
	}
	t.stopLocked()
	return nil
}

func (t *Timer) Toggle() error {
	t.mu.Lock()
	running := t.cancel != nil
	t.mu.Unlock()

	if running {
		return t.Pause()
	}
	return t.Start()
}

// Reset cancels any run and restores the countdown to total.
func (t *Timer) Reset(total int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if total <= 0 {
		return domain.ErrInvalidTotal
	}
	t.stopLocked()
	return t.state.Reset(total)
}

func (t *Timer) Stop() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

func (t *Timer) State() domain.CountdownState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
	t.state.Pause()
}
