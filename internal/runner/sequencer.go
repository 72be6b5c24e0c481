package runner

import (
	"sync"
	"time"

	"github.com/hperssn/unibalance/internal/audio"
	"github.com/hperssn/unibalance/internal/domain"
)

type SequencerConfig struct {
	Sequence  *domain.PhaseSequence
	NewTicker TickerFunc
	// Cues, when set, plays each emitted phase key.
	Cues    *audio.SafePlayer
	OnPhase func(p domain.Phase, idx int)
	// OnEnd fires when a single-pass sequence runs past its last phase.
	OnEnd func()
	Now   func() time.Time
}

// Sequencer walks a PhaseSequence. With the tick strategy it schedules one
// ticker per phase duration; with the elapsed strategy it never schedules
// anything and follows the countdown through Sync.
type Sequencer struct {
	mu sync.Mutex

	seq       *domain.PhaseSequence
	newTicker TickerFunc
	cancel    chan struct{}
	now       func() time.Time

	// phaseStart and phaseLen describe the scheduled boundary; left is what
	// a paused phase still had to run.
	phaseStart time.Time
	phaseLen   time.Duration
	left       time.Duration

	cues    *audio.SafePlayer
	onPhase func(domain.Phase, int)
	onEnd   func()
}

func NewSequencer(cfg SequencerConfig) *Sequencer {
	if cfg.NewTicker == nil {
		cfg.NewTicker = RealTicker
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Sequencer{
		seq:       cfg.Sequence,
		newTicker: cfg.NewTicker,
		now:       cfg.Now,
		cues:      cfg.Cues,
		onPhase:   cfg.OnPhase,
		onEnd:     cfg.OnEnd,
	}
}

// Start goes back to the initial phase, emits it and schedules the next
// boundary.
func (s *Sequencer) Start() {
	s.mu.Lock()
	s.stopLocked()
	s.seq.Reset()
	s.left = 0
	p, idx := s.seq.CurrentPhase(), s.seq.Current
	s.scheduleLocked(p.Duration)
	s.mu.Unlock()

	s.emit(p, idx, true)
}

// Resume continues from the current phase for the time it had left when
// paused.
func (s *Sequencer) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	d := s.left
	if d <= 0 {
		d = s.seq.CurrentPhase().Duration
	}
	s.left = 0
	s.scheduleLocked(d)
}

func (s *Sequencer) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.left = s.phaseLen - s.now().Sub(s.phaseStart)
	if s.left < time.Millisecond {
		s.left = time.Millisecond
	}
	s.stopLocked()
}

// Reset stops and returns to the initial phase without a cue.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	s.stopLocked()
	s.seq.Reset()
	s.left = 0
	p, idx := s.seq.CurrentPhase(), s.seq.Current
	s.mu.Unlock()

	s.emit(p, idx, false)
}

// Sync derives the phase from the countdown's elapsed seconds. It is a no-op
// for tick sequences.
func (s *Sequencer) Sync(elapsedSeconds int) {
	s.mu.Lock()
	if s.seq.Strategy != domain.StrategyElapsed {
		s.mu.Unlock()
		return
	}
	changed := s.seq.Sync(time.Duration(elapsedSeconds) * time.Second)
	p, idx := s.seq.CurrentPhase(), s.seq.Current
	s.mu.Unlock()

	if changed {
		s.emit(p, idx, true)
	}
}

func (s *Sequencer) Current() (domain.Phase, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.CurrentPhase(), s.seq.Current
}

func (s *Sequencer) Len() int {
	return len(s.seq.Phases)
}

func (s *Sequencer) scheduleLocked(d time.Duration) {
	if s.seq.Strategy != domain.StrategyTick {
		return
	}
	cancel := make(chan struct{})
	s.cancel = cancel
	s.phaseStart, s.phaseLen = s.now(), d
	ticker := s.newTicker(d)

	go s.run(ticker, cancel)
}

func (s *Sequencer) run(ticker Ticker, cancel chan struct{}) {
	for {
		select {
		case <-ticker.C():
			ticker.Stop()
			ticker = s.advance(cancel)
			if ticker == nil {
				return
			}
		case <-cancel:
			ticker.Stop()
			return
		}
	}
}

// advance moves one phase and returns the ticker for the new phase, or nil
// when the run is over.
func (s *Sequencer) advance(cancel chan struct{}) Ticker {
	s.mu.Lock()
	if s.cancel != cancel {
		s.mu.Unlock()
		return nil
	}

	p, ok := s.seq.Advance()
	if !ok {
		s.stopLocked()
		s.mu.Unlock()
		if s.onEnd != nil {
			s.onEnd()
		}
		return nil
	}
	idx := s.seq.Current
	s.phaseStart, s.phaseLen = s.now(), p.Duration
	next := s.newTicker(p.Duration)
	s.mu.Unlock()

	s.emit(p, idx, true)
	return next
}

func (s *Sequencer) emit(p domain.Phase, idx int, cue bool) {
	if cue && s.cues != nil {
		s.cues.Play(p.Key)
	}
	if s.onPhase != nil {
		s.onPhase(p, idx)
	}
}

func (s *Sequencer) stopLocked() {
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
}
