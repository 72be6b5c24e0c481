package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNoPhases          = errors.New("phase sequence needs at least one phase")
	ErrInvalidPhase      = errors.New("phase duration must be positive")
	ErrAlternationPhases = errors.New("alternation needs exactly two phases")
	ErrInvalidInitial    = errors.New("initial phase out of range")
)

// Phase is one labeled, timed sub-step of a guided exercise.
type Phase struct {
	Key      string
	Duration time.Duration
	Payload  any
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key        string `json:"key"`
		DurationMs int64  `json:"durationMs"`
		Payload    any    `json:"payload,omitempty"`
	}{
		Key:        p.Key,
		DurationMs: p.Duration.Milliseconds(),
		Payload:    p.Payload,
	})
}

type SequenceMode string

const (
	ModeLoop      SequenceMode = "loop"
	ModeAlternate SequenceMode = "alternate"
	ModeOnce      SequenceMode = "once"
)

// IndexStrategy decides how the current index is derived.
type IndexStrategy string

const (
	// StrategyTick advances on each phase boundary and wraps.
	StrategyTick IndexStrategy = "tick"
	// StrategyElapsed buckets the countdown's elapsed time and clamps.
	StrategyElapsed IndexStrategy = "elapsed"
)

type PhaseSequence struct {
	Phases   []Phase       `json:"phases"`
	Current  int           `json:"current"`
	Initial  int           `json:"initial"`
	Mode     SequenceMode  `json:"mode"`
	Strategy IndexStrategy `json:"strategy"`
}

func NewPhaseSequence(phases []Phase, mode SequenceMode, strategy IndexStrategy) (*PhaseSequence, error) {
	if len(phases) == 0 {
		return nil, ErrNoPhases
	}
	for _, p := range phases {
		if p.Duration <= 0 {
			return nil, ErrInvalidPhase
		}
	}
	if mode == ModeAlternate && len(phases) != 2 {
		return nil, ErrAlternationPhases
	}

	cp := make([]Phase, len(phases))
	copy(cp, phases)

	return &PhaseSequence{
		Phases:   cp,
		Mode:     mode,
		Strategy: strategy,
	}, nil
}

// WithInitial sets the phase every run starts from.
func (s *PhaseSequence) WithInitial(idx int) error {
	if idx < 0 || idx >= len(s.Phases) {
		return ErrInvalidInitial
	}
	s.Initial = idx
	s.Current = idx
	return nil
}

func (s *PhaseSequence) CurrentPhase() Phase {
	return s.Phases[s.Current]
}

func (s *PhaseSequence) Reset() {
	s.Current = s.Initial
}

// Advance moves to the next phase. It returns false when a ModeOnce
// sequence is already on its last phase; the index is left unchanged.
func (s *PhaseSequence) Advance() (Phase, bool) {
	n := len(s.Phases)
	switch s.Mode {
	case ModeAlternate:
		s.Current = 1 - s.Current
	case ModeOnce:
		if s.Current >= n-1 {
			return s.Phases[s.Current], false
		}
		s.Current++
	default:
		s.Current = (s.Current + 1) % n
	}
	return s.Phases[s.Current], true
}

// Sync applies the elapsed-time derivation and reports whether the index
// changed.
func (s *PhaseSequence) Sync(elapsed time.Duration) bool {
	idx := PhaseIndexAt(elapsed, s.Phases)
	if idx == s.Current {
		return false
	}
	s.Current = idx
	return true
}

// PhaseIndexAt returns the phase active after elapsed time, walking the
// cumulative durations. Past the end it stays on the last phase.
func PhaseIndexAt(elapsed time.Duration, phases []Phase) int {
	if len(phases) == 0 {
		return 0
	}
	var boundary time.Duration
	for i, p := range phases {
		boundary += p.Duration
		if elapsed < boundary {
			return i
		}
	}
	return len(phases) - 1
}

// PhaseRemaining is the time left in the phase active at elapsed.
func PhaseRemaining(elapsed time.Duration, phases []Phase) time.Duration {
	if len(phases) == 0 {
		return 0
	}
	var boundary time.Duration
	for _, p := range phases {
		boundary += p.Duration
		if elapsed < boundary {
			return boundary - elapsed
		}
	}
	return 0
}
