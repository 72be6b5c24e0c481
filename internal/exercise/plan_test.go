package exercise

import (
	"errors"
	"testing"
	"time"

	"github.com/hperssn/unibalance/internal/domain"
)

func TestBuildBreathing(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		total   int
		err     error
	}{
		{name: "default", minutes: 0, total: 60},
		{name: "three minutes", minutes: 3, total: 180},
		{name: "five minutes", minutes: 5, total: 300},
		{name: "not offered", minutes: 4, err: ErrInvalidMinutes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(domain.KindBreathing, Options{Minutes: tt.minutes})
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.TotalSeconds != tt.total {
				t.Fatalf("total = %d, want %d", p.TotalSeconds, tt.total)
			}
			if p.Sequence.Mode != domain.ModeAlternate || p.Sequence.CurrentPhase().Key != "inhale" {
				t.Fatalf("breathing should alternate starting on inhale")
			}
			if !p.PhaseCues || p.AmbientTrack == "" || p.FinishCue == "" {
				t.Fatalf("breathing should carry audio cues: %+v", p)
			}
		})
	}
}

func TestBuildVisualRest(t *testing.T) {
	p, err := Build(domain.KindEyeMovement, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Sequence.Phases) != 5 || p.Sequence.Strategy != domain.StrategyTick {
		t.Fatalf("eye movement plan = %+v", p.Sequence)
	}
	if p.Sequence.Phases[0].Duration != 3*time.Second {
		t.Fatalf("direction step = %v, want 3s", p.Sequence.Phases[0].Duration)
	}

	p, _ = Build(domain.KindBlink, Options{})
	if p.Sequence.Phases[1].Key != "closed" || p.Sequence.Phases[1].Duration != 500*time.Millisecond {
		t.Fatalf("blink closed phase = %+v", p.Sequence.Phases[1])
	}
}

func TestBuildStretchingUsesElapsedStrategy(t *testing.T) {
	p, err := Build(domain.KindStretching, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Sequence.Strategy != domain.StrategyElapsed {
		t.Fatalf("strategy = %s, want elapsed", p.Sequence.Strategy)
	}
	if got := domain.PhaseIndexAt(45*time.Second, p.Sequence.Phases); got != 2 {
		t.Fatalf("index at 45s = %d, want 2", got)
	}
}

func TestBuildSpeedReading(t *testing.T) {
	p, err := Build(domain.KindSpeedReading, Options{TextIndex: 1, WordsPerMinute: 300})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := p.Sequence.Phases[0]
	if first.Duration != 200*time.Millisecond {
		t.Fatalf("per word = %v, want 200ms", first.Duration)
	}
	w := first.Payload.(Word)
	if w.Text != "Habits" || w.Position != 1 {
		t.Fatalf("first word = %+v", w)
	}
	readTime := time.Duration(len(p.Sequence.Phases)) * first.Duration
	if time.Duration(p.TotalSeconds)*time.Second <= readTime {
		t.Fatalf("budget %ds does not cover %v of reading", p.TotalSeconds, readTime)
	}
}

func TestBuildSpeedReadingFallsBackToFirstText(t *testing.T) {
	p, err := Build(domain.KindSpeedReading, Options{TextIndex: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w := p.Sequence.Phases[0].Payload.(Word); w.Text != "Meditation" {
		t.Fatalf("first word = %q, want Meditation", w.Text)
	}
}

func TestBuildRejects(t *testing.T) {
	if _, err := Build("juggling", Options{}); !errors.Is(err, ErrUnknownExercise) {
		t.Fatalf("err = %v, want %v", err, ErrUnknownExercise)
	}
	for _, wpm := range []int{90, 605, 610} {
		if _, err := Build(domain.KindSpeedReading, Options{WordsPerMinute: wpm}); !errors.Is(err, ErrInvalidSpeed) {
			t.Fatalf("wpm %d err = %v, want %v", wpm, err, ErrInvalidSpeed)
		}
	}
}
