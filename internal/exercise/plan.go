// Package exercise turns the content tables into timed plans: a countdown
// budget plus the phase sequence shown while it runs.
package exercise

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
)

var (
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrInvalidMinutes  = errors.New("duration not offered for this exercise")
	ErrInvalidSpeed    = errors.New("reading speed out of range")
)

const (
	visualRestSeconds = 60
	stretchingSeconds = 60

	MinWordsPerMinute     = 100
	MaxWordsPerMinute     = 600
	WordsPerMinuteStep    = 10
	DefaultWordsPerMinute = 150
)

type Options struct {
	Minutes        int `json:"minutes,omitempty"`
	TextIndex      int `json:"textIndex,omitempty"`
	WordsPerMinute int `json:"wordsPerMinute,omitempty"`
}

type Plan struct {
	Kind              domain.ExerciseKind   `json:"kind"`
	TotalSeconds      int                   `json:"totalSeconds"`
	Sequence          *domain.PhaseSequence `json:"sequence,omitempty"`
	PhaseCues         bool                  `json:"phaseCues"`
	AmbientTrack      string                `json:"ambientTrack,omitempty"`
	FinishCue         string                `json:"finishCue,omitempty"`
	CompletionMessage string                `json:"completionMessage,omitempty"`
	// Resizable plans accept a new duration in minutes between runs.
	Resizable bool `json:"resizable"`
}

func Build(kind domain.ExerciseKind, opts Options) (Plan, error) {
	switch kind {
	case domain.KindBreathing:
		return breathing(opts)
	case domain.KindEyeMovement:
		return eyeMovement()
	case domain.KindBlink:
		return blink()
	case domain.KindStretching:
		return stretching()
	case domain.KindSpeedReading:
		return speedReading(opts)
	default:
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownExercise, kind)
	}
}

// ValidMinutes reports whether minutes is one of the breathing choices.
func ValidMinutes(minutes int) bool {
	return slices.Contains(content.BreathingSettings().MinuteChoices, minutes)
}

func breathing(opts Options) (Plan, error) {
	b := content.BreathingSettings()

	minutes := opts.Minutes
	if minutes == 0 {
		minutes = b.MinuteChoices[0]
	}
	if !ValidMinutes(minutes) {
		return Plan{}, fmt.Errorf("%w: %d minutes", ErrInvalidMinutes, minutes)
	}

	seq, err := domain.NewPhaseSequence([]domain.Phase{
		{Key: "inhale", Duration: ms(b.Inhale.DurationMs), Payload: b.Inhale.Label},
		{Key: "exhale", Duration: ms(b.Exhale.DurationMs), Payload: b.Exhale.Label},
	}, domain.ModeAlternate, domain.StrategyTick)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Kind:              domain.KindBreathing,
		TotalSeconds:      minutes * 60,
		Sequence:          seq,
		PhaseCues:         true,
		AmbientTrack:      b.AmbientTrack,
		FinishCue:         b.FinishCue,
		CompletionMessage: b.CompletionMessage,
		Resizable:         true,
	}, nil
}

func eyeMovement() (Plan, error) {
	dirs, stepMs := content.EyeDirections()

	phases := make([]domain.Phase, len(dirs))
	for i, d := range dirs {
		phases[i] = domain.Phase{Key: d.Name, Duration: ms(stepMs), Payload: d}
	}
	seq, err := domain.NewPhaseSequence(phases, domain.ModeLoop, domain.StrategyTick)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Kind:         domain.KindEyeMovement,
		TotalSeconds: visualRestSeconds,
		Sequence:     seq,
	}, nil
}

func blink() (Plan, error) {
	states := content.BlinkStates()

	phases := make([]domain.Phase, len(states))
	for i, s := range states {
		phases[i] = domain.Phase{Key: s.Name, Duration: ms(s.DurationMs), Payload: s}
	}
	seq, err := domain.NewPhaseSequence(phases, domain.ModeLoop, domain.StrategyTick)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Kind:         domain.KindBlink,
		TotalSeconds: visualRestSeconds,
		Sequence:     seq,
	}, nil
}

func stretching() (Plan, error) {
	stretches := content.Stretches()

	phases := make([]domain.Phase, len(stretches))
	for i, s := range stretches {
		phases[i] = domain.Phase{
			Key:      fmt.Sprintf("stretch-%d", s.ID),
			Duration: time.Duration(s.DurationSec) * time.Second,
			Payload:  s,
		}
	}
	seq, err := domain.NewPhaseSequence(phases, domain.ModeLoop, domain.StrategyElapsed)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Kind:         domain.KindStretching,
		TotalSeconds: stretchingSeconds,
		Sequence:     seq,
	}, nil
}

// Word is the payload of one speed-reading phase.
type Word struct {
	Text     string `json:"text"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
}

func speedReading(opts Options) (Plan, error) {
	wpm := opts.WordsPerMinute
	if wpm == 0 {
		wpm = DefaultWordsPerMinute
	}
	if wpm < MinWordsPerMinute || wpm > MaxWordsPerMinute || wpm%WordsPerMinuteStep != 0 {
		return Plan{}, fmt.Errorf("%w: %d wpm", ErrInvalidSpeed, wpm)
	}

	text, ok := content.ReadingTextAt(opts.TextIndex)
	if !ok {
		text, _ = content.ReadingTextAt(0)
	}

	words := strings.Fields(text.Content)
	perWord := time.Minute / time.Duration(wpm)

	phases := make([]domain.Phase, len(words))
	for i, w := range words {
		phases[i] = domain.Phase{
			Key:      fmt.Sprintf("word-%d", i),
			Duration: perWord,
			Payload:  Word{Text: w, Position: i + 1, Total: len(words)},
		}
	}
	seq, err := domain.NewPhaseSequence(phases, domain.ModeOnce, domain.StrategyTick)
	if err != nil {
		return Plan{}, err
	}

	// The budget outlasts the passage by one tick so the word sequence,
	// not the countdown, ends the run.
	budget := int(math.Ceil((time.Duration(len(words)) * perWord).Seconds())) + 1

	return Plan{
		Kind:         domain.KindSpeedReading,
		TotalSeconds: budget,
		Sequence:     seq,
	}, nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
