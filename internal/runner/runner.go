package runner

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hperssn/unibalance/internal/audio"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/exercise"
)

var (
	ErrStopped      = errors.New("exercise was stopped")
	ErrNotResizable = errors.New("exercise duration is fixed")
)

const eventBuffer = 64

// CompletionHook receives a copy of the session once its countdown (or a
// single-pass sequence) finishes.
type CompletionHook func(s domain.Session, seconds int)

type RunnerConfig struct {
	NewTicker TickerFunc
	Player    audio.Player
	OnDone    CompletionHook
}

// ExerciseRunner pairs one countdown with the plan's phase sequence and
// publishes what happens on a buffered event channel.
type ExerciseRunner struct {
	mu sync.Mutex

	session *domain.Session
	plan    exercise.Plan
	minutes int

	timer  *Timer
	seq    *Sequencer
	player *audio.SafePlayer
	onDone CompletionHook

	// started is true between a fresh start and the next reset or finish.
	started  bool
	finished bool
	stopped  bool

	emitMu sync.Mutex
	closed bool
	events chan Event
}

func NewExerciseRunner(s *domain.Session, plan exercise.Plan, cfg RunnerConfig) (*ExerciseRunner, error) {
	r := &ExerciseRunner{
		session: s,
		plan:    plan,
		player:  audio.Safe(cfg.Player),
		onDone:  cfg.OnDone,
		events:  make(chan Event, eventBuffer),
	}
	if plan.Resizable {
		r.minutes = plan.TotalSeconds / 60
	}

	timer, err := NewTimer(TimerConfig{
		Total:     plan.TotalSeconds,
		NewTicker: cfg.NewTicker,
		OnTick:    r.handleTick,
		OnDone:    r.finish,
	})
	if err != nil {
		return nil, fmt.Errorf("exercise %s: %w", plan.Kind, err)
	}
	r.timer = timer

	if plan.Sequence != nil {
		sc := SequencerConfig{
			Sequence:  plan.Sequence,
			NewTicker: cfg.NewTicker,
			OnPhase:   r.handlePhase,
			OnEnd:     r.finish,
		}
		if plan.PhaseCues {
			sc.Cues = r.player
		}
		r.seq = NewSequencer(sc)
	}

	return r, nil
}

// Start begins a fresh run when nothing is in progress or the last run
// finished, and resumes a paused run otherwise.
func (r *ExerciseRunner) Start() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	if r.timer.State().Running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}

	fresh := !r.started || r.finished
	if fresh {
		if err := r.timer.Reset(r.totalSeconds()); err != nil {
			r.mu.Unlock()
			return err
		}
		r.started, r.finished = true, false
		r.session.StartedAt = time.Now()
		r.session.Completed = false
		r.session.CompletedAt = time.Time{}
	}
	if err := r.timer.Start(); err != nil {
		r.mu.Unlock()
		return err
	}
	state := r.timer.State()
	r.mu.Unlock()

	r.emit(Event{Type: EventStarted, Remaining: state.Remaining, Elapsed: state.Elapsed()})
	if r.seq != nil {
		if fresh {
			r.seq.Start()
		} else {
			r.seq.Resume()
		}
	}
	if r.plan.AmbientTrack != "" {
		r.playerCall("loop", r.plan.AmbientTrack)
	}
	return nil
}

func (r *ExerciseRunner) Pause() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	if err := r.timer.Pause(); err != nil {
		r.mu.Unlock()
		return err
	}
	state := r.timer.State()
	r.mu.Unlock()

	if r.seq != nil {
		r.seq.Pause()
	}
	r.stopAmbient()
	r.emit(Event{Type: EventPaused, Remaining: state.Remaining, Elapsed: state.Elapsed()})
	return nil
}

func (r *ExerciseRunner) Toggle() error {
	if r.timer.State().Running {
		return r.Pause()
	}
	return r.Start()
}

// Reset cancels the run and restores the selected duration and the initial
// phase.
func (r *ExerciseRunner) Reset() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	if err := r.timer.Reset(r.totalSeconds()); err != nil {
		r.mu.Unlock()
		return err
	}
	r.started, r.finished = false, false
	state := r.timer.State()
	r.mu.Unlock()

	r.stopAmbient()
	r.emit(Event{Type: EventReset, Remaining: state.Remaining})
	if r.seq != nil {
		r.seq.Reset()
	}
	return nil
}

// SetDuration changes the selected minutes. While the countdown runs the
// choice is only remembered for the next fresh start.
func (r *ExerciseRunner) SetDuration(minutes int) error {
	if !r.plan.Resizable {
		return ErrNotResizable
	}
	if !exercise.ValidMinutes(minutes) {
		return fmt.Errorf("%w: %d minutes", exercise.ErrInvalidMinutes, minutes)
	}

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	r.minutes = minutes
	if r.timer.State().Running {
		r.mu.Unlock()
		return nil
	}
	if err := r.timer.Reset(r.totalSeconds()); err != nil {
		r.mu.Unlock()
		return err
	}
	r.started, r.finished = false, false
	state := r.timer.State()
	r.mu.Unlock()

	r.emit(Event{Type: EventReset, Remaining: state.Remaining})
	if r.seq != nil {
		r.seq.Reset()
	}
	return nil
}

// Stop tears the runner down and closes the event stream. It is what
// navigating away from an exercise does.
func (r *ExerciseRunner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.timer.Stop()
	state := r.timer.State()
	r.mu.Unlock()

	if r.seq != nil {
		r.seq.Pause()
	}
	r.stopAmbient()
	r.emit(Event{Type: EventStopped, Remaining: state.Remaining, Elapsed: state.Elapsed()})

	r.emitMu.Lock()
	r.closed = true
	close(r.events)
	r.emitMu.Unlock()
}

func (r *ExerciseRunner) Events() <-chan Event {
	return r.events
}

func (r *ExerciseRunner) Session() *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *r.session
	return &copy
}

type Snapshot struct {
	Session           domain.Session        `json:"session"`
	Countdown         domain.CountdownState `json:"countdown"`
	Clock             string                `json:"clock"`
	Progress          float64               `json:"progress"`
	Minutes           int                   `json:"minutes,omitempty"`
	Phase             *domain.Phase         `json:"phase,omitempty"`
	PhaseIndex        int                   `json:"phaseIndex"`
	PhaseCount        int                   `json:"phaseCount"`
	CompletionMessage string                `json:"completionMessage,omitempty"`
}

func (r *ExerciseRunner) Snapshot() Snapshot {
	r.mu.Lock()
	state := r.timer.State()
	snap := Snapshot{
		Session:   *r.session,
		Countdown: state,
		Clock:     domain.FormatClock(state.Remaining),
		Progress:  state.Progress(),
		Minutes:   r.minutes,
	}
	if r.session.Completed {
		snap.CompletionMessage = r.plan.CompletionMessage
	}
	r.mu.Unlock()

	if r.seq != nil {
		p, idx := r.seq.Current()
		snap.Phase = &p
		snap.PhaseIndex = idx
		snap.PhaseCount = r.seq.Len()
	}
	return snap
}

func (r *ExerciseRunner) totalSeconds() int {
	if r.plan.Resizable && r.minutes > 0 {
		return r.minutes * 60
	}
	return r.plan.TotalSeconds
}

func (r *ExerciseRunner) handleTick(state domain.CountdownState) {
	r.emit(Event{Type: EventTick, Remaining: state.Remaining, Elapsed: state.Elapsed()})
	if r.seq != nil {
		r.seq.Sync(state.Elapsed())
	}
}

func (r *ExerciseRunner) handlePhase(p domain.Phase, idx int) {
	if r.plan.PhaseCues {
		r.emit(Event{Type: EventCue, Cue: "play:" + p.Key})
	}
	r.emit(Event{Type: EventPhase, Phase: &p, PhaseIndex: idx})
}

// finish is reached from the countdown hitting zero or from a single-pass
// sequence running out. Only the first caller of a run completes it.
func (r *ExerciseRunner) finish() {
	r.mu.Lock()
	if !r.started || r.finished || r.stopped {
		r.mu.Unlock()
		return
	}
	r.finished = true
	r.timer.Stop()
	state := r.timer.State()
	r.session.Completed = true
	r.session.CompletedAt = time.Now()
	done := *r.session
	seconds := state.Elapsed()
	r.mu.Unlock()

	if r.seq != nil {
		r.seq.Pause()
	}
	r.stopAmbient()
	if r.plan.FinishCue != "" {
		r.playerCall("play", r.plan.FinishCue)
	}
	r.emit(Event{
		Type:      EventCompleted,
		Remaining: state.Remaining,
		Elapsed:   seconds,
		Message:   r.plan.CompletionMessage,
	})

	if r.onDone != nil {
		r.onDone(done, seconds)
	}
}

func (r *ExerciseRunner) stopAmbient() {
	if r.plan.AmbientTrack != "" {
		r.playerCall("stop", r.plan.AmbientTrack)
	}
}

// playerCall forwards to the audio player and mirrors the call as a cue
// event so remote clients can play it too.
func (r *ExerciseRunner) playerCall(kind, name string) {
	switch kind {
	case "loop":
		r.player.Loop(name)
	case "stop":
		r.player.Stop(name)
	default:
		r.player.Play(name)
	}
	r.emit(Event{Type: EventCue, Cue: kind + ":" + name})
}

// emit never blocks; a slow consumer loses events rather than stalling the
// timers.
func (r *ExerciseRunner) emit(e Event) {
	e.SessionID = r.session.ID
	e.At = time.Now()
	if e.Type != EventPhase && e.Type != EventCue {
		e.Clock = domain.FormatClock(e.Remaining)
	}

	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.events <- e:
	default:
	}
}
