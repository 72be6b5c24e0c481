// Package media models the presentation-practice capture. The camera itself
// belongs to the client; the server tracks the recording lifecycle and
// stores the clip the client uploads.
package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidState     = errors.New("recorder is not in the right state")
	ErrEmptyClip        = errors.New("clip is empty")
)

// MaxDuration is where a recording stops on its own.
const MaxDuration = 60 * time.Second

type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateRecorded  State = "recorded"
	StateSaved     State = "saved"
)

// Permissions are the grants the client reports for its device.
type Permissions struct {
	Camera       bool `json:"camera"`
	Microphone   bool `json:"microphone"`
	MediaLibrary bool `json:"mediaLibrary"`
}

func (p Permissions) missingForCapture() []string {
	var missing []string
	if !p.Camera {
		missing = append(missing, "camera")
	}
	if !p.Microphone {
		missing = append(missing, "microphone")
	}
	return missing
}

type Recording struct {
	ID         string    `json:"id"`
	State      State     `json:"state"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
	AutoStop   bool      `json:"autoStopped"`
	Location   string    `json:"location,omitempty"`
	Level      float64   `json:"level"`
}

// Scheduler runs f after d and returns a function that cancels it.
type Scheduler func(d time.Duration, f func()) (cancel func() bool)

func realScheduler(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type RecorderConfig struct {
	Schedule Scheduler
	Now      func() time.Time
	Rand     *rand.Rand
	// OnAutoStop fires when MaxDuration ends a recording.
	OnAutoStop func(Recording)
}

type Recorder struct {
	mu sync.Mutex

	rec       Recording
	clip      string
	startedAt time.Time
	gen       int
	cancel    func() bool

	meter      *VolumeMeter
	lastSample time.Time

	schedule   Scheduler
	now        func() time.Time
	onAutoStop func(Recording)
}

func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.Schedule == nil {
		cfg.Schedule = realScheduler
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Recorder{
		rec:        Recording{ID: uuid.New().String(), State: StateIdle},
		meter:      NewVolumeMeter(cfg.Rand),
		schedule:   cfg.Schedule,
		now:        cfg.Now,
		onAutoStop: cfg.OnAutoStop,
	}
}

// Start begins capturing. Without camera and microphone it fails with
// ErrPermissionDenied and stays idle, so the client can ask again.
func (r *Recorder) Start(perms Permissions) (Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if missing := perms.missingForCapture(); len(missing) > 0 {
		return r.snapshotLocked(), fmt.Errorf("%w: %s", ErrPermissionDenied, strings.Join(missing, ", "))
	}
	if r.rec.State != StateIdle {
		return r.snapshotLocked(), fmt.Errorf("%w: cannot start while %s", ErrInvalidState, r.rec.State)
	}

	r.gen++
	gen := r.gen
	r.startedAt = r.now()
	r.lastSample = r.startedAt
	r.meter.Reset()
	r.rec.State = StateRecording
	r.rec.StartedAt = r.startedAt
	r.rec.DurationMs = 0
	r.rec.AutoStop = false
	r.cancel = r.schedule(MaxDuration, func() { r.autoStop(gen) })

	return r.snapshotLocked(), nil
}

func (r *Recorder) Stop() (Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rec.State != StateRecording {
		return r.snapshotLocked(), fmt.Errorf("%w: not recording", ErrInvalidState)
	}
	r.finishLocked(false)
	return r.snapshotLocked(), nil
}

func (r *Recorder) autoStop(gen int) {
	r.mu.Lock()
	if gen != r.gen || r.rec.State != StateRecording {
		r.mu.Unlock()
		return
	}
	r.finishLocked(true)
	rec := r.snapshotLocked()
	r.mu.Unlock()

	if r.onAutoStop != nil {
		r.onAutoStop(rec)
	}
}

func (r *Recorder) finishLocked(auto bool) {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	d := r.now().Sub(r.startedAt)
	if auto || d > MaxDuration {
		d = MaxDuration
	}
	r.rec.State = StateRecorded
	r.rec.DurationMs = d.Milliseconds()
	r.rec.AutoStop = auto
}

// Save uploads the clip to album. A failed upload leaves the recording in
// the recorded state so the user can retry.
func (r *Recorder) Save(ctx context.Context, album Album, perms Permissions, clip io.Reader, size int64, contentType string) (Recording, error) {
	r.mu.Lock()
	if !perms.MediaLibrary {
		rec := r.snapshotLocked()
		r.mu.Unlock()
		return rec, fmt.Errorf("%w: media library", ErrPermissionDenied)
	}
	if r.rec.State != StateRecorded {
		rec := r.snapshotLocked()
		r.mu.Unlock()
		return rec, fmt.Errorf("%w: nothing recorded to save", ErrInvalidState)
	}
	if size == 0 {
		rec := r.snapshotLocked()
		r.mu.Unlock()
		return rec, ErrEmptyClip
	}
	id := r.rec.ID
	gen := r.gen
	r.mu.Unlock()

	// size is -1 for streamed uploads, so look for a first byte too.
	body := bufio.NewReader(clip)
	if _, err := body.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return r.Snapshot(), ErrEmptyClip
		}
		return r.Snapshot(), fmt.Errorf("read clip: %w", err)
	}

	name := clipName(id, contentType)
	location, err := album.Save(ctx, name, body, size, contentType)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		return r.snapshotLocked(), fmt.Errorf("save recording: %w", err)
	}
	if gen == r.gen && r.rec.State == StateRecorded {
		r.rec.State = StateSaved
		r.rec.Location = location
		r.clip = name
	}
	return r.snapshotLocked(), nil
}

// Reset discards the current recording and starts over with a new ID.
func (r *Recorder) Reset() Recording {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.resetLocked()
	return r.snapshotLocked()
}

// Discard deletes the saved clip from album and starts over. A clip that is
// already gone counts as deleted.
func (r *Recorder) Discard(ctx context.Context, album Album) (Recording, error) {
	r.mu.Lock()
	if r.rec.State != StateSaved {
		rec := r.snapshotLocked()
		r.mu.Unlock()
		return rec, fmt.Errorf("%w: no saved clip to discard", ErrInvalidState)
	}
	name, gen := r.clip, r.gen
	r.mu.Unlock()

	if err := album.Delete(ctx, name); err != nil && !errors.Is(err, ErrClipNotFound) {
		return r.Snapshot(), fmt.Errorf("discard recording: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen == r.gen {
		r.resetLocked()
	}
	return r.snapshotLocked(), nil
}

// Clip names the saved clip in the album, or "" when nothing is saved.
func (r *Recorder) Clip() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec.State != StateSaved {
		return ""
	}
	return r.clip
}

func (r *Recorder) resetLocked() {
	r.gen++
	r.rec = Recording{ID: uuid.New().String(), State: StateIdle}
	r.clip = ""
	r.meter.Reset()
}

// Snapshot reports the recording; while capturing it advances the level
// meter by the steps elapsed since the last look.
func (r *Recorder) Snapshot() Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Recorder) snapshotLocked() Recording {
	rec := r.rec
	if rec.State != StateRecording {
		return rec
	}

	now := r.now()
	if steps := int(now.Sub(r.lastSample) / MeterInterval); steps > 0 {
		r.meter.Advance(steps)
		r.lastSample = r.lastSample.Add(time.Duration(steps) * MeterInterval)
	}
	rec.Level = r.meter.Level()
	d := now.Sub(r.startedAt)
	if d > MaxDuration {
		d = MaxDuration
	}
	rec.DurationMs = d.Milliseconds()
	return rec
}

func clipName(id, contentType string) string {
	ext := ".mp4"
	switch contentType {
	case "video/quicktime":
		ext = ".mov"
	case "video/webm":
		ext = ".webm"
	}
	return id + ext
}

// Studio keeps one recorder per user.
type Studio struct {
	mu        sync.Mutex
	recorders map[string]*Recorder
	cfg       RecorderConfig
}

func NewStudio(cfg RecorderConfig) *Studio {
	return &Studio{recorders: make(map[string]*Recorder), cfg: cfg}
}

func (s *Studio) For(userID string) *Recorder {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recorders[userID]
	if !ok {
		r = NewRecorder(s.cfg)
		s.recorders[userID] = r
	}
	return r
}
