// Package audio describes the sound capability the exercises use. The host
// decides what a cue sounds like; the engine only names it.
package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

type Player interface {
	// Play starts a short one-off cue.
	Play(ctx context.Context, cue string) error
	// Loop starts a background track that repeats until stopped.
	Loop(ctx context.Context, track string) error
	Stop(ctx context.Context, track string) error
}

// Silent plays nothing.
type Silent struct{}

func (Silent) Play(context.Context, string) error { return nil }
func (Silent) Loop(context.Context, string) error { return nil }
func (Silent) Stop(context.Context, string) error { return nil }

// callTimeout bounds one call to the wrapped player.
const callTimeout = 5 * time.Second

// SafePlayer hands calls to a background worker in the order they were
// made and discards errors and panics, so a broken audio backend degrades to
// silence. A Stop is never overtaken by the Loop issued before it.
type SafePlayer struct {
	inner Player
	wg    sync.WaitGroup

	mu      sync.Mutex
	queue   []func(context.Context) error
	working bool
}

func Safe(p Player) *SafePlayer {
	if p == nil {
		p = Silent{}
	}
	return &SafePlayer{inner: p}
}

func (s *SafePlayer) Play(cue string) {
	s.do(func(ctx context.Context) error { return s.inner.Play(ctx, cue) })
}

func (s *SafePlayer) Loop(track string) {
	s.do(func(ctx context.Context) error { return s.inner.Loop(ctx, track) })
}

func (s *SafePlayer) Stop(track string) {
	s.do(func(ctx context.Context) error { return s.inner.Stop(ctx, track) })
}

// Wait blocks until queued calls return.
func (s *SafePlayer) Wait() {
	s.wg.Wait()
}

func (s *SafePlayer) do(call func(context.Context) error) {
	s.wg.Add(1)

	s.mu.Lock()
	s.queue = append(s.queue, call)
	if !s.working {
		s.working = true
		go s.drain()
	}
	s.mu.Unlock()
}

// drain runs queued calls one at a time and exits once the queue is empty.
func (s *SafePlayer) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.working = false
			s.mu.Unlock()
			return
		}
		call := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.run(call)
		s.wg.Done()
	}
}

func (s *SafePlayer) run(call func(context.Context) error) {
	defer func() { _ = recover() }()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	_ = call(ctx)
}

// Terminal rings the bell and prints the cue name.
type Terminal struct {
	mu  sync.Mutex
	Out io.Writer
}

func (t *Terminal) Play(_ context.Context, cue string) error {
	return t.write("\a♪ %s\n", cue)
}

func (t *Terminal) Loop(_ context.Context, track string) error {
	return t.write("♫ playing %s\n", track)
}

func (t *Terminal) Stop(_ context.Context, track string) error {
	return t.write("♫ stopped %s\n", track)
}

func (t *Terminal) write(format string, args ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.Out, format, args...)
	return err
}
