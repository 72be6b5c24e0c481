package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTotal      = errors.New("total seconds must be positive")
	ErrCountdownFinished = errors.New("countdown already finished")
)

// CountdownState is the per-exercise time budget. Remaining never exceeds
// Total and reaching zero always clears Running.
type CountdownState struct {
	Remaining int  `json:"remaining"`
	Total     int  `json:"total"`
	Running   bool `json:"running"`
}

func NewCountdown(total int) (CountdownState, error) {
	if total <= 0 {
		return CountdownState{}, ErrInvalidTotal
	}
	return CountdownState{Remaining: total, Total: total}, nil
}

func (c *CountdownState) Start() error {
	if c.Remaining == 0 {
		return ErrCountdownFinished
	}
	c.Running = true
	return nil
}

func (c *CountdownState) Pause() {
	c.Running = false
}

func (c *CountdownState) Toggle() error {
	if c.Running {
		c.Pause()
		return nil
	}
	return c.Start()
}

// Tick consumes one second. It reports true only on the tick that reaches
// zero; ticks on a stopped or finished countdown are ignored.
func (c *CountdownState) Tick() bool {
	if !c.Running || c.Remaining == 0 {
		return false
	}
	c.Remaining--
	if c.Remaining == 0 {
		c.Running = false
		return true
	}
	return false
}

func (c *CountdownState) Reset(total int) error {
	if total <= 0 {
		return ErrInvalidTotal
	}
	c.Total = total
	c.Remaining = total
	c.Running = false
	return nil
}

func (c CountdownState) Done() bool {
	return c.Remaining == 0
}

func (c CountdownState) Elapsed() int {
	return c.Total - c.Remaining
}

// Progress is the consumed fraction in [0,1].
func (c CountdownState) Progress() float64 {
	if c.Total == 0 {
		return 0
	}
	return 1 - float64(c.Remaining)/float64(c.Total)
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
