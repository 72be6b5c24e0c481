package runner

import (
	"time"

	"github.com/hperssn/unibalance/internal/domain"
)

type EventType string

const (
	EventStarted   EventType = "started"
	EventTick      EventType = "tick"
	EventPhase     EventType = "phase"
	EventCue       EventType = "cue"
	EventPaused    EventType = "paused"
	EventReset     EventType = "reset"
	EventCompleted EventType = "completed"
	EventStopped   EventType = "stopped"
)

type Event struct {
	Type       EventType     `json:"type"`
	SessionID  string        `json:"sessionId"`
	Remaining  int           `json:"remaining"`
	Elapsed    int           `json:"elapsed"`
	Clock      string        `json:"clock,omitempty"`
	Phase      *domain.Phase `json:"phase,omitempty"`
	PhaseIndex int           `json:"phaseIndex"`
	Cue        string        `json:"cue,omitempty"`
	Message    string        `json:"message,omitempty"`
	At         time.Time     `json:"at"`
}
