package domain

import (
	"time"

	"github.com/google/uuid"
)

type ExerciseKind string

const (
	KindBreathing    ExerciseKind = "breathing"
	KindEyeMovement  ExerciseKind = "eye-movement"
	KindBlink        ExerciseKind = "blink"
	KindStretching   ExerciseKind = "stretching"
	KindSpeedReading ExerciseKind = "speed-reading"
)

var ExerciseKinds = []ExerciseKind{
	KindBreathing,
	KindEyeMovement,
	KindBlink,
	KindStretching,
	KindSpeedReading,
}

func ParseKind(s string) (ExerciseKind, bool) {
	for _, k := range ExerciseKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

type Session struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Kind        ExerciseKind `json:"kind"`
	StartedAt   time.Time    `json:"startedAt"`
	CompletedAt time.Time    `json:"completedAt"`
	Completed   bool         `json:"completed"`
}

func NewSession(id string, userID string, kind ExerciseKind) *Session {
	if id == "" {
		id = uuid.New().String()
	}

	return &Session{
		ID:     id,
		UserID: userID,
		Kind:   kind,
	}
}
