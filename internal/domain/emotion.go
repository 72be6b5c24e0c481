package domain

import (
	"time"

	"github.com/google/uuid"
)

// CheckIn is one emotion self-report.
type CheckIn struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Emotion    string    `json:"emotion"`
	RecordedAt time.Time `json:"recordedAt"`
}

func NewCheckIn(userID, emotion string, at time.Time) CheckIn {
	return CheckIn{
		ID:         uuid.New().String(),
		UserID:     userID,
		Emotion:    emotion,
		RecordedAt: at,
	}
}
