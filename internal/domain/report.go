package domain

type FeedbackCategory string

const (
	FeedbackLow    FeedbackCategory = "low"
	FeedbackMedium FeedbackCategory = "medium"
	FeedbackHigh   FeedbackCategory = "high"
)

type ScoreReport struct {
	Percentage int              `json:"percentage"`
	Category   FeedbackCategory `json:"feedbackCategory"`
}

func CategoryFor(percentage int) FeedbackCategory {
	switch {
	case percentage < 60:
		return FeedbackLow
	case percentage < 80:
		return FeedbackMedium
	default:
		return FeedbackHigh
	}
}
