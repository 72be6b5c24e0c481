package content

import "github.com/hperssn/unibalance/internal/domain"

// DefaultTheme is the key callers fall back to when a theme lookup misses.
func DefaultTheme() string {
	return trivia.DefaultTheme
}

func Themes() []Theme {
	out := make([]Theme, len(trivia.Themes))
	for i, t := range trivia.Themes {
		out[i] = copyTheme(t)
	}
	return out
}

func ThemeByKey(key string) (Theme, bool) {
	for _, t := range trivia.Themes {
		if t.Key == key {
			return copyTheme(t), true
		}
	}
	return Theme{}, false
}

// Questions returns the theme's questions, or nil when the theme is unknown.
func Questions(theme string) []Question {
	t, ok := ThemeByKey(theme)
	if !ok {
		return nil
	}
	return t.Questions
}

func ScoreMessage(c domain.FeedbackCategory) string {
	return trivia.ScoreMessages[string(c)]
}

// Recommendations picks the list for theme and category, or the generic list
// when either is missing.
func Recommendations(theme string, c domain.FeedbackCategory) []string {
	if byCat, ok := trivia.Recommendations[theme]; ok {
		if recs, ok := byCat[string(c)]; ok {
			return append([]string(nil), recs...)
		}
	}
	return append([]string(nil), trivia.FallbackRecommendations...)
}

func ReadingTexts() []ReadingText {
	out := make([]ReadingText, len(reading.Texts))
	for i, t := range reading.Texts {
		out[i] = copyText(t)
	}
	return out
}

func ReadingTextAt(idx int) (ReadingText, bool) {
	if idx < 0 || idx >= len(reading.Texts) {
		return ReadingText{}, false
	}
	return copyText(reading.Texts[idx]), true
}

func BreathingSettings() Breathing {
	b := exercises.Breathing
	b.MinuteChoices = append([]int(nil), b.MinuteChoices...)
	return b
}

func EyeDirections() ([]Direction, int) {
	return append([]Direction(nil), exercises.EyeDirections.Directions...), exercises.EyeDirections.StepMs
}

func BlinkStates() []BlinkState {
	return append([]BlinkState(nil), exercises.BlinkStates...)
}

func Stretches() []Stretch {
	out := make([]Stretch, len(exercises.Stretches))
	for i, s := range exercises.Stretches {
		s.Images = append([]string(nil), s.Images...)
		out[i] = s
	}
	return out
}

func Emotions() []Emotion {
	return append([]Emotion(nil), wellbeing.Emotions...)
}

func EmotionByKey(key string) (Emotion, bool) {
	for _, e := range wellbeing.Emotions {
		if e.Key == key {
			return e, true
		}
	}
	return Emotion{}, false
}

func Resources() []Resource {
	return append([]Resource(nil), wellbeing.Resources...)
}

func PresentationFeedback(category string) []string {
	return append([]string(nil), wellbeing.PresentationFeedback[category]...)
}

func copyTheme(t Theme) Theme {
	qs := make([]Question, len(t.Questions))
	for i, q := range t.Questions {
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}
	t.Questions = qs
	return t
}

func copyText(t ReadingText) ReadingText {
	qs := make([]ComprehensionQuestion, len(t.Questions))
	for i, q := range t.Questions {
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}
	t.Questions = qs
	return t
}
