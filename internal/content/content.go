// Package content holds the read-only tables behind the exercises: trivia
// themes, reading passages, exercise steps and wellbeing texts. The tables
// are parsed once from embedded YAML and never mutated; every accessor
// returns a copy.
package content

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

type Question struct {
	Text          string   `yaml:"text" json:"text"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer string   `yaml:"correct_answer" json:"-"`
	Explanation   string   `yaml:"explanation" json:"-"`
	Difficulty    string   `yaml:"difficulty" json:"difficulty"`
}

type Theme struct {
	Key       string     `yaml:"key" json:"key"`
	Name      string     `yaml:"name" json:"name"`
	Questions []Question `yaml:"questions" json:"-"`
}

type ComprehensionQuestion struct {
	Text          string   `yaml:"text" json:"text"`
	Options       []string `yaml:"options" json:"options"`
	CorrectOption int      `yaml:"correct_option" json:"-"`
}

type ReadingText struct {
	Title      string                  `yaml:"title" json:"title"`
	Content    string                  `yaml:"content" json:"content"`
	Difficulty string                  `yaml:"difficulty" json:"difficulty"`
	Questions  []ComprehensionQuestion `yaml:"questions" json:"questions"`
}

type BreathPhase struct {
	Label      string `yaml:"label" json:"label"`
	DurationMs int    `yaml:"duration_ms" json:"durationMs"`
}

type Breathing struct {
	Inhale            BreathPhase `yaml:"inhale"`
	Exhale            BreathPhase `yaml:"exhale"`
	AmbientTrack      string      `yaml:"ambient_track"`
	FinishCue         string      `yaml:"finish_cue"`
	CompletionMessage string      `yaml:"completion_message"`
	MinuteChoices     []int       `yaml:"minute_choices"`
}

type Direction struct {
	Name        string `yaml:"name" json:"name"`
	Instruction string `yaml:"instruction" json:"instruction"`
	Image       string `yaml:"image" json:"image"`
}

type BlinkState struct {
	Name        string `yaml:"name" json:"name"`
	Instruction string `yaml:"instruction" json:"instruction"`
	Image       string `yaml:"image" json:"image"`
	DurationMs  int    `yaml:"duration_ms" json:"-"`
}

type Stretch struct {
	ID           int      `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Instructions string   `yaml:"instructions" json:"instructions"`
	DurationSec  int      `yaml:"duration_sec" json:"durationSec"`
	Images       []string `yaml:"images" json:"images"`
}

type Emotion struct {
	Key      string  `yaml:"key" json:"key"`
	Symbol   string  `yaml:"symbol" json:"symbol"`
	Label    string  `yaml:"label" json:"label"`
	Value    float64 `yaml:"value" json:"value"`
	Feedback string  `yaml:"feedback" json:"feedback"`
	Critical bool    `yaml:"critical" json:"critical"`
}

type Resource struct {
	Icon  string `yaml:"icon" json:"icon"`
	Label string `yaml:"label" json:"label"`
}

type triviaFile struct {
	DefaultTheme            string                         `yaml:"default_theme"`
	Themes                  []Theme                        `yaml:"themes"`
	ScoreMessages           map[string]string              `yaml:"score_messages"`
	Recommendations         map[string]map[string][]string `yaml:"recommendations"`
	FallbackRecommendations []string                       `yaml:"fallback_recommendations"`
}

type readingFile struct {
	Texts []ReadingText `yaml:"texts"`
}

type exercisesFile struct {
	Breathing     Breathing `yaml:"breathing"`
	EyeDirections struct {
		StepMs     int         `yaml:"step_ms"`
		Directions []Direction `yaml:"directions"`
	} `yaml:"eye_directions"`
	BlinkStates []BlinkState `yaml:"blink_states"`
	Stretches   []Stretch    `yaml:"stretches"`
}

type wellbeingFile struct {
	Emotions             []Emotion           `yaml:"emotions"`
	Resources            []Resource          `yaml:"resources"`
	PresentationFeedback map[string][]string `yaml:"presentation_feedback"`
}

var (
	trivia    = mustLoad[triviaFile]("data/trivia.yaml")
	reading   = mustLoad[readingFile]("data/reading.yaml")
	exercises = mustLoad[exercisesFile]("data/exercises.yaml")
	wellbeing = mustLoad[wellbeingFile]("data/wellbeing.yaml")
)

func mustLoad[T any](name string) T {
	var v T
	raw, err := files.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("content: read %s: %v", name, err))
	}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		panic(fmt.Sprintf("content: parse %s: %v", name, err))
	}
	return v
}
