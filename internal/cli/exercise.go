package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hperssn/unibalance/internal/audio"
	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/exercise"
	"github.com/hperssn/unibalance/internal/runner"
	"github.com/hperssn/unibalance/internal/storage"
)

var (
	breatheMinutes int
	eyesBlink      bool
	readText       int
	readSpeed      int
	readQuiz       bool
)

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Guided breathing with inhale and exhale cues",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExercise(cmd.Context(), domain.KindBreathing, exercise.Options{Minutes: breatheMinutes})
	},
}

var eyesCmd = &cobra.Command{
	Use:   "eyes",
	Short: "One minute of eye movements, or blinking with --blink",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := domain.KindEyeMovement
		if eyesBlink {
			kind = domain.KindBlink
		}
		return runExercise(cmd.Context(), kind, exercise.Options{})
	},
}

var stretchCmd = &cobra.Command{
	Use:   "stretch",
	Short: "One minute of desk stretches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExercise(cmd.Context(), domain.KindStretching, exercise.Options{})
	},
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Flash a passage word by word, then check comprehension",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := exercise.Options{TextIndex: readText, WordsPerMinute: readSpeed}
		if err := runExercise(cmd.Context(), domain.KindSpeedReading, opts); err != nil {
			return err
		}
		if !readQuiz {
			return nil
		}
		return comprehension(readText)
	},
}

func init() {
	rootCmd.AddCommand(breatheCmd, eyesCmd, stretchCmd, readCmd)

	breatheCmd.Flags().IntVarP(&breatheMinutes, "minutes", "m", 1, fmt.Sprintf("Length of the session in minutes (%s)", minuteChoices()))
	eyesCmd.Flags().BoolVar(&eyesBlink, "blink", false, "Practice blinking instead of eye movements")
	readCmd.Flags().IntVarP(&readText, "text", "t", 0, "Passage to read")
	readCmd.Flags().IntVarP(&readSpeed, "wpm", "w", exercise.DefaultWordsPerMinute, "Words per minute")
	readCmd.Flags().BoolVar(&readQuiz, "quiz", true, "Ask the comprehension questions afterwards")
}

// runExercise plays one exercise to the end, or until interrupted.
func runExercise(ctx context.Context, kind domain.ExerciseKind, opts exercise.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	plan, err := exercise.Build(kind, opts)
	if err != nil {
		return err
	}

	repo := openRepo()
	if repo != nil {
		defer repo.Close()
	}

	finished := make(chan struct{}, 1)
	s := domain.NewSession("", userFlag, kind)
	r, err := runner.NewExerciseRunner(s, plan, runner.RunnerConfig{
		Player: &audio.Terminal{Out: os.Stdout},
		OnDone: func(s domain.Session, seconds int) {
			defer func() { finished <- struct{}{} }()
			if repo == nil {
				return
			}
			if err := repo.SaveExercise(storage.FromSession(s, seconds)); err != nil {
				fmt.Println("⚠️ Could not save this session:", err)
			}
		},
	})
	if err != nil {
		return err
	}
	defer r.Stop()

	if err := r.Start(); err != nil {
		return err
	}

	for {
		select {
		case e, ok := <-r.Events():
			if !ok {
				return nil
			}
			printEvent(e)
		case <-finished:
			// the completed event is already buffered
			for {
				select {
				case e := <-r.Events():
					printEvent(e)
				default:
					return nil
				}
			}
		case <-ctx.Done():
			fmt.Println("\n👋 Stopped.")
			return nil
		}
	}
}

func printEvent(e runner.Event) {
	switch e.Type {
	case runner.EventStarted:
		fmt.Printf("▶ %s\n", e.Clock)
	case runner.EventTick:
		fmt.Printf("\r⏱  %s ", e.Clock)
	case runner.EventPhase:
		if e.Phase != nil {
			fmt.Printf("\r%s\n", describePhase(e.Phase.Payload))
		}
	case runner.EventCompleted:
		if e.Message != "" {
			fmt.Printf("\n🎉 %s\n", e.Message)
		} else {
			fmt.Println("\n🎉 Done!")
		}
	}
}

func describePhase(payload any) string {
	switch p := payload.(type) {
	case string:
		return p
	case content.Direction:
		return p.Instruction
	case content.BlinkState:
		return p.Instruction
	case content.Stretch:
		return fmt.Sprintf("%s: %s", p.Name, p.Instructions)
	case exercise.Word:
		return fmt.Sprintf("%-20s [%d/%d]", p.Text, p.Position, p.Total)
	default:
		return fmt.Sprint(p)
	}
}

// minuteChoices lists the allowed breathing lengths as "1, 2, 3 or 5".
func minuteChoices() string {
	choices := content.BreathingSettings().MinuteChoices
	words := make([]string, len(choices))
	for i, m := range choices {
		words[i] = strconv.Itoa(m)
	}
	if len(words) < 2 {
		return strings.Join(words, "")
	}
	return strings.Join(words[:len(words)-1], ", ") + " or " + words[len(words)-1]
}
