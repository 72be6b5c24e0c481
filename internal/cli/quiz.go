package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/quiz"
	"github.com/hperssn/unibalance/internal/scoring"
	"github.com/hperssn/unibalance/internal/storage"
)

var quizTheme string

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Answer a wellbeing trivia quiz",
	Long: `Answer a trivia quiz one question at a time. Each answer is
explained straight away and the score comes with recommendations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return playQuiz(cmd.Context(), bufio.NewReader(os.Stdin))
	},
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the quiz themes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range content.Themes() {
			marker := " "
			if t.Key == content.DefaultTheme() {
				marker = "*"
			}
			fmt.Printf("%s %-14s %s (%d questions)\n", marker, t.Key, t.Name, len(t.Questions))
		}
	},
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.AddCommand(themesCmd)
	quizCmd.Flags().StringVarP(&quizTheme, "theme", "t", content.DefaultTheme(), "Quiz theme")
}

func playQuiz(ctx context.Context, in *bufio.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	svc := quiz.NewService(quiz.NewMemoryStore())

	q, err := svc.Start(ctx, userFlag, quizTheme)
	if err != nil {
		return err
	}

	for {
		v, err := svc.Current(ctx, userFlag, q.ID)
		if err != nil {
			return err
		}

		fmt.Printf("\n[%d/%d] %s\n", v.Index+1, v.Total, v.Question.Text)
		pick, ok := choose(in, v.Question.Options)
		if !ok {
			fmt.Println("\n👋 Quiz abandoned.")
			return nil
		}
		if pick < 0 {
			fmt.Println("⚠️ Pick one of the numbers shown.")
			continue
		}

		res, err := svc.Answer(ctx, userFlag, q.ID, v.Question.Options[pick])
		if err != nil {
			return err
		}
		if res.IsCorrect {
			fmt.Println("✅ Correct!")
		} else {
			fmt.Printf("❌ The answer was %s.\n", res.CorrectAnswer)
		}
		fmt.Println("  ", res.Explanation)

		if res.Finished {
			break
		}
	}

	result, err := svc.Result(ctx, userFlag, q.ID)
	if err != nil {
		return err
	}
	printQuizResult(result)

	if repo := openRepo(); repo != nil {
		defer repo.Close()
		finished, err := svc.Get(ctx, userFlag, q.ID)
		if err == nil {
			err = repo.SaveQuiz(storage.FromQuiz(finished, result))
		}
		if err != nil {
			fmt.Println("⚠️ Could not save this quiz:", err)
		}
	}
	return nil
}

func printQuizResult(r scoring.QuizResult) {
	fmt.Println("\n========================================")
	trophy := ""
	if r.Trophy {
		trophy = " 🏆"
	}
	fmt.Printf("Score: %d/%d (%d%%)%s\n", r.Correct, r.Answered, r.Percentage, trophy)
	fmt.Println(r.Message)
	fmt.Println("========================================")
	if len(r.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		fmt.Println("  - " + strings.Join(r.Recommendations, "\n  - "))
	}
}

// comprehension asks the passage's questions after a speed-reading run.
func comprehension(textIndex int) error {
	text, ok := content.ReadingTextAt(textIndex)
	if !ok {
		text, _ = content.ReadingTextAt(0)
	}

	in := bufio.NewReader(os.Stdin)
	chosen := make([]int, 0, len(text.Questions))
	for i, q := range text.Questions {
		fmt.Printf("\n[%d/%d] %s\n", i+1, len(text.Questions), q.Text)
		pick, ok := choose(in, q.Options)
		if !ok {
			break
		}
		chosen = append(chosen, pick)
	}

	report := scoring.Comprehension(text, chosen)
	fmt.Printf("\nComprehension: %d%% (%s)\n", report.Percentage, report.Category)
	return nil
}
