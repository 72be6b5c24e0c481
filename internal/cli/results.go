package cli

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hperssn/unibalance/internal/config"
	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
	httpapi "github.com/hperssn/unibalance/internal/http"
	"github.com/hperssn/unibalance/internal/scoring"
)

var (
	moodPeriod   int
	moodSimulate bool
	tokenTTL     time.Duration
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show history and statistics",
	Run: func(cmd *cobra.Command, args []string) {
		repo := openRepo()
		if repo == nil {
			return
		}
		defer repo.Close()

		stats, err := repo.GetStats(userFlag)
		if err != nil {
			fmt.Println("❌ Error fetching stats:", err)
			return
		}

		fmt.Printf("📊 Results for %s\n\n", userFlag)
		fmt.Printf("Exercises:      %d (%s total)\n", stats.TotalExercises, domain.FormatClock(stats.TotalSeconds))
		kinds := make([]string, 0, len(stats.ByKind))
		for k := range stats.ByKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("  %-14s %d\n", k, stats.ByKind[domain.ExerciseKind(k)])
		}
		fmt.Printf("Quizzes:        %d (average %.0f%%)\n", stats.QuizzesTaken, stats.AverageQuizScore)
		fmt.Printf("Mood check-ins: %d\n", stats.CheckIns)
	},
}

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Simulated voice analysis of a practice presentation",
	Run: func(cmd *cobra.Command, args []string) {
		a := scoring.NewAnalyzer(rand.New(rand.NewSource(time.Now().UnixNano()))).Analyze()

		fmt.Printf("%s Score: %d (%s)\n\n", a.Emoji, a.Score, a.Category)
		fmt.Printf("Volume:      %d%% %s\n", a.AverageVolume, a.VolumeLabel)
		fmt.Printf("Long pauses: %d %s\n", a.LongPauses, a.PausesLabel)
		fmt.Printf("Consistency: %d%% %s\n", a.Consistency, a.ConsistencyLabel)
		fmt.Printf("Energy:      %s\n\n", a.EnergyTrend)
		fmt.Println(a.Feedback)
	},
}

var moodCmd = &cobra.Command{
	Use:   "mood [emotion]",
	Short: "Record how you feel, or chart recent check-ins",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if moodPeriod != 7 && moodPeriod != 14 {
			return fmt.Errorf("period must be 7 or 14")
		}
		now := time.Now()

		repo := openRepo()
		if repo != nil {
			defer repo.Close()
		}

		if len(args) == 1 {
			e, ok := content.EmotionByKey(args[0])
			if !ok {
				return fmt.Errorf("unknown emotion %q", args[0])
			}
			if repo != nil {
				if err := repo.SaveCheckIn(domain.NewCheckIn(userFlag, e.Key, now)); err != nil {
					return err
				}
			}
			fmt.Printf("%s %s\n", e.Symbol, e.Feedback)
			if e.Critical {
				fmt.Println("\nYou do not have to handle this alone:")
				for _, r := range content.Resources() {
					fmt.Printf("  %s %s\n", r.Icon, r.Label)
				}
			}
			return nil
		}

		var checkIns []domain.CheckIn
		if moodSimulate {
			checkIns = scoring.FabricateCheckIns(rand.New(rand.NewSource(now.UnixNano())), userFlag, now, 14)
		} else if repo != nil {
			var err error
			if checkIns, err = repo.GetCheckIns(userFlag, now.AddDate(0, 0, -moodPeriod)); err != nil {
				return err
			}
		}

		printChart(scoring.BuildChart(checkIns, now, moodPeriod))
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for the user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		ttl := tokenTTL
		if ttl == 0 {
			ttl = cfg.Auth.TokenTTL
		}
		token, err := httpapi.IssueToken(cfg.Auth.JWTSecret, userFlag, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd, moodCmd, tokenCmd)
	resultsCmd.AddCommand(analysisCmd)

	moodCmd.Flags().IntVarP(&moodPeriod, "period", "p", 7, "Days to chart (7 or 14)")
	moodCmd.Flags().BoolVar(&moodSimulate, "simulate", false, "Chart invented check-ins")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to JWT_TTL)")
}

func printChart(c scoring.EmotionChart) {
	if c.Stats == nil {
		fmt.Printf("No check-ins in the last %d days.\n", c.Period)
		return
	}

	fmt.Printf("Mood over the last %d days\n\n", c.Period)
	for _, p := range c.Points {
		bar := strings.Repeat("█", int(p.Average*4))
		fmt.Printf("%6s %-20s %.1f\n", p.Label, bar, p.Average)
	}

	most, _ := content.EmotionByKey(c.Stats.MostCommonEmotion)
	fmt.Printf("\n%d check-ins, average %.1f, mostly %s %s\n",
		c.Stats.TotalRecords, c.Stats.AverageValue, most.Symbol, most.Label)
}
