package scoring

import (
	"math"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
)

// TrophyThreshold is the quiz percentage that earns a trophy.
const TrophyThreshold = 70

type QuizResult struct {
	domain.ScoreReport
	Correct         int      `json:"correct"`
	Answered        int      `json:"answered"`
	Trophy          bool     `json:"trophy"`
	Message         string   `json:"message"`
	Recommendations []string `json:"recommendations"`
}

func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func ScoreAnswers(answers []domain.Answer) domain.ScoreReport {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	pct := Percentage(correct, len(answers))
	return domain.ScoreReport{Percentage: pct, Category: domain.CategoryFor(pct)}
}

// QuizFeedback scores a session and looks up the fixed message and the
// theme's recommendations for its category.
func QuizFeedback(q *domain.QuizSession) QuizResult {
	report := ScoreAnswers(q.Answers)
	return QuizResult{
		ScoreReport:     report,
		Correct:         q.CorrectCount(),
		Answered:        len(q.Answers),
		Trophy:          report.Percentage >= TrophyThreshold,
		Message:         content.ScoreMessage(report.Category),
		Recommendations: content.Recommendations(q.Theme, report.Category),
	}
}

// Comprehension scores a reading check against the number of questions in
// the passage, so unanswered questions count as wrong.
func Comprehension(text content.ReadingText, chosen []int) domain.ScoreReport {
	correct := 0
	for i, q := range text.Questions {
		if i < len(chosen) && chosen[i] == q.CorrectOption {
			correct++
		}
	}
	if len(chosen) == 0 {
		return domain.ScoreReport{Percentage: 0, Category: domain.FeedbackLow}
	}
	pct := Percentage(correct, len(text.Questions))
	return domain.ScoreReport{Percentage: pct, Category: domain.CategoryFor(pct)}
}
