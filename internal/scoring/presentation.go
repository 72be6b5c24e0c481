package scoring

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hperssn/unibalance/internal/content"
)

// Analysis is the simulated voice report shown after a practice
// presentation. None of it is measured; every figure derives from one random
// performance factor.
type Analysis struct {
	PerformanceFactor float64 `json:"performanceFactor"`
	LongPauses        int     `json:"longPauses"`
	AverageVolume     int     `json:"averageVolume"`
	Consistency       int     `json:"consistency"`
	EnergyTrend       string  `json:"energyTrend"`
	Score             int     `json:"score"`
	Category          string  `json:"category"`
	Feedback          string  `json:"feedback"`
	Emoji             string  `json:"emoji"`
	VolumeLabel       string  `json:"volumeLabel"`
	PausesLabel       string  `json:"pausesLabel"`
	ConsistencyLabel  string  `json:"consistencyLabel"`
}

const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
)

const (
	CategoryExcellent = "excellent"
	CategoryGood      = "good"
	CategoryAverage   = "average"
	CategoryNeedsWork = "needs-work"
)

const (
	MinScore = 60
	MaxScore = 90
)

type Analyzer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewAnalyzer(r *rand.Rand) *Analyzer {
	return &Analyzer{rng: r}
}

func (a *Analyzer) Analyze() Analysis {
	a.mu.Lock()
	defer a.mu.Unlock()

	f := a.performanceFactor()
	pauses := a.longPauses(f)
	return deriveAnalysis(f, pauses, a.rng)
}

// performanceFactor draws from 70% [0.7,1.0), 25% [0.4,0.7), 5% [0.2,0.4).
func (a *Analyzer) performanceFactor() float64 {
	v := a.rng.Float64()
	switch {
	case v < 0.70:
		return 0.7 + a.rng.Float64()*0.3
	case v < 0.95:
		return 0.4 + a.rng.Float64()*0.3
	default:
		return 0.2 + a.rng.Float64()*0.2
	}
}

func (a *Analyzer) longPauses(f float64) int {
	lo, hi := 5, 8
	switch {
	case f > 0.7:
		lo, hi = 2, 4
	case f > 0.4:
		lo, hi = 3, 6
	}
	return lo + a.rng.Intn(hi-lo+1)
}

func deriveAnalysis(f float64, pauses int, rng *rand.Rand) Analysis {
	penalty := float64(pauses-2) / 6

	volume := int(math.Floor((45 + f*40) * (1 - penalty*0.3)))
	consistency := int(math.Floor((60 + f*35) * (1 - penalty*0.4)))

	raw := f*30 + 60 - float64(pauses-2)*2
	if volume > 65 {
		raw += 2
	}
	if consistency > 80 {
		raw += 3
	}
	score := clamp(int(math.Floor(raw)), MinScore, MaxScore)

	category := feedbackCategory(score, pauses)
	options := content.PresentationFeedback(category)
	feedback := ""
	if len(options) > 0 {
		feedback = options[rng.Intn(len(options))]
	}

	return Analysis{
		PerformanceFactor: f,
		LongPauses:        pauses,
		AverageVolume:     volume,
		Consistency:       consistency,
		EnergyTrend:       energyTrend(volume),
		Score:             score,
		Category:          category,
		Feedback:          feedback,
		Emoji:             scoreEmoji(score),
		VolumeLabel:       VolumeLabel(volume),
		PausesLabel:       PausesLabel(pauses),
		ConsistencyLabel:  ConsistencyLabel(consistency),
	}
}

func energyTrend(volume int) string {
	switch {
	case volume > 70:
		return TrendRising
	case volume < 55:
		return TrendFalling
	default:
		return TrendStable
	}
}

func feedbackCategory(score, pauses int) string {
	switch {
	case score >= 80 && pauses <= 4:
		return CategoryExcellent
	case score >= 70 && pauses <= 6:
		return CategoryGood
	case score >= 60 && pauses <= 7:
		return CategoryAverage
	default:
		return CategoryNeedsWork
	}
}

func scoreEmoji(score int) string {
	switch {
	case score >= 85:
		return "🌟"
	case score >= 75:
		return "🎯"
	case score >= 65:
		return "👍"
	default:
		return "📈"
	}
}

func VolumeLabel(volume int) string {
	switch {
	case volume > 70:
		return "High"
	case volume > 55:
		return "Medium"
	default:
		return "Low"
	}
}

func PausesLabel(pauses int) string {
	switch {
	case pauses > 6:
		return "Many"
	case pauses > 4:
		return "Some"
	case pauses > 2:
		return "Few"
	default:
		return "Minimal"
	}
}

func ConsistencyLabel(consistency int) string {
	switch {
	case consistency > 80:
		return "Excellent"
	case consistency > 70:
		return "Good"
	case consistency > 60:
		return "Fair"
	default:
		return "Needs improvement"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
