package scoring

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
)

const dateLayout = "2006-01-02"

type ChartPoint struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Average float64 `json:"average"`
}

type EmotionStats struct {
	TotalRecords      int     `json:"totalRecords"`
	AverageValue      float64 `json:"averageValue"`
	MostCommonEmotion string  `json:"mostCommonEmotion"`
}

type EmotionChart struct {
	Period int              `json:"period"`
	Points []ChartPoint     `json:"points"`
	Stats  *EmotionStats    `json:"stats"`
	Recent []domain.CheckIn `json:"recent"`
}

// FabricateCheckIns invents one random check-in per day for the given number
// of days ending today. The mood chart shows this when nothing was recorded.
func FabricateCheckIns(r *rand.Rand, userID string, now time.Time, days int) []domain.CheckIn {
	emotions := content.Emotions()
	day := startOfDay(now)

	out := make([]domain.CheckIn, 0, days)
	for i := 0; i < days; i++ {
		d := day.AddDate(0, 0, -(days - 1 - i))
		at := d.Add(time.Duration(r.Intn(24))*time.Hour + time.Duration(r.Intn(60))*time.Minute)
		e := emotions[r.Intn(len(emotions))]
		out = append(out, domain.NewCheckIn(userID, e.Key, at))
	}
	return out
}

// FilterPeriod keeps check-ins from the last period days, today included.
func FilterPeriod(checkIns []domain.CheckIn, now time.Time, period int) []domain.CheckIn {
	start := startOfDay(now).AddDate(0, 0, -(period - 1))
	end := startOfDay(now).AddDate(0, 0, 1)

	var out []domain.CheckIn
	for _, c := range checkIns {
		if !c.RecordedAt.Before(start) && c.RecordedAt.Before(end) {
			out = append(out, c)
		}
	}
	return out
}

func BuildChart(checkIns []domain.CheckIn, now time.Time, period int) EmotionChart {
	filtered := FilterPeriod(checkIns, now, period)
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RecordedAt.Before(filtered[j].RecordedAt)
	})

	grouped := map[string][]float64{}
	for _, c := range filtered {
		e, ok := content.EmotionByKey(c.Emotion)
		if !ok {
			continue
		}
		key := c.RecordedAt.Format(dateLayout)
		grouped[key] = append(grouped[key], e.Value)
	}

	dates := make([]string, 0, len(grouped))
	for d := range grouped {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]ChartPoint, 0, len(dates))
	for _, d := range dates {
		t, _ := time.Parse(dateLayout, d)
		points = append(points, ChartPoint{
			Date:    d,
			Label:   fmt.Sprintf("%d/%d", t.Day(), int(t.Month())),
			Average: mean(grouped[d]),
		})
	}

	recent := filtered
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	reversed := make([]domain.CheckIn, len(recent))
	for i, c := range recent {
		reversed[len(recent)-1-i] = c
	}

	return EmotionChart{
		Period: period,
		Points: points,
		Stats:  Stats(filtered),
		Recent: reversed,
	}
}

// Stats returns nil when there is nothing to summarise.
func Stats(checkIns []domain.CheckIn) *EmotionStats {
	if len(checkIns) == 0 {
		return nil
	}

	counts := map[string]int{}
	order := []string{}
	total := 0.0
	for _, c := range checkIns {
		e, _ := content.EmotionByKey(c.Emotion)
		if counts[c.Emotion] == 0 {
			order = append(order, c.Emotion)
		}
		counts[c.Emotion]++
		total += e.Value
	}

	most := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[most] {
			most = k
		}
	}

	return &EmotionStats{
		TotalRecords:      len(checkIns),
		AverageValue:      total / float64(len(checkIns)),
		MostCommonEmotion: most,
	}
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
