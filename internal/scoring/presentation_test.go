package scoring

import (
	"math/rand"
	"testing"
)

func TestAnalyzeRanges(t *testing.T) {
	a := NewAnalyzer(rand.New(rand.NewSource(7)))

	for i := 0; i < 10000; i++ {
		r := a.Analyze()
		if r.Score < MinScore || r.Score > MaxScore {
			t.Fatalf("run %d: score %d outside [%d,%d]", i, r.Score, MinScore, MaxScore)
		}
		if r.LongPauses < 2 || r.LongPauses > 8 {
			t.Fatalf("run %d: long pauses %d outside [2,8]", i, r.LongPauses)
		}
		if r.PerformanceFactor < 0.2 || r.PerformanceFactor >= 1.0 {
			t.Fatalf("run %d: factor %f outside [0.2,1.0)", i, r.PerformanceFactor)
		}
		if r.Feedback == "" {
			t.Fatalf("run %d: empty feedback for category %s", i, r.Category)
		}
	}
}

func TestPerformanceFactorWeighting(t *testing.T) {
	a := NewAnalyzer(rand.New(rand.NewSource(42)))

	const n = 20000
	high, mid, low := 0, 0, 0
	for i := 0; i < n; i++ {
		f := a.performanceFactor()
		switch {
		case f >= 0.7:
			high++
		case f >= 0.4:
			mid++
		default:
			low++
		}
	}

	check := func(name string, got int, want float64) {
		share := float64(got) / n
		if share < want-0.02 || share > want+0.02 {
			t.Errorf("%s share = %.3f, want about %.2f", name, share, want)
		}
	}
	check("high", high, 0.70)
	check("mid", mid, 0.25)
	check("low", low, 0.05)
}

func TestDeriveAnalysisFormulas(t *testing.T) {
	r := deriveAnalysis(1.0, 2, rand.New(rand.NewSource(1)))

	if r.AverageVolume != 85 || r.Consistency != 95 {
		t.Fatalf("volume/consistency = %d/%d, want 85/95", r.AverageVolume, r.Consistency)
	}
	// 90 base plus both bonuses, clamped back to 90.
	if r.Score != 90 {
		t.Fatalf("score = %d, want 90", r.Score)
	}
	if r.Category != CategoryExcellent || r.EnergyTrend != TrendRising || r.Emoji != "🌟" {
		t.Fatalf("got %s/%s/%s", r.Category, r.EnergyTrend, r.Emoji)
	}

	r = deriveAnalysis(0.2, 8, rand.New(rand.NewSource(1)))
	if r.Score != MinScore {
		t.Fatalf("score = %d, want %d", r.Score, MinScore)
	}
	if r.Category != CategoryNeedsWork {
		t.Fatalf("category = %s, want %s", r.Category, CategoryNeedsWork)
	}
}

func TestLabels(t *testing.T) {
	if VolumeLabel(71) != "High" || VolumeLabel(56) != "Medium" || VolumeLabel(55) != "Low" {
		t.Errorf("volume labels wrong")
	}
	if PausesLabel(7) != "Many" || PausesLabel(5) != "Some" || PausesLabel(3) != "Few" || PausesLabel(2) != "Minimal" {
		t.Errorf("pauses labels wrong")
	}
	if ConsistencyLabel(81) != "Excellent" || ConsistencyLabel(60) != "Needs improvement" {
		t.Errorf("consistency labels wrong")
	}
}
