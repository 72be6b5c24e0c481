package media

import (
	"math/rand"
	"time"
)

const (
	MeterInterval = 800 * time.Millisecond

	minLevel     = 0.1
	maxLevel     = 0.95
	startLevel   = 0.5
	maxLevelStep = 0.05
)

// VolumeMeter fakes an input level: a random walk of at most ±0.05 per
// step, clamped to [0.1, 0.95]. Not safe for concurrent use.
type VolumeMeter struct {
	rng   *rand.Rand
	level float64
}

func NewVolumeMeter(r *rand.Rand) *VolumeMeter {
	return &VolumeMeter{rng: r, level: startLevel}
}

func (m *VolumeMeter) Level() float64 {
	return m.level
}

func (m *VolumeMeter) Advance(steps int) float64 {
	for i := 0; i < steps; i++ {
		m.level += (m.rng.Float64()*2 - 1) * maxLevelStep
		if m.level < minLevel {
			m.level = minLevel
		}
		if m.level > maxLevel {
			m.level = maxLevel
		}
	}
	return m.level
}

func (m *VolumeMeter) Reset() {
	m.level = startLevel
}
