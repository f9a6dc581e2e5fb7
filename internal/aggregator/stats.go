// Package aggregator derives KPIs, rollups, series and heatmaps from a set
// of canonical records. Every function is pure: it reads its input, never
// modifies it, and returns freshly allocated results.
package aggregator

import (
	"math"

	"github.com/dennisdiepolder/monti/analytics/internal/normalize"
)

// meanAccumulator averages positive durations; zeros mean "not measured"
type meanAccumulator struct {
	sum   int
	count int
}

func (m *meanAccumulator) add(secs int) {
	if secs > 0 {
		m.sum += secs
		m.count++
	}
}

func (m meanAccumulator) seconds() int {
	if m.count == 0 {
		return 0
	}
	return int(math.Round(float64(m.sum) / float64(m.count)))
}

func (m meanAccumulator) clock() string {
	return normalize.FormatSeconds(m.seconds())
}

// percent returns part/total as a percentage rounded to two decimals
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
