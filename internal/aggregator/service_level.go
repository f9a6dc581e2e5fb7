package aggregator

import "github.com/dennisdiepolder/monti/analytics/internal/types"

// DefaultServiceLevelThreshold is the usual 80/20 industry threshold in seconds
const DefaultServiceLevelThreshold = 20

// slTracker counts answered contacts against a wait threshold
type slTracker struct {
	thresholdSecs int
	answeredInSL  int
	totalAnswered int
}

func (s *slTracker) recordAnswer(waitSecs int) {
	s.totalAnswered++
	if waitSecs <= s.thresholdSecs {
		s.answeredInSL++
	}
}

// current returns the service level percentage; nothing answered counts as 100%
func (s *slTracker) current() float64 {
	if s.totalAnswered == 0 {
		return 100.0
	}
	return round2(float64(s.answeredInSL) / float64(s.totalAnswered) * 100.0)
}

// ComputeServiceLevel returns the share of answered records that waited at
// most thresholdSecs
func ComputeServiceLevel(records []types.Record, thresholdSecs int) float64 {
	sl := slTracker{thresholdSecs: thresholdSecs}
	for _, r := range records {
		if r.Outcome == types.OutcomeAnswered {
			sl.recordAnswer(r.WaitSeconds)
		}
	}
	return sl.current()
}
