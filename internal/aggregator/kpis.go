package aggregator

import (
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// ComputeKPIs returns the headline numbers for records. Averages skip zero
// durations. ServiceLevel is left for Build, which knows the threshold.
func ComputeKPIs(records []types.Record) types.KpiSummary {
	var k types.KpiSummary
	var wait, handle meanAccumulator

	for _, r := range records {
		k.Total++
		switch r.Outcome {
		case types.OutcomeAnswered:
			k.Answered++
		case types.OutcomeAbandoned:
			k.Abandoned++
		case types.OutcomeTransferred:
			k.Transferred++
		}
		wait.add(r.WaitSeconds)
		handle.add(r.HandleSeconds)
	}

	k.AnswerRate = percent(k.Answered, k.Total)
	k.AbandonRate = percent(k.Abandoned, k.Total)
	k.AvgWaitSeconds = wait.seconds()
	k.AvgWait = wait.clock()
	k.AvgHandleSeconds = handle.seconds()
	k.AvgHandle = handle.clock()
	k.Period = PeriodLabel(records)
	return k
}

// PeriodLabel describes the span of dated records as "first to last",
// or "" when no record carries a date
func PeriodLabel(records []types.Record) string {
	var first, last string
	for _, r := range records {
		day := r.DateKey()
		if day == "" {
			continue
		}
		if first == "" || day < first {
			first = day
		}
		if day > last {
			last = day
		}
	}
	if first == "" {
		return ""
	}
	return first + " to " + last
}
