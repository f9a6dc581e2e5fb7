package aggregator

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/dennisdiepolder/monti/analytics/internal/normalize"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// ComputeWeightedAverage returns Σ weight·value / Σ weight in whole seconds.
// Rows with a zero weight or a zero value are left out of both sums.
func ComputeWeightedAverage[T any](rows []T, weight func(T) int, value func(T) int) int {
	var num, den float64
	for _, row := range rows {
		w, v := weight(row), value(row)
		if w <= 0 || v <= 0 {
			continue
		}
		num += float64(w) * float64(v)
		den += float64(w)
	}
	if den == 0 {
		return 0
	}
	return int(math.Round(num / den))
}

func tickets(s types.QueueSummary) int { return s.Tickets }

// ComputeTicketKpis weights each queue's reported averages by its ticket count
func ComputeTicketKpis(summaries []types.QueueSummary) types.TicketKpis {
	resolution := ComputeWeightedAverage(summaries, tickets, func(s types.QueueSummary) int { return s.ResolutionSeconds })
	return types.TicketKpis{
		Queues:               len(lo.UniqBy(summaries, func(s types.QueueSummary) string { return s.Queue })),
		Tickets:              lo.SumBy(summaries, tickets),
		AvgFirstResponse:     normalize.FormatSeconds(ComputeWeightedAverage(summaries, tickets, func(s types.QueueSummary) int { return s.FirstResponseSeconds })),
		AvgWait:              normalize.FormatSeconds(ComputeWeightedAverage(summaries, tickets, func(s types.QueueSummary) int { return s.WaitSeconds })),
		AvgHandle:            normalize.FormatSeconds(ComputeWeightedAverage(summaries, tickets, func(s types.QueueSummary) int { return s.HandleSeconds })),
		AvgResolution:        normalize.FormatSeconds(resolution),
		AvgResolutionSeconds: resolution,
	}
}

// ComputeSummaryKPIs is the KPI view of a ticket summary. Every summarized
// ticket is closed, so all of them count as answered.
func ComputeSummaryKPIs(summaries []types.QueueSummary) types.KpiSummary {
	total := lo.SumBy(summaries, tickets)
	wait := ComputeWeightedAverage(summaries, tickets, func(s types.QueueSummary) int { return s.WaitSeconds })
	handle := ComputeWeightedAverage(summaries, tickets, func(s types.QueueSummary) int { return s.HandleSeconds })
	return types.KpiSummary{
		Total:            total,
		Answered:         total,
		AnswerRate:       percent(total, total),
		AvgWaitSeconds:   wait,
		AvgWait:          normalize.FormatSeconds(wait),
		AvgHandleSeconds: handle,
		AvgHandle:        normalize.FormatSeconds(handle),
	}
}

// ComputeSummaryQueueRollups merges summary rows per queue, largest first.
// A queue listed twice has its averages weighted by each row's tickets.
func ComputeSummaryQueueRollups(summaries []types.QueueSummary) []types.QueueRollup {
	groups := lo.GroupBy(summaries, func(s types.QueueSummary) string { return s.Queue })
	order := lo.Uniq(lo.Map(summaries, func(s types.QueueSummary, _ int) string { return s.Queue }))

	out := make([]types.QueueRollup, 0, len(order))
	for _, q := range order {
		rows := groups[q]
		total := lo.SumBy(rows, tickets)
		wait := ComputeWeightedAverage(rows, tickets, func(s types.QueueSummary) int { return s.WaitSeconds })
		handle := ComputeWeightedAverage(rows, tickets, func(s types.QueueSummary) int { return s.HandleSeconds })
		out = append(out, types.QueueRollup{
			Queue:            q,
			Total:            total,
			Answered:         total,
			AvgWaitSeconds:   wait,
			AvgWait:          normalize.FormatSeconds(wait),
			AvgHandleSeconds: handle,
			AvgHandle:        normalize.FormatSeconds(handle),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}
