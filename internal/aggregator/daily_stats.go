package aggregator

import (
	"sort"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

type dayQueue struct {
	day   string
	queue string
}

// ComputeDailyQueueStats rolls dated records up per day and queue for the
// archive. Undated records have no day to be filed under and are skipped.
func ComputeDailyQueueStats(records []types.Record, datasetID string, source types.Source) []types.DailyQueueStats {
	groups := make(map[dayQueue][]types.Record)
	for _, r := range records {
		day := r.DateKey()
		if day == "" {
			continue
		}
		k := dayQueue{day: day, queue: r.Queue}
		groups[k] = append(groups[k], r)
	}

	out := make([]types.DailyQueueStats, 0, len(groups))
	for k, rs := range groups {
		q := ComputeQueueRollups(rs)[0]
		out = append(out, types.DailyQueueStats{
			DateKey:          k.day,
			Queue:            k.queue,
			DatasetID:        datasetID,
			Source:           source,
			Total:            q.Total,
			Answered:         q.Answered,
			Abandoned:        q.Abandoned,
			Transferred:      q.Transferred,
			AbandonRate:      q.AbandonRate,
			AvgWaitSeconds:   q.AvgWaitSeconds,
			AvgHandleSeconds: q.AvgHandleSeconds,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DateKey != out[j].DateKey {
			return out[i].DateKey < out[j].DateKey
		}
		return out[i].Queue < out[j].Queue
	})
	return out
}
