package aggregator

import (
	"fmt"
	"sort"
	"time"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

const (
	heatmapFirstHour  = 6
	heatmapBucketSize = 2
	heatmapBuckets    = 6
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ComputeDailySeries counts dated records per calendar day, oldest first
func ComputeDailySeries(records []types.Record) []types.DailyPoint {
	byDay := make(map[string]*types.DailyPoint)
	for _, r := range records {
		day := r.DateKey()
		if day == "" {
			continue
		}
		p, ok := byDay[day]
		if !ok {
			p = &types.DailyPoint{Date: day}
			byDay[day] = p
		}
		p.Total++
		switch r.Outcome {
		case types.OutcomeAnswered:
			p.Answered++
		case types.OutcomeAbandoned:
			p.Abandoned++
		case types.OutcomeTransferred:
			p.Transferred++
		}
	}

	out := make([]types.DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ComputeHourlySeries returns all 24 hours of the day, across every day
func ComputeHourlySeries(records []types.Record) []types.HourlyPoint {
	out := make([]types.HourlyPoint, 24)
	for h := range out {
		out[h] = types.HourlyPoint{Hour: h, Label: fmt.Sprintf("%02d:00", h)}
	}
	for _, r := range records {
		if !r.HasInstant() {
			continue
		}
		p := &out[r.StartedAt.Hour()]
		p.Total++
		switch r.Outcome {
		case types.OutcomeAnswered:
			p.Answered++
		case types.OutcomeAbandoned:
			p.Abandoned++
		}
	}
	return out
}

// ComputeHeatmap counts dated records per weekday (Mon first) and two-hour
// business bucket from 06:00 to 18:00. The grid is always 7x6; records
// outside business hours are not counted.
func ComputeHeatmap(records []types.Record) [][]types.HeatmapCell {
	grid := make([][]types.HeatmapCell, len(weekdayLabels))
	for d, label := range weekdayLabels {
		row := make([]types.HeatmapCell, heatmapBuckets)
		for b := range row {
			start := heatmapFirstHour + b*heatmapBucketSize
			row[b] = types.HeatmapCell{
				Weekday: label,
				Bucket:  fmt.Sprintf("%02d-%02d", start, start+heatmapBucketSize),
			}
		}
		grid[d] = row
	}

	for _, r := range records {
		if !r.HasInstant() {
			continue
		}
		b := (r.StartedAt.Hour() - heatmapFirstHour) / heatmapBucketSize
		if r.StartedAt.Hour() < heatmapFirstHour || b >= heatmapBuckets {
			continue
		}
		grid[mondayIndex(r.StartedAt.Weekday())][b].Count++
	}
	return grid
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
