package alerts

import (
	"fmt"
	"time"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// Thresholds configures the queue alert rules. A zero threshold disables
// that level.
type Thresholds struct {
	AbandonRateWarn     float64 // percent
	AbandonRateCritical float64 // percent
	AvgWaitWarnSecs     int
	AvgWaitCriticalSecs int
}

// DefaultThresholds mirrors the defaults in config
var DefaultThresholds = Thresholds{
	AbandonRateWarn:     10,
	AbandonRateCritical: 20,
	AvgWaitWarnSecs:     60,
	AvgWaitCriticalSecs: 180,
}

// CheckQueueAlerts evaluates the alert rules for every queue rollup. Alerts
// come out in rollup order, abandon rate before wait for each queue.
func CheckQueueAlerts(queues []types.QueueRollup, th Thresholds) []types.QueueAlert {
	alerts := make([]types.QueueAlert, 0)
	for _, q := range queues {
		if q.Total == 0 {
			continue
		}

		if sev, ok := severity(q.AbandonRate, th.AbandonRateWarn, th.AbandonRateCritical); ok {
			alerts = append(alerts, types.QueueAlert{
				Queue:    q.Queue,
				Rule:     "abandon_rate",
				Severity: sev,
				Message:  fmt.Sprintf("Abandon rate %.1f%%", q.AbandonRate),
			})
		}

		if sev, ok := severity(float64(q.AvgWaitSeconds), float64(th.AvgWaitWarnSecs), float64(th.AvgWaitCriticalSecs)); ok {
			alerts = append(alerts, types.QueueAlert{
				Queue:    q.Queue,
				Rule:     "avg_wait",
				Severity: sev,
				Message:  fmt.Sprintf("Average wait %s", formatDuration(time.Duration(q.AvgWaitSeconds)*time.Second)),
			})
		}
	}
	return alerts
}

func severity(value, warn, critical float64) (types.AlertSeverity, bool) {
	switch {
	case critical > 0 && value >= critical:
		return types.SeverityCritical, true
	case warn > 0 && value >= warn:
		return types.SeverityWarning, true
	}
	return "", false
}

func formatDuration(d time.Duration) string {
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if mins >= 60 {
		hours := mins / 60
		mins = mins % 60
		return fmt.Sprintf("%dh%dm", hours, mins)
	}
	return fmt.Sprintf("%dm%ds", mins, secs)
}
