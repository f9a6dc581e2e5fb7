package alerts

import (
	"testing"
	"time"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

func TestCheckQueueAlerts(t *testing.T) {
	queues := []types.QueueRollup{
		{Queue: "Suporte", Total: 100, AbandonRate: 25, AvgWaitSeconds: 90},
		{Queue: "Comercial", Total: 50, AbandonRate: 12.5, AvgWaitSeconds: 200},
		{Queue: "SAC", Total: 10, AbandonRate: 2, AvgWaitSeconds: 15},
		{Queue: "Empty"},
	}

	got := CheckQueueAlerts(queues, DefaultThresholds)

	want := []types.QueueAlert{
		{Queue: "Suporte", Rule: "abandon_rate", Severity: types.SeverityCritical, Message: "Abandon rate 25.0%"},
		{Queue: "Suporte", Rule: "avg_wait", Severity: types.SeverityWarning, Message: "Average wait 1m30s"},
		{Queue: "Comercial", Rule: "abandon_rate", Severity: types.SeverityWarning, Message: "Abandon rate 12.5%"},
		{Queue: "Comercial", Rule: "avg_wait", Severity: types.SeverityCritical, Message: "Average wait 3m20s"},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d alerts, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("alert %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestCheckQueueAlertsDisabledThresholds(t *testing.T) {
	queues := []types.QueueRollup{{Queue: "Suporte", Total: 10, AbandonRate: 90, AvgWaitSeconds: 3600}}

	if got := CheckQueueAlerts(queues, Thresholds{}); len(got) != 0 {
		t.Errorf("expected no alerts with zero thresholds, got %+v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0m0s"},
		{75, "1m15s"},
		{3600, "1h0m"},
		{5430, "1h30m"},
	}

	for _, tt := range tests {
		got := formatDuration(time.Duration(tt.secs) * time.Second)
		if got != tt.want {
			t.Errorf("formatDuration(%ds) = %s, want %s", tt.secs, got, tt.want)
		}
	}
}
