package aggregator

import (
	"github.com/dennisdiepolder/monti/analytics/internal/alerts"
	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// Options tune the derived views of a dashboard
type Options struct {
	ServiceLevelThreshold int // seconds
	Alerts                alerts.Thresholds
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		ServiceLevelThreshold: DefaultServiceLevelThreshold,
		Alerts:                alerts.DefaultThresholds,
	}
}

// Build computes every view of ds restricted to window. Ticket summary
// datasets carry no dates, so the window does not apply to them and their
// time series stay empty.
func Build(ds *dataset.Dataset, window types.Window, opts Options) types.Dashboard {
	records := WindowRecords(ds, window)

	d := types.Dashboard{
		DatasetID: ds.ID(),
		Source:    ds.Source(),
		Fallback:  ds.Fallback(),
		Window:    window,
		Operators: ComputeOperatorRollups(records),
		Queues:    BuildQueues(ds, records),
		Daily:     ComputeDailySeries(records),
		Hourly:    ComputeHourlySeries(records),
		Heatmap:   ComputeHeatmap(records),
	}
	d.KPIs, d.Tickets = BuildKPIs(ds, records, opts)
	d.Alerts = alerts.CheckQueueAlerts(d.Queues, opts.Alerts)
	return d
}

// WindowRecords returns the records of ds inside window. Summary datasets
// have no records.
func WindowRecords(ds *dataset.Dataset, window types.Window) []types.Record {
	if ds.IsSummary() {
		return nil
	}
	return FilterWindow(ds.Records(), window)
}

// BuildKPIs returns the KPI view. records must come from WindowRecords.
// Summary datasets also get their ticket block.
func BuildKPIs(ds *dataset.Dataset, records []types.Record, opts Options) (types.KpiSummary, *types.TicketKpis) {
	if ds.IsSummary() {
		summaries := ds.Summaries()
		tk := ComputeTicketKpis(summaries)
		kpis := ComputeSummaryKPIs(summaries)
		kpis.ServiceLevel = 100
		kpis.Period = ds.Diagnostics().Period
		return kpis, &tk
	}
	kpis := ComputeKPIs(records)
	kpis.ServiceLevel = ComputeServiceLevel(records, opts.ServiceLevelThreshold)
	return kpis, nil
}

// BuildQueues returns the queue rollups. records must come from WindowRecords.
func BuildQueues(ds *dataset.Dataset, records []types.Record) []types.QueueRollup {
	if ds.IsSummary() {
		return ComputeSummaryQueueRollups(ds.Summaries())
	}
	return ComputeQueueRollups(records)
}
