package types

// Window restricts aggregation to an inclusive range of calendar dates.
// Empty bounds are open.
type Window struct {
	Start string `json:"start,omitempty"` // YYYY-MM-DD
	End   string `json:"end,omitempty"`   // YYYY-MM-DD
}

// IsZero reports whether the window has no bounds at all
func (w Window) IsZero() bool {
	return w.Start == "" && w.End == ""
}

// KpiSummary contains the headline numbers for a set of records
type KpiSummary struct {
	Total            int     `json:"total"`
	Answered         int     `json:"answered"`
	Abandoned        int     `json:"abandoned"`
	Transferred      int     `json:"transferred"`
	AnswerRate       float64 `json:"answerRate"`  // 0-100%
	AbandonRate      float64 `json:"abandonRate"` // 0-100%
	AvgWaitSeconds   int     `json:"avgWaitSeconds"`
	AvgWait          string  `json:"avgWait"` // HH:MM:SS
	AvgHandleSeconds int     `json:"avgHandleSeconds"`
	AvgHandle        string  `json:"avgHandle"`    // HH:MM:SS
	ServiceLevel     float64 `json:"serviceLevel"` // 0-100%, answered within threshold
	Period           string  `json:"period"`
}

// OperatorRollup summarizes the answered contacts of one operator
type OperatorRollup struct {
	Operator         string  `json:"operator"`
	Answered         int     `json:"answered"`
	AvgHandleSeconds int     `json:"avgHandleSeconds"`
	AvgHandle        string  `json:"avgHandle"`
	AvgWaitSeconds   int     `json:"avgWaitSeconds"`
	AvgWait          string  `json:"avgWait"`
	BusiestQueue     string  `json:"busiestQueue"`
	PerDay           float64 `json:"perDay"`
	ActiveDays       int     `json:"activeDays"`
}

// QueueRollup summarizes all contacts routed to one queue
type QueueRollup struct {
	Queue            string  `json:"queue"`
	Total            int     `json:"total"`
	Answered         int     `json:"answered"`
	Abandoned        int     `json:"abandoned"`
	Transferred      int     `json:"transferred"`
	AbandonRate      float64 `json:"abandonRate"`
	AvgWaitSeconds   int     `json:"avgWaitSeconds"`
	AvgWait          string  `json:"avgWait"`
	AvgHandleSeconds int     `json:"avgHandleSeconds"`
	AvgHandle        string  `json:"avgHandle"`
}

// DailyPoint is one calendar day of the daily series
type DailyPoint struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Total       int    `json:"total"`
	Answered    int    `json:"answered"`
	Abandoned   int    `json:"abandoned"`
	Transferred int    `json:"transferred"`
}

// HourlyPoint is one hour-of-day bucket aggregated across all days
type HourlyPoint struct {
	Hour      int    `json:"hour"`  // 0-23
	Label     string `json:"label"` // "08:00"
	Total     int    `json:"total"`
	Answered  int    `json:"answered"`
	Abandoned int    `json:"abandoned"`
}

// HeatmapCell counts contacts for one weekday and two-hour bucket
type HeatmapCell struct {
	Weekday string `json:"weekday"` // "Mon".."Sun"
	Bucket  string `json:"bucket"`  // "08-10"
	Count   int    `json:"count"`
}

// TicketKpis holds the ticket-count weighted durations of a summary dataset
type TicketKpis struct {
	Queues               int    `json:"queues"`
	Tickets              int    `json:"tickets"`
	AvgFirstResponse     string `json:"avgFirstResponse"`
	AvgWait              string `json:"avgWait"`
	AvgHandle            string `json:"avgHandle"`
	AvgResolution        string `json:"avgResolution"`
	AvgResolutionSeconds int    `json:"avgResolutionSeconds"`
}

// AlertSeverity represents the severity of a queue alert
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// QueueAlert represents a threshold breach on a queue rollup
type QueueAlert struct {
	Queue    string        `json:"queue"`
	Rule     string        `json:"rule"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// Dashboard is the complete payload served to the presentation layer
type Dashboard struct {
	DatasetID string           `json:"datasetId"`
	Source    Source           `json:"source"`
	Fallback  bool             `json:"fallback"`
	Window    Window           `json:"window"`
	KPIs      KpiSummary       `json:"kpis"`
	Operators []OperatorRollup `json:"operators"`
	Queues    []QueueRollup    `json:"queues"`
	Daily     []DailyPoint     `json:"daily"`
	Hourly    []HourlyPoint    `json:"hourly"`
	Heatmap   [][]HeatmapCell  `json:"heatmap"`
	Alerts    []QueueAlert     `json:"alerts"`
	Tickets   *TicketKpis      `json:"tickets,omitempty"`
}
