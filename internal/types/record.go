package types

import "time"

// Outcome is the canonical result of a single contact attempt
type Outcome string

const (
	OutcomeAnswered    Outcome = "answered"
	OutcomeAbandoned   Outcome = "abandoned"
	OutcomeTransferred Outcome = "transferred"
)

// Channel is the medium a contact came in through
type Channel string

const (
	ChannelPhone  Channel = "phone"
	ChannelChat   Channel = "chat"
	ChannelTicket Channel = "ticket"
)

// Source identifies the platform export a dataset was read from
type Source string

const (
	SourcePhoneFixed    Source = "phone_fixed"    // small fixed-layout call table
	SourcePhoneWide     Source = "phone_wide"     // wide call workbook with a floating header
	SourceChatCSV       Source = "chat_csv"       // delimited chat export
	SourceTicketSummary Source = "ticket_summary" // per-queue ticket totals
	SourceSample        Source = "sample"         // generated fixture
)

// UnknownQueue is used when neither the row nor the filename names a queue
const UnknownQueue = "Unknown"

// UnknownRegion is used when a phone number has no known area prefix
const UnknownRegion = "Unknown"

// DateLayout is the calendar date format used for keys and window bounds
const DateLayout = "2006-01-02"

// Record is the canonical, source-agnostic shape of one contact attempt.
// Records are built once by a parser and never mutated afterwards.
type Record struct {
	ID            string     `json:"id"`
	Queue         string     `json:"queue"`
	Phone         string     `json:"phone,omitempty"`
	Outcome       Outcome    `json:"outcome"`
	StartedAt     *time.Time `json:"startedAt,omitempty"` // nil when the source date was unparseable
	WaitSeconds   int        `json:"waitSeconds"`
	HandleSeconds int        `json:"handleSeconds"`
	Operator      string     `json:"operator,omitempty"`
	Extension     string     `json:"extension,omitempty"`
	Region        string     `json:"region,omitempty"`
	Channel       Channel    `json:"channel"`
}

// HasInstant reports whether the record can take part in time-based views
func (r Record) HasInstant() bool {
	return r.StartedAt != nil && !r.StartedAt.IsZero()
}

// DateKey returns the record's local calendar date, or "" when undated
func (r Record) DateKey() string {
	if !r.HasInstant() {
		return ""
	}
	return r.StartedAt.Format(DateLayout)
}

// QueueSummary is one pre-aggregated row of a ticket summary export.
// Durations are per-ticket averages as reported by the source platform.
type QueueSummary struct {
	Queue                string `json:"queue"`
	Tickets              int    `json:"tickets"`
	FirstResponseSeconds int    `json:"firstResponseSeconds"`
	WaitSeconds          int    `json:"waitSeconds"`
	HandleSeconds        int    `json:"handleSeconds"`
	ResolutionSeconds    int    `json:"resolutionSeconds"`
}
