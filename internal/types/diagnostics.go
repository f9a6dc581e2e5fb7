package types

// Diagnostics describes how a single parse went: how many rows were read,
// how many were dropped and why, and how many fields fell back to defaults.
type Diagnostics struct {
	Source            Source         `json:"source"`
	TotalRows         int            `json:"totalRows"`
	Parsed            int            `json:"parsed"`
	Skipped           int            `json:"skipped"`
	SkipReasons       map[string]int `json:"skipReasons,omitempty"`
	UnparsedDates     int            `json:"unparsedDates"`
	UnparsedDurations int            `json:"unparsedDurations"`
	HeaderRow         int            `json:"headerRow"` // -1 when the layout has no header search
	Period            string         `json:"period,omitempty"`
}

// Skip records one dropped row
func (d *Diagnostics) Skip(reason string) {
	if d.SkipReasons == nil {
		d.SkipReasons = make(map[string]int)
	}
	d.Skipped++
	d.SkipReasons[reason]++
}
