package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// spreadsheetEpoch is day zero of the 1900 date system as used by every
// mainstream spreadsheet (the 1900 leap-year bug is folded into it)
var spreadsheetEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31
const maxSerial = 2958465

var isoLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
}

// slashDate matches DD/MM/YYYY with an optional ", HH:MM[:SS]" or " HH:MM[:SS]"
var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:,?\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)

// ParseDate converts a raw cell into an instant whose wall clock is in loc.
//
// Encodings are tried in order: a spreadsheet serial number, an ISO-like
// string, and DD/MM/YYYY with an optional time. Anything else is rejected
// rather than guessed.
func ParseDate(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	switch x := v.(type) {
	case float64:
		return fromSerial(x, loc)
	case int:
		return fromSerial(float64(x), loc)
	case int64:
		return fromSerial(float64(x), loc)
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.In(loc), true
	case string:
		return parseDateString(x, loc)
	}
	return time.Time{}, false
}

func fromSerial(serial float64, loc *time.Location) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial > maxSerial {
		return time.Time{}, false
	}

	days := math.Floor(serial)
	secs := int(math.Round((serial - days) * secondsPerDay))
	day := spreadsheetEpoch.AddDate(0, 0, int(days))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, secs, 0, loc), true
}

func parseDateString(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f, loc)
	}

	for _, l := range isoLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, s); err == nil {
				return t.In(loc), true
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t, true
		}
	}

	return parseSlashDate(s, loc)
}

func parseSlashDate(s string, loc *time.Location) (time.Time, bool) {
	m := slashDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	var hour, minute, second int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}

	if month < 1 || month > 12 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	// time.Date normalizes 31/02 into March; reject instead.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// CombineDateTime merges a date cell with a separate time-of-day cell.
// When the clock is missing or unreadable the parsed date is returned as is.
func CombineDateTime(date, clock any, loc *time.Location) (time.Time, bool) {
	d, ok := ParseDate(date, loc)
	if !ok {
		return time.Time{}, false
	}

	secs, ok := ParseTimeOfDay(clock)
	if !ok {
		return d, true
	}

	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return midnight.Add(time.Duration(secs) * time.Second), true
}
