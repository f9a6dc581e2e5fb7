// Package normalize turns the loosely typed cell values found in exported
// reports into seconds, instants and canonical outcomes. None of its
// functions panic or return errors; callers get a zero value plus ok=false.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 86400

// dayPrefix matches elapsed-day notation such as "2d 01:15:00"
var dayPrefix = regexp.MustCompile(`^\d+\s*d\s+(.+)$`)

// ParseDuration converts a raw cell into whole seconds.
//
// Encodings are tried in order: a numeric fraction of a day (how
// spreadsheets store times), an "MM:SS" or "HH:MM:SS" clock, and elapsed-day
// notation "Nd HH:MM:SS". For the latter only the clock part is used.
func ParseDuration(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return fractionOfDay(x)
	case float32:
		return fractionOfDay(float64(x))
	case int:
		return fractionOfDay(float64(x))
	case int64:
		return fractionOfDay(float64(x))
	case time.Duration:
		if x < 0 {
			return 0, true
		}
		return int(x / time.Second), true
	case string:
		return parseDurationString(x)
	}
	return 0, false
}

func parseDurationString(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fractionOfDay(f)
	}

	if secs, ok := parseElapsedClock(s); ok {
		return secs, true
	}

	// The day count is dropped; the source tools report the remainder only.
	if m := dayPrefix.FindStringSubmatch(s); m != nil {
		return parseElapsedClock(strings.TrimSpace(m[1]))
	}

	return 0, false
}

func fractionOfDay(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	secs := math.Round(v * secondsPerDay)
	if secs < 0 {
		return 0, true
	}
	return int(secs), true
}

// parseElapsedClock reads "MM:SS" or "HH:MM:SS" as an elapsed duration
func parseElapsedClock(s string) (int, bool) {
	nums, ok := clockParts(s)
	if !ok {
		return 0, false
	}

	var total float64
	if len(nums) == 2 {
		total = nums[0]*60 + nums[1]
	} else {
		total = nums[0]*3600 + nums[1]*60 + nums[2]
	}
	return int(math.Floor(total)), true
}

// ParseTimeOfDay reads a clock cell as seconds since midnight.
// Unlike ParseDuration, a two part clock is "HH:MM".
func ParseTimeOfDay(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		// Serial date-times carry the clock in the fraction.
		return fractionOfDay(x - math.Floor(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fractionOfDay(f - math.Floor(f))
		}
		nums, ok := clockParts(s)
		if !ok {
			return 0, false
		}
		total := nums[0]*3600 + nums[1]*60
		if len(nums) == 3 {
			total += nums[2]
		}
		if total >= secondsPerDay {
			return 0, false
		}
		return int(math.Floor(total)), true
	}
	return 0, false
}

func clockParts(s string) ([]float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, false
	}

	nums := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		nums[i] = f
	}
	return nums, true
}

// FormatSeconds renders seconds as a zero-padded HH:MM:SS string.
// Hours are not wrapped at 24.
func FormatSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
