// Package timeutil formats elapsed seconds for display and resolves
// statistics timeframes to their start instants.
package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatTime renders seconds as zero-padded mm:ss, e.g. 125 -> "02:05".
// Minutes are not wrapped at an hour.
func FormatTime(seconds float64) string {
	total := wholeSeconds(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatDuration renders seconds as "1h 2m 5s", dropping the hour part when
// it is zero ("2m 5s").
func FormatDuration(seconds float64) string {
	total := wholeSeconds(seconds)
	minutes := total / 60
	hours := minutes / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes%60, total%60)
	}
	return fmt.Sprintf("%dm %ds", minutes, total%60)
}

func wholeSeconds(seconds float64) int64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int64(math.Floor(seconds))
}

// Timeframe is a statistics reporting window.
type Timeframe string

const (
	Daily   Timeframe = "daily"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
	All     Timeframe = "all"
)

// ParseTimeframe accepts the timeframe names case-insensitively. An empty
// string means daily.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case "":
		return Daily, nil
	case Daily, Weekly, Monthly, All:
		return tf, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q (want daily, weekly, monthly or all)", s)
	}
}

// StartDate returns the earliest log time included in tf, relative to now and
// in now's location. Unknown timeframes fall back to daily.
func StartDate(tf Timeframe, now time.Time) time.Time {
	switch tf {
	case Weekly:
		return now.AddDate(0, 0, -7)
	case Monthly:
		return now.AddDate(0, -1, 0)
	case All:
		return time.Unix(0, 0).In(now.Location())
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}

// Title capitalizes a timeframe for headings ("weekly" -> "Weekly").
func (tf Timeframe) Title() string {
	if tf == "" {
		return ""
	}
	return strings.ToUpper(string(tf[:1])) + string(tf[1:])
}
