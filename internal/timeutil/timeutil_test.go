package timeutil

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00"},
		{5.9, "00:05"},
		{125, "02:05"},
		{3725, "62:05"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0m 0s"},
		{45, "0m 45s"},
		{125, "2m 5s"},
		{3600, "1h 0m 0s"},
		{3725, "1h 2m 5s"},
		{3725.99, "1h 2m 5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeframe(t *testing.T) {
	for in, want := range map[string]Timeframe{
		"":        Daily,
		"daily":   Daily,
		"Weekly":  Weekly,
		"MONTHLY": Monthly,
		" all ":   All,
	} {
		got, err := ParseTimeframe(in)
		if err != nil {
			t.Errorf("ParseTimeframe(%q) unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTimeframe(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseTimeframe("yearly"); err == nil {
		t.Error("expected error for unknown timeframe")
	}
}

// TestStartDate pins each window boundary against a fixed local instant.
func TestStartDate(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)
	now := time.Date(2026, 3, 31, 15, 30, 0, 0, loc)

	tests := []struct {
		tf   Timeframe
		want time.Time
	}{
		{Daily, time.Date(2026, 3, 31, 0, 0, 0, 0, loc)},
		{Weekly, time.Date(2026, 3, 24, 15, 30, 0, 0, loc)},
		// AddDate normalizes Feb 31 to Mar 3, matching calendar-month rollover.
		{Monthly, time.Date(2026, 3, 3, 15, 30, 0, 0, loc)},
		{All, time.Unix(0, 0)},
		{"bogus", time.Date(2026, 3, 31, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		if got := StartDate(tt.tf, now); !got.Equal(tt.want) {
			t.Errorf("StartDate(%q) = %v, want %v", tt.tf, got, tt.want)
		}
	}
}

func TestTimeframeTitle(t *testing.T) {
	if got := Weekly.Title(); got != "Weekly" {
		t.Errorf("Title() = %q, want %q", got, "Weekly")
	}
}
