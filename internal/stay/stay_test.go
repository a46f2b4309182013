package stay_test

import (
	"strings"
	"testing"
	"time"

	"ewms/internal/stay"
)

func TestFormatClockRendersFixedFourFields(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"zero", 0, "00:00:00:00"},
		{"seconds only", 42 * time.Second, "00:00:00:42"},
		{"just under a minute", 59*time.Second + 900*time.Millisecond, "00:00:00:59"},
		{"one hour one minute one second", time.Hour + time.Minute + time.Second, "00:01:01:01"},
		{"just under a day", 23*time.Hour + 59*time.Minute + 59*time.Second, "00:23:59:59"},
		{"over a day", 25 * time.Hour, "01:01:00:00"},
		{"negative clamps", -5 * time.Minute, "00:00:00:00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stay.FormatClock(tc.elapsed); got != tc.want {
				t.Fatalf("FormatClock(%v) = %q, want %q", tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestClassifySeverityThresholds(t *testing.T) {
	admitted := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want stay.Severity
	}{
		{"fresh admission", admitted, stay.SeverityNormal},
		{"just under two hours", admitted.Add(2*time.Hour - time.Second), stay.SeverityNormal},
		{"exactly two hours", admitted.Add(2 * time.Hour), stay.SeverityWarning},
		{"just under four hours", admitted.Add(4*time.Hour - time.Second), stay.SeverityWarning},
		{"exactly four hours", admitted.Add(4 * time.Hour), stay.SeverityCritical},
		{"well past critical", admitted.Add(30 * time.Hour), stay.SeverityCritical},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := stay.Classify(tc.now, admitted)
			if got.Severity != tc.want {
				t.Fatalf("Classify severity = %q, want %q", got.Severity, tc.want)
			}
		})
	}
}

func TestClassifyAtAdmissionInstant(t *testing.T) {
	now := time.Now()
	got := stay.Classify(now, now)
	if got.Text != "00:00:00:00" {
		t.Fatalf("text = %q, want 00:00:00:00", got.Text)
	}
	if got.Severity != stay.SeverityNormal {
		t.Fatalf("severity = %q, want normal", got.Severity)
	}
}

func TestClassifyMillisDayRollover(t *testing.T) {
	const base = int64(1_700_000_000_000)
	got := stay.ClassifyMillis(base+90_000_000, base)
	if !strings.HasPrefix(got.Text, "01:") {
		t.Fatalf("text = %q, want day field 01", got.Text)
	}
}

func TestClassifyClockSkewClampsToZero(t *testing.T) {
	now := time.Now()
	got := stay.Classify(now, now.Add(10*time.Minute))
	if got.Text != "00:00:00:00" || got.Severity != stay.SeverityNormal {
		t.Fatalf("skewed classify = %+v, want zero clock and normal severity", got)
	}
}
