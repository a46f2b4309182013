package stay

import (
	"fmt"
	"time"
)

// Severity grades a length of stay for triage display. It is advisory UI
// metadata, not a business rule.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Thresholds are inclusive at the lower bound: exactly two hours is already
// a warning, exactly four is already critical.
const (
	warningAfter  = 2 * time.Hour
	criticalAfter = 4 * time.Hour
)

// Classification pairs the rendered stay clock with its severity grade.
type Classification struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Classify computes the stay elapsed between admission and now and grades it.
func Classify(now, admittedAt time.Time) Classification {
	elapsed := now.Sub(admittedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return Classification{
		Text:     FormatClock(elapsed),
		Severity: severityFor(elapsed),
	}
}

// ClassifyMillis is Classify over raw epoch-millisecond instants, the form
// the persisted patient record carries.
func ClassifyMillis(nowMillis, admittedAtMillis int64) Classification {
	return Classify(time.UnixMilli(nowMillis), time.UnixMilli(admittedAtMillis))
}

// FormatClock renders a duration as the fixed four-field dd:hh:mm:ss clock
// used by the ward display and the outbound event stream. The days field is
// rendered even when zero. Fields are whole units; no rounding occurs.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", days, hours, minutes, seconds)
}

func severityFor(elapsed time.Duration) Severity {
	switch {
	case elapsed >= criticalAfter:
		return SeverityCritical
	case elapsed >= warningAfter:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}
