package model

import (
	"math"
	"time"

	"github.com/opencampus/worklog-backend/internal/apperr"
)

// TimeRange is a validated start/end timestamp pair. Construction guarantees
// end >= start, so duration math downstream never has to re-check ordering.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a TimeRange, rejecting zero timestamps and ranges that
// end before they start.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, apperr.Validation("time range requires both start and end")
	}
	if end.Before(start) {
		return TimeRange{}, apperr.Validation("end time must not be before start time")
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration returns the exact span of the range.
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Hours returns the span in fractional hours without rounding. Accumulation
// always happens on this value; rounding is reserved for the reporting
// boundary (RoundHours).
func (tr TimeRange) Hours() float64 {
	return tr.Duration().Seconds() / 3600
}

// RoundHours rounds a fractional-hours figure to one decimal place for
// reporting. Never apply it before summing.
func RoundHours(hours float64) float64 {
	return math.Round(hours*10) / 10
}

// RoundPercentage rounds a percentage figure to one decimal place.
func RoundPercentage(pct float64) float64 {
	return math.Round(pct*10) / 10
}
