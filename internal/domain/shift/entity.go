package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shift is administrator-edited reference data; the engine only reads it.
// FromTime and ToTime carry wall-clock values, their date parts are
// ignored. A ToTime earlier than FromTime means the shift crosses
// midnight.
type Shift struct {
	ID                    string
	Name                  string
	FromTime              time.Time
	ToTime                time.Time
	PunchInMarginMinutes  int
	PunchOutMarginMinutes int
	HalfDayThresholdHours decimal.Decimal
	ScheduledHours        decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Window anchors the shift's wall-clock boundaries on the given calendar
// date in loc and returns absolute start/end instants. For overnight
// shifts the end is advanced by one day.
func (s Shift) Window(date time.Time, loc *time.Location) (start, end time.Time) {
	start = time.Date(date.Year(), date.Month(), date.Day(),
		s.FromTime.Hour(), s.FromTime.Minute(), s.FromTime.Second(), 0, loc)
	end = time.Date(date.Year(), date.Month(), date.Day(),
		s.ToTime.Hour(), s.ToTime.Minute(), s.ToTime.Second(), 0, loc)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// PunchInMargin returns the grace window for late arrivals.
func (s Shift) PunchInMargin() time.Duration {
	return time.Duration(s.PunchInMarginMinutes) * time.Minute
}

// PunchOutMargin returns the grace window after scheduled shift end.
func (s Shift) PunchOutMargin() time.Duration {
	return time.Duration(s.PunchOutMarginMinutes) * time.Minute
}
