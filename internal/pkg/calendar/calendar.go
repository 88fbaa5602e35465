// Package calendar answers day-count questions for payroll periods.
package calendar

import "time"

type Service interface {
	// DaysInMonth returns the number of calendar days in date's month.
	DaysInMonth(date time.Time) int
}

type gregorian struct{}

// NewGregorian builds the proleptic Gregorian calendar used for pay
// period day counts.
func NewGregorian() Service {
	return &gregorian{}
}

func (g *gregorian) DaysInMonth(date time.Time) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, date.Location()).Day()
}
