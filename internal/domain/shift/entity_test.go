package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func wallClock(hour, minute int) time.Time {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
}

func TestWindow_DayShift(t *testing.T) {
	s := Shift{FromTime: wallClock(9, 0), ToTime: wallClock(18, 0)}
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	start, end := s.Window(date, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC), end)
}

func TestWindow_OvernightShift(t *testing.T) {
	s := Shift{FromTime: wallClock(22, 0), ToTime: wallClock(6, 0)}
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	start, end := s.Window(date, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 15, 22, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 16, 6, 0, 0, 0, time.UTC), end, "end must roll over to the next day")
}

func TestWindow_InLocation(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	assert.NoError(t, err)

	s := Shift{FromTime: wallClock(9, 0), ToTime: wallClock(18, 0)}
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, jakarta)

	start, _ := s.Window(date, jakarta)

	// 09:00 WIB is 02:00 UTC.
	assert.Equal(t, time.Date(2025, 1, 15, 2, 0, 0, 0, time.UTC), start.UTC())
}

func TestMargins(t *testing.T) {
	s := Shift{PunchInMarginMinutes: 10, PunchOutMarginMinutes: 15}

	assert.Equal(t, 10*time.Minute, s.PunchInMargin())
	assert.Equal(t, 15*time.Minute, s.PunchOutMargin())
}
