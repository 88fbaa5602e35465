package validator

import (
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidLocalDateTime checks a wall-clock timestamp without zone info,
// e.g. "2025-01-15 09:07:00". Used by the punch-time override seam.
func IsValidLocalDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02 15:04:05", dateTimeStr)
	return t, err == nil
}

// IsValidTimezone checks an IANA timezone name like "Asia/Jakarta".
func IsValidTimezone(name string) (*time.Location, bool) {
	if IsEmpty(name) {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	return loc, err == nil
}
