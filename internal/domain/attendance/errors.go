package attendance

import "errors"

// Attendance domain errors
var (
	// Punch-in errors
	ErrOpenRecordExists = errors.New("an open attendance record already exists for this employee")
	ErrNoAssignedShift  = errors.New("employee has no assigned shift")

	// Punch-out errors
	ErrNoOpenRecord = errors.New("no open attendance record for this employee")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)
