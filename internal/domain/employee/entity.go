package employee

import "time"

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	ShiftID          *string
	EmploymentStatus EmploymentStatus
	// PayrollExempt employees are skipped by payroll runs (e.g. owners,
	// contractors invoiced separately).
	PayrollExempt bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)
