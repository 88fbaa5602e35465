package attendance

import (
	"github.com/kelolahr/hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// PunchInRequest records the start of a workday. OverrideLocalTime and
// OverrideTimezone form a test-only clock seam: a wall-clock timestamp
// ("2006-01-02 15:04:05") plus an IANA timezone. Production callers leave
// both empty and the service clock is authoritative.
type PunchInRequest struct {
	EmployeeID        string  `json:"employee_id"`
	OverrideLocalTime *string `json:"override_local_time,omitempty"`
	OverrideTimezone  *string `json:"override_timezone,omitempty"`
}

func (r *PunchInRequest) Validate() error {
	return validatePunch(r.EmployeeID, r.OverrideLocalTime, r.OverrideTimezone)
}

type PunchOutRequest struct {
	EmployeeID        string  `json:"employee_id"`
	OverrideLocalTime *string `json:"override_local_time,omitempty"`
	OverrideTimezone  *string `json:"override_timezone,omitempty"`
}

func (r *PunchOutRequest) Validate() error {
	return validatePunch(r.EmployeeID, r.OverrideLocalTime, r.OverrideTimezone)
}

func validatePunch(employeeID string, overrideTime, overrideTZ *string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if overrideTime != nil {
		if _, ok := validator.IsValidLocalDateTime(*overrideTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "override_local_time",
				Message: "must be formatted as YYYY-MM-DD HH:MM:SS",
			})
		}
		if overrideTZ == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "override_timezone",
				Message: "override_timezone is required when override_local_time is set",
			})
		}
	}
	if overrideTZ != nil {
		if _, ok := validator.IsValidTimezone(*overrideTZ); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "override_timezone",
				Message: "must be a valid IANA timezone name",
			})
		}
		if overrideTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "override_local_time",
				Message: "override_local_time is required when override_timezone is set",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchInResponse struct {
	AttendanceID     string `json:"attendance_id"`
	AttendanceStatus string `json:"attendance_status"`
	Date             string `json:"date"`
	PunchIn          string `json:"punch_in"`
}

type PunchOutResponse struct {
	AttendanceID string          `json:"attendance_id"`
	HoursWorked  decimal.Decimal `json:"hours_worked"`
	PayType      *string         `json:"pay_type"`
	PunchOut     string          `json:"punch_out"`
}

type PeriodFilter struct {
	EmployeeID string `json:"employee_id"`
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
}

func (f *PeriodFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	from, okFrom := validator.IsValidDate(f.FromDate)
	if !okFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "must be formatted as YYYY-MM-DD",
		})
	}
	to, okTo := validator.IsValidDate(f.ToDate)
	if !okTo {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "must be formatted as YYYY-MM-DD",
		})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "must not be before from_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID             string           `json:"id"`
	EmployeeID     string           `json:"employee_id"`
	Date           string           `json:"date"`
	ShiftID        string           `json:"shift_id"`
	PunchIn        *string          `json:"punch_in"`
	PunchOut       *string          `json:"punch_out"`
	HoursWorked    *decimal.Decimal `json:"hours_worked"`
	Status         string           `json:"status"`
	PayType        *string          `json:"pay_type"`
	OvertimeStatus *string          `json:"overtime_status"`
}
