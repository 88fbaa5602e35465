package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// PayType is the per-day monetary classification set at punch-out.
type PayType string

const (
	PayTypeUnpaid   PayType = "unpaid"
	PayTypeHalfDay  PayType = "half_day"
	PayTypeFullDay  PayType = "full_day"
	PayTypeOvertime PayType = "overtime"
)

type OvertimeStatus string

const (
	OvertimeStatusPendingApproval OvertimeStatus = "pending_approval"
	OvertimeStatusApproved        OvertimeStatus = "approved"
	OvertimeStatusRejected        OvertimeStatus = "rejected"
)

// Record is one employee workday. Created at punch-in with PunchOut nil,
// closed once at punch-out. At most one record per employee may have a
// nil PunchOut at any time.
type Record struct {
	ID         string
	EmployeeID string
	// Date is the local work day the punch-in fell on, stored at UTC
	// midnight. Instants below are stored in UTC.
	Date           time.Time
	ShiftID        string
	PunchIn        *time.Time
	PunchOut       *time.Time
	HoursWorked    *decimal.Decimal
	Status         Status
	PayType        *PayType
	OvertimeStatus *OvertimeStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Open reports whether the record is still waiting for a punch-out.
func (r Record) Open() bool {
	return r.PunchOut == nil
}
