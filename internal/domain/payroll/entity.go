package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeEarning   ComponentType = "earning"
	ComponentTypeDeduction ComponentType = "deduction"
)

// Component names the engine itself produces or looks up.
const (
	BaseSalaryComponent   = "Base Salary"
	LossOfPayComponent    = "Loss of Pay"
	OvertimePayComponent  = "Overtime Pay"
	LoanRepaymentTemplate = "Loan Repayment (ID: %s)"
)

// ComponentDefinition - master salary component, reference data.
type ComponentDefinition struct {
	ID        string
	Name      string
	Type      ComponentType
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ValueType string

const (
	ValueTypeFixed      ValueType = "fixed"
	ValueTypePercentage ValueType = "percentage"
)

// EmployeeSalaryComponent - one row of an employee's salary structure.
// BasedOnComponent names the fixed component a percentage entry is
// computed from; it is required iff ValueType is percentage.
type EmployeeSalaryComponent struct {
	ID               string
	EmployeeID       string
	ComponentID      string
	ValueType        ValueType
	Value            decimal.Decimal
	BasedOnComponent *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	ComponentName string
	ComponentType ComponentType
}

// ResolvedComponent is a salary structure row resolved to an absolute
// amount, plus the synthetic rows the aggregator adds.
type ResolvedComponent struct {
	Name   string
	Type   ComponentType
	Amount decimal.Decimal
}

// RunStatus enum
type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusPaid       RunStatus = "paid"
)

// Run - one payroll batch over a pay period. Periods of distinct runs
// never overlap.
type Run struct {
	ID          string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      RunStatus
	TotalNetPay decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Payslip - per-employee result of a run. Editable only while the owning
// run is processing.
type Payslip struct {
	ID              string
	PayrollRunID    string
	EmployeeID      string
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	CreatedAt       time.Time
}

// PayslipDetail - one contributing component of a payslip.
type PayslipDetail struct {
	ID            string
	PayslipID     string
	ComponentName string
	ComponentType ComponentType
	Amount        decimal.Decimal
}
