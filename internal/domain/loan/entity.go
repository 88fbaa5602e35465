package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusActive   Status = "active"
	StatusPaidOff  Status = "paid_off"
	StatusClosed   Status = "closed"
	StatusRejected Status = "rejected"
)

// Loan is an employee loan application and, once disbursed, the running
// balance state payroll deducts against. InterestRate is annual, in
// percent. Salary advances are loans with TenureMonths 1 and a zero rate.
type Loan struct {
	ID                    string
	EmployeeID            string
	PrincipalAmount       decimal.Decimal
	EmiAmount             decimal.Decimal
	TenureMonths          int
	InterestRate          decimal.Decimal
	Status                Status
	RemainingInstallments int
	DisbursementDate      *time.Time
	DisbursementRef       *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type ScheduleStatus string

const (
	ScheduleStatusPending ScheduleStatus = "pending"
	ScheduleStatusPaid    ScheduleStatus = "paid"
)

// ScheduleEntry is one month of a loan's amortization schedule, created
// in bulk at disbursement and never recreated. Across a schedule the
// principal components sum to the disbursed principal within rounding.
type ScheduleEntry struct {
	ID                 string
	LoanID             string
	InstallmentNo      int
	DueDate            time.Time
	EmiAmount          decimal.Decimal
	PrincipalComponent decimal.Decimal
	InterestComponent  decimal.Decimal
	Status             ScheduleStatus
	PaidAt             *time.Time
	CreatedAt          time.Time
}

type RepaymentSource string

const (
	RepaymentSourcePayroll RepaymentSource = "payroll"
	RepaymentSourceManual  RepaymentSource = "manual"
)

// Repayment is a ledger entry for money actually collected against a
// loan, either by a finalized payroll run or a manual EMI payment.
type Repayment struct {
	ID             string
	LoanID         string
	Amount         decimal.Decimal
	RepaymentDate  time.Time
	TransactionRef string
	Source         RepaymentSource
	CreatedAt      time.Time
}
