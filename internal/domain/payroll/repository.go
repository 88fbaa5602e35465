package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Salary structure
	GetEmployeeStructure(ctx context.Context, employeeID string) ([]EmployeeSalaryComponent, error)

	// Runs
	// AnyRunOverlapping locks matching run rows and reports whether any
	// existing run period intersects [from, to].
	AnyRunOverlapping(ctx context.Context, from, to time.Time) (bool, error)
	CreateRun(ctx context.Context, run Run) (Run, error)
	GetRunByID(ctx context.Context, id string) (Run, error)
	// GetRunForUpdate locks the run row for the transaction.
	GetRunForUpdate(ctx context.Context, id string) (Run, error)
	UpdateRunTotals(ctx context.Context, runID string, totalNetPay decimal.Decimal) error
	MarkRunPaid(ctx context.Context, runID string) error

	// Payslips
	CreatePayslip(ctx context.Context, payslip Payslip) (Payslip, error)
	CreatePayslipDetail(ctx context.Context, detail PayslipDetail) (PayslipDetail, error)
	ListPayslipsByRun(ctx context.Context, runID string) ([]Payslip, error)
	ListDetailsByRun(ctx context.Context, runID string) ([]PayslipDetail, error)
	ListDetailsByPayslip(ctx context.Context, payslipID string) ([]PayslipDetail, error)
}
