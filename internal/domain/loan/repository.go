package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, loan Loan) (Loan, error)
	GetByID(ctx context.Context, id string) (Loan, error)
	// GetByIDForUpdate locks the loan row so concurrent approvers and
	// repayments serialize.
	GetByIDForUpdate(ctx context.Context, id string) (Loan, error)
	Update(ctx context.Context, loan Loan) error
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]Loan, error)

	// Amortization schedule
	CreateScheduleEntries(ctx context.Context, entries []ScheduleEntry) error
	GetScheduleEntryForUpdate(ctx context.Context, id string) (ScheduleEntry, error)
	MarkScheduleEntryPaid(ctx context.Context, id string, paidAt time.Time) error
	ListScheduleByLoan(ctx context.Context, loanID string) ([]ScheduleEntry, error)

	// Repayment ledger
	CreateRepayment(ctx context.Context, repayment Repayment) (Repayment, error)
	ListRepaymentsByLoan(ctx context.Context, loanID string) ([]Repayment, error)
}
