package loan

import "context"

type Service interface {
	Apply(ctx context.Context, req ApplyRequest) (LoanResponse, error)
	Approve(ctx context.Context, loanID string) (LoanResponse, error)
	// Disburse activates an approved loan and generates its full
	// amortization schedule in one transaction.
	Disburse(ctx context.Context, req DisburseRequest) (LoanResponse, error)
	// ManualRepayEmi marks one pending installment paid and closes the
	// loan when it was the last one.
	ManualRepayEmi(ctx context.Context, req ManualRepayRequest) (LoanResponse, error)
	GetSchedule(ctx context.Context, loanID string) ([]ScheduleEntryResponse, error)
}
