package payroll

import "context"

type Service interface {
	// InitiateRun executes a payroll run over the requested period.
	// Either every eligible employee gets a payslip or nothing persists.
	InitiateRun(ctx context.Context, req InitiateRunRequest) (RunResponse, error)
	// FinalizeRun marks a processing run paid and posts loan-repayment
	// side effects.
	FinalizeRun(ctx context.Context, runID string) (RunResponse, error)
	GetRun(ctx context.Context, runID string) (RunResponse, error)
	ListPayslips(ctx context.Context, runID string) ([]PayslipResponse, error)
}
