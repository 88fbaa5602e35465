package loan

import "errors"

var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanNotPending         = errors.New("loan application is not pending")
	ErrLoanNotApproved        = errors.New("loan is not in approved status")
	ErrLoanNotActive          = errors.New("loan is not active")
	ErrScheduleEntryNotFound  = errors.New("amortization schedule entry not found")
	ErrInstallmentAlreadyPaid = errors.New("installment is already paid")
)
