package employee

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListPayrollEligible returns active employees that are not payroll
	// exempt, ordered by employee code.
	ListPayrollEligible(ctx context.Context) ([]Employee, error)
}
