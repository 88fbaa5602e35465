package attendance

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) error
	// GetOpenByEmployee returns the employee's record with a nil
	// punch-out, or ErrNoOpenRecord.
	GetOpenByEmployee(ctx context.Context, employeeID string) (Record, error)
	ListByEmployeePeriod(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	// ListStaleOpen returns open records whose punch-in is before the
	// cutoff, for housekeeping.
	ListStaleOpen(ctx context.Context, punchedInBefore time.Time) ([]Record, error)
}
