package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	emp := store.SeedEmployee(employee.Employee{
		EmployeeCode:     "EMP-001",
		EmploymentStatus: employee.EmploymentStatusActive,
	})
	repo := NewAttendanceRepository(store)

	punchIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			PunchIn:    &punchIn,
			Status:     attendance.StatusPresent,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The create inside the failed unit of work never happened.
	_, err = repo.GetOpenByEmployee(ctx, emp.ID)
	assert.ErrorIs(t, err, attendance.ErrNoOpenRecord)
}

func TestStore_WithinTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	emp := store.SeedEmployee(employee.Employee{
		EmployeeCode:     "EMP-001",
		EmploymentStatus: employee.EmploymentStatusActive,
	})
	repo := NewAttendanceRepository(store)

	punchIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			PunchIn:    &punchIn,
			Status:     attendance.StatusPresent,
		})
		return err
	})
	require.NoError(t, err)

	open, err := repo.GetOpenByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, open.EmployeeID)
}

func TestStore_WithinTx_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var reached bool
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		return store.WithinTx(ctx, func(ctx context.Context) error {
			reached = true
			return nil
		})
	})
	require.NoError(t, err)
	assert.True(t, reached)
}
