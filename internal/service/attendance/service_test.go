package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
	"github.com/kelolahr/hr-backend-go/internal/pkg/clock"
	"github.com/kelolahr/hr-backend-go/internal/pkg/validator"
	"github.com/kelolahr/hr-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wallClock(hour, minute int) time.Time {
	return time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC)
}

// dayShift is a 09:00-17:00 shift with a 10 minute punch-in margin and a
// 15 minute punch-out margin.
func dayShift() shift.Shift {
	return shift.Shift{
		Name:                  "Day Shift",
		FromTime:              wallClock(9, 0),
		ToTime:                wallClock(17, 0),
		PunchInMarginMinutes:  10,
		PunchOutMarginMinutes: 15,
		HalfDayThresholdHours: decimal.NewFromInt(4),
		ScheduledHours:        decimal.NewFromInt(8),
	}
}

func nightShift() shift.Shift {
	return shift.Shift{
		Name:                  "Night Shift",
		FromTime:              wallClock(22, 0),
		ToTime:                wallClock(6, 0),
		PunchInMarginMinutes:  10,
		PunchOutMarginMinutes: 15,
		HalfDayThresholdHours: decimal.NewFromInt(4),
		ScheduledHours:        decimal.NewFromInt(8),
	}
}

type fixture struct {
	store *memory.Store
	clk   *clock.Fixed
	svc   attendance.Service
	emp   employee.Employee
}

func newFixture(t *testing.T, sh shift.Shift) *fixture {
	t.Helper()

	store := memory.NewStore()
	sh = store.SeedShift(sh)
	emp := store.SeedEmployee(employee.Employee{
		EmployeeCode:     "EMP-001",
		FullName:         "Dewi Lestari",
		ShiftID:          &sh.ID,
		EmploymentStatus: employee.EmploymentStatusActive,
	})

	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := NewAttendanceService(store, memory.NewAttendanceRepository(store), memory.NewEmployeeRepository(store), memory.NewShiftRepository(store), clk)

	return &fixture{store: store, clk: clk, svc: svc, emp: emp}
}

func TestAttendanceService_PunchIn_WithinMarginIsPresent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	// 7 minutes after shift start, within the 10 minute margin.
	f.clk.Set(time.Date(2025, 3, 10, 9, 7, 0, 0, time.UTC))

	resp, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "present", resp.AttendanceStatus)
	assert.Equal(t, "2025-03-10", resp.Date)
	// The effective punch-in snaps back to shift start.
	assert.Equal(t, "2025-03-10 09:00:00", resp.PunchIn)
}

func TestAttendanceService_PunchIn_ExactlyAtMarginBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	f.clk.Set(time.Date(2025, 3, 10, 9, 10, 0, 0, time.UTC))

	resp, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "present", resp.AttendanceStatus)
	assert.Equal(t, "2025-03-10 09:00:00", resp.PunchIn)
}

func TestAttendanceService_PunchIn_PastMarginIsLate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	f.clk.Set(time.Date(2025, 3, 10, 9, 10, 1, 0, time.UTC))

	resp, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "late", resp.AttendanceStatus)
	// Late arrivals keep their actual punch-in instant.
	assert.Equal(t, "2025-03-10 09:10:01", resp.PunchIn)
}

func TestAttendanceService_PunchIn_SecondOpenPunchRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	assert.ErrorIs(t, err, attendance.ErrOpenRecordExists)
}

func TestAttendanceService_PunchIn_NoAssignedShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	emp := f.store.SeedEmployee(employee.Employee{
		EmployeeCode:     "EMP-002",
		FullName:         "Raka Pratama",
		EmploymentStatus: employee.EmploymentStatusActive,
	})

	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: emp.ID})
	assert.ErrorIs(t, err, attendance.ErrNoAssignedShift)
}

func TestAttendanceService_PunchIn_UnknownEmployee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: "missing"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_PunchIn_OverrideRequiresTimezone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	overrideTime := "2025-03-10 09:00:00"
	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{
		EmployeeID:        f.emp.ID,
		OverrideLocalTime: &overrideTime,
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "override_timezone")
}

func TestAttendanceService_PunchIn_OverrideTimezone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	// 09:07 in Jakarta (UTC+7) is 02:07 UTC; still within the margin of
	// the 09:00 local shift start.
	overrideTime := "2025-03-10 09:07:00"
	overrideTZ := "Asia/Jakarta"
	resp, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{
		EmployeeID:        f.emp.ID,
		OverrideLocalTime: &overrideTime,
		OverrideTimezone:  &overrideTZ,
	})
	require.NoError(t, err)

	assert.Equal(t, "present", resp.AttendanceStatus)
	assert.Equal(t, "2025-03-10", resp.Date)
	// Stored in UTC: local 09:00 shift start is 02:00 UTC.
	assert.Equal(t, "2025-03-10 02:00:00", resp.PunchIn)
}

func TestAttendanceService_PunchOut_NoOpenRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	_, err := f.svc.PunchOut(ctx, attendance.PunchOutRequest{EmployeeID: f.emp.ID})
	assert.ErrorIs(t, err, attendance.ErrNoOpenRecord)
}

func TestAttendanceService_PunchOut_FullDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	f.clk.Set(time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC))
	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	f.clk.Set(time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchOutRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "8", resp.HoursWorked.String())
	require.NotNil(t, resp.PayType)
	assert.Equal(t, "full_day", *resp.PayType)
}

func TestAttendanceService_PunchOut_WithinMarginSnapsToShiftEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	f.clk.Set(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	// 17:12 is inside the 15 minute punch-out margin, so the effective
	// punch-out is 17:00 and the lingering minutes are not paid.
	f.clk.Set(time.Date(2025, 3, 10, 17, 12, 0, 0, time.UTC))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchOutRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10 17:00:00", resp.PunchOut)
	assert.Equal(t, "8", resp.HoursWorked.String())
	require.NotNil(t, resp.PayType)
	assert.Equal(t, "full_day", *resp.PayType)
}

func TestAttendanceService_PunchOut_PastMarginIsOvertime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	f.clk.Set(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	f.clk.Set(time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchOutRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "10", resp.HoursWorked.String())
	require.NotNil(t, resp.PayType)
	assert.Equal(t, "overtime", *resp.PayType)

	records, err := f.svc.ListByPeriod(ctx, attendance.PeriodFilter{
		EmployeeID: f.emp.ID,
		FromDate:   "2025-03-10",
		ToDate:     "2025-03-10",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].OvertimeStatus)
	assert.Equal(t, "pending_approval", *records[0].OvertimeStatus)
}

func TestAttendanceService_PunchOut_HalfDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	f.clk.Set(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	f.clk.Set(time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchOutRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "4.5", resp.HoursWorked.String())
	require.NotNil(t, resp.PayType)
	assert.Equal(t, "half_day", *resp.PayType)
}

func TestAttendanceService_PunchOut_BelowThresholdIsUnpaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	f.clk.Set(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	f.clk.Set(time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchOutRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "2", resp.HoursWorked.String())
	require.NotNil(t, resp.PayType)
	assert.Equal(t, "unpaid", *resp.PayType)
}

func TestAttendanceService_PunchOut_OvernightShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nightShift())

	f.clk.Set(time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC))
	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	// The shift end is anchored on the punch-in's work day, so 06:00 the
	// next morning closes a full shift, not a negative one.
	f.clk.Set(time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchOutRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "8", resp.HoursWorked.String())
	require.NotNil(t, resp.PayType)
	assert.Equal(t, "full_day", *resp.PayType)
}

func TestAttendanceService_PunchOut_RoundsHoursToTwoDecimals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	f.clk.Set(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	_, err := f.svc.PunchIn(ctx, attendance.PunchInRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	// 7h41m = 461 minutes = 7.6833... hours, rounded to 7.68.
	f.clk.Set(time.Date(2025, 3, 10, 16, 41, 0, 0, time.UTC))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchOutRequest{EmployeeID: f.emp.ID})
	require.NoError(t, err)

	assert.Equal(t, "7.68", resp.HoursWorked.String())
}

func TestAttendanceService_ListByPeriod_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	_, err := f.svc.ListByPeriod(ctx, attendance.PeriodFilter{
		EmployeeID: f.emp.ID,
		FromDate:   "2025-03-10",
		ToDate:     "2025-03-01",
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "to_date")
}
