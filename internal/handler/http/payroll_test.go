package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
	"github.com/kelolahr/hr-backend-go/internal/pkg/calendar"
	"github.com/kelolahr/hr-backend-go/internal/pkg/clock"
	"github.com/kelolahr/hr-backend-go/internal/repository/memory"
	payrollService "github.com/kelolahr/hr-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayrollHandlerFixture(t *testing.T) PayrollHandler {
	t.Helper()

	store := memory.NewStore()
	sh := store.SeedShift(shift.Shift{
		Name:                  "Day Shift",
		FromTime:              time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC),
		ToTime:                time.Date(2000, 1, 1, 17, 0, 0, 0, time.UTC),
		HalfDayThresholdHours: decimal.NewFromInt(4),
		ScheduledHours:        decimal.NewFromInt(8),
	})
	// Eligible for payroll but no salary structure configured.
	store.SeedEmployee(employee.Employee{
		EmployeeCode:     "EMP-001",
		FullName:         "Dewi Lestari",
		ShiftID:          &sh.ID,
		EmploymentStatus: employee.EmploymentStatusActive,
	})

	clk := clock.NewFixed(time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC))
	svc := payrollService.NewPayrollService(
		store,
		memory.NewPayrollRepository(store),
		memory.NewAttendanceRepository(store),
		memory.NewEmployeeRepository(store),
		memory.NewShiftRepository(store),
		memory.NewLoanRepository(store),
		calendar.NewGregorian(),
		clk,
	)
	return NewPayrollHandler(svc)
}

func TestPayrollHandler_InitiateRun_MissingStructureIsInternal(t *testing.T) {
	handler := newPayrollHandlerFixture(t)

	body := `{"from_date":"2025-06-01","to_date":"2025-06-30"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.InitiateRun(rec, req)

	// A misconfigured eligible employee aborts the whole run as an
	// internal failure, not a client conflict.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.Code)
}

func TestPayrollHandler_InitiateRun_InvalidPeriod(t *testing.T) {
	handler := newPayrollHandlerFixture(t)

	body := `{"from_date":"2025-06-30","to_date":"2025-06-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.InitiateRun(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "to_date")
}
