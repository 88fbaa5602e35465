package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
	"github.com/kelolahr/hr-backend-go/internal/domain/payroll"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
	"github.com/kelolahr/hr-backend-go/internal/pkg/calendar"
	"github.com/kelolahr/hr-backend-go/internal/pkg/clock"
	"github.com/kelolahr/hr-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store          *memory.Store
	attendanceRepo attendance.Repository
	loanRepo       loan.Repository
	svc            payroll.Service
	sh             shift.Shift
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	sh := store.SeedShift(shift.Shift{
		Name:                  "Day Shift",
		FromTime:              time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC),
		ToTime:                time.Date(2000, 1, 1, 17, 0, 0, 0, time.UTC),
		PunchInMarginMinutes:  10,
		PunchOutMarginMinutes: 15,
		HalfDayThresholdHours: decimal.NewFromInt(4),
		ScheduledHours:        decimal.NewFromInt(8),
	})

	attendanceRepo := memory.NewAttendanceRepository(store)
	loanRepo := memory.NewLoanRepository(store)
	clk := clock.NewFixed(time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC))
	svc := NewPayrollService(
		store,
		memory.NewPayrollRepository(store),
		attendanceRepo,
		memory.NewEmployeeRepository(store),
		memory.NewShiftRepository(store),
		loanRepo,
		calendar.NewGregorian(),
		clk,
	)

	return &fixture{store: store, attendanceRepo: attendanceRepo, loanRepo: loanRepo, svc: svc, sh: sh}
}

func (f *fixture) seedEmployee(code string) employee.Employee {
	return f.store.SeedEmployee(employee.Employee{
		EmployeeCode:     code,
		FullName:         "Employee " + code,
		ShiftID:          &f.sh.ID,
		EmploymentStatus: employee.EmploymentStatusActive,
	})
}

// seedStructure gives an employee a 30,000 base salary plus a 40% housing
// allowance derived from it.
func (f *fixture) seedStructure(employeeID string) {
	basedOn := payroll.BaseSalaryComponent
	f.store.SeedSalaryStructure(employeeID, []payroll.EmployeeSalaryComponent{
		{
			ValueType:     payroll.ValueTypeFixed,
			Value:         decimal.NewFromInt(30000),
			ComponentName: payroll.BaseSalaryComponent,
			ComponentType: payroll.ComponentTypeEarning,
		},
		{
			ValueType:        payroll.ValueTypePercentage,
			Value:            decimal.NewFromInt(40),
			BasedOnComponent: &basedOn,
			ComponentName:    "Housing Allowance",
			ComponentType:    payroll.ComponentTypeEarning,
		},
	})
}

// seedWorkday inserts a closed attendance record for the given June 2025
// day with the given classification.
func (f *fixture) seedWorkday(t *testing.T, employeeID string, day int, payType attendance.PayType, hours string) {
	t.Helper()

	date := time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC)
	punchIn := date.Add(9 * time.Hour)
	punchOut := punchIn.Add(8 * time.Hour)
	worked := decimal.RequireFromString(hours)

	_, err := f.attendanceRepo.Create(context.Background(), attendance.Record{
		EmployeeID:  employeeID,
		Date:        date,
		ShiftID:     f.sh.ID,
		PunchIn:     &punchIn,
		PunchOut:    &punchOut,
		HoursWorked: &worked,
		Status:      attendance.StatusPresent,
		PayType:     &payType,
	})
	require.NoError(t, err)
}

func junePeriod() payroll.InitiateRunRequest {
	return payroll.InitiateRunRequest{FromDate: "2025-06-01", ToDate: "2025-06-30"}
}

func findDetail(details []payroll.PayslipDetailResponse, name string) *payroll.PayslipDetailResponse {
	for i := range details {
		if details[i].ComponentName == name {
			return &details[i]
		}
	}
	return nil
}

func TestResolveStructure_FixedAndPercentage(t *testing.T) {
	basedOn := payroll.BaseSalaryComponent
	rows := []payroll.EmployeeSalaryComponent{
		{
			ValueType:     payroll.ValueTypeFixed,
			Value:         decimal.NewFromInt(30000),
			ComponentName: payroll.BaseSalaryComponent,
			ComponentType: payroll.ComponentTypeEarning,
		},
		{
			ValueType:        payroll.ValueTypePercentage,
			Value:            decimal.NewFromInt(40),
			BasedOnComponent: &basedOn,
			ComponentName:    "Housing Allowance",
			ComponentType:    payroll.ComponentTypeEarning,
		},
		{
			ValueType:        payroll.ValueTypePercentage,
			Value:            decimal.NewFromInt(12),
			BasedOnComponent: &basedOn,
			ComponentName:    "Provident Fund",
			ComponentType:    payroll.ComponentTypeDeduction,
		},
	}

	resolved := resolveStructure(rows)
	require.Len(t, resolved, 3)

	// Fixed entries resolve first, percentages after.
	assert.Equal(t, payroll.BaseSalaryComponent, resolved[0].Name)
	assert.Equal(t, "30000.00", resolved[0].Amount.StringFixed(2))
	assert.Equal(t, "12000.00", resolved[1].Amount.StringFixed(2))
	assert.Equal(t, "3600.00", resolved[2].Amount.StringFixed(2))
	assert.Equal(t, payroll.ComponentTypeDeduction, resolved[2].Type)
}

func TestResolveStructure_MissingBaseResolvesToZero(t *testing.T) {
	missing := "Bonus"
	rows := []payroll.EmployeeSalaryComponent{
		{
			ValueType:        payroll.ValueTypePercentage,
			Value:            decimal.NewFromInt(50),
			BasedOnComponent: &missing,
			ComponentName:    "Bonus Share",
			ComponentType:    payroll.ComponentTypeEarning,
		},
		{
			ValueType:     payroll.ValueTypePercentage,
			Value:         decimal.NewFromInt(10),
			ComponentName: "Unanchored",
			ComponentType: payroll.ComponentTypeEarning,
		},
	}

	resolved := resolveStructure(rows)
	require.Len(t, resolved, 2)
	assert.True(t, resolved[0].Amount.IsZero())
	assert.True(t, resolved[1].Amount.IsZero())
}

func TestAggregateAttendance_HourlyRates(t *testing.T) {
	// 30,000 base over a 30 day month at 8 scheduled hours: 125/hour.
	hourlyPay := decimal.NewFromInt(30000).
		Div(decimal.NewFromInt(30)).
		Div(decimal.NewFromInt(8))
	scheduled := decimal.NewFromInt(8)

	unpaid := attendance.PayTypeUnpaid
	halfDay := attendance.PayTypeHalfDay
	fullDay := attendance.PayTypeFullDay
	overtime := attendance.PayTypeOvertime
	tenHours := decimal.NewFromInt(10)

	records := []attendance.Record{
		{PayType: &fullDay},
		{PayType: &unpaid},
		{PayType: &halfDay},
		{PayType: &overtime, HoursWorked: &tenHours},
		{PayType: nil}, // absent day, no monetary effect
	}

	lossOfPay, overtimePay := aggregateAttendance(records, scheduled, hourlyPay)

	// One unpaid day (1000) and one half day (500).
	assert.Equal(t, "1500.00", lossOfPay.StringFixed(2))
	// Two extra hours at 1.5x of 125.
	assert.Equal(t, "375.00", overtimePay.StringFixed(2))
}

func TestPayrollService_InitiateRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emp := f.seedEmployee("EMP-001")
	f.seedStructure(emp.ID)
	f.seedWorkday(t, emp.ID, 2, attendance.PayTypeFullDay, "8")
	f.seedWorkday(t, emp.ID, 3, attendance.PayTypeUnpaid, "2")
	f.seedWorkday(t, emp.ID, 4, attendance.PayTypeHalfDay, "4.5")
	f.seedWorkday(t, emp.ID, 5, attendance.PayTypeOvertime, "10")

	run, err := f.svc.InitiateRun(ctx, junePeriod())
	require.NoError(t, err)

	assert.Equal(t, "processing", run.Status)
	assert.Equal(t, "2025-06-01", run.PeriodStart)
	assert.Equal(t, "2025-06-30", run.PeriodEnd)
	// 30,000 + 12,000 + 375 overtime - 1,500 loss of pay.
	assert.True(t, run.TotalNetPay.Equal(decimal.NewFromInt(40875)), "net pay %s", run.TotalNetPay)

	payslips, err := f.svc.ListPayslips(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, payslips, 1)

	ps := payslips[0]
	assert.Equal(t, emp.ID, ps.EmployeeID)
	assert.True(t, ps.TotalEarnings.Equal(decimal.NewFromInt(42375)), "earnings %s", ps.TotalEarnings)
	assert.True(t, ps.TotalDeductions.Equal(decimal.NewFromInt(1500)), "deductions %s", ps.TotalDeductions)
	assert.True(t, ps.NetPay.Equal(decimal.NewFromInt(40875)), "net %s", ps.NetPay)

	lop := findDetail(ps.Details, payroll.LossOfPayComponent)
	require.NotNil(t, lop)
	assert.Equal(t, "deduction", lop.ComponentType)
	assert.Equal(t, "1500.00", lop.Amount.StringFixed(2))

	ot := findDetail(ps.Details, payroll.OvertimePayComponent)
	require.NotNil(t, ot)
	assert.Equal(t, "earning", ot.ComponentType)
	assert.Equal(t, "375.00", ot.Amount.StringFixed(2))
}

func TestPayrollService_InitiateRun_SkipsExemptEmployees(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emp := f.seedEmployee("EMP-001")
	f.seedStructure(emp.ID)
	f.store.SeedEmployee(employee.Employee{
		EmployeeCode:     "EMP-002",
		FullName:         "Contractor",
		ShiftID:          &f.sh.ID,
		EmploymentStatus: employee.EmploymentStatusActive,
		PayrollExempt:    true,
	})
	f.store.SeedEmployee(employee.Employee{
		EmployeeCode:     "EMP-003",
		FullName:         "Former Colleague",
		ShiftID:          &f.sh.ID,
		EmploymentStatus: employee.EmploymentStatusResigned,
	})

	run, err := f.svc.InitiateRun(ctx, junePeriod())
	require.NoError(t, err)

	payslips, err := f.svc.ListPayslips(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, payslips, 1)
	assert.Equal(t, emp.ID, payslips[0].EmployeeID)
}

func TestPayrollService_InitiateRun_RejectsOverlap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emp := f.seedEmployee("EMP-001")
	f.seedStructure(emp.ID)

	_, err := f.svc.InitiateRun(ctx, junePeriod())
	require.NoError(t, err)

	_, err = f.svc.InitiateRun(ctx, payroll.InitiateRunRequest{
		FromDate: "2025-06-15",
		ToDate:   "2025-07-15",
	})
	assert.ErrorIs(t, err, payroll.ErrRunOverlap)

	// An adjacent, non-overlapping period is fine.
	_, err = f.svc.InitiateRun(ctx, payroll.InitiateRunRequest{
		FromDate: "2025-07-01",
		ToDate:   "2025-07-31",
	})
	assert.NoError(t, err)
}

func TestPayrollService_InitiateRun_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.seedEmployee("EMP-001")
	f.seedStructure(first.ID)
	second := f.seedEmployee("EMP-002") // no salary structure

	_, err := f.svc.InitiateRun(ctx, junePeriod())
	assert.ErrorIs(t, err, payroll.ErrSalaryStructureMissing)

	// The failed attempt left nothing behind: the same period can run
	// again once the structure is fixed.
	f.seedStructure(second.ID)
	run, err := f.svc.InitiateRun(ctx, junePeriod())
	require.NoError(t, err)

	payslips, err := f.svc.ListPayslips(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, payslips, 2)
}

func TestPayrollService_InitiateRun_InvalidShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emp := f.store.SeedEmployee(employee.Employee{
		EmployeeCode:     "EMP-001",
		FullName:         "Unscheduled",
		EmploymentStatus: employee.EmploymentStatusActive,
	})
	f.seedStructure(emp.ID)

	_, err := f.svc.InitiateRun(ctx, junePeriod())
	assert.ErrorIs(t, err, payroll.ErrInvalidShift)
}

func seedActiveLoan(t *testing.T, f *fixture, employeeID string, remaining int) loan.Loan {
	t.Helper()
	ln, err := f.loanRepo.Create(context.Background(), loan.Loan{
		EmployeeID:            employeeID,
		PrincipalAmount:       decimal.NewFromInt(12000),
		EmiAmount:             decimal.RequireFromString("1066.19"),
		TenureMonths:          12,
		InterestRate:          decimal.NewFromInt(12),
		Status:                loan.StatusActive,
		RemainingInstallments: remaining,
	})
	require.NoError(t, err)
	return ln
}

func TestPayrollService_InitiateRun_DeductsActiveLoanEmi(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emp := f.seedEmployee("EMP-001")
	f.seedStructure(emp.ID)
	ln := seedActiveLoan(t, f, emp.ID, 12)

	run, err := f.svc.InitiateRun(ctx, junePeriod())
	require.NoError(t, err)

	payslips, err := f.svc.ListPayslips(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, payslips, 1)

	detail := findDetail(payslips[0].Details, "Loan Repayment (ID: "+ln.ID+")")
	require.NotNil(t, detail)
	assert.Equal(t, "deduction", detail.ComponentType)
	assert.Equal(t, "1066.19", detail.Amount.StringFixed(2))
	assert.True(t, payslips[0].TotalDeductions.Equal(decimal.RequireFromString("1066.19")))
}

func TestPayrollService_FinalizeRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emp := f.seedEmployee("EMP-001")
	f.seedStructure(emp.ID)
	ln := seedActiveLoan(t, f, emp.ID, 2)

	run, err := f.svc.InitiateRun(ctx, junePeriod())
	require.NoError(t, err)

	finalized, err := f.svc.FinalizeRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", finalized.Status)

	// The run's loan deduction became a ledger entry and consumed one
	// installment.
	updated, err := f.loanRepo.GetByID(ctx, ln.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusActive, updated.Status)
	assert.Equal(t, 1, updated.RemainingInstallments)

	repayments, err := f.loanRepo.ListRepaymentsByLoan(ctx, ln.ID)
	require.NoError(t, err)
	require.Len(t, repayments, 1)
	assert.Equal(t, loan.RepaymentSourcePayroll, repayments[0].Source)
	assert.Equal(t, "payroll-run:"+run.ID, repayments[0].TransactionRef)
	assert.Equal(t, "1066.19", repayments[0].Amount.StringFixed(2))
}

func TestPayrollService_FinalizeRun_LastInstallmentClosesLoan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emp := f.seedEmployee("EMP-001")
	f.seedStructure(emp.ID)
	ln := seedActiveLoan(t, f, emp.ID, 1)

	run, err := f.svc.InitiateRun(ctx, junePeriod())
	require.NoError(t, err)

	_, err = f.svc.FinalizeRun(ctx, run.ID)
	require.NoError(t, err)

	updated, err := f.loanRepo.GetByID(ctx, ln.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusPaidOff, updated.Status)
	assert.Equal(t, 0, updated.RemainingInstallments)
}

func TestPayrollService_FinalizeRun_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emp := f.seedEmployee("EMP-001")
	f.seedStructure(emp.ID)

	run, err := f.svc.InitiateRun(ctx, junePeriod())
	require.NoError(t, err)

	_, err = f.svc.FinalizeRun(ctx, run.ID)
	require.NoError(t, err)

	_, err = f.svc.FinalizeRun(ctx, run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunNotProcessing)
}

func TestPayrollService_FinalizeRun_UnknownRun(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.FinalizeRun(context.Background(), "missing")
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)
}

func TestPayrollService_GetRun_UnknownRun(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)
}
