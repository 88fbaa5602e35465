package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
	"github.com/kelolahr/hr-backend-go/internal/domain/payroll"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
	"github.com/kelolahr/hr-backend-go/internal/pkg/calendar"
	"github.com/kelolahr/hr-backend-go/internal/pkg/clock"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// loanRepaymentPattern matches payslip detail names produced for loan EMI
// deductions and captures the loan ID.
var loanRepaymentPattern = regexp.MustCompile(`^Loan Repayment \(ID: (.+)\)$`)

type PayrollServiceImpl struct {
	txm            database.TxManager
	payrollRepo    payroll.Repository
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	shiftRepo      shift.Repository
	loanRepo       loan.Repository
	cal            calendar.Service
	clk            clock.Clock
}

func NewPayrollService(
	txm database.TxManager,
	payrollRepo payroll.Repository,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	shiftRepo shift.Repository,
	loanRepo loan.Repository,
	cal calendar.Service,
	clk clock.Clock,
) payroll.Service {
	return &PayrollServiceImpl{
		txm:            txm,
		payrollRepo:    payrollRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		loanRepo:       loanRepo,
		cal:            cal,
		clk:            clk,
	}
}

// InitiateRun implements payroll.Service. Every eligible employee is
// processed sequentially inside one transaction; any failure rolls the
// whole run back, payslips and run row included.
func (s *PayrollServiceImpl) InitiateRun(ctx context.Context, req payroll.InitiateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	from, _ := time.Parse("2006-01-02", req.FromDate)
	to, _ := time.Parse("2006-01-02", req.ToDate)

	var run payroll.Run
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		overlapping, err := s.payrollRepo.AnyRunOverlapping(ctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to check run overlap: %w", err)
		}
		if overlapping {
			return payroll.ErrRunOverlap
		}

		run, err = s.payrollRepo.CreateRun(ctx, payroll.Run{
			PeriodStart: from,
			PeriodEnd:   to,
			Status:      payroll.RunStatusProcessing,
			TotalNetPay: decimal.Zero,
		})
		if err != nil {
			return fmt.Errorf("failed to create payroll run: %w", err)
		}

		employees, err := s.employeeRepo.ListPayrollEligible(ctx)
		if err != nil {
			return fmt.Errorf("failed to list eligible employees: %w", err)
		}

		total := decimal.Zero
		for _, emp := range employees {
			netPay, err := s.buildPayslip(ctx, run, emp, from, to)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			total = total.Add(netPay)
		}

		if err := s.payrollRepo.UpdateRunTotals(ctx, run.ID, total); err != nil {
			return fmt.Errorf("failed to update run totals: %w", err)
		}
		run.TotalNetPay = total
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	slog.Info("payroll run completed",
		"run_id", run.ID,
		"period_start", req.FromDate,
		"period_end", req.ToDate,
		"total_net_pay", run.TotalNetPay.String(),
	)
	return mapRunToResponse(run), nil
}

// buildPayslip computes and persists one employee's payslip for the
// period and returns its net pay.
func (s *PayrollServiceImpl) buildPayslip(ctx context.Context, run payroll.Run, emp employee.Employee, from, to time.Time) (decimal.Decimal, error) {
	structure, err := s.payrollRepo.GetEmployeeStructure(ctx, emp.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get salary structure: %w", err)
	}
	if len(structure) == 0 {
		return decimal.Zero, payroll.ErrSalaryStructureMissing
	}

	if emp.ShiftID == nil {
		return decimal.Zero, payroll.ErrInvalidShift
	}
	sh, err := s.shiftRepo.GetByID(ctx, *emp.ShiftID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return decimal.Zero, payroll.ErrInvalidShift
		}
		return decimal.Zero, fmt.Errorf("failed to get shift: %w", err)
	}
	if !sh.ScheduledHours.IsPositive() {
		return decimal.Zero, payroll.ErrInvalidShift
	}

	components := resolveStructure(structure)

	baseSalary := baseSalaryOf(components)
	daysInMonth := decimal.NewFromInt(int64(s.cal.DaysInMonth(from)))
	hourlyPay := baseSalary.Div(daysInMonth).Div(sh.ScheduledHours)

	records, err := s.attendanceRepo.ListByEmployeePeriod(ctx, emp.ID, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list attendance: %w", err)
	}

	lossOfPay, overtimePay := aggregateAttendance(records, sh.ScheduledHours, hourlyPay)
	if lossOfPay.IsPositive() {
		components = append(components, payroll.ResolvedComponent{
			Name:   payroll.LossOfPayComponent,
			Type:   payroll.ComponentTypeDeduction,
			Amount: lossOfPay,
		})
	}
	if overtimePay.IsPositive() {
		components = append(components, payroll.ResolvedComponent{
			Name:   payroll.OvertimePayComponent,
			Type:   payroll.ComponentTypeEarning,
			Amount: overtimePay,
		})
	}

	activeLoans, err := s.loanRepo.ListActiveByEmployee(ctx, emp.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list active loans: %w", err)
	}
	for _, l := range activeLoans {
		components = append(components, payroll.ResolvedComponent{
			Name:   fmt.Sprintf(payroll.LoanRepaymentTemplate, l.ID),
			Type:   payroll.ComponentTypeDeduction,
			Amount: l.EmiAmount,
		})
	}

	earnings := decimal.Zero
	deductions := decimal.Zero
	for _, c := range components {
		if c.Type == payroll.ComponentTypeEarning {
			earnings = earnings.Add(c.Amount)
		} else {
			deductions = deductions.Add(c.Amount)
		}
	}
	netPay := earnings.Sub(deductions)

	payslip, err := s.payrollRepo.CreatePayslip(ctx, payroll.Payslip{
		PayrollRunID:    run.ID,
		EmployeeID:      emp.ID,
		TotalEarnings:   earnings,
		TotalDeductions: deductions,
		NetPay:          netPay,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create payslip: %w", err)
	}
	for _, c := range components {
		if _, err := s.payrollRepo.CreatePayslipDetail(ctx, payroll.PayslipDetail{
			PayslipID:     payslip.ID,
			ComponentName: c.Name,
			ComponentType: c.Type,
			Amount:        c.Amount,
		}); err != nil {
			return decimal.Zero, fmt.Errorf("failed to create payslip detail: %w", err)
		}
	}

	return netPay, nil
}

// FinalizeRun implements payroll.Service. It flips the run to paid and
// posts one repayment ledger entry per loan-repayment deduction, closing
// loans whose last installment this was. The finalize attempt is one
// transaction; on failure the run stays processing.
func (s *PayrollServiceImpl) FinalizeRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	var run payroll.Run
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		run, err = s.payrollRepo.GetRunForUpdate(ctx, runID)
		if err != nil {
			if errors.Is(err, payroll.ErrRunNotFound) {
				return payroll.ErrRunNotFound
			}
			return fmt.Errorf("failed to get payroll run: %w", err)
		}
		if run.Status != payroll.RunStatusProcessing {
			return payroll.ErrRunNotProcessing
		}

		if err := s.payrollRepo.MarkRunPaid(ctx, run.ID); err != nil {
			return fmt.Errorf("failed to mark run paid: %w", err)
		}
		run.Status = payroll.RunStatusPaid

		details, err := s.payrollRepo.ListDetailsByRun(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to list payslip details: %w", err)
		}

		repaymentDate := s.clk.Now()
		for _, detail := range details {
			if detail.ComponentType != payroll.ComponentTypeDeduction {
				continue
			}
			m := loanRepaymentPattern.FindStringSubmatch(detail.ComponentName)
			if m == nil {
				continue
			}
			if err := s.postLoanRepayment(ctx, m[1], detail.Amount, repaymentDate, run.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	slog.Info("payroll run finalized", "run_id", run.ID)
	return mapRunToResponse(run), nil
}

func (s *PayrollServiceImpl) postLoanRepayment(ctx context.Context, loanID string, amount decimal.Decimal, repaymentDate time.Time, runID string) error {
	ln, err := s.loanRepo.GetByIDForUpdate(ctx, loanID)
	if err != nil {
		return fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}

	if _, err := s.loanRepo.CreateRepayment(ctx, loan.Repayment{
		LoanID:         ln.ID,
		Amount:         amount,
		RepaymentDate:  repaymentDate,
		TransactionRef: "payroll-run:" + runID,
		Source:         loan.RepaymentSourcePayroll,
	}); err != nil {
		return fmt.Errorf("failed to create repayment for loan %s: %w", loanID, err)
	}

	ln.RemainingInstallments--
	if ln.RemainingInstallments <= 0 {
		ln.RemainingInstallments = 0
		ln.Status = loan.StatusPaidOff
	}
	if err := s.loanRepo.Update(ctx, ln); err != nil {
		return fmt.Errorf("failed to update loan %s: %w", loanID, err)
	}
	return nil
}

// GetRun implements payroll.Service.
func (s *PayrollServiceImpl) GetRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, runID)
	if err != nil {
		if errors.Is(err, payroll.ErrRunNotFound) {
			return payroll.RunResponse{}, payroll.ErrRunNotFound
		}
		return payroll.RunResponse{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return mapRunToResponse(run), nil
}

// ListPayslips implements payroll.Service.
func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, runID string) ([]payroll.PayslipResponse, error) {
	if _, err := s.payrollRepo.GetRunByID(ctx, runID); err != nil {
		if errors.Is(err, payroll.ErrRunNotFound) {
			return nil, payroll.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get payroll run: %w", err)
	}

	payslips, err := s.payrollRepo.ListPayslipsByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}

	responses := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, ps := range payslips {
		details, err := s.payrollRepo.ListDetailsByPayslip(ctx, ps.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list payslip details: %w", err)
		}
		detailResponses := make([]payroll.PayslipDetailResponse, 0, len(details))
		for _, d := range details {
			detailResponses = append(detailResponses, payroll.PayslipDetailResponse{
				ComponentName: d.ComponentName,
				ComponentType: string(d.ComponentType),
				Amount:        d.Amount,
			})
		}
		responses = append(responses, payroll.PayslipResponse{
			ID:              ps.ID,
			PayrollRunID:    ps.PayrollRunID,
			EmployeeID:      ps.EmployeeID,
			TotalEarnings:   ps.TotalEarnings,
			TotalDeductions: ps.TotalDeductions,
			NetPay:          ps.NetPay,
			Details:         detailResponses,
		})
	}
	return responses, nil
}

func mapRunToResponse(run payroll.Run) payroll.RunResponse {
	return payroll.RunResponse{
		ID:          run.ID,
		PeriodStart: run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   run.PeriodEnd.Format("2006-01-02"),
		Status:      string(run.Status),
		TotalNetPay: run.TotalNetPay,
	}
}
