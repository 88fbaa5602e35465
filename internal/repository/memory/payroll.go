package memory

import (
	"context"
	"slices"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.Repository {
	return &payrollRepository{s: s}
}

func (r *payrollRepository) GetEmployeeStructure(ctx context.Context, employeeID string) ([]payroll.EmployeeSalaryComponent, error) {
	defer r.s.lock(ctx)()

	return slices.Clone(r.s.salaryStructures[employeeID]), nil
}

func (r *payrollRepository) AnyRunOverlapping(ctx context.Context, from, to time.Time) (bool, error) {
	defer r.s.lock(ctx)()

	for _, run := range r.s.runs {
		if !run.PeriodStart.After(to) && !run.PeriodEnd.Before(from) {
			return true, nil
		}
	}
	return false, nil
}

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	defer r.s.lock(ctx)()

	run.ID = newID()
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now
	r.s.runs[run.ID] = run
	return run, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string) (payroll.Run, error) {
	defer r.s.lock(ctx)()

	run, ok := r.s.runs[id]
	if !ok {
		return payroll.Run{}, payroll.ErrRunNotFound
	}
	return run, nil
}

func (r *payrollRepository) GetRunForUpdate(ctx context.Context, id string) (payroll.Run, error) {
	// The store mutex already serializes units of work.
	return r.GetRunByID(ctx, id)
}

func (r *payrollRepository) UpdateRunTotals(ctx context.Context, runID string, totalNetPay decimal.Decimal) error {
	defer r.s.lock(ctx)()

	run, ok := r.s.runs[runID]
	if !ok {
		return payroll.ErrRunNotFound
	}
	run.TotalNetPay = totalNetPay
	run.UpdatedAt = time.Now().UTC()
	r.s.runs[runID] = run
	return nil
}

func (r *payrollRepository) MarkRunPaid(ctx context.Context, runID string) error {
	defer r.s.lock(ctx)()

	run, ok := r.s.runs[runID]
	if !ok {
		return payroll.ErrRunNotFound
	}
	run.Status = payroll.RunStatusPaid
	run.UpdatedAt = time.Now().UTC()
	r.s.runs[runID] = run
	return nil
}

func (r *payrollRepository) CreatePayslip(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	defer r.s.lock(ctx)()

	payslip.ID = newID()
	payslip.CreatedAt = time.Now().UTC()
	r.s.payslips[payslip.ID] = payslip
	r.s.payslipOrder = append(r.s.payslipOrder, payslip.ID)
	return payslip, nil
}

func (r *payrollRepository) CreatePayslipDetail(ctx context.Context, detail payroll.PayslipDetail) (payroll.PayslipDetail, error) {
	defer r.s.lock(ctx)()

	detail.ID = newID()
	r.s.payslipDetails[detail.ID] = detail
	r.s.detailOrder = append(r.s.detailOrder, detail.ID)
	return detail, nil
}

func (r *payrollRepository) ListPayslipsByRun(ctx context.Context, runID string) ([]payroll.Payslip, error) {
	defer r.s.lock(ctx)()

	var payslips []payroll.Payslip
	for _, id := range r.s.payslipOrder {
		p := r.s.payslips[id]
		if p.PayrollRunID == runID {
			payslips = append(payslips, p)
		}
	}
	return payslips, nil
}

func (r *payrollRepository) ListDetailsByRun(ctx context.Context, runID string) ([]payroll.PayslipDetail, error) {
	defer r.s.lock(ctx)()

	var details []payroll.PayslipDetail
	for _, id := range r.s.detailOrder {
		d := r.s.payslipDetails[id]
		if p, ok := r.s.payslips[d.PayslipID]; ok && p.PayrollRunID == runID {
			details = append(details, d)
		}
	}
	return details, nil
}

func (r *payrollRepository) ListDetailsByPayslip(ctx context.Context, payslipID string) ([]payroll.PayslipDetail, error) {
	defer r.s.lock(ctx)()

	var details []payroll.PayslipDetail
	for _, id := range r.s.detailOrder {
		d := r.s.payslipDetails[id]
		if d.PayslipID == payslipID {
			details = append(details, d)
		}
	}
	return details, nil
}
