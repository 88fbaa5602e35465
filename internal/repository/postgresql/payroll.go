package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kelolahr/hr-backend-go/internal/domain/payroll"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) GetEmployeeStructure(ctx context.Context, employeeID string) ([]payroll.EmployeeSalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT esc.id, esc.employee_id, esc.component_id, esc.value_type, esc.value, esc.based_on_component,
			   esc.created_at, esc.updated_at, sc.name, sc.type
		FROM employee_salary_components esc
		JOIN salary_components sc ON sc.id = esc.component_id
		WHERE esc.employee_id = $1
		ORDER BY sc.type, sc.name
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee salary structure: %w", err)
	}
	defer rows.Close()

	var components []payroll.EmployeeSalaryComponent
	for rows.Next() {
		var c payroll.EmployeeSalaryComponent
		if err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.ComponentID, &c.ValueType, &c.Value, &c.BasedOnComponent,
			&c.CreatedAt, &c.UpdatedAt, &c.ComponentName, &c.ComponentType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}

	return components, nil
}

func (r *payrollRepository) AnyRunOverlapping(ctx context.Context, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	// Locks intersecting runs so a concurrent initiation against an
	// existing run serializes instead of passing the check. Two
	// concurrent initiations whose periods only overlap each other lock
	// nothing here; the ex_payroll_runs_period range exclusion
	// constraint rejects the second insert (see CreateRun).
	query := `
		SELECT id FROM payroll_runs
		WHERE period_start <= $2 AND period_end >= $1
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping runs: %w", err)
	}
	defer rows.Close()

	return rows.Next(), nil
}

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (period_start, period_end, status, total_net_pay)
		VALUES ($1, $2, $3, $4)
		RETURNING id, period_start, period_end, status, total_net_pay, created_at, updated_at
	`

	var created payroll.Run
	err := q.QueryRow(ctx, query, run.PeriodStart, run.PeriodEnd, run.Status, run.TotalNetPay).Scan(
		&created.ID, &created.PeriodStart, &created.PeriodEnd, &created.Status, &created.TotalNetPay,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isPeriodExclusionViolation(err) {
			return payroll.Run{}, payroll.ErrRunOverlap
		}
		return payroll.Run{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return created, nil
}

// isPeriodExclusionViolation reports whether err is the
// ex_payroll_runs_period exclusion constraint
// (EXCLUDE USING gist (daterange(period_start, period_end, '[]') WITH &&))
// rejecting a run whose period overlaps a concurrently inserted one.
func isPeriodExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == "ex_payroll_runs_period"
}

func (r *payrollRepository) getRun(ctx context.Context, id string, forUpdate bool) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_start, period_end, status, total_net_pay, created_at, updated_at
		FROM payroll_runs
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var run payroll.Run
	err := q.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.PeriodStart, &run.PeriodEnd, &run.Status, &run.TotalNetPay, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Run{}, payroll.ErrRunNotFound
		}
		return payroll.Run{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string) (payroll.Run, error) {
	return r.getRun(ctx, id, false)
}

func (r *payrollRepository) GetRunForUpdate(ctx context.Context, id string) (payroll.Run, error) {
	return r.getRun(ctx, id, true)
}

func (r *payrollRepository) UpdateRunTotals(ctx context.Context, runID string, totalNetPay decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payroll_runs SET total_net_pay = $2, updated_at = NOW() WHERE id = $1`, runID, totalNetPay)
	if err != nil {
		return fmt.Errorf("failed to update payroll run totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}

	return nil
}

func (r *payrollRepository) MarkRunPaid(ctx context.Context, runID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payroll_runs SET status = 'paid', updated_at = NOW() WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to mark payroll run paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}

	return nil
}

func (r *payrollRepository) CreatePayslip(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslips (payroll_run_id, employee_id, total_earnings, total_deductions, net_pay)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, payroll_run_id, employee_id, total_earnings, total_deductions, net_pay, created_at
	`

	var created payroll.Payslip
	err := q.QueryRow(ctx, query,
		payslip.PayrollRunID, payslip.EmployeeID, payslip.TotalEarnings, payslip.TotalDeductions, payslip.NetPay,
	).Scan(
		&created.ID, &created.PayrollRunID, &created.EmployeeID, &created.TotalEarnings,
		&created.TotalDeductions, &created.NetPay, &created.CreatedAt,
	)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) CreatePayslipDetail(ctx context.Context, detail payroll.PayslipDetail) (payroll.PayslipDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslip_details (payslip_id, component_name, component_type, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, payslip_id, component_name, component_type, amount
	`

	var created payroll.PayslipDetail
	err := q.QueryRow(ctx, query, detail.PayslipID, detail.ComponentName, detail.ComponentType, detail.Amount).Scan(
		&created.ID, &created.PayslipID, &created.ComponentName, &created.ComponentType, &created.Amount,
	)
	if err != nil {
		return payroll.PayslipDetail{}, fmt.Errorf("failed to create payslip detail: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) ListPayslipsByRun(ctx context.Context, runID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payroll_run_id, employee_id, total_earnings, total_deductions, net_pay, created_at
		FROM payslips
		WHERE payroll_run_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		var p payroll.Payslip
		if err := rows.Scan(
			&p.ID, &p.PayrollRunID, &p.EmployeeID, &p.TotalEarnings, &p.TotalDeductions, &p.NetPay, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}

	return payslips, nil
}

func (r *payrollRepository) ListDetailsByRun(ctx context.Context, runID string) ([]payroll.PayslipDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pd.id, pd.payslip_id, pd.component_name, pd.component_type, pd.amount
		FROM payslip_details pd
		JOIN payslips p ON p.id = pd.payslip_id
		WHERE p.payroll_run_id = $1
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip details: %w", err)
	}
	defer rows.Close()

	return scanPayslipDetails(rows)
}

func (r *payrollRepository) ListDetailsByPayslip(ctx context.Context, payslipID string) ([]payroll.PayslipDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payslip_id, component_name, component_type, amount
		FROM payslip_details
		WHERE payslip_id = $1
	`

	rows, err := q.Query(ctx, query, payslipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip details: %w", err)
	}
	defer rows.Close()

	return scanPayslipDetails(rows)
}

func scanPayslipDetails(rows pgx.Rows) ([]payroll.PayslipDetail, error) {
	var details []payroll.PayslipDetail
	for rows.Next() {
		var d payroll.PayslipDetail
		if err := rows.Scan(&d.ID, &d.PayslipID, &d.ComponentName, &d.ComponentType, &d.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payslip detail: %w", err)
		}
		details = append(details, d)
	}
	return details, nil
}
