package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
)

type loanRepository struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.Repository {
	return &loanRepository{db: db}
}

const loanColumns = `id, employee_id, principal_amount, emi_amount, tenure_months, interest_rate,
	   status, remaining_installments, disbursement_date, disbursement_ref, created_at, updated_at`

func scanLoan(row pgx.Row) (loan.Loan, error) {
	var ln loan.Loan
	err := row.Scan(
		&ln.ID, &ln.EmployeeID, &ln.PrincipalAmount, &ln.EmiAmount, &ln.TenureMonths, &ln.InterestRate,
		&ln.Status, &ln.RemainingInstallments, &ln.DisbursementDate, &ln.DisbursementRef, &ln.CreatedAt, &ln.UpdatedAt,
	)
	return ln, err
}

func (r *loanRepository) Create(ctx context.Context, ln loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loans (employee_id, principal_amount, emi_amount, tenure_months, interest_rate, status, remaining_installments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + loanColumns

	created, err := scanLoan(q.QueryRow(ctx, query,
		ln.EmployeeID, ln.PrincipalAmount, ln.EmiAmount, ln.TenureMonths, ln.InterestRate,
		ln.Status, ln.RemainingInstallments,
	))
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}

	return created, nil
}

func (r *loanRepository) getByID(ctx context.Context, id string, forUpdate bool) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	ln, err := scanLoan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}

	return ln, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (loan.Loan, error) {
	return r.getByID(ctx, id, false)
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id string) (loan.Loan, error) {
	return r.getByID(ctx, id, true)
}

func (r *loanRepository) Update(ctx context.Context, ln loan.Loan) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loans
		SET emi_amount = $2, status = $3, remaining_installments = $4,
			disbursement_date = $5, disbursement_ref = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		ln.ID, ln.EmiAmount, ln.Status, ln.RemainingInstallments, ln.DisbursementDate, ln.DisbursementRef,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return loan.ErrLoanNotFound
	}

	return nil
}

func (r *loanRepository) ListActiveByEmployee(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE employee_id = $1 AND status = 'active'
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		ln, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, ln)
	}

	return loans, nil
}

func (r *loanRepository) CreateScheduleEntries(ctx context.Context, entries []loan.ScheduleEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loan_schedule_entries (loan_id, installment_no, due_date, emi_amount, principal_component, interest_component, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, e := range entries {
		if _, err := q.Exec(ctx, query,
			e.LoanID, e.InstallmentNo, e.DueDate, e.EmiAmount, e.PrincipalComponent, e.InterestComponent, e.Status,
		); err != nil {
			return fmt.Errorf("failed to create schedule entry %d: %w", e.InstallmentNo, err)
		}
	}

	return nil
}

func (r *loanRepository) GetScheduleEntryForUpdate(ctx context.Context, id string) (loan.ScheduleEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, loan_id, installment_no, due_date, emi_amount, principal_component, interest_component, status, paid_at, created_at
		FROM loan_schedule_entries
		WHERE id = $1
		FOR UPDATE
	`

	var e loan.ScheduleEntry
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.LoanID, &e.InstallmentNo, &e.DueDate, &e.EmiAmount, &e.PrincipalComponent,
		&e.InterestComponent, &e.Status, &e.PaidAt, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.ScheduleEntry{}, loan.ErrScheduleEntryNotFound
		}
		return loan.ScheduleEntry{}, fmt.Errorf("failed to get schedule entry: %w", err)
	}

	return e, nil
}

func (r *loanRepository) MarkScheduleEntryPaid(ctx context.Context, id string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE loan_schedule_entries SET status = 'paid', paid_at = $2 WHERE id = $1`,
		id, paidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark schedule entry paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return loan.ErrScheduleEntryNotFound
	}

	return nil
}

func (r *loanRepository) ListScheduleByLoan(ctx context.Context, loanID string) ([]loan.ScheduleEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, loan_id, installment_no, due_date, emi_amount, principal_component, interest_component, status, paid_at, created_at
		FROM loan_schedule_entries
		WHERE loan_id = $1
		ORDER BY installment_no
	`

	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []loan.ScheduleEntry
	for rows.Next() {
		var e loan.ScheduleEntry
		if err := rows.Scan(
			&e.ID, &e.LoanID, &e.InstallmentNo, &e.DueDate, &e.EmiAmount, &e.PrincipalComponent,
			&e.InterestComponent, &e.Status, &e.PaidAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (r *loanRepository) CreateRepayment(ctx context.Context, rp loan.Repayment) (loan.Repayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loan_repayments (loan_id, amount, repayment_date, transaction_ref, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, loan_id, amount, repayment_date, transaction_ref, source, created_at
	`

	var created loan.Repayment
	err := q.QueryRow(ctx, query, rp.LoanID, rp.Amount, rp.RepaymentDate, rp.TransactionRef, rp.Source).Scan(
		&created.ID, &created.LoanID, &created.Amount, &created.RepaymentDate,
		&created.TransactionRef, &created.Source, &created.CreatedAt,
	)
	if err != nil {
		return loan.Repayment{}, fmt.Errorf("failed to create loan repayment: %w", err)
	}

	return created, nil
}

func (r *loanRepository) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]loan.Repayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, loan_id, amount, repayment_date, transaction_ref, source, created_at
		FROM loan_repayments
		WHERE loan_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan repayments: %w", err)
	}
	defer rows.Close()

	var repayments []loan.Repayment
	for rows.Next() {
		var rp loan.Repayment
		if err := rows.Scan(
			&rp.ID, &rp.LoanID, &rp.Amount, &rp.RepaymentDate, &rp.TransactionRef, &rp.Source, &rp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan repayment: %w", err)
		}
		repayments = append(repayments, rp)
	}

	return repayments, nil
}
