package memory

import (
	"context"
	"sort"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
)

type loanRepository struct {
	s *Store
}

func NewLoanRepository(s *Store) loan.Repository {
	return &loanRepository{s: s}
}

func (r *loanRepository) Create(ctx context.Context, ln loan.Loan) (loan.Loan, error) {
	defer r.s.lock(ctx)()

	ln.ID = newID()
	now := time.Now().UTC()
	ln.CreatedAt = now
	ln.UpdatedAt = now
	r.s.loans[ln.ID] = ln
	r.s.loanOrder = append(r.s.loanOrder, ln.ID)
	return ln, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (loan.Loan, error) {
	defer r.s.lock(ctx)()

	ln, ok := r.s.loans[id]
	if !ok {
		return loan.Loan{}, loan.ErrLoanNotFound
	}
	return ln, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id string) (loan.Loan, error) {
	return r.GetByID(ctx, id)
}

func (r *loanRepository) Update(ctx context.Context, ln loan.Loan) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.loans[ln.ID]; !ok {
		return loan.ErrLoanNotFound
	}
	ln.UpdatedAt = time.Now().UTC()
	r.s.loans[ln.ID] = ln
	return nil
}

func (r *loanRepository) ListActiveByEmployee(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	defer r.s.lock(ctx)()

	var loans []loan.Loan
	for _, id := range r.s.loanOrder {
		ln := r.s.loans[id]
		if ln.EmployeeID == employeeID && ln.Status == loan.StatusActive {
			loans = append(loans, ln)
		}
	}
	return loans, nil
}

func (r *loanRepository) CreateScheduleEntries(ctx context.Context, entries []loan.ScheduleEntry) error {
	defer r.s.lock(ctx)()

	now := time.Now().UTC()
	for _, e := range entries {
		e.ID = newID()
		e.CreatedAt = now
		r.s.scheduleEntries[e.ID] = e
	}
	return nil
}

func (r *loanRepository) GetScheduleEntryForUpdate(ctx context.Context, id string) (loan.ScheduleEntry, error) {
	defer r.s.lock(ctx)()

	e, ok := r.s.scheduleEntries[id]
	if !ok {
		return loan.ScheduleEntry{}, loan.ErrScheduleEntryNotFound
	}
	return e, nil
}

func (r *loanRepository) MarkScheduleEntryPaid(ctx context.Context, id string, paidAt time.Time) error {
	defer r.s.lock(ctx)()

	e, ok := r.s.scheduleEntries[id]
	if !ok {
		return loan.ErrScheduleEntryNotFound
	}
	e.Status = loan.ScheduleStatusPaid
	e.PaidAt = &paidAt
	r.s.scheduleEntries[id] = e
	return nil
}

func (r *loanRepository) ListScheduleByLoan(ctx context.Context, loanID string) ([]loan.ScheduleEntry, error) {
	defer r.s.lock(ctx)()

	var entries []loan.ScheduleEntry
	for _, e := range r.s.scheduleEntries {
		if e.LoanID == loanID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].InstallmentNo < entries[j].InstallmentNo
	})
	return entries, nil
}

func (r *loanRepository) CreateRepayment(ctx context.Context, rp loan.Repayment) (loan.Repayment, error) {
	defer r.s.lock(ctx)()

	rp.ID = newID()
	rp.CreatedAt = time.Now().UTC()
	r.s.repayments[rp.ID] = rp
	r.s.repaymentOrder = append(r.s.repaymentOrder, rp.ID)
	return rp, nil
}

func (r *loanRepository) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]loan.Repayment, error) {
	defer r.s.lock(ctx)()

	var repayments []loan.Repayment
	for _, id := range r.s.repaymentOrder {
		rp := r.s.repayments[id]
		if rp.LoanID == loanID {
			repayments = append(repayments, rp)
		}
	}
	return repayments, nil
}
