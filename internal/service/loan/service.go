package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type LoanServiceImpl struct {
	txm          database.TxManager
	loanRepo     loan.Repository
	employeeRepo employee.Repository
}

func NewLoanService(
	txm database.TxManager,
	loanRepo loan.Repository,
	employeeRepo employee.Repository,
) loan.Service {
	return &LoanServiceImpl{
		txm:          txm,
		loanRepo:     loanRepo,
		employeeRepo: employeeRepo,
	}
}

// Apply implements loan.Service.
func (s *LoanServiceImpl) Apply(ctx context.Context, req loan.ApplyRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return loan.LoanResponse{}, employee.ErrEmployeeNotFound
		}
		return loan.LoanResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	created, err := s.loanRepo.Create(ctx, loan.Loan{
		EmployeeID:      req.EmployeeID,
		PrincipalAmount: req.PrincipalAmount.Round(2),
		EmiAmount:       decimal.Zero,
		TenureMonths:    req.TenureMonths,
		InterestRate:    req.InterestRate,
		Status:          loan.StatusPending,
	})
	if err != nil {
		return loan.LoanResponse{}, fmt.Errorf("failed to create loan application: %w", err)
	}
	return mapLoanToResponse(created), nil
}

// Approve implements loan.Service.
func (s *LoanServiceImpl) Approve(ctx context.Context, loanID string) (loan.LoanResponse, error) {
	var approved loan.Loan
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		ln, err := s.loanRepo.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, loan.ErrLoanNotFound) {
				return loan.ErrLoanNotFound
			}
			return fmt.Errorf("failed to lock loan: %w", err)
		}
		if ln.Status != loan.StatusPending {
			return loan.ErrLoanNotPending
		}

		ln.Status = loan.StatusApproved
		if err := s.loanRepo.Update(ctx, ln); err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		approved = ln
		return nil
	})
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return mapLoanToResponse(approved), nil
}

// Disburse implements loan.Service. Schedule generation, loan activation
// and the EMI snapshot happen in one transaction.
func (s *LoanServiceImpl) Disburse(ctx context.Context, req loan.DisburseRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}
	disbursementDate, _ := time.Parse("2006-01-02", req.DisbursementDate)

	var disbursed loan.Loan
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		ln, err := s.loanRepo.GetByIDForUpdate(ctx, req.LoanID)
		if err != nil {
			if errors.Is(err, loan.ErrLoanNotFound) {
				return loan.ErrLoanNotFound
			}
			return fmt.Errorf("failed to lock loan: %w", err)
		}
		if ln.Status != loan.StatusApproved {
			return loan.ErrLoanNotApproved
		}

		entries := BuildSchedule(ln.ID, ln.PrincipalAmount, ln.TenureMonths, ln.InterestRate, disbursementDate)
		if err := s.loanRepo.CreateScheduleEntries(ctx, entries); err != nil {
			return fmt.Errorf("failed to create amortization schedule: %w", err)
		}

		ln.Status = loan.StatusActive
		ln.EmiAmount = entries[0].EmiAmount
		ln.RemainingInstallments = ln.TenureMonths
		ln.DisbursementDate = &disbursementDate
		ln.DisbursementRef = &req.Reference
		if err := s.loanRepo.Update(ctx, ln); err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		disbursed = ln
		return nil
	})
	if err != nil {
		return loan.LoanResponse{}, err
	}

	slog.Info("loan disbursed",
		"loan_id", disbursed.ID,
		"employee_id", disbursed.EmployeeID,
		"emi_amount", disbursed.EmiAmount.String(),
		"tenure_months", disbursed.TenureMonths,
	)
	return mapLoanToResponse(disbursed), nil
}

// ManualRepayEmi implements loan.Service.
func (s *LoanServiceImpl) ManualRepayEmi(ctx context.Context, req loan.ManualRepayRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}
	repaymentDate, _ := time.Parse("2006-01-02", req.RepaymentDate)

	var repaid loan.Loan
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.loanRepo.GetScheduleEntryForUpdate(ctx, req.ScheduleEntryID)
		if err != nil {
			if errors.Is(err, loan.ErrScheduleEntryNotFound) {
				return loan.ErrScheduleEntryNotFound
			}
			return fmt.Errorf("failed to lock schedule entry: %w", err)
		}
		if entry.Status == loan.ScheduleStatusPaid {
			return loan.ErrInstallmentAlreadyPaid
		}

		ln, err := s.loanRepo.GetByIDForUpdate(ctx, entry.LoanID)
		if err != nil {
			return fmt.Errorf("failed to lock loan: %w", err)
		}
		if ln.Status != loan.StatusActive {
			return loan.ErrLoanNotActive
		}

		if err := s.loanRepo.MarkScheduleEntryPaid(ctx, entry.ID, repaymentDate); err != nil {
			return fmt.Errorf("failed to mark installment paid: %w", err)
		}
		if _, err := s.loanRepo.CreateRepayment(ctx, loan.Repayment{
			LoanID:         ln.ID,
			Amount:         entry.EmiAmount,
			RepaymentDate:  repaymentDate,
			TransactionRef: req.TransactionRef,
			Source:         loan.RepaymentSourceManual,
		}); err != nil {
			return fmt.Errorf("failed to create repayment: %w", err)
		}

		ln.RemainingInstallments--
		if ln.RemainingInstallments <= 0 {
			ln.RemainingInstallments = 0
			ln.Status = loan.StatusPaidOff
		}
		if err := s.loanRepo.Update(ctx, ln); err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		repaid = ln
		return nil
	})
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return mapLoanToResponse(repaid), nil
}

// GetSchedule implements loan.Service.
func (s *LoanServiceImpl) GetSchedule(ctx context.Context, loanID string) ([]loan.ScheduleEntryResponse, error) {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, loan.ErrLoanNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	entries, err := s.loanRepo.ListScheduleByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}

	responses := make([]loan.ScheduleEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, loan.ScheduleEntryResponse{
			ID:                 e.ID,
			LoanID:             e.LoanID,
			InstallmentNo:      e.InstallmentNo,
			DueDate:            e.DueDate.Format("2006-01-02"),
			EmiAmount:          e.EmiAmount,
			PrincipalComponent: e.PrincipalComponent,
			InterestComponent:  e.InterestComponent,
			Status:             string(e.Status),
		})
	}
	return responses, nil
}

func mapLoanToResponse(ln loan.Loan) loan.LoanResponse {
	var disbursementDate *string
	if ln.DisbursementDate != nil {
		str := ln.DisbursementDate.Format("2006-01-02")
		disbursementDate = &str
	}
	return loan.LoanResponse{
		ID:                    ln.ID,
		EmployeeID:            ln.EmployeeID,
		PrincipalAmount:       ln.PrincipalAmount,
		EmiAmount:             ln.EmiAmount,
		TenureMonths:          ln.TenureMonths,
		InterestRate:          ln.InterestRate,
		Status:                string(ln.Status),
		RemainingInstallments: ln.RemainingInstallments,
		DisbursementDate:      disbursementDate,
	}
}
