package loan

import (
	"github.com/kelolahr/hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// LOAN DTOs
// ========================================

type ApplyRequest struct {
	EmployeeID      string          `json:"employee_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	TenureMonths    int             `json:"tenure_months"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
}

func (r *ApplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if !r.PrincipalAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "principal_amount",
			Message: "must be greater than zero",
		})
	}
	if r.TenureMonths < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "tenure_months",
			Message: "must be at least 1",
		})
	}
	if r.InterestRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "interest_rate",
			Message: "must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DisburseRequest struct {
	LoanID           string `json:"loan_id"`
	DisbursementDate string `json:"disbursement_date"`
	Reference        string `json:"reference"`
}

func (r *DisburseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LoanID) {
		errs = append(errs, validator.ValidationError{
			Field:   "loan_id",
			Message: "loan_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.DisbursementDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "disbursement_date",
			Message: "must be formatted as YYYY-MM-DD",
		})
	}
	if validator.IsEmpty(r.Reference) {
		errs = append(errs, validator.ValidationError{
			Field:   "reference",
			Message: "reference is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ManualRepayRequest struct {
	ScheduleEntryID string `json:"schedule_entry_id"`
	RepaymentDate   string `json:"repayment_date"`
	TransactionRef  string `json:"transaction_ref"`
}

func (r *ManualRepayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ScheduleEntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule_entry_id",
			Message: "schedule_entry_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.RepaymentDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "repayment_date",
			Message: "must be formatted as YYYY-MM-DD",
		})
	}
	if validator.IsEmpty(r.TransactionRef) {
		errs = append(errs, validator.ValidationError{
			Field:   "transaction_ref",
			Message: "transaction_ref is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoanResponse struct {
	ID                    string          `json:"id"`
	EmployeeID            string          `json:"employee_id"`
	PrincipalAmount       decimal.Decimal `json:"principal_amount"`
	EmiAmount             decimal.Decimal `json:"emi_amount"`
	TenureMonths          int             `json:"tenure_months"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	Status                string          `json:"status"`
	RemainingInstallments int             `json:"remaining_installments"`
	DisbursementDate      *string         `json:"disbursement_date"`
}

type ScheduleEntryResponse struct {
	ID                 string          `json:"id"`
	LoanID             string          `json:"loan_id"`
	InstallmentNo      int             `json:"installment_no"`
	DueDate            string          `json:"due_date"`
	EmiAmount          decimal.Decimal `json:"emi_amount"`
	PrincipalComponent decimal.Decimal `json:"principal_component"`
	InterestComponent  decimal.Decimal `json:"interest_component"`
	Status             string          `json:"status"`
}
