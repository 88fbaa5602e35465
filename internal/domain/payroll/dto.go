package payroll

import (
	"github.com/kelolahr/hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// PAYROLL DTOs
// ========================================

type InitiateRunRequest struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

func (r *InitiateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(r.FromDate)
	if !okFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "must be formatted as YYYY-MM-DD",
		})
	}
	to, okTo := validator.IsValidDate(r.ToDate)
	if !okTo {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "must be formatted as YYYY-MM-DD",
		})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "must not be before from_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunResponse struct {
	ID          string          `json:"id"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Status      string          `json:"status"`
	TotalNetPay decimal.Decimal `json:"total_net_pay"`
}

type PayslipDetailResponse struct {
	ComponentName string          `json:"component_name"`
	ComponentType string          `json:"component_type"`
	Amount        decimal.Decimal `json:"amount"`
}

type PayslipResponse struct {
	ID              string                  `json:"id"`
	PayrollRunID    string                  `json:"payroll_run_id"`
	EmployeeID      string                  `json:"employee_id"`
	TotalEarnings   decimal.Decimal         `json:"total_earnings"`
	TotalDeductions decimal.Decimal         `json:"total_deductions"`
	NetPay          decimal.Decimal         `json:"net_pay"`
	Details         []PayslipDetailResponse `json:"details,omitempty"`
}
