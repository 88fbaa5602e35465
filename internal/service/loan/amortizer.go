package loan

import (
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// monthlyRate converts an annual percentage rate to a monthly fraction.
func monthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(twelve).Div(hundred)
}

// ComputeEMI returns the fixed monthly installment for a principal over
// tenureMonths at the given annual rate. A zero rate degrades to a plain
// principal split, which is how salary advances (tenure 1, rate 0) come
// out as a single full-principal installment.
func ComputeEMI(principal decimal.Decimal, tenureMonths int, annualRate decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(tenureMonths))
	r := monthlyRate(annualRate)
	if !r.IsPositive() {
		return principal.Div(n).Round(2)
	}
	growth := one.Add(r).Pow(n)
	return principal.Mul(r).Mul(growth).Div(growth.Sub(one)).Round(2)
}

// BuildSchedule generates the full amortization schedule for a loan
// disbursed on disbursementDate: for each month the interest accrues on
// the outstanding balance and the rest of the EMI retires principal.
// The principal components sum back to the principal within rounding.
func BuildSchedule(loanID string, principal decimal.Decimal, tenureMonths int, annualRate decimal.Decimal, disbursementDate time.Time) []loan.ScheduleEntry {
	emi := ComputeEMI(principal, tenureMonths, annualRate)
	r := monthlyRate(annualRate)

	entries := make([]loan.ScheduleEntry, 0, tenureMonths)
	balance := principal
	for i := 1; i <= tenureMonths; i++ {
		interest := balance.Mul(r).Round(2)
		principalComponent := emi.Sub(interest)
		balance = balance.Sub(principalComponent)

		entries = append(entries, loan.ScheduleEntry{
			LoanID:             loanID,
			InstallmentNo:      i,
			DueDate:            disbursementDate.AddDate(0, i, 0),
			EmiAmount:          emi,
			PrincipalComponent: principalComponent,
			InterestComponent:  interest,
			Status:             loan.ScheduleStatusPending,
		})
	}
	return entries
}
