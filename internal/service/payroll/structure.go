package payroll

import (
	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	hundred            = decimal.NewFromInt(100)
	two                = decimal.NewFromInt(2)
	overtimeMultiplier = decimal.RequireFromString("1.5")
)

// resolveStructure turns an employee's salary structure rows into
// absolute amounts in two passes: fixed entries first, then percentage
// entries computed from the fixed entry they are based on. A percentage
// whose base is missing resolves from zero rather than failing.
func resolveStructure(rows []payroll.EmployeeSalaryComponent) []payroll.ResolvedComponent {
	fixed := make(map[string]decimal.Decimal, len(rows))
	resolved := make([]payroll.ResolvedComponent, 0, len(rows))

	for _, row := range rows {
		if row.ValueType != payroll.ValueTypeFixed {
			continue
		}
		amount := row.Value.Round(2)
		fixed[row.ComponentName] = amount
		resolved = append(resolved, payroll.ResolvedComponent{
			Name:   row.ComponentName,
			Type:   row.ComponentType,
			Amount: amount,
		})
	}

	for _, row := range rows {
		if row.ValueType != payroll.ValueTypePercentage {
			continue
		}
		var base decimal.Decimal
		if row.BasedOnComponent != nil {
			base = fixed[*row.BasedOnComponent]
		}
		resolved = append(resolved, payroll.ResolvedComponent{
			Name:   row.ComponentName,
			Type:   row.ComponentType,
			Amount: base.Mul(row.Value).Div(hundred).Round(2),
		})
	}

	return resolved
}

// baseSalaryOf picks the resolved Base Salary fixed amount, zero when the
// structure has none.
func baseSalaryOf(resolved []payroll.ResolvedComponent) decimal.Decimal {
	for _, c := range resolved {
		if c.Name == payroll.BaseSalaryComponent {
			return c.Amount
		}
	}
	return decimal.Zero
}

// aggregateAttendance folds a period's classified workdays into the two
// monetary adjustments: loss of pay for unpaid/half days and 1.5x pay for
// hours beyond schedule on overtime days.
func aggregateAttendance(records []attendance.Record, scheduledHours, hourlyPay decimal.Decimal) (lossOfPay, overtimePay decimal.Decimal) {
	for _, rec := range records {
		if rec.PayType == nil {
			continue
		}
		switch *rec.PayType {
		case attendance.PayTypeUnpaid:
			lossOfPay = lossOfPay.Add(hourlyPay.Mul(scheduledHours).Round(2))
		case attendance.PayTypeHalfDay:
			lossOfPay = lossOfPay.Add(hourlyPay.Mul(scheduledHours).Div(two).Round(2))
		case attendance.PayTypeOvertime:
			if rec.HoursWorked == nil {
				continue
			}
			extra := rec.HoursWorked.Sub(scheduledHours)
			if extra.IsPositive() {
				overtimePay = overtimePay.Add(extra.Mul(hourlyPay).Mul(overtimeMultiplier).Round(2))
			}
		}
	}
	return lossOfPay, overtimePay
}
