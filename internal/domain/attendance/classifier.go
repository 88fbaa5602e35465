package attendance

import "github.com/shopspring/decimal"

// ClassifyPayType maps a closed workday to its pay category. Days that
// were not present/late get no monetary classification here; absence and
// leave money is the leave subsystem's concern.
//
// The full_day branch compares the already-rounded hours for exact
// equality with the scheduled duration; a day one second long or short of
// schedule classifies as overtime or half_day/unpaid respectively.
func ClassifyPayType(status Status, hoursWorked, scheduledHours, halfDayThreshold decimal.Decimal) *PayType {
	if status != StatusPresent && status != StatusLate {
		return nil
	}

	var pt PayType
	switch {
	case hoursWorked.LessThan(scheduledHours):
		if hoursWorked.LessThan(halfDayThreshold) {
			pt = PayTypeUnpaid
		} else {
			pt = PayTypeHalfDay
		}
	case hoursWorked.Equal(scheduledHours):
		pt = PayTypeFullDay
	default:
		pt = PayTypeOvertime
	}
	return &pt
}
