package payroll

import "errors"

var (
	ErrRunOverlap             = errors.New("a payroll run already covers part of this period")
	ErrRunNotFound            = errors.New("payroll run not found")
	ErrRunNotProcessing       = errors.New("payroll run is not in processing status")
	ErrSalaryStructureMissing = errors.New("employee has no salary structure configured")
	ErrInvalidShift           = errors.New("employee shift is missing or has non-positive scheduled hours")
	ErrPayslipNotFound        = errors.New("payslip not found")
)
