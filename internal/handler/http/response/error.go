package response

import (
	"errors"
	"net/http"

	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
	"github.com/kelolahr/hr-backend-go/internal/domain/payroll"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
	"github.com/kelolahr/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrOpenRecordExists):
		Conflict(w, "An open attendance record already exists for this employee")
	case errors.Is(err, attendance.ErrNoAssignedShift):
		ValidationError(w, map[string]string{
			"employee_id": "employee has no assigned shift",
		})
	case errors.Is(err, attendance.ErrNoOpenRecord):
		ValidationError(w, map[string]string{
			"employee_id": "no open attendance record for this employee",
		})
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunOverlap):
		Conflict(w, "A payroll run already covers part of this period")
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrRunNotProcessing):
		Conflict(w, "Payroll run is not in processing status")
	case errors.Is(err, payroll.ErrSalaryStructureMissing):
		InternalServerError(w, "An eligible employee has no salary structure configured")
	case errors.Is(err, payroll.ErrInvalidShift):
		InternalServerError(w, "An eligible employee has an invalid shift configuration")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")

	// Loan domain errors
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrLoanNotPending):
		Conflict(w, "Loan application is not pending")
	case errors.Is(err, loan.ErrLoanNotApproved):
		Conflict(w, "Loan is not in approved status")
	case errors.Is(err, loan.ErrLoanNotActive):
		Conflict(w, "Loan is not active")
	case errors.Is(err, loan.ErrScheduleEntryNotFound):
		NotFound(w, "Amortization schedule entry not found")
	case errors.Is(err, loan.ErrInstallmentAlreadyPaid):
		Conflict(w, "Installment is already paid")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
