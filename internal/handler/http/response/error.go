package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/disbursement"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
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
	// Payroll domain errors
	case errors.Is(err, payroll.ErrCycleNotFound):
		NotFound(w, "Payroll cycle not found")
	case errors.Is(err, payroll.ErrCycleNotDraft):
		Conflict(w, "Payroll cycle is not in draft status")
	case errors.Is(err, payroll.ErrCycleOverlaps):
		Conflict(w, "Payroll cycle overlaps an existing period")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPayslipAlreadyExists):
		Conflict(w, "Payslip already exists for this cycle")
	case errors.Is(err, payroll.ErrPayslipNotDraft):
		Conflict(w, "Payslip is not in draft status")
	case errors.Is(err, payroll.ErrPayslipNotApproved):
		Conflict(w, "Payslip is not approved")
	case errors.Is(err, payroll.ErrComponentNotFound):
		NotFound(w, "Salary component not found")
	case errors.Is(err, payroll.ErrComponentCodeExists):
		Conflict(w, "Salary component code already exists")
	case errors.Is(err, payroll.ErrRulesNotFound):
		NotFound(w, "Payroll rules not found")
	case errors.Is(err, payroll.ErrTaxConfigurationNotFound):
		NotFound(w, "No tax configuration is effective for this date")
	case errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary):
		BadRequest(w, "Employee has no base salary configured", nil)

	// Disbursement domain errors
	case errors.Is(err, disbursement.ErrDisbursementNotFound):
		NotFound(w, "Disbursement not found")
	case errors.Is(err, disbursement.ErrAlreadyExists):
		Conflict(w, "Disbursement already exists for this payslip")
	case errors.Is(err, disbursement.ErrInvalidTransition):
		Conflict(w, "Disbursement status transition is not allowed")
	case errors.Is(err, disbursement.ErrNoApprovedPayslips):
		BadRequest(w, "No approved payslips without a disbursement in this cycle", nil)
	case errors.Is(err, disbursement.ErrUnsupportedFileFormat):
		BadRequest(w, "Unsupported payment file format", nil)
	case errors.Is(err, disbursement.ErrMissingBankDetails):
		BadRequest(w, "One or more disbursements are missing bank details", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
