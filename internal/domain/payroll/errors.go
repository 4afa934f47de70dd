package payroll

import "errors"

var (
	ErrCycleNotFound            = errors.New("payroll cycle not found")
	ErrCycleNotDraft            = errors.New("payroll cycle is not in draft status")
	ErrCycleOverlaps            = errors.New("payroll cycle overlaps an existing cycle")
	ErrInvalidPeriod            = errors.New("invalid payroll period")
	ErrPayslipNotFound          = errors.New("payslip not found")
	ErrPayslipAlreadyExists     = errors.New("payslip already exists for this employee and cycle")
	ErrPayslipNotDraft          = errors.New("payslip is not in draft status")
	ErrPayslipNotApproved       = errors.New("payslip is not approved")
	ErrComponentNotFound        = errors.New("salary component not found")
	ErrComponentCodeExists      = errors.New("salary component code already exists")
	ErrRulesNotFound            = errors.New("payroll rules not found")
	ErrTaxConfigurationNotFound = errors.New("tax configuration not found")
	ErrEmployeeHasNoBaseSalary  = errors.New("employee has no base salary configured")
)
