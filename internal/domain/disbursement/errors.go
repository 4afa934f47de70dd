package disbursement

import "errors"

var (
	ErrDisbursementNotFound  = errors.New("disbursement not found")
	ErrAlreadyExists         = errors.New("disbursement already exists for this payslip")
	ErrInvalidTransition     = errors.New("invalid disbursement status transition")
	ErrNoApprovedPayslips    = errors.New("cycle has no approved payslips without disbursements")
	ErrUnsupportedFileFormat = errors.New("unsupported payment file format")
	ErrMissingBankDetails    = errors.New("employee bank details are missing")
)
