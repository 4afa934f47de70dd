package disbursement

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== DISBURSEMENT DTOs ==========

type Response struct {
	ID             string          `json:"id"`
	CycleID        string          `json:"cycle_id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name,omitempty"`
	EmployeeCode   string          `json:"employee_code,omitempty"`
	PayslipID      string          `json:"payslip_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	Status         string          `json:"status"`
	TransactionRef *string         `json:"transaction_ref,omitempty"`
	FailureReason  *string         `json:"failure_reason,omitempty"`
}

type CreateResult struct {
	CycleID       string          `json:"cycle_id"`
	Created       int             `json:"created"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Disbursements []Response      `json:"disbursements"`
}

// ========== STATUS UPDATE DTOs ==========

type UpdateStatusRequest struct {
	ID             string
	Status         string  `json:"status"`
	TransactionRef *string `json:"transaction_ref,omitempty"`
	FailureReason  *string `json:"failure_reason,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Status, []string{"processing", "completed", "failed"}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'processing', 'completed' or 'failed'"})
	}
	if r.Status == string(StatusFailed) && (r.FailureReason == nil || validator.IsEmpty(*r.FailureReason)) {
		errs = append(errs, validator.ValidationError{Field: "failure_reason", Message: "is required when status is 'failed'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkUpdateStatusRequest struct {
	IDs            []string `json:"ids"`
	Status         string   `json:"status"`
	TransactionRef *string  `json:"transaction_ref,omitempty"`
	FailureReason  *string  `json:"failure_reason,omitempty"`
}

func (r *BulkUpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.IDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "ids", Message: "at least one disbursement id is required"})
	}
	single := UpdateStatusRequest{Status: r.Status, FailureReason: r.FailureReason}
	if err := single.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkUpdateResult reports per-row outcomes; one bad row never aborts the rest.
type BulkUpdateResult struct {
	Updated []Response        `json:"updated"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ========== PAYMENT FILE DTOs ==========

type GeneratePaymentFileRequest struct {
	DisbursementIDs []string `json:"disbursement_ids"`
	Format          string   `json:"format"`
}

func (r *GeneratePaymentFileRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.DisbursementIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "disbursement_ids", Message: "at least one disbursement id is required"})
	}
	if !validator.IsInSlice(r.Format, []string{"csv", "bank_transfer"}) {
		errs = append(errs, validator.ValidationError{Field: "format", Message: "must be 'csv' or 'bank_transfer'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentFile struct {
	Filename    string          `json:"filename"`
	Payload     string          `json:"payload"`
	RecordCount int             `json:"record_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ========== RECONCILIATION DTOs ==========

// ReconcileEntry is one externally reported bank confirmation line.
type ReconcileEntry struct {
	EmployeeCode string          `json:"employee_code"`
	Amount       decimal.Decimal `json:"amount"`
	Reference    *string         `json:"reference,omitempty"`
}

type ReconcileRequest struct {
	Entries []ReconcileEntry `json:"entries"`
}

func (r *ReconcileRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{Field: "entries", Message: "at least one entry is required"})
	}
	for _, e := range r.Entries {
		if validator.IsEmpty(e.EmployeeCode) {
			errs = append(errs, validator.ValidationError{Field: "entries", Message: "every entry needs an employee_code"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReconcileOutcome is the per-entry result of a reconciliation run.
type ReconcileOutcome struct {
	EmployeeCode   string          `json:"employee_code"`
	DisbursementID string          `json:"disbursement_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason,omitempty"`
}

type ReconcileResult struct {
	Completed []ReconcileOutcome `json:"completed"`
	Failed    []ReconcileOutcome `json:"failed"`
	NotFound  []ReconcileOutcome `json:"not_found"`
}
