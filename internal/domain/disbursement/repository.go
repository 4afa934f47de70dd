package disbursement

import "context"

// Repository defines data access for disbursements.
// All methods take companyID to prevent cross-tenant data access.
type Repository interface {
	Create(ctx context.Context, d Disbursement) (Disbursement, error)
	GetByID(ctx context.Context, id string, companyID string) (Disbursement, error)
	GetByIDs(ctx context.Context, ids []string, companyID string) ([]Disbursement, error)
	ListByCycle(ctx context.Context, cycleID string, companyID string) ([]Disbursement, error)
	// ListOpenByEmployeeCode returns pending/processing disbursements joined
	// with employee identifiers, for reconciliation matching.
	ListOpenByCompany(ctx context.Context, companyID string) ([]Disbursement, error)
	ExistsForPayslip(ctx context.Context, payslipID string, companyID string) (bool, error)
	// UpdateStatusIf performs a compare-and-set: the row is updated only when
	// its current status is one of from. It returns ErrInvalidTransition when
	// no row changed, which also guards two concurrent reconciliation runs
	// against double-completing the same disbursement.
	UpdateStatusIf(ctx context.Context, id string, companyID string, from []Status, to Status, transactionRef, failureReason *string) (Disbursement, error)
}
