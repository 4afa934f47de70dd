package disbursement

import "context"

// Service is the disbursement surface: batching approved payslips into bank
// instructions, emitting payment files, and reconciling confirmations.
type Service interface {
	CreateForCycle(ctx context.Context, cycleID string) (CreateResult, error)
	Get(ctx context.Context, id string) (Response, error)
	ListByCycle(ctx context.Context, cycleID string) ([]Response, error)
	GeneratePaymentFile(ctx context.Context, req GeneratePaymentFileRequest) (PaymentFile, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (Response, error)
	BulkUpdateStatus(ctx context.Context, req BulkUpdateStatusRequest) (BulkUpdateResult, error)
	Reconcile(ctx context.Context, req ReconcileRequest) (ReconcileResult, error)
}
