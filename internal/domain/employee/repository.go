package employee

import "context"

// EmployeeRepository is the read-only view of employee master data this
// engine consumes.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	GetByIDs(ctx context.Context, ids []string, companyID string) ([]Employee, error)
}
