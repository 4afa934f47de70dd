package attendance

import (
	"context"
	"time"
)

// Repository is the read-only view of raw attendance entries.
type Repository interface {
	ListByEmployeeAndPeriod(ctx context.Context, employeeID, companyID string, start, end time.Time) ([]Entry, error)
}
