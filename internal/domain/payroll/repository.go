package payroll

import (
	"context"
	"time"
)

// CycleRepository defines data access for payroll cycles.
// All methods take companyID to prevent cross-tenant data access.
type CycleRepository interface {
	Create(ctx context.Context, cycle Cycle) (Cycle, error)
	GetByID(ctx context.Context, id string, companyID string) (Cycle, error)
	List(ctx context.Context, companyID string, filter CycleFilter) ([]Cycle, int64, error)
	// ListProcessing returns processing cycles across all tenants; used by the
	// background sweep that completes settled cycles.
	ListProcessing(ctx context.Context) ([]Cycle, error)
	// UpdateStatusIf transitions the cycle only when its current status matches
	// from; it returns ErrCycleNotFound when no row changed.
	UpdateStatusIf(ctx context.Context, id string, companyID string, from, to CycleStatus) error
}

// PayslipRepository defines data access for payslips.
type PayslipRepository interface {
	Create(ctx context.Context, payslip Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string, companyID string) (Payslip, error)
	GetByCycleAndEmployee(ctx context.Context, cycleID, employeeID, companyID string) (Payslip, error)
	ListByCycle(ctx context.Context, cycleID string, companyID string) ([]Payslip, error)
	List(ctx context.Context, companyID string, filter PayslipFilter) ([]Payslip, int64, error)
	Approve(ctx context.Context, id string, companyID string, approvedBy string, approvedAt time.Time) error
	// MarkPaid transitions an approved payslip to paid; it returns
	// ErrPayslipNotApproved when the row is in any other status.
	MarkPaid(ctx context.Context, id string, companyID string, paidAt time.Time) error
	CountUnpaidByCycle(ctx context.Context, cycleID string, companyID string) (int64, error)
}

// ComponentRepository defines data access for salary component configuration.
type ComponentRepository interface {
	Create(ctx context.Context, component SalaryComponent) (SalaryComponent, error)
	GetByID(ctx context.Context, id string, companyID string) (SalaryComponent, error)
	ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]SalaryComponent, error)
	Update(ctx context.Context, companyID string, req UpdateComponentRequest) error
	Deactivate(ctx context.Context, id string, companyID string) error
}

// RulesRepository defines data access for tenant payroll rules.
type RulesRepository interface {
	// Get returns ErrRulesNotFound when the tenant has no stored rules;
	// callers fall back to DefaultRules.
	Get(ctx context.Context, companyID string) (Rules, error)
	Upsert(ctx context.Context, rules Rules) (Rules, error)
}

// TaxConfigurationRepository defines data access for slab tables.
type TaxConfigurationRepository interface {
	Create(ctx context.Context, config TaxConfiguration) (TaxConfiguration, error)
	// GetActive returns the configuration of the given type effective on date,
	// or ErrTaxConfigurationNotFound.
	GetActive(ctx context.Context, companyID string, taxType TaxType, date time.Time) (TaxConfiguration, error)
	ListByCompany(ctx context.Context, companyID string) ([]TaxConfiguration, error)
}
