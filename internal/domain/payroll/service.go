package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service is the payroll engine surface: cycle lifecycle, payslip generation
// and approval, tenant configuration, and pure what-if calculators.
type Service interface {
	// Cycles
	CreateCycle(ctx context.Context, req CreateCycleRequest) (CycleResponse, error)
	GetCycle(ctx context.Context, id string) (CycleResponse, error)
	ListCycles(ctx context.Context, filter CycleFilter) ([]CycleResponse, int64, error)

	// Generation and approval
	GeneratePayslips(ctx context.Context, cycleID string) (GenerationSummary, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) (ListPayslipResponse, error)
	ListPayslipsByCycle(ctx context.Context, cycleID string) ([]PayslipResponse, error)
	ApprovePayslip(ctx context.Context, id string) (PayslipResponse, error)

	// Components
	CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error)
	GetComponent(ctx context.Context, id string) (ComponentResponse, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]ComponentResponse, error)
	UpdateComponent(ctx context.Context, req UpdateComponentRequest) error
	DeactivateComponent(ctx context.Context, id string) error

	// Rules
	GetRules(ctx context.Context) (RulesResponse, error)
	UpdateRules(ctx context.Context, req UpdateRulesRequest) (RulesResponse, error)

	// Tax configurations
	CreateTaxConfiguration(ctx context.Context, req CreateTaxConfigurationRequest) (TaxConfigurationResponse, error)
	ListTaxConfigurations(ctx context.Context) ([]TaxConfigurationResponse, error)

	// Pure read operations for preview / what-if use
	CalculateTax(ctx context.Context, annualIncome decimal.Decimal, taxType TaxType) (TaxResult, error)
	CalculateStatutoryDeductions(ctx context.Context, basic, gross decimal.Decimal) (StatutoryDeductions, error)
}
