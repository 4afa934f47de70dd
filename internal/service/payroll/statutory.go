package payroll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// StatutoryCalculator computes the capped provident fund, capped insurance,
// and professional tax deductions from tenant rules.
type StatutoryCalculator struct {
	taxConfigRepo payroll.TaxConfigurationRepository
}

func NewStatutoryCalculator(taxConfigRepo payroll.TaxConfigurationRepository) *StatutoryCalculator {
	return &StatutoryCalculator{taxConfigRepo: taxConfigRepo}
}

// Calculate returns the statutory set for one employee-month.
//
// PF caps the contributing wage at the limit. ESI is an eligibility cliff:
// a gross above the wage limit contributes nothing at all, there is no capped
// partial contribution. Professional tax comes from the active slab table and
// silently defaults to zero when a tenant has none configured.
func (c *StatutoryCalculator) Calculate(ctx context.Context, companyID string, basic, gross decimal.Decimal, rules payroll.Rules, asOf time.Time) payroll.StatutoryDeductions {
	result := payroll.StatutoryDeductions{
		PF:              decimal.Zero,
		ESI:             decimal.Zero,
		ProfessionalTax: decimal.Zero,
	}

	pfWage := decimal.Min(basic, rules.PFWageLimit)
	result.PF = pfWage.Mul(rules.PFRate).Round(2)

	if gross.LessThanOrEqual(rules.ESIWageLimit) {
		result.ESI = gross.Mul(rules.ESIRate).Round(2)
	}

	result.ProfessionalTax = c.professionalTax(ctx, companyID, gross, asOf)

	return result
}

// professionalTax looks up the flat monthly amount of the slab containing the
// monthly gross.
func (c *StatutoryCalculator) professionalTax(ctx context.Context, companyID string, gross decimal.Decimal, asOf time.Time) decimal.Decimal {
	config, err := c.taxConfigRepo.GetActive(ctx, companyID, payroll.TaxTypeProfessional, asOf)
	if err != nil {
		if !errors.Is(err, payroll.ErrTaxConfigurationNotFound) {
			slog.Error("Professional tax lookup failed", "company_id", companyID, "error", err)
		}
		return decimal.Zero
	}

	for _, slab := range config.Slabs {
		if gross.LessThan(slab.Min) {
			continue
		}
		if slab.Max != nil && gross.GreaterThan(*slab.Max) {
			continue
		}
		return slab.Rate.Round(2)
	}
	return decimal.Zero
}
