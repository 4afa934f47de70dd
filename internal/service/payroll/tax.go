package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// TaxCalculator applies slab-based progressive tax to annualized income.
type TaxCalculator struct {
	taxConfigRepo payroll.TaxConfigurationRepository
}

func NewTaxCalculator(taxConfigRepo payroll.TaxConfigurationRepository) *TaxCalculator {
	return &TaxCalculator{taxConfigRepo: taxConfigRepo}
}

// Calculate walks the active slab table in ascending order of slab minimum,
// taxing each band the income crosses. A tenant without an active
// configuration gets zero tax and an empty breakdown, not an error.
func (c *TaxCalculator) Calculate(ctx context.Context, companyID string, annualIncome decimal.Decimal, taxType payroll.TaxType, asOf time.Time) payroll.TaxResult {
	result := payroll.TaxResult{
		AnnualIncome:  annualIncome,
		TotalTax:      decimal.Zero,
		MonthlyTax:    decimal.Zero,
		EffectiveRate: decimal.Zero,
	}

	config, err := c.taxConfigRepo.GetActive(ctx, companyID, taxType, asOf)
	if err != nil {
		if !errors.Is(err, payroll.ErrTaxConfigurationNotFound) {
			slog.Error("Tax configuration lookup failed", "company_id", companyID, "tax_type", taxType, "error", err)
		}
		return result
	}

	slabs := make([]payroll.TaxSlab, len(config.Slabs))
	copy(slabs, config.Slabs)
	sort.SliceStable(slabs, func(i, j int) bool {
		return slabs[i].Min.LessThan(slabs[j].Min)
	})

	for _, slab := range slabs {
		if annualIncome.LessThanOrEqual(slab.Min) {
			continue
		}

		upper := annualIncome
		if slab.Max != nil {
			upper = decimal.Min(annualIncome, *slab.Max)
		}
		taxable := upper.Sub(slab.Min)
		tax := taxable.Mul(slab.Rate).Div(hundred).Round(2)

		result.TotalTax = result.TotalTax.Add(tax)
		result.Breakdown = append(result.Breakdown, payroll.TaxSlabBreakdown{
			Range:         slabRange(slab),
			Rate:          slab.Rate,
			TaxableAmount: taxable,
			Tax:           tax,
		})

		if slab.Max != nil && annualIncome.LessThanOrEqual(*slab.Max) {
			break
		}
	}

	result.TotalTax = result.TotalTax.Round(2)
	result.MonthlyTax = result.TotalTax.Div(twelve).Round(2)
	if annualIncome.IsPositive() {
		result.EffectiveRate = result.TotalTax.Div(annualIncome).Mul(hundred).Round(2)
	}

	return result
}

func slabRange(slab payroll.TaxSlab) string {
	if slab.Max == nil {
		return fmt.Sprintf("%s+", slab.Min)
	}
	return fmt.Sprintf("%s-%s", slab.Min, slab.Max)
}
