package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// GratuityCalculator computes the monthly reserve toward an eventual lump-sum
// gratuity payment. The accrual is a liability memo tracked on the payslip; it
// never reduces take-home pay.
type GratuityCalculator struct{}

func NewGratuityCalculator() *GratuityCalculator {
	return &GratuityCalculator{}
}

// Accrual returns zero until the tenant enables gratuity and the employee
// crosses the whole-year tenure threshold; eligibility is all-or-nothing, not
// a linear ramp. Once eligible:
//
//	accrual = (basic / divisor) * daysFactor / 12
func (c *GratuityCalculator) Accrual(basic decimal.Decimal, hireDate time.Time, rules payroll.Rules, asOf time.Time) decimal.Decimal {
	if !rules.GratuityEnabled {
		return decimal.Zero
	}
	if wholeYearsSince(hireDate, asOf) < rules.GratuityMinYears {
		return decimal.Zero
	}
	if !rules.GratuityDivisor.IsPositive() {
		return decimal.Zero
	}

	return basic.Div(rules.GratuityDivisor).Mul(rules.GratuityDaysFactor).Div(twelve).Round(2)
}

func wholeYearsSince(start, asOf time.Time) int {
	years := asOf.Year() - start.Year()
	anniversary := start.AddDate(years, 0, 0)
	if anniversary.After(asOf) {
		years--
	}
	return years
}
