package payroll

import (
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/formula"
	"github.com/shopspring/decimal"
)

var (
	thirty    = decimal.NewFromInt(30)
	hundred   = decimal.NewFromInt(100)
	twelve    = decimal.NewFromInt(12)
	workHours = decimal.NewFromInt(8)
)

// ComponentResult is the outcome of one component evaluation run. Gross here
// is the component-level gross (pro-rated basic plus allowances); the payslip
// gross additionally includes bonuses and overtime pay.
type ComponentResult struct {
	Allowances      map[string]decimal.Decimal
	Deductions      map[string]decimal.Decimal
	Bonuses         map[string]decimal.Decimal
	AllowancesTotal decimal.Decimal
	DeductionsTotal decimal.Decimal
	BonusesTotal    decimal.Decimal
	Gross           decimal.Decimal
}

// ComponentEngine evaluates configured salary components for one employee.
//
// Evaluation order is fixed by calculation-type priority — fixed, then
// percentage-of-basic, then formula, then percentage-of-gross — and by
// configuration order within a tier. Percentage-of-gross components must see
// the gross built from everything before them, and formula components may
// reference any component already computed in the run.
type ComponentEngine struct{}

func NewComponentEngine() *ComponentEngine {
	return &ComponentEngine{}
}

// Evaluate runs the allowance pass first (building the running gross from the
// pro-rated basic), then the deduction and bonus passes against the final
// gross. All amounts are rounded to 2 decimal places.
func (e *ComponentEngine) Evaluate(components []payroll.SalaryComponent, basic decimal.Decimal, proratedBasic decimal.Decimal, att payroll.AttendanceFact) ComponentResult {
	ordered := make([]payroll.SalaryComponent, 0, len(components))
	for _, c := range components {
		if c.IsActive {
			ordered = append(ordered, c)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := ordered[i].CalculationType.Priority(), ordered[j].CalculationType.Priority()
		if pi != pj {
			return pi < pj
		}
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	result := ComponentResult{
		Allowances:      make(map[string]decimal.Decimal),
		Deductions:      make(map[string]decimal.Decimal),
		Bonuses:         make(map[string]decimal.Decimal),
		AllowancesTotal: decimal.Zero,
		DeductionsTotal: decimal.Zero,
		BonusesTotal:    decimal.Zero,
	}

	computed := make(map[string]decimal.Decimal)
	runningGross := proratedBasic

	// Allowance pass: each allowance is folded into the running gross so later
	// percentage-of-gross and formula allowances observe it.
	for _, c := range ordered {
		if c.Type != payroll.ComponentTypeAllowance {
			continue
		}
		amount := e.amountFor(c, basic, runningGross, att, computed)
		result.Allowances[c.Code] = amount
		result.AllowancesTotal = result.AllowancesTotal.Add(amount)
		computed[c.Code] = amount
		runningGross = runningGross.Add(amount)
	}
	result.Gross = runningGross

	// Deduction and bonus passes evaluate against the final gross; a deduction
	// does not shrink the gross another deduction sees.
	for _, c := range ordered {
		switch c.Type {
		case payroll.ComponentTypeDeduction:
			amount := e.amountFor(c, basic, result.Gross, att, computed)
			result.Deductions[c.Code] = amount
			result.DeductionsTotal = result.DeductionsTotal.Add(amount)
			computed[c.Code] = amount
		case payroll.ComponentTypeBonus:
			amount := e.amountFor(c, basic, result.Gross, att, computed)
			result.Bonuses[c.Code] = amount
			result.BonusesTotal = result.BonusesTotal.Add(amount)
			computed[c.Code] = amount
		}
	}

	return result
}

func (e *ComponentEngine) amountFor(c payroll.SalaryComponent, basic, gross decimal.Decimal, att payroll.AttendanceFact, computed map[string]decimal.Decimal) decimal.Decimal {
	switch c.CalculationType {
	case payroll.CalculationTypeFixed:
		return prorate(c.Value, att.PresentDays)

	case payroll.CalculationTypePercentageOfBasic:
		return prorate(basic.Mul(c.Value).Div(hundred), att.PresentDays)

	case payroll.CalculationTypePercentageOfGross:
		// Gross already reflects attendance; no second proration.
		return gross.Mul(c.Value).Div(hundred).Round(2)

	case payroll.CalculationTypeFormula:
		if c.Formula == nil {
			slog.Warn("Formula component has no formula text", "component", c.Code)
			return decimal.Zero
		}
		vars := map[string]decimal.Decimal{
			"BASIC":        basic,
			"BASIC_SALARY": basic,
			"GROSS":        gross,
			"GROSS_SALARY": gross,
			"PRESENT_DAYS": att.PresentDays,
			"WORKING_DAYS": decimal.NewFromInt(int64(att.WorkingDays)),
		}
		for code, amount := range computed {
			vars[code] = amount
		}
		amount, err := formula.Evaluate(*c.Formula, vars)
		if err != nil {
			// A broken formula is a tenant configuration problem; it must not
			// abort payroll for anyone, so the component resolves to zero.
			slog.Warn("Formula evaluation failed", "component", c.Code, "error", err)
			return decimal.Zero
		}
		return amount.Round(2)
	}

	slog.Warn("Unknown calculation type", "component", c.Code, "calculation_type", c.CalculationType)
	return decimal.Zero
}

// prorate applies the 30-day month convention: (value / 30) * presentDays.
func prorate(value, presentDays decimal.Decimal) decimal.Decimal {
	return value.Div(thirty).Mul(presentDays).Round(2)
}

// overtimePay derives the overtime amount from the monthly basic using the
// same 30-day convention and an 8-hour day, scaled by the tenant multiplier.
func overtimePay(basic, overtimeHours, multiplier decimal.Decimal) decimal.Decimal {
	if overtimeHours.IsZero() {
		return decimal.Zero
	}
	hourlyRate := basic.Div(thirty).Div(workHours)
	return hourlyRate.Mul(overtimeHours).Mul(multiplier).Round(2)
}
