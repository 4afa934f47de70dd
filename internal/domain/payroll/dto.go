package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CYCLE DTOs ==========

type CreateCycleRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PaymentDate string `json:"payment_date"`
}

func (r *CreateCycleRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	payment, okPay := validator.IsValidDate(r.PaymentDate)
	if !okPay {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if okStart && okEnd && !end.After(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be after period_start"})
	}
	if okEnd && okPay && payment.Before(end) {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must not be before period_end"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CycleResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PaymentDate string `json:"payment_date"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by"`
}

type CycleFilter struct {
	Status *string
	Page   int
	Limit  int
}

// ========== GENERATION DTOs ==========

// GenerationIssue records one employee skipped or failed during a batch run.
type GenerationIssue struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// GenerationSummary is the batch result of GeneratePayslips: per-employee
// failures are isolated, so counts stay accurate even when some employees
// could not be processed.
type GenerationSummary struct {
	CycleID    string            `json:"cycle_id"`
	Generated  int               `json:"generated"`
	Skipped    []GenerationIssue `json:"skipped,omitempty"`
	Failed     []GenerationIssue `json:"failed,omitempty"`
	TotalGross decimal.Decimal   `json:"total_gross"`
	TotalNet   decimal.Decimal   `json:"total_net"`
	Payslips   []PayslipResponse `json:"payslips"`
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	ID              string                     `json:"id"`
	CycleID         string                     `json:"cycle_id"`
	EmployeeID      string                     `json:"employee_id"`
	EmployeeName    string                     `json:"employee_name,omitempty"`
	EmployeeCode    string                     `json:"employee_code,omitempty"`
	BasicSalary     decimal.Decimal            `json:"basic_salary"`
	Allowances      map[string]decimal.Decimal `json:"allowances,omitempty"`
	AllowancesTotal decimal.Decimal            `json:"allowances_total"`
	BonusesTotal    decimal.Decimal            `json:"bonuses_total"`
	OvertimePay     decimal.Decimal            `json:"overtime_pay"`
	GrossSalary     decimal.Decimal            `json:"gross_salary"`
	TaxDeduction    decimal.Decimal            `json:"tax_deduction"`
	Deductions      map[string]decimal.Decimal `json:"deductions,omitempty"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	NetSalary       decimal.Decimal            `json:"net_salary"`
	GratuityAccrual decimal.Decimal            `json:"gratuity_accrual"`
	PresentDays     decimal.Decimal            `json:"present_days"`
	AbsentDays      decimal.Decimal            `json:"absent_days"`
	LeaveDays       decimal.Decimal            `json:"leave_days"`
	OvertimeHours   decimal.Decimal            `json:"overtime_hours"`
	WorkingDays     int                        `json:"working_days"`
	Status          string                     `json:"status"`
	ApprovedBy      *string                    `json:"approved_by,omitempty"`
	ApprovedAt      *string                    `json:"approved_at,omitempty"`
	PaidAt          *string                    `json:"paid_at,omitempty"`
}

type PayslipFilter struct {
	CycleID    *string
	EmployeeID *string
	Status     *string
	Page       int
	Limit      int
}

type ListPayslipResponse struct {
	Data       []PayslipResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	CalculationType string          `json:"calculation_type"`
	Value           decimal.Decimal `json:"value"`
	Formula         *string         `json:"formula,omitempty"`
	SortOrder       int             `json:"sort_order"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "is required"})
	} else if !validator.IsValidComponentCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be an uppercase identifier such as 'HRA' or 'SPECIAL_ALLOWANCE'"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsInSlice(r.Type, []string{"allowance", "deduction", "bonus"}) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'allowance', 'deduction' or 'bonus'"})
	}
	if !validator.IsInSlice(r.CalculationType, []string{"fixed", "percentage_of_basic", "percentage_of_gross", "formula"}) {
		errs = append(errs, validator.ValidationError{Field: "calculation_type", Message: "must be a supported calculation type"})
	}
	if r.CalculationType == string(CalculationTypeFormula) && (r.Formula == nil || validator.IsEmpty(*r.Formula)) {
		errs = append(errs, validator.ValidationError{Field: "formula", Message: "is required for formula components"})
	}
	if r.Value.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateComponentRequest struct {
	ID        string
	Name      *string          `json:"name,omitempty"`
	Value     *decimal.Decimal `json:"value,omitempty"`
	Formula   *string          `json:"formula,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
	SortOrder *int             `json:"sort_order,omitempty"`
}

type ComponentResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	CalculationType string          `json:"calculation_type"`
	Value           decimal.Decimal `json:"value"`
	Formula         *string         `json:"formula,omitempty"`
	IsActive        bool            `json:"is_active"`
	SortOrder       int             `json:"sort_order"`
}

// ========== RULES DTOs ==========

type UpdateRulesRequest struct {
	PFRate             *decimal.Decimal `json:"pf_rate,omitempty"`
	PFWageLimit        *decimal.Decimal `json:"pf_wage_limit,omitempty"`
	ESIRate            *decimal.Decimal `json:"esi_rate,omitempty"`
	ESIWageLimit       *decimal.Decimal `json:"esi_wage_limit,omitempty"`
	OvertimeMultiplier *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	GratuityEnabled    *bool            `json:"gratuity_enabled,omitempty"`
	GratuityMinYears   *int             `json:"gratuity_min_years,omitempty"`
	GratuityDaysFactor *decimal.Decimal `json:"gratuity_days_factor,omitempty"`
	GratuityDivisor    *decimal.Decimal `json:"gratuity_divisor,omitempty"`
}

func (r *UpdateRulesRequest) Validate() error {
	var errs validator.ValidationErrors

	for field, v := range map[string]*decimal.Decimal{
		"pf_rate":              r.PFRate,
		"pf_wage_limit":        r.PFWageLimit,
		"esi_rate":             r.ESIRate,
		"esi_wage_limit":       r.ESIWageLimit,
		"overtime_multiplier":  r.OvertimeMultiplier,
		"gratuity_days_factor": r.GratuityDaysFactor,
	} {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	if r.GratuityMinYears != nil && *r.GratuityMinYears < 0 {
		errs = append(errs, validator.ValidationError{Field: "gratuity_min_years", Message: "must be non-negative"})
	}
	if r.GratuityDivisor != nil && !r.GratuityDivisor.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "gratuity_divisor", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RulesResponse struct {
	CompanyID          string          `json:"company_id"`
	PFRate             decimal.Decimal `json:"pf_rate"`
	PFWageLimit        decimal.Decimal `json:"pf_wage_limit"`
	ESIRate            decimal.Decimal `json:"esi_rate"`
	ESIWageLimit       decimal.Decimal `json:"esi_wage_limit"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
	GratuityEnabled    bool            `json:"gratuity_enabled"`
	GratuityMinYears   int             `json:"gratuity_min_years"`
	GratuityDaysFactor decimal.Decimal `json:"gratuity_days_factor"`
	GratuityDivisor    decimal.Decimal `json:"gratuity_divisor"`
}

// ========== TAX CONFIGURATION DTOs ==========

type CreateTaxConfigurationRequest struct {
	TaxType       string    `json:"tax_type"`
	Slabs         []TaxSlab `json:"slabs"`
	EffectiveFrom string    `json:"effective_from"`
	EffectiveTo   *string   `json:"effective_to,omitempty"`
}

func (r *CreateTaxConfigurationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.TaxType, []string{"income_tax", "professional_tax"}) {
		errs = append(errs, validator.ValidationError{Field: "tax_type", Message: "must be 'income_tax' or 'professional_tax'"})
	}
	if len(r.Slabs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "slabs", Message: "at least one slab is required"})
	}
	for i, slab := range r.Slabs {
		if slab.Min.IsNegative() || slab.Rate.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "slabs", Message: "slab min and rate must be non-negative"})
			break
		}
		if slab.Max != nil && !slab.Max.GreaterThan(slab.Min) {
			errs = append(errs, validator.ValidationError{Field: "slabs", Message: "slab max must be greater than min"})
			break
		}
		if i > 0 && slab.Min.LessThan(r.Slabs[i-1].Min) {
			errs = append(errs, validator.ValidationError{Field: "slabs", Message: "slabs must be ordered ascending by min"})
			break
		}
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.EffectiveTo != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveTo); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TaxConfigurationResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	TaxType       string    `json:"tax_type"`
	Slabs         []TaxSlab `json:"slabs"`
	EffectiveFrom string    `json:"effective_from"`
	EffectiveTo   *string   `json:"effective_to,omitempty"`
}

// ========== CALCULATOR DTOs ==========

type CalculateTaxRequest struct {
	AnnualIncome decimal.Decimal `json:"annual_income"`
	TaxType      string          `json:"tax_type"`
}

func (r *CalculateTaxRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AnnualIncome.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "annual_income", Message: "must be non-negative"})
	}
	if !validator.IsInSlice(r.TaxType, []string{"income_tax", "professional_tax"}) {
		errs = append(errs, validator.ValidationError{Field: "tax_type", Message: "must be 'income_tax' or 'professional_tax'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CalculateStatutoryRequest struct {
	BasicSalary decimal.Decimal `json:"basic_salary"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
}

func (r *CalculateStatutoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BasicSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be non-negative"})
	}
	if r.GrossSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "gross_salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TaxSlabBreakdown is one progressive band applied to the annual income.
type TaxSlabBreakdown struct {
	Range         string          `json:"range"`
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	Tax           decimal.Decimal `json:"tax"`
}

// TaxResult is the progressive tax outcome for an annualized income.
type TaxResult struct {
	AnnualIncome  decimal.Decimal    `json:"annual_income"`
	TotalTax      decimal.Decimal    `json:"total_tax"`
	MonthlyTax    decimal.Decimal    `json:"monthly_tax"`
	EffectiveRate decimal.Decimal    `json:"effective_rate"`
	Breakdown     []TaxSlabBreakdown `json:"breakdown"`
}

// StatutoryDeductions is the capped PF / ESI / professional tax set computed
// from basic and gross salary.
type StatutoryDeductions struct {
	PF              decimal.Decimal `json:"pf"`
	ESI             decimal.Decimal `json:"esi"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
}

// AsMap returns the statutory amounts keyed for the payslip merge rule.
func (s StatutoryDeductions) AsMap() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		DeductionKeyPF:              s.PF,
		DeductionKeyESI:             s.ESI,
		DeductionKeyProfessionalTax: s.ProfessionalTax,
	}
}

// FormatDate is the wire format for date-only fields.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
