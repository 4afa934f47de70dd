package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// CycleStatus enum
type CycleStatus string

const (
	CycleStatusDraft      CycleStatus = "draft"
	CycleStatusProcessing CycleStatus = "processing"
	CycleStatusCompleted  CycleStatus = "completed"
)

// Cycle - A payroll period and its processing lifecycle
type Cycle struct {
	ID          string
	CompanyID   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	PaymentDate time.Time
	Status      CycleStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ComponentType enum
type ComponentType string

const (
	ComponentTypeAllowance ComponentType = "allowance"
	ComponentTypeDeduction ComponentType = "deduction"
	ComponentTypeBonus     ComponentType = "bonus"
)

// CalculationType enum
type CalculationType string

const (
	CalculationTypeFixed             CalculationType = "fixed"
	CalculationTypePercentageOfBasic CalculationType = "percentage_of_basic"
	CalculationTypePercentageOfGross CalculationType = "percentage_of_gross"
	CalculationTypeFormula           CalculationType = "formula"
)

// Priority returns the evaluation tier of a calculation type. Components in a
// lower tier must be evaluated first so that formula components can reference
// them and percentage-of-gross components see the full running gross.
func (c CalculationType) Priority() int {
	switch c {
	case CalculationTypeFixed:
		return 1
	case CalculationTypePercentageOfBasic:
		return 2
	case CalculationTypeFormula:
		return 3
	case CalculationTypePercentageOfGross:
		return 4
	}
	return 5
}

// SalaryComponent - Tenant-scoped pay component configuration
type SalaryComponent struct {
	ID              string
	CompanyID       string
	Code            string
	Name            string
	Type            ComponentType
	CalculationType CalculationType
	Value           decimal.Decimal
	Formula         *string
	IsActive        bool
	SortOrder       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AttendanceFact - Aggregated attendance for one employee over a cycle period.
// Day counts are decimals because a half day contributes 0.5 present and 0.5 absent.
type AttendanceFact struct {
	PresentDays   decimal.Decimal
	AbsentDays    decimal.Decimal
	LeaveDays     decimal.Decimal
	OvertimeHours decimal.Decimal
	WorkingDays   int
}

// TaxType enum
type TaxType string

const (
	TaxTypeIncome       TaxType = "income_tax"
	TaxTypeProfessional TaxType = "professional_tax"
)

// TaxSlab - One band of a slab table. Max nil means the band is open-ended.
// For income_tax the rate is a percentage applied progressively; for
// professional_tax the rate holds the flat monthly amount of the matching band.
type TaxSlab struct {
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max,omitempty"`
	Rate decimal.Decimal  `json:"rate"`
}

// TaxConfiguration - Ordered slab table effective over a date range
type TaxConfiguration struct {
	ID            string
	CompanyID     string
	TaxType       TaxType
	Slabs         []TaxSlab
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ActiveOn reports whether the configuration is effective on the given date.
func (c TaxConfiguration) ActiveOn(date time.Time) bool {
	if date.Before(c.EffectiveFrom) {
		return false
	}
	if c.EffectiveTo != nil && date.After(*c.EffectiveTo) {
		return false
	}
	return true
}

// Rules - Tenant-level statutory configuration with hardcoded fallbacks
type Rules struct {
	CompanyID          string
	PFRate             decimal.Decimal
	PFWageLimit        decimal.Decimal
	ESIRate            decimal.Decimal
	ESIWageLimit       decimal.Decimal
	OvertimeMultiplier decimal.Decimal
	GratuityEnabled    bool
	GratuityMinYears   int
	GratuityDaysFactor decimal.Decimal
	GratuityDivisor    decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DefaultRules returns the built-in statutory defaults applied when a tenant
// has no stored rules.
func DefaultRules(companyID string) Rules {
	return Rules{
		CompanyID:          companyID,
		PFRate:             decimal.NewFromFloat(0.12),
		PFWageLimit:        decimal.NewFromInt(15000),
		ESIRate:            decimal.NewFromFloat(0.0075),
		ESIWageLimit:       decimal.NewFromInt(21000),
		OvertimeMultiplier: decimal.NewFromInt(2),
		GratuityEnabled:    false,
		GratuityMinYears:   5,
		GratuityDaysFactor: decimal.NewFromInt(15),
		GratuityDivisor:    decimal.NewFromInt(26),
	}
}

// Statutory deduction keys used by the merge rule.
const (
	DeductionKeyPF              = "PF"
	DeductionKeyESI             = "ESI"
	DeductionKeyProfessionalTax = "PROFESSIONAL_TAX"
)

// PayslipStatus enum
type PayslipStatus string

const (
	PayslipStatusDraft    PayslipStatus = "draft"
	PayslipStatusApproved PayslipStatus = "approved"
	PayslipStatusPaid     PayslipStatus = "paid"
)

// Payslip - Computed pay record for one employee for one cycle.
// Immutable after approval except the transition to paid.
type Payslip struct {
	ID              string
	CompanyID       string
	CycleID         string
	EmployeeID      string
	BasicSalary     decimal.Decimal // pro-rated by attendance
	Allowances      map[string]decimal.Decimal
	AllowancesTotal decimal.Decimal
	BonusesTotal    decimal.Decimal
	OvertimePay     decimal.Decimal
	GrossSalary     decimal.Decimal
	TaxDeduction    decimal.Decimal // monthly slice of the annual progressive tax
	Deductions      map[string]decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	GratuityAccrual decimal.Decimal // liability memo, not part of deductions
	PresentDays     decimal.Decimal
	AbsentDays      decimal.Decimal
	LeaveDays       decimal.Decimal
	OvertimeHours   decimal.Decimal
	WorkingDays     int
	Status          PayslipStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
