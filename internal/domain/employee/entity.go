package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee master data is owned elsewhere; this engine only reads the fields
// payroll needs. BaseSalary is the monthly salary-structure baseline and is
// nil for employees without one configured.
type Employee struct {
	ID                    string
	CompanyID             string
	EmployeeCode          string
	FullName              string
	HireDate              time.Time
	EmploymentStatus      EmploymentStatus
	BankName              string
	BankAccountHolderName *string
	BankAccountNumber     string
	BaseSalary            *decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
