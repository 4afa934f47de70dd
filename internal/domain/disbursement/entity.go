package disbursement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// CanTransitionTo reports whether the state machine allows moving from s to
// target. Completed and failed are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing || target == StatusCompleted || target == StatusFailed
	case StatusProcessing:
		return target == StatusCompleted || target == StatusFailed
	}
	return false
}

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
)

// Disbursement - A bank payment instruction derived from an approved payslip
type Disbursement struct {
	ID             string
	CompanyID      string
	CycleID        string
	EmployeeID     string
	PayslipID      string
	Amount         decimal.Decimal
	PaymentMethod  PaymentMethod
	Status         Status
	TransactionRef *string
	FailureReason  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	EmployeeName      *string
	EmployeeCode      *string
	BankName          *string
	BankAccountNumber *string
}
