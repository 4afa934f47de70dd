package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the daily status tag captured by the attendance subsystem.
type EntryStatus string

const (
	StatusPresent      EntryStatus = "present"
	StatusWorkFromHome EntryStatus = "work_from_home"
	StatusAbsent       EntryStatus = "absent"
	StatusLeave        EntryStatus = "leave"
	StatusHalfDay      EntryStatus = "half_day"
)

// Entry is one raw per-day attendance record for one employee. Capture is
// owned by the attendance subsystem; payroll only aggregates entries.
type Entry struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	Date          time.Time
	Status        EntryStatus
	OvertimeHours decimal.Decimal
	CreatedAt     time.Time
}
