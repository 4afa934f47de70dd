package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// Aggregator folds raw per-day attendance entries into the totals payroll
// consumes.
type Aggregator struct {
	attendanceRepo attendance.Repository
}

func NewAggregator(attendanceRepo attendance.Repository) *Aggregator {
	return &Aggregator{attendanceRepo: attendanceRepo}
}

// AggregateForPeriod loads the employee's entries for the cycle period and
// aggregates them. workingDays is the number of calendar days in the period.
func (a *Aggregator) AggregateForPeriod(ctx context.Context, employeeID, companyID string, start, end time.Time) (payroll.AttendanceFact, error) {
	entries, err := a.attendanceRepo.ListByEmployeeAndPeriod(ctx, employeeID, companyID, start, end)
	if err != nil {
		return payroll.AttendanceFact{}, err
	}
	workingDays := int(end.Sub(start).Hours()/24) + 1
	return Aggregate(entries, workingDays), nil
}

// Aggregate computes attendance totals from raw entries. Present and
// work-from-home days count 1.0 present; a half day splits into 0.5 present
// and 0.5 absent. An employee with no entries at all is assumed fully present
// for the period; attendance capture predates payroll in most tenants and the
// absence of data must not zero out a salary.
func Aggregate(entries []attendance.Entry, workingDays int) payroll.AttendanceFact {
	fact := payroll.AttendanceFact{
		PresentDays:   decimal.Zero,
		AbsentDays:    decimal.Zero,
		LeaveDays:     decimal.Zero,
		OvertimeHours: decimal.Zero,
		WorkingDays:   workingDays,
	}

	if len(entries) == 0 {
		fact.PresentDays = decimal.NewFromInt(int64(workingDays))
		return fact
	}

	one := decimal.NewFromInt(1)
	for _, entry := range entries {
		switch entry.Status {
		case attendance.StatusPresent, attendance.StatusWorkFromHome:
			fact.PresentDays = fact.PresentDays.Add(one)
		case attendance.StatusHalfDay:
			fact.PresentDays = fact.PresentDays.Add(half)
			fact.AbsentDays = fact.AbsentDays.Add(half)
		case attendance.StatusAbsent:
			fact.AbsentDays = fact.AbsentDays.Add(one)
		case attendance.StatusLeave:
			fact.LeaveDays = fact.LeaveDays.Add(one)
		}
		fact.OvertimeHours = fact.OvertimeHours.Add(entry.OvertimeHours)
	}

	return fact
}
