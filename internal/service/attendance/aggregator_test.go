package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	entries []attendance.Entry
}

func (f *fakeAttendanceRepo) ListByEmployeeAndPeriod(ctx context.Context, employeeID, companyID string, start, end time.Time) ([]attendance.Entry, error) {
	var result []attendance.Entry
	for _, e := range f.entries {
		if e.EmployeeID == employeeID && e.CompanyID == companyID && !e.Date.Before(start) && !e.Date.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

func entry(day int, status attendance.EntryStatus, overtimeHours string) attendance.Entry {
	return attendance.Entry{
		EmployeeID:    "e1",
		CompanyID:     "company-1",
		Date:          time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC),
		Status:        status,
		OvertimeHours: decimal.RequireFromString(overtimeHours),
	}
}

func assertDays(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestAggregate_MixedStatuses(t *testing.T) {
	entries := []attendance.Entry{
		entry(1, attendance.StatusPresent, "0"),
		entry(2, attendance.StatusWorkFromHome, "0"),
		entry(3, attendance.StatusHalfDay, "0"),
		entry(4, attendance.StatusAbsent, "0"),
		entry(5, attendance.StatusLeave, "0"),
	}

	fact := Aggregate(entries, 30)

	assertDays(t, "2.5", fact.PresentDays)
	assertDays(t, "1.5", fact.AbsentDays)
	assertDays(t, "1", fact.LeaveDays)
	assertDays(t, "0", fact.OvertimeHours)
	assert.Equal(t, 30, fact.WorkingDays)
}

func TestAggregate_HalfDaySplits(t *testing.T) {
	fact := Aggregate([]attendance.Entry{
		entry(1, attendance.StatusHalfDay, "0"),
		entry(2, attendance.StatusHalfDay, "0"),
	}, 30)

	assertDays(t, "1", fact.PresentDays)
	assertDays(t, "1", fact.AbsentDays)
}

func TestAggregate_OvertimeSums(t *testing.T) {
	fact := Aggregate([]attendance.Entry{
		entry(1, attendance.StatusPresent, "2.5"),
		entry(2, attendance.StatusPresent, "1.5"),
		entry(3, attendance.StatusAbsent, "0"),
	}, 30)

	assertDays(t, "4", fact.OvertimeHours)
}

func TestAggregate_NoEntriesMeansFullyPresent(t *testing.T) {
	fact := Aggregate(nil, 30)

	assertDays(t, "30", fact.PresentDays)
	assertDays(t, "0", fact.AbsentDays)
	assert.Equal(t, 30, fact.WorkingDays)
}

func TestAggregator_AggregateForPeriod(t *testing.T) {
	repo := &fakeAttendanceRepo{entries: []attendance.Entry{
		entry(1, attendance.StatusPresent, "3"),
		entry(2, attendance.StatusAbsent, "0"),
		// Outside the period; must be ignored.
		entry(30, attendance.StatusAbsent, "0"),
	}}
	aggregator := NewAggregator(repo)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	fact, err := aggregator.AggregateForPeriod(context.Background(), "e1", "company-1", start, end)
	require.NoError(t, err)

	assert.Equal(t, 15, fact.WorkingDays)
	assertDays(t, "1", fact.PresentDays)
	assertDays(t, "1", fact.AbsentDays)
	assertDays(t, "3", fact.OvertimeHours)
}

func TestAggregator_AggregateForPeriod_FullMonthCalendarDays(t *testing.T) {
	aggregator := NewAggregator(&fakeAttendanceRepo{})

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	fact, err := aggregator.AggregateForPeriod(context.Background(), "e1", "company-1", start, end)
	require.NoError(t, err)

	assert.Equal(t, 28, fact.WorkingDays)
	assertDays(t, "28", fact.PresentDays)
}
