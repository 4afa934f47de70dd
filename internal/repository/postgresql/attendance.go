package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListByEmployeeAndPeriod(ctx context.Context, employeeID, companyID string, start, end time.Time) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, status, overtime_hours, created_at
		FROM attendance_entries
		WHERE employee_id = $1 AND company_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		var e attendance.Entry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.CompanyID, &e.Date, &e.Status, &e.OvertimeHours, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
