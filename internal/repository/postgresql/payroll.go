package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// ========== CYCLES ==========

type cycleRepository struct {
	db *database.DB
}

func NewCycleRepository(db *database.DB) payroll.CycleRepository {
	return &cycleRepository{db: db}
}

func (r *cycleRepository) Create(ctx context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_cycles (company_id, period_start, period_end, payment_date, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, company_id, period_start, period_end, payment_date, status, created_by, created_at, updated_at
	`

	var c payroll.Cycle
	err := q.QueryRow(ctx, query,
		cycle.CompanyID, cycle.PeriodStart, cycle.PeriodEnd, cycle.PaymentDate, cycle.Status, cycle.CreatedBy,
	).Scan(
		&c.ID, &c.CompanyID, &c.PeriodStart, &c.PeriodEnd, &c.PaymentDate, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_cycle_period") {
			return payroll.Cycle{}, payroll.ErrCycleOverlaps
		}
		return payroll.Cycle{}, fmt.Errorf("failed to create payroll cycle: %w", err)
	}

	return c, nil
}

func (r *cycleRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, period_start, period_end, payment_date, status, created_by, created_at, updated_at
		FROM payroll_cycles
		WHERE id = $1 AND company_id = $2
	`

	var c payroll.Cycle
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&c.ID, &c.CompanyID, &c.PeriodStart, &c.PeriodEnd, &c.PaymentDate, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Cycle{}, payroll.ErrCycleNotFound
		}
		return payroll.Cycle{}, fmt.Errorf("failed to get payroll cycle: %w", err)
	}

	return c, nil
}

func (r *cycleRepository) List(ctx context.Context, companyID string, filter payroll.CycleFilter) ([]payroll.Cycle, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE company_id = $1"
	args := []interface{}{companyID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM payroll_cycles " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll cycles: %w", err)
	}

	query := `
		SELECT id, company_id, period_start, period_end, payment_date, status, created_by, created_at, updated_at
		FROM payroll_cycles ` + where + `
		ORDER BY period_start DESC
	`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if filter.Page > 1 {
			args = append(args, (filter.Page-1)*filter.Limit)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll cycles: %w", err)
	}
	defer rows.Close()

	var cycles []payroll.Cycle
	for rows.Next() {
		var c payroll.Cycle
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.PeriodStart, &c.PeriodEnd, &c.PaymentDate, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll cycle: %w", err)
		}
		cycles = append(cycles, c)
	}

	return cycles, total, nil
}

func (r *cycleRepository) ListProcessing(ctx context.Context) ([]payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, period_start, period_end, payment_date, status, created_by, created_at, updated_at
		FROM payroll_cycles
		WHERE status = 'processing'
		ORDER BY payment_date
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing cycles: %w", err)
	}
	defer rows.Close()

	var cycles []payroll.Cycle
	for rows.Next() {
		var c payroll.Cycle
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.PeriodStart, &c.PeriodEnd, &c.PaymentDate, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll cycle: %w", err)
		}
		cycles = append(cycles, c)
	}

	return cycles, nil
}

func (r *cycleRepository) UpdateStatusIf(ctx context.Context, id string, companyID string, from, to payroll.CycleStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_cycles
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = $4
	`

	tag, err := q.Exec(ctx, query, to, id, companyID, from)
	if err != nil {
		return fmt.Errorf("failed to update cycle status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCycleNotFound
	}

	return nil
}

// ========== PAYSLIPS ==========

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepository{db: db}
}

const payslipColumns = `
	p.id, p.company_id, p.cycle_id, p.employee_id,
	p.basic_salary, p.allowances, p.allowances_total, p.bonuses_total, p.overtime_pay,
	p.gross_salary, p.tax_deduction, p.deductions, p.total_deductions, p.net_salary,
	p.gratuity_accrual, p.present_days, p.absent_days, p.leave_days, p.overtime_hours,
	p.working_days, p.status, p.approved_by, p.approved_at, p.paid_at,
	p.created_at, p.updated_at, e.full_name, e.employee_code
`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	var allowancesJSON, deductionsJSON []byte

	err := row.Scan(
		&p.ID, &p.CompanyID, &p.CycleID, &p.EmployeeID,
		&p.BasicSalary, &allowancesJSON, &p.AllowancesTotal, &p.BonusesTotal, &p.OvertimePay,
		&p.GrossSalary, &p.TaxDeduction, &deductionsJSON, &p.TotalDeductions, &p.NetSalary,
		&p.GratuityAccrual, &p.PresentDays, &p.AbsentDays, &p.LeaveDays, &p.OvertimeHours,
		&p.WorkingDays, &p.Status, &p.ApprovedBy, &p.ApprovedAt, &p.PaidAt,
		&p.CreatedAt, &p.UpdatedAt, &p.EmployeeName, &p.EmployeeCode,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}

	if err := json.Unmarshal(allowancesJSON, &p.Allowances); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode allowances: %w", err)
	}
	if err := json.Unmarshal(deductionsJSON, &p.Deductions); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode deductions: %w", err)
	}

	return p, nil
}

func (r *payslipRepository) Create(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	allowancesJSON, err := json.Marshal(payslip.Allowances)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode allowances: %w", err)
	}
	deductionsJSON, err := json.Marshal(payslip.Deductions)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode deductions: %w", err)
	}

	query := `
		INSERT INTO payslips (
			company_id, cycle_id, employee_id,
			basic_salary, allowances, allowances_total, bonuses_total, overtime_pay,
			gross_salary, tax_deduction, deductions, total_deductions, net_salary,
			gratuity_accrual, present_days, absent_days, leave_days, overtime_hours,
			working_days, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`

	// Insert and re-read share one transaction so the joined read sees the row.
	var created payroll.Payslip
	err = WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		var id string
		err := q.QueryRow(txCtx, query,
			payslip.CompanyID, payslip.CycleID, payslip.EmployeeID,
			payslip.BasicSalary, allowancesJSON, payslip.AllowancesTotal, payslip.BonusesTotal, payslip.OvertimePay,
			payslip.GrossSalary, payslip.TaxDeduction, deductionsJSON, payslip.TotalDeductions, payslip.NetSalary,
			payslip.GratuityAccrual, payslip.PresentDays, payslip.AbsentDays, payslip.LeaveDays, payslip.OvertimeHours,
			payslip.WorkingDays, payslip.Status,
		).Scan(&id)
		if err != nil {
			if strings.Contains(err.Error(), "uk_payslip_cycle_employee") {
				return payroll.ErrPayslipAlreadyExists
			}
			return fmt.Errorf("failed to create payslip: %w", err)
		}

		created, err = r.GetByID(txCtx, id, payslip.CompanyID)
		return err
	})
	if err != nil {
		return payroll.Payslip{}, err
	}
	return created, nil
}

func (r *payslipRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1 AND p.company_id = $2
	`

	p, err := scanPayslip(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return p, nil
}

func (r *payslipRepository) GetByCycleAndEmployee(ctx context.Context, cycleID, employeeID, companyID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.cycle_id = $1 AND p.employee_id = $2 AND p.company_id = $3
	`

	p, err := scanPayslip(q.QueryRow(ctx, query, cycleID, employeeID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return p, nil
}

func (r *payslipRepository) ListByCycle(ctx context.Context, cycleID string, companyID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.cycle_id = $1 AND p.company_id = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, cycleID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}

	return payslips, nil
}

func (r *payslipRepository) List(ctx context.Context, companyID string, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE p.company_id = $1"
	args := []interface{}{companyID}
	if filter.CycleID != nil {
		args = append(args, *filter.CycleID)
		where += fmt.Sprintf(" AND p.cycle_id = $%d", len(args))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where += fmt.Sprintf(" AND p.employee_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM payslips p " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id ` + where + `
		ORDER BY p.created_at DESC, e.employee_code
	`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if filter.Page > 1 {
			args = append(args, (filter.Page-1)*filter.Limit)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}

	return payslips, total, nil
}

func (r *payslipRepository) Approve(ctx context.Context, id string, companyID string, approvedBy string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payslips
		SET status = 'approved', approved_by = $1, approved_at = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND status = 'draft'
	`

	tag, err := q.Exec(ctx, query, approvedBy, approvedAt, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to approve payslip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id, companyID); getErr != nil {
			return getErr
		}
		return payroll.ErrPayslipNotDraft
	}

	return nil
}

func (r *payslipRepository) MarkPaid(ctx context.Context, id string, companyID string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payslips
		SET status = 'paid', paid_at = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = 'approved'
	`

	tag, err := q.Exec(ctx, query, paidAt, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to mark payslip paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id, companyID); getErr != nil {
			return getErr
		}
		return payroll.ErrPayslipNotApproved
	}

	return nil
}

func (r *payslipRepository) CountUnpaidByCycle(ctx context.Context, cycleID string, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM payslips
		WHERE cycle_id = $1 AND company_id = $2 AND status != 'paid'
	`

	var count int64
	if err := q.QueryRow(ctx, query, cycleID, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unpaid payslips: %w", err)
	}

	return count, nil
}

// ========== COMPONENTS ==========

type componentRepository struct {
	db *database.DB
}

func NewComponentRepository(db *database.DB) payroll.ComponentRepository {
	return &componentRepository{db: db}
}

func (r *componentRepository) Create(ctx context.Context, component payroll.SalaryComponent) (payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_components (company_id, code, name, type, calculation_type, value, formula, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, company_id, code, name, type, calculation_type, value, formula, is_active, sort_order, created_at, updated_at
	`

	var c payroll.SalaryComponent
	err := q.QueryRow(ctx, query,
		component.CompanyID, component.Code, component.Name, component.Type, component.CalculationType,
		component.Value, component.Formula, component.IsActive, component.SortOrder,
	).Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.CalculationType,
		&c.Value, &c.Formula, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_salary_component_code") {
			return payroll.SalaryComponent{}, payroll.ErrComponentCodeExists
		}
		return payroll.SalaryComponent{}, fmt.Errorf("failed to create salary component: %w", err)
	}

	return c, nil
}

func (r *componentRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, name, type, calculation_type, value, formula, is_active, sort_order, created_at, updated_at
		FROM salary_components
		WHERE id = $1 AND company_id = $2
	`

	var c payroll.SalaryComponent
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.CalculationType,
		&c.Value, &c.Formula, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.SalaryComponent{}, payroll.ErrComponentNotFound
		}
		return payroll.SalaryComponent{}, fmt.Errorf("failed to get salary component: %w", err)
	}

	return c, nil
}

func (r *componentRepository) ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, name, type, calculation_type, value, formula, is_active, sort_order, created_at, updated_at
		FROM salary_components
		WHERE company_id = $1
	`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY sort_order, code"

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	defer rows.Close()

	var components []payroll.SalaryComponent
	for rows.Next() {
		var c payroll.SalaryComponent
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.CalculationType,
			&c.Value, &c.Formula, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}

	return components, nil
}

func (r *componentRepository) Update(ctx context.Context, companyID string, req payroll.UpdateComponentRequest) error {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{}
	args := []interface{}{}

	if req.Name != nil {
		args = append(args, *req.Name)
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", len(args)))
	}
	if req.Value != nil {
		args = append(args, *req.Value)
		setClauses = append(setClauses, fmt.Sprintf("value = $%d", len(args)))
	}
	if req.Formula != nil {
		args = append(args, *req.Formula)
		setClauses = append(setClauses, fmt.Sprintf("formula = $%d", len(args)))
	}
	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if req.SortOrder != nil {
		args = append(args, *req.SortOrder)
		setClauses = append(setClauses, fmt.Sprintf("sort_order = $%d", len(args)))
	}

	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, req.ID)
	idPos := len(args)
	args = append(args, companyID)
	companyPos := len(args)

	query := fmt.Sprintf(`
		UPDATE salary_components
		SET %s, updated_at = NOW()
		WHERE id = $%d AND company_id = $%d
	`, strings.Join(setClauses, ", "), idPos, companyPos)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update salary component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrComponentNotFound
	}

	return nil
}

func (r *componentRepository) Deactivate(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_components
		SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to deactivate salary component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrComponentNotFound
	}

	return nil
}

// ========== RULES ==========

type rulesRepository struct {
	db *database.DB
}

func NewRulesRepository(db *database.DB) payroll.RulesRepository {
	return &rulesRepository{db: db}
}

func (r *rulesRepository) Get(ctx context.Context, companyID string) (payroll.Rules, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, pf_rate, pf_wage_limit, esi_rate, esi_wage_limit,
			   overtime_multiplier, gratuity_enabled, gratuity_min_years,
			   gratuity_days_factor, gratuity_divisor, created_at, updated_at
		FROM payroll_rules
		WHERE company_id = $1
	`

	var rules payroll.Rules
	err := q.QueryRow(ctx, query, companyID).Scan(
		&rules.CompanyID, &rules.PFRate, &rules.PFWageLimit, &rules.ESIRate, &rules.ESIWageLimit,
		&rules.OvertimeMultiplier, &rules.GratuityEnabled, &rules.GratuityMinYears,
		&rules.GratuityDaysFactor, &rules.GratuityDivisor, &rules.CreatedAt, &rules.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Rules{}, payroll.ErrRulesNotFound
		}
		return payroll.Rules{}, fmt.Errorf("failed to get payroll rules: %w", err)
	}

	return rules, nil
}

func (r *rulesRepository) Upsert(ctx context.Context, rules payroll.Rules) (payroll.Rules, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_rules (
			company_id, pf_rate, pf_wage_limit, esi_rate, esi_wage_limit,
			overtime_multiplier, gratuity_enabled, gratuity_min_years,
			gratuity_days_factor, gratuity_divisor
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (company_id) DO UPDATE SET
			pf_rate = EXCLUDED.pf_rate,
			pf_wage_limit = EXCLUDED.pf_wage_limit,
			esi_rate = EXCLUDED.esi_rate,
			esi_wage_limit = EXCLUDED.esi_wage_limit,
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			gratuity_enabled = EXCLUDED.gratuity_enabled,
			gratuity_min_years = EXCLUDED.gratuity_min_years,
			gratuity_days_factor = EXCLUDED.gratuity_days_factor,
			gratuity_divisor = EXCLUDED.gratuity_divisor,
			updated_at = NOW()
		RETURNING company_id, pf_rate, pf_wage_limit, esi_rate, esi_wage_limit,
			overtime_multiplier, gratuity_enabled, gratuity_min_years,
			gratuity_days_factor, gratuity_divisor, created_at, updated_at
	`

	var updated payroll.Rules
	err := q.QueryRow(ctx, query,
		rules.CompanyID, rules.PFRate, rules.PFWageLimit, rules.ESIRate, rules.ESIWageLimit,
		rules.OvertimeMultiplier, rules.GratuityEnabled, rules.GratuityMinYears,
		rules.GratuityDaysFactor, rules.GratuityDivisor,
	).Scan(
		&updated.CompanyID, &updated.PFRate, &updated.PFWageLimit, &updated.ESIRate, &updated.ESIWageLimit,
		&updated.OvertimeMultiplier, &updated.GratuityEnabled, &updated.GratuityMinYears,
		&updated.GratuityDaysFactor, &updated.GratuityDivisor, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		return payroll.Rules{}, fmt.Errorf("failed to upsert payroll rules: %w", err)
	}

	return updated, nil
}

// ========== TAX CONFIGURATIONS ==========

type taxConfigurationRepository struct {
	db *database.DB
}

func NewTaxConfigurationRepository(db *database.DB) payroll.TaxConfigurationRepository {
	return &taxConfigurationRepository{db: db}
}

func scanTaxConfiguration(row pgx.Row) (payroll.TaxConfiguration, error) {
	var c payroll.TaxConfiguration
	var slabsJSON []byte

	err := row.Scan(
		&c.ID, &c.CompanyID, &c.TaxType, &slabsJSON,
		&c.EffectiveFrom, &c.EffectiveTo, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return payroll.TaxConfiguration{}, err
	}

	if err := json.Unmarshal(slabsJSON, &c.Slabs); err != nil {
		return payroll.TaxConfiguration{}, fmt.Errorf("failed to decode tax slabs: %w", err)
	}

	return c, nil
}

func (r *taxConfigurationRepository) Create(ctx context.Context, config payroll.TaxConfiguration) (payroll.TaxConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	slabsJSON, err := json.Marshal(config.Slabs)
	if err != nil {
		return payroll.TaxConfiguration{}, fmt.Errorf("failed to encode tax slabs: %w", err)
	}

	query := `
		INSERT INTO tax_configurations (company_id, tax_type, slabs, effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, company_id, tax_type, slabs, effective_from, effective_to, created_at, updated_at
	`

	c, err := scanTaxConfiguration(q.QueryRow(ctx, query,
		config.CompanyID, config.TaxType, slabsJSON, config.EffectiveFrom, config.EffectiveTo,
	))
	if err != nil {
		return payroll.TaxConfiguration{}, fmt.Errorf("failed to create tax configuration: %w", err)
	}

	return c, nil
}

func (r *taxConfigurationRepository) GetActive(ctx context.Context, companyID string, taxType payroll.TaxType, date time.Time) (payroll.TaxConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, tax_type, slabs, effective_from, effective_to, created_at, updated_at
		FROM tax_configurations
		WHERE company_id = $1 AND tax_type = $2
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to >= $3)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	c, err := scanTaxConfiguration(q.QueryRow(ctx, query, companyID, taxType, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.TaxConfiguration{}, payroll.ErrTaxConfigurationNotFound
		}
		return payroll.TaxConfiguration{}, fmt.Errorf("failed to get active tax configuration: %w", err)
	}

	return c, nil
}

func (r *taxConfigurationRepository) ListByCompany(ctx context.Context, companyID string) ([]payroll.TaxConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, tax_type, slabs, effective_from, effective_to, created_at, updated_at
		FROM tax_configurations
		WHERE company_id = $1
		ORDER BY tax_type, effective_from DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax configurations: %w", err)
	}
	defer rows.Close()

	var configs []payroll.TaxConfiguration
	for rows.Next() {
		c, err := scanTaxConfiguration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax configuration: %w", err)
		}
		configs = append(configs, c)
	}

	return configs, nil
}
