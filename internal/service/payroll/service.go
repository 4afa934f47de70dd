package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/attendance"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	cycleRepo     payroll.CycleRepository
	payslipRepo   payroll.PayslipRepository
	componentRepo payroll.ComponentRepository
	rulesRepo     payroll.RulesRepository
	taxConfigRepo payroll.TaxConfigurationRepository
	employeeRepo  employee.EmployeeRepository

	aggregator *attendance.Aggregator
	engine     *ComponentEngine
	statutory  *StatutoryCalculator
	tax        *TaxCalculator
	gratuity   *GratuityCalculator

	workers int
}

func NewPayrollService(
	cycleRepo payroll.CycleRepository,
	payslipRepo payroll.PayslipRepository,
	componentRepo payroll.ComponentRepository,
	rulesRepo payroll.RulesRepository,
	taxConfigRepo payroll.TaxConfigurationRepository,
	employeeRepo employee.EmployeeRepository,
	aggregator *attendance.Aggregator,
	workers int,
) payroll.Service {
	if workers < 1 {
		workers = 1
	}
	return &PayrollServiceImpl{
		cycleRepo:     cycleRepo,
		payslipRepo:   payslipRepo,
		componentRepo: componentRepo,
		rulesRepo:     rulesRepo,
		taxConfigRepo: taxConfigRepo,
		employeeRepo:  employeeRepo,
		aggregator:    aggregator,
		engine:        NewComponentEngine(),
		statutory:     NewStatutoryCalculator(taxConfigRepo),
		tax:           NewTaxCalculator(taxConfigRepo),
		gratuity:      NewGratuityCalculator(),
		workers:       workers,
	}
}

// ========== CYCLES ==========

func (s *PayrollServiceImpl) CreateCycle(ctx context.Context, req payroll.CreateCycleRequest) (payroll.CycleResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CycleResponse{}, err
	}

	companyID, userID, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.CycleResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.PeriodStart)
	end, _ := time.Parse("2006-01-02", req.PeriodEnd)
	payment, _ := time.Parse("2006-01-02", req.PaymentDate)

	created, err := s.cycleRepo.Create(ctx, payroll.Cycle{
		CompanyID:   companyID,
		PeriodStart: start,
		PeriodEnd:   end,
		PaymentDate: payment,
		Status:      payroll.CycleStatusDraft,
		CreatedBy:   userID,
	})
	if err != nil {
		return payroll.CycleResponse{}, err
	}

	return mapCycleResponse(created), nil
}

func (s *PayrollServiceImpl) GetCycle(ctx context.Context, id string) (payroll.CycleResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.CycleResponse{}, err
	}

	cycle, err := s.cycleRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.CycleResponse{}, err
	}

	return mapCycleResponse(cycle), nil
}

func (s *PayrollServiceImpl) ListCycles(ctx context.Context, filter payroll.CycleFilter) ([]payroll.CycleResponse, int64, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	cycles, total, err := s.cycleRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]payroll.CycleResponse, 0, len(cycles))
	for _, c := range cycles {
		result = append(result, mapCycleResponse(c))
	}
	return result, total, nil
}

// ========== GENERATION ==========

// GeneratePayslips runs the full computation for every eligible employee in a
// draft cycle. Employees are processed by a bounded worker pool; a failure or
// skip for one employee never rolls back another, and the summary reports
// exact counts. Re-running on a non-draft cycle fails before any mutation.
func (s *PayrollServiceImpl) GeneratePayslips(ctx context.Context, cycleID string) (payroll.GenerationSummary, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.GenerationSummary{}, err
	}

	cycle, err := s.cycleRepo.GetByID(ctx, cycleID, companyID)
	if err != nil {
		return payroll.GenerationSummary{}, err
	}
	if cycle.Status != payroll.CycleStatusDraft {
		return payroll.GenerationSummary{}, payroll.ErrCycleNotDraft
	}

	// Shared read-only lookups are loaded once per run.
	rules := s.rulesFor(ctx, companyID)
	components, err := s.componentRepo.ListByCompany(ctx, companyID, true)
	if err != nil {
		return payroll.GenerationSummary{}, fmt.Errorf("failed to load salary components: %w", err)
	}
	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.GenerationSummary{}, fmt.Errorf("failed to load employees: %w", err)
	}

	summary := payroll.GenerationSummary{
		CycleID:    cycleID,
		TotalGross: decimal.Zero,
		TotalNet:   decimal.Zero,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			created, skipReason, err := s.generateForEmployee(gctx, cycle, emp, rules, components)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				slog.Error("Payslip generation failed", "cycle_id", cycleID, "employee_id", emp.ID, "error", err)
				summary.Failed = append(summary.Failed, payroll.GenerationIssue{EmployeeID: emp.ID, Reason: err.Error()})
			case skipReason != "":
				slog.Warn("Payslip generation skipped", "cycle_id", cycleID, "employee_id", emp.ID, "reason", skipReason)
				summary.Skipped = append(summary.Skipped, payroll.GenerationIssue{EmployeeID: emp.ID, Reason: skipReason})
			default:
				summary.Generated++
				summary.TotalGross = summary.TotalGross.Add(created.GrossSalary)
				summary.TotalNet = summary.TotalNet.Add(created.NetSalary)
				summary.Payslips = append(summary.Payslips, mapPayslipResponse(created))
			}
			// Per-employee errors are captured, never propagated: one broken
			// employee must not cancel the rest of the batch.
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(summary.Payslips, func(i, j int) bool {
		return summary.Payslips[i].EmployeeID < summary.Payslips[j].EmployeeID
	})

	if err := s.cycleRepo.UpdateStatusIf(ctx, cycleID, companyID, payroll.CycleStatusDraft, payroll.CycleStatusProcessing); err != nil {
		return payroll.GenerationSummary{}, fmt.Errorf("failed to move cycle to processing: %w", err)
	}

	return summary, nil
}

// generateForEmployee computes and persists one payslip. It returns a skip
// reason for expected conditions (no salary structure, payslip already
// exists) and an error for genuine failures.
func (s *PayrollServiceImpl) generateForEmployee(ctx context.Context, cycle payroll.Cycle, emp employee.Employee, rules payroll.Rules, components []payroll.SalaryComponent) (payroll.Payslip, string, error) {
	if emp.BaseSalary == nil || emp.BaseSalary.IsZero() {
		return payroll.Payslip{}, "no base salary configured", nil
	}
	basic := *emp.BaseSalary

	_, err := s.payslipRepo.GetByCycleAndEmployee(ctx, cycle.ID, emp.ID, cycle.CompanyID)
	if err == nil {
		return payroll.Payslip{}, "payslip already exists for this cycle", nil
	}
	if !errors.Is(err, payroll.ErrPayslipNotFound) {
		return payroll.Payslip{}, "", fmt.Errorf("failed to check existing payslip: %w", err)
	}

	fact, err := s.aggregator.AggregateForPeriod(ctx, emp.ID, cycle.CompanyID, cycle.PeriodStart, cycle.PeriodEnd)
	if err != nil {
		return payroll.Payslip{}, "", fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	proratedBasic := prorate(basic, fact.PresentDays)
	comp := s.engine.Evaluate(components, basic, proratedBasic, fact)
	otPay := overtimePay(basic, fact.OvertimeHours, rules.OvertimeMultiplier)
	gross := comp.Gross.Add(comp.BonusesTotal).Add(otPay).Round(2)

	statutory := s.statutory.Calculate(ctx, cycle.CompanyID, basic, gross, rules, cycle.PaymentDate)
	taxResult := s.tax.Calculate(ctx, cycle.CompanyID, gross.Mul(twelve), payroll.TaxTypeIncome, cycle.PaymentDate)
	accrual := s.gratuity.Accrual(basic, emp.HireDate, rules, cycle.PaymentDate)

	deductions, deductionsTotal := mergeDeductions(comp.Deductions, statutory.AsMap())
	totalDeductions := deductionsTotal.Add(taxResult.MonthlyTax).Round(2)
	net := gross.Sub(totalDeductions).Round(2)

	payslip := payroll.Payslip{
		CompanyID:       cycle.CompanyID,
		CycleID:         cycle.ID,
		EmployeeID:      emp.ID,
		BasicSalary:     proratedBasic,
		Allowances:      comp.Allowances,
		AllowancesTotal: comp.AllowancesTotal,
		BonusesTotal:    comp.BonusesTotal,
		OvertimePay:     otPay,
		GrossSalary:     gross,
		TaxDeduction:    taxResult.MonthlyTax,
		Deductions:      deductions,
		TotalDeductions: totalDeductions,
		NetSalary:       net,
		GratuityAccrual: accrual,
		PresentDays:     fact.PresentDays,
		AbsentDays:      fact.AbsentDays,
		LeaveDays:       fact.LeaveDays,
		OvertimeHours:   fact.OvertimeHours,
		WorkingDays:     fact.WorkingDays,
		Status:          payroll.PayslipStatusDraft,
	}

	created, err := s.payslipRepo.Create(ctx, payslip)
	if err != nil {
		if errors.Is(err, payroll.ErrPayslipAlreadyExists) {
			return payroll.Payslip{}, "payslip already exists for this cycle", nil
		}
		return payroll.Payslip{}, "", fmt.Errorf("failed to persist payslip: %w", err)
	}
	return created, "", nil
}

// mergeDeductions folds statutory deductions into the component-configured
// map. A statutory key is added only when no component deduction already uses
// it, so a tenant that configured an equivalent component is not charged
// twice. Zero-valued deductions from either source are omitted.
func mergeDeductions(componentDeductions, statutory map[string]decimal.Decimal) (map[string]decimal.Decimal, decimal.Decimal) {
	merged := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for key, amount := range componentDeductions {
		if amount.IsZero() {
			continue
		}
		merged[key] = amount
		total = total.Add(amount)
	}
	for key, amount := range statutory {
		if amount.IsZero() {
			continue
		}
		if _, used := componentDeductions[key]; used {
			continue
		}
		merged[key] = amount
		total = total.Add(amount)
	}

	return merged, total.Round(2)
}

// rulesFor loads tenant rules, falling back to the built-in defaults. Missing
// rules are a recoverable configuration state, never a batch failure.
func (s *PayrollServiceImpl) rulesFor(ctx context.Context, companyID string) payroll.Rules {
	rules, err := s.rulesRepo.Get(ctx, companyID)
	if err != nil {
		if !errors.Is(err, payroll.ErrRulesNotFound) {
			slog.Error("Payroll rules lookup failed, using defaults", "company_id", companyID, "error", err)
		}
		return payroll.DefaultRules(companyID)
	}
	return rules
}

// ========== PAYSLIPS ==========

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	payslip, err := s.payslipRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return mapPayslipResponse(payslip), nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) (payroll.ListPayslipResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	payslips, total, err := s.payslipRepo.List(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	return payroll.ListPayslipResponse{
		Data:       mapPayslipResponses(payslips),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) ListPayslipsByCycle(ctx context.Context, cycleID string) ([]payroll.PayslipResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payslips, err := s.payslipRepo.ListByCycle(ctx, cycleID, companyID)
	if err != nil {
		return nil, err
	}
	return mapPayslipResponses(payslips), nil
}

// ApprovePayslip freezes a draft payslip. Approval is the point of no return:
// after it, only the transition to paid may touch the row.
func (s *PayrollServiceImpl) ApprovePayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	companyID, userID, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	if err := s.payslipRepo.Approve(ctx, id, companyID, userID, time.Now()); err != nil {
		return payroll.PayslipResponse{}, err
	}
	return s.GetPayslip(ctx, id)
}

// ========== COMPONENTS ==========

func (s *PayrollServiceImpl) CreateComponent(ctx context.Context, req payroll.CreateComponentRequest) (payroll.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentResponse{}, err
	}

	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}

	created, err := s.componentRepo.Create(ctx, payroll.SalaryComponent{
		CompanyID:       companyID,
		Code:            req.Code,
		Name:            req.Name,
		Type:            payroll.ComponentType(req.Type),
		CalculationType: payroll.CalculationType(req.CalculationType),
		Value:           req.Value,
		Formula:         req.Formula,
		IsActive:        true,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		return payroll.ComponentResponse{}, err
	}
	return mapComponentResponse(created), nil
}

func (s *PayrollServiceImpl) GetComponent(ctx context.Context, id string) (payroll.ComponentResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}

	component, err := s.componentRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}
	return mapComponentResponse(component), nil
}

func (s *PayrollServiceImpl) ListComponents(ctx context.Context, activeOnly bool) ([]payroll.ComponentResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	components, err := s.componentRepo.ListByCompany(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.ComponentResponse, 0, len(components))
	for _, c := range components {
		result = append(result, mapComponentResponse(c))
	}
	return result, nil
}

func (s *PayrollServiceImpl) UpdateComponent(ctx context.Context, req payroll.UpdateComponentRequest) error {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	return s.componentRepo.Update(ctx, companyID, req)
}

func (s *PayrollServiceImpl) DeactivateComponent(ctx context.Context, id string) error {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	return s.componentRepo.Deactivate(ctx, id, companyID)
}

// ========== RULES ==========

func (s *PayrollServiceImpl) GetRules(ctx context.Context) (payroll.RulesResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.RulesResponse{}, err
	}
	return mapRulesResponse(s.rulesFor(ctx, companyID)), nil
}

func (s *PayrollServiceImpl) UpdateRules(ctx context.Context, req payroll.UpdateRulesRequest) (payroll.RulesResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RulesResponse{}, err
	}

	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.RulesResponse{}, err
	}

	current := s.rulesFor(ctx, companyID)

	if req.PFRate != nil {
		current.PFRate = *req.PFRate
	}
	if req.PFWageLimit != nil {
		current.PFWageLimit = *req.PFWageLimit
	}
	if req.ESIRate != nil {
		current.ESIRate = *req.ESIRate
	}
	if req.ESIWageLimit != nil {
		current.ESIWageLimit = *req.ESIWageLimit
	}
	if req.OvertimeMultiplier != nil {
		current.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if req.GratuityEnabled != nil {
		current.GratuityEnabled = *req.GratuityEnabled
	}
	if req.GratuityMinYears != nil {
		current.GratuityMinYears = *req.GratuityMinYears
	}
	if req.GratuityDaysFactor != nil {
		current.GratuityDaysFactor = *req.GratuityDaysFactor
	}
	if req.GratuityDivisor != nil {
		current.GratuityDivisor = *req.GratuityDivisor
	}

	updated, err := s.rulesRepo.Upsert(ctx, current)
	if err != nil {
		return payroll.RulesResponse{}, err
	}
	return mapRulesResponse(updated), nil
}

// ========== TAX CONFIGURATIONS ==========

func (s *PayrollServiceImpl) CreateTaxConfiguration(ctx context.Context, req payroll.CreateTaxConfigurationRequest) (payroll.TaxConfigurationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.TaxConfigurationResponse{}, err
	}

	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.TaxConfigurationResponse{}, err
	}

	from, _ := time.Parse("2006-01-02", req.EffectiveFrom)
	var to *time.Time
	if req.EffectiveTo != nil {
		parsed, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		to = &parsed
	}

	created, err := s.taxConfigRepo.Create(ctx, payroll.TaxConfiguration{
		CompanyID:     companyID,
		TaxType:       payroll.TaxType(req.TaxType),
		Slabs:         req.Slabs,
		EffectiveFrom: from,
		EffectiveTo:   to,
	})
	if err != nil {
		return payroll.TaxConfigurationResponse{}, err
	}
	return mapTaxConfigurationResponse(created), nil
}

func (s *PayrollServiceImpl) ListTaxConfigurations(ctx context.Context) ([]payroll.TaxConfigurationResponse, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	configs, err := s.taxConfigRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.TaxConfigurationResponse, 0, len(configs))
	for _, c := range configs {
		result = append(result, mapTaxConfigurationResponse(c))
	}
	return result, nil
}

// ========== PREVIEW ==========

func (s *PayrollServiceImpl) CalculateTax(ctx context.Context, annualIncome decimal.Decimal, taxType payroll.TaxType) (payroll.TaxResult, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.TaxResult{}, err
	}
	return s.tax.Calculate(ctx, companyID, annualIncome, taxType, time.Now()), nil
}

func (s *PayrollServiceImpl) CalculateStatutoryDeductions(ctx context.Context, basic, gross decimal.Decimal) (payroll.StatutoryDeductions, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.StatutoryDeductions{}, err
	}
	rules := s.rulesFor(ctx, companyID)
	return s.statutory.Calculate(ctx, companyID, basic, gross, rules, time.Now()), nil
}

// ========== HELPERS ==========

func mapCycleResponse(c payroll.Cycle) payroll.CycleResponse {
	return payroll.CycleResponse{
		ID:          c.ID,
		CompanyID:   c.CompanyID,
		PeriodStart: payroll.FormatDate(c.PeriodStart),
		PeriodEnd:   payroll.FormatDate(c.PeriodEnd),
		PaymentDate: payroll.FormatDate(c.PaymentDate),
		Status:      string(c.Status),
		CreatedBy:   c.CreatedBy,
	}
}

func mapPayslipResponse(p payroll.Payslip) payroll.PayslipResponse {
	var approvedAt, paidAt *string
	if p.ApprovedAt != nil {
		str := p.ApprovedAt.Format(time.RFC3339)
		approvedAt = &str
	}
	if p.PaidAt != nil {
		str := p.PaidAt.Format(time.RFC3339)
		paidAt = &str
	}

	employeeName := ""
	employeeCode := ""
	if p.EmployeeName != nil {
		employeeName = *p.EmployeeName
	}
	if p.EmployeeCode != nil {
		employeeCode = *p.EmployeeCode
	}

	return payroll.PayslipResponse{
		ID:              p.ID,
		CycleID:         p.CycleID,
		EmployeeID:      p.EmployeeID,
		EmployeeName:    employeeName,
		EmployeeCode:    employeeCode,
		BasicSalary:     p.BasicSalary,
		Allowances:      p.Allowances,
		AllowancesTotal: p.AllowancesTotal,
		BonusesTotal:    p.BonusesTotal,
		OvertimePay:     p.OvertimePay,
		GrossSalary:     p.GrossSalary,
		TaxDeduction:    p.TaxDeduction,
		Deductions:      p.Deductions,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		GratuityAccrual: p.GratuityAccrual,
		PresentDays:     p.PresentDays,
		AbsentDays:      p.AbsentDays,
		LeaveDays:       p.LeaveDays,
		OvertimeHours:   p.OvertimeHours,
		WorkingDays:     p.WorkingDays,
		Status:          string(p.Status),
		ApprovedBy:      p.ApprovedBy,
		ApprovedAt:      approvedAt,
		PaidAt:          paidAt,
	}
}

func mapPayslipResponses(payslips []payroll.Payslip) []payroll.PayslipResponse {
	result := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		result = append(result, mapPayslipResponse(p))
	}
	return result
}

func mapComponentResponse(c payroll.SalaryComponent) payroll.ComponentResponse {
	return payroll.ComponentResponse{
		ID:              c.ID,
		CompanyID:       c.CompanyID,
		Code:            c.Code,
		Name:            c.Name,
		Type:            string(c.Type),
		CalculationType: string(c.CalculationType),
		Value:           c.Value,
		Formula:         c.Formula,
		IsActive:        c.IsActive,
		SortOrder:       c.SortOrder,
	}
}

func mapRulesResponse(r payroll.Rules) payroll.RulesResponse {
	return payroll.RulesResponse{
		CompanyID:          r.CompanyID,
		PFRate:             r.PFRate,
		PFWageLimit:        r.PFWageLimit,
		ESIRate:            r.ESIRate,
		ESIWageLimit:       r.ESIWageLimit,
		OvertimeMultiplier: r.OvertimeMultiplier,
		GratuityEnabled:    r.GratuityEnabled,
		GratuityMinYears:   r.GratuityMinYears,
		GratuityDaysFactor: r.GratuityDaysFactor,
		GratuityDivisor:    r.GratuityDivisor,
	}
}

func mapTaxConfigurationResponse(c payroll.TaxConfiguration) payroll.TaxConfigurationResponse {
	var to *string
	if c.EffectiveTo != nil {
		str := payroll.FormatDate(*c.EffectiveTo)
		to = &str
	}
	return payroll.TaxConfigurationResponse{
		ID:            c.ID,
		CompanyID:     c.CompanyID,
		TaxType:       string(c.TaxType),
		Slabs:         c.Slabs,
		EffectiveFrom: payroll.FormatDate(c.EffectiveFrom),
		EffectiveTo:   to,
	}
}
