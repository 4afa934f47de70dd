package payroll

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

// testContext returns a context carrying a verified token for the given
// tenant, the same shape the auth middleware produces.
func testContext(companyID, userID string) context.Context {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"company_id": companyID,
		"user_id":    userID,
	})
	if err != nil {
		panic(err)
	}
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ========== CYCLES ==========

type fakeCycleRepo struct {
	mu     sync.Mutex
	cycles map[string]payroll.Cycle
}

func newFakeCycleRepo() *fakeCycleRepo {
	return &fakeCycleRepo{cycles: make(map[string]payroll.Cycle)}
}

func (f *fakeCycleRepo) Create(ctx context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cycle.ID = uuid.NewString()
	cycle.CreatedAt = time.Now()
	cycle.UpdatedAt = cycle.CreatedAt
	f.cycles[cycle.ID] = cycle
	return cycle, nil
}

func (f *fakeCycleRepo) GetByID(ctx context.Context, id string, companyID string) (payroll.Cycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cycles[id]
	if !ok || c.CompanyID != companyID {
		return payroll.Cycle{}, payroll.ErrCycleNotFound
	}
	return c, nil
}

func (f *fakeCycleRepo) List(ctx context.Context, companyID string, filter payroll.CycleFilter) ([]payroll.Cycle, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Cycle
	for _, c := range f.cycles {
		if c.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && string(c.Status) != *filter.Status {
			continue
		}
		result = append(result, c)
	}
	return result, int64(len(result)), nil
}

func (f *fakeCycleRepo) ListProcessing(ctx context.Context) ([]payroll.Cycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Cycle
	for _, c := range f.cycles {
		if c.Status == payroll.CycleStatusProcessing {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeCycleRepo) UpdateStatusIf(ctx context.Context, id string, companyID string, from, to payroll.CycleStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cycles[id]
	if !ok || c.CompanyID != companyID || c.Status != from {
		return payroll.ErrCycleNotFound
	}
	c.Status = to
	c.UpdatedAt = time.Now()
	f.cycles[id] = c
	return nil
}

// ========== PAYSLIPS ==========

type fakePayslipRepo struct {
	mu       sync.Mutex
	payslips map[string]payroll.Payslip
}

func newFakePayslipRepo() *fakePayslipRepo {
	return &fakePayslipRepo{payslips: make(map[string]payroll.Payslip)}
}

func (f *fakePayslipRepo) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.payslips {
		if existing.CycleID == p.CycleID && existing.EmployeeID == p.EmployeeID {
			return payroll.Payslip{}, payroll.ErrPayslipAlreadyExists
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.payslips[p.ID] = p
	return p, nil
}

func (f *fakePayslipRepo) GetByID(ctx context.Context, id string, companyID string) (payroll.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payslips[id]
	if !ok || p.CompanyID != companyID {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (f *fakePayslipRepo) GetByCycleAndEmployee(ctx context.Context, cycleID, employeeID, companyID string) (payroll.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payslips {
		if p.CycleID == cycleID && p.EmployeeID == employeeID && p.CompanyID == companyID {
			return p, nil
		}
	}
	return payroll.Payslip{}, payroll.ErrPayslipNotFound
}

func (f *fakePayslipRepo) ListByCycle(ctx context.Context, cycleID string, companyID string) ([]payroll.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Payslip
	for _, p := range f.payslips {
		if p.CycleID == cycleID && p.CompanyID == companyID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePayslipRepo) List(ctx context.Context, companyID string, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Payslip
	for _, p := range f.payslips {
		if p.CompanyID != companyID {
			continue
		}
		if filter.CycleID != nil && p.CycleID != *filter.CycleID {
			continue
		}
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		result = append(result, p)
	}
	return result, int64(len(result)), nil
}

func (f *fakePayslipRepo) Approve(ctx context.Context, id string, companyID string, approvedBy string, approvedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payslips[id]
	if !ok || p.CompanyID != companyID {
		return payroll.ErrPayslipNotFound
	}
	if p.Status != payroll.PayslipStatusDraft {
		return payroll.ErrPayslipNotDraft
	}
	p.Status = payroll.PayslipStatusApproved
	p.ApprovedBy = &approvedBy
	p.ApprovedAt = &approvedAt
	f.payslips[id] = p
	return nil
}

func (f *fakePayslipRepo) MarkPaid(ctx context.Context, id string, companyID string, paidAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payslips[id]
	if !ok || p.CompanyID != companyID {
		return payroll.ErrPayslipNotFound
	}
	if p.Status != payroll.PayslipStatusApproved {
		return payroll.ErrPayslipNotApproved
	}
	p.Status = payroll.PayslipStatusPaid
	p.PaidAt = &paidAt
	f.payslips[id] = p
	return nil
}

func (f *fakePayslipRepo) CountUnpaidByCycle(ctx context.Context, cycleID string, companyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, p := range f.payslips {
		if p.CycleID == cycleID && p.CompanyID == companyID && p.Status != payroll.PayslipStatusPaid {
			count++
		}
	}
	return count, nil
}

// ========== COMPONENTS ==========

type fakeComponentRepo struct {
	mu         sync.Mutex
	components []payroll.SalaryComponent
}

func newFakeComponentRepo(components ...payroll.SalaryComponent) *fakeComponentRepo {
	f := &fakeComponentRepo{}
	for _, c := range components {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		f.components = append(f.components, c)
	}
	return f
}

func (f *fakeComponentRepo) Create(ctx context.Context, c payroll.SalaryComponent) (payroll.SalaryComponent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.components {
		if existing.CompanyID == c.CompanyID && existing.Code == c.Code {
			return payroll.SalaryComponent{}, payroll.ErrComponentCodeExists
		}
	}
	c.ID = uuid.NewString()
	f.components = append(f.components, c)
	return c, nil
}

func (f *fakeComponentRepo) GetByID(ctx context.Context, id string, companyID string) (payroll.SalaryComponent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.components {
		if c.ID == id && c.CompanyID == companyID {
			return c, nil
		}
	}
	return payroll.SalaryComponent{}, payroll.ErrComponentNotFound
}

func (f *fakeComponentRepo) ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]payroll.SalaryComponent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.SalaryComponent
	for _, c := range f.components {
		if c.CompanyID != companyID {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (f *fakeComponentRepo) Update(ctx context.Context, companyID string, req payroll.UpdateComponentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.components {
		if c.ID != req.ID || c.CompanyID != companyID {
			continue
		}
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Value != nil {
			c.Value = *req.Value
		}
		if req.Formula != nil {
			c.Formula = req.Formula
		}
		if req.IsActive != nil {
			c.IsActive = *req.IsActive
		}
		if req.SortOrder != nil {
			c.SortOrder = *req.SortOrder
		}
		f.components[i] = c
		return nil
	}
	return payroll.ErrComponentNotFound
}

func (f *fakeComponentRepo) Deactivate(ctx context.Context, id string, companyID string) error {
	isActive := false
	return f.Update(ctx, companyID, payroll.UpdateComponentRequest{ID: id, IsActive: &isActive})
}

// ========== RULES ==========

type fakeRulesRepo struct {
	mu    sync.Mutex
	rules map[string]payroll.Rules
}

func newFakeRulesRepo() *fakeRulesRepo {
	return &fakeRulesRepo{rules: make(map[string]payroll.Rules)}
}

func (f *fakeRulesRepo) Get(ctx context.Context, companyID string) (payroll.Rules, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rules[companyID]
	if !ok {
		return payroll.Rules{}, payroll.ErrRulesNotFound
	}
	return r, nil
}

func (f *fakeRulesRepo) Upsert(ctx context.Context, rules payroll.Rules) (payroll.Rules, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[rules.CompanyID] = rules
	return rules, nil
}

// ========== TAX CONFIGURATIONS ==========

type fakeTaxConfigRepo struct {
	mu      sync.Mutex
	configs []payroll.TaxConfiguration
}

func newFakeTaxConfigRepo(configs ...payroll.TaxConfiguration) *fakeTaxConfigRepo {
	f := &fakeTaxConfigRepo{}
	for _, c := range configs {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		f.configs = append(f.configs, c)
	}
	return f
}

func (f *fakeTaxConfigRepo) Create(ctx context.Context, config payroll.TaxConfiguration) (payroll.TaxConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	config.ID = uuid.NewString()
	f.configs = append(f.configs, config)
	return config, nil
}

func (f *fakeTaxConfigRepo) GetActive(ctx context.Context, companyID string, taxType payroll.TaxType, date time.Time) (payroll.TaxConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.configs {
		if c.CompanyID == companyID && c.TaxType == taxType && c.ActiveOn(date) {
			return c, nil
		}
	}
	return payroll.TaxConfiguration{}, payroll.ErrTaxConfigurationNotFound
}

func (f *fakeTaxConfigRepo) ListByCompany(ctx context.Context, companyID string) ([]payroll.TaxConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.TaxConfiguration
	for _, c := range f.configs {
		if c.CompanyID == companyID {
			result = append(result, c)
		}
	}
	return result, nil
}

// ========== EMPLOYEES ==========

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{}
	for _, e := range employees {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		f.employees = append(f.employees, e)
	}
	return f
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.EmploymentStatus == employee.EmploymentStatusActive {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEmployeeRepo) GetByIDs(ctx context.Context, ids []string, companyID string) ([]employee.Employee, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var result []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID && wanted[e.ID] {
			result = append(result, e)
		}
	}
	return result, nil
}

// ========== ATTENDANCE ==========

type fakeAttendanceRepo struct {
	entries map[string][]attendance.Entry
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{entries: make(map[string][]attendance.Entry)}
}

func (f *fakeAttendanceRepo) add(employeeID string, entries ...attendance.Entry) {
	f.entries[employeeID] = append(f.entries[employeeID], entries...)
}

func (f *fakeAttendanceRepo) ListByEmployeeAndPeriod(ctx context.Context, employeeID, companyID string, start, end time.Time) ([]attendance.Entry, error) {
	var result []attendance.Entry
	for _, e := range f.entries[employeeID] {
		if e.CompanyID == companyID && !e.Date.Before(start) && !e.Date.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}
