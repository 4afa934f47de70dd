package disbursement

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/disbursement"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

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

// ========== DISBURSEMENTS ==========

// fakeDisbursementRepo joins employee fields the way the SQL repository does.
type fakeDisbursementRepo struct {
	mu            sync.Mutex
	disbursements map[string]disbursement.Disbursement
	employees     map[string]employee.Employee
}

func newFakeDisbursementRepo(employees map[string]employee.Employee) *fakeDisbursementRepo {
	return &fakeDisbursementRepo{
		disbursements: make(map[string]disbursement.Disbursement),
		employees:     employees,
	}
}

func (f *fakeDisbursementRepo) join(d disbursement.Disbursement) disbursement.Disbursement {
	if e, ok := f.employees[d.EmployeeID]; ok {
		name := e.FullName
		code := e.EmployeeCode
		bank := e.BankName
		account := e.BankAccountNumber
		d.EmployeeName = &name
		d.EmployeeCode = &code
		d.BankName = &bank
		d.BankAccountNumber = &account
	}
	return d
}

func (f *fakeDisbursementRepo) Create(ctx context.Context, d disbursement.Disbursement) (disbursement.Disbursement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.disbursements {
		if existing.PayslipID == d.PayslipID {
			return disbursement.Disbursement{}, disbursement.ErrAlreadyExists
		}
	}
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	f.disbursements[d.ID] = d
	return f.join(d), nil
}

func (f *fakeDisbursementRepo) GetByID(ctx context.Context, id string, companyID string) (disbursement.Disbursement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disbursements[id]
	if !ok || d.CompanyID != companyID {
		return disbursement.Disbursement{}, disbursement.ErrDisbursementNotFound
	}
	return f.join(d), nil
}

func (f *fakeDisbursementRepo) GetByIDs(ctx context.Context, ids []string, companyID string) ([]disbursement.Disbursement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []disbursement.Disbursement
	for _, id := range ids {
		if d, ok := f.disbursements[id]; ok && d.CompanyID == companyID {
			result = append(result, f.join(d))
		}
	}
	return result, nil
}

func (f *fakeDisbursementRepo) ListByCycle(ctx context.Context, cycleID string, companyID string) ([]disbursement.Disbursement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []disbursement.Disbursement
	for _, d := range f.disbursements {
		if d.CycleID == cycleID && d.CompanyID == companyID {
			result = append(result, f.join(d))
		}
	}
	return result, nil
}

func (f *fakeDisbursementRepo) ListOpenByCompany(ctx context.Context, companyID string) ([]disbursement.Disbursement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []disbursement.Disbursement
	for _, d := range f.disbursements {
		if d.CompanyID == companyID && (d.Status == disbursement.StatusPending || d.Status == disbursement.StatusProcessing) {
			result = append(result, f.join(d))
		}
	}
	return result, nil
}

func (f *fakeDisbursementRepo) ExistsForPayslip(ctx context.Context, payslipID string, companyID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.disbursements {
		if d.PayslipID == payslipID && d.CompanyID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDisbursementRepo) UpdateStatusIf(ctx context.Context, id string, companyID string, from []disbursement.Status, to disbursement.Status, transactionRef, failureReason *string) (disbursement.Disbursement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disbursements[id]
	if !ok || d.CompanyID != companyID {
		return disbursement.Disbursement{}, disbursement.ErrDisbursementNotFound
	}
	allowed := false
	for _, s := range from {
		if d.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return disbursement.Disbursement{}, disbursement.ErrInvalidTransition
	}
	d.Status = to
	if transactionRef != nil {
		d.TransactionRef = transactionRef
	}
	if failureReason != nil {
		d.FailureReason = failureReason
	}
	d.UpdatedAt = time.Now()
	f.disbursements[id] = d
	return f.join(d), nil
}

// ========== PAYSLIPS ==========

type fakePayslipRepo struct {
	mu       sync.Mutex
	payslips map[string]payroll.Payslip
}

func newFakePayslipRepo(payslips ...payroll.Payslip) *fakePayslipRepo {
	f := &fakePayslipRepo{payslips: make(map[string]payroll.Payslip)}
	for _, p := range payslips {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		f.payslips[p.ID] = p
	}
	return f
}

func (f *fakePayslipRepo) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.NewString()
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
		if p.CompanyID == companyID {
			result = append(result, p)
		}
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

// ========== CYCLES ==========

type fakeCycleRepo struct {
	mu     sync.Mutex
	cycles map[string]payroll.Cycle
}

func newFakeCycleRepo(cycles ...payroll.Cycle) *fakeCycleRepo {
	f := &fakeCycleRepo{cycles: make(map[string]payroll.Cycle)}
	for _, c := range cycles {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		f.cycles[c.ID] = c
	}
	return f
}

func (f *fakeCycleRepo) Create(ctx context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cycle.ID = uuid.NewString()
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
	return nil, 0, nil
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
	f.cycles[id] = c
	return nil
}

// ========== EMPLOYEES ==========

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(employees map[string]employee.Employee) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: employees}
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
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
	var result []employee.Employee
	for _, id := range ids {
		if e, ok := f.employees[id]; ok && e.CompanyID == companyID {
			result = append(result, e)
		}
	}
	return result, nil
}
