package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	attendanceService "github.com/cmlabs-hris/payroll-engine-go/internal/service/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "company-1"
	testUserID    = "user-1"
)

type fixture struct {
	cycleRepo      *fakeCycleRepo
	payslipRepo    *fakePayslipRepo
	componentRepo  *fakeComponentRepo
	rulesRepo      *fakeRulesRepo
	taxConfigRepo  *fakeTaxConfigRepo
	employeeRepo   *fakeEmployeeRepo
	attendanceRepo *fakeAttendanceRepo
	svc            payroll.Service
}

func newFixture(employees []employee.Employee, components []payroll.SalaryComponent, configs []payroll.TaxConfiguration) *fixture {
	f := &fixture{
		cycleRepo:      newFakeCycleRepo(),
		payslipRepo:    newFakePayslipRepo(),
		componentRepo:  newFakeComponentRepo(components...),
		rulesRepo:      newFakeRulesRepo(),
		taxConfigRepo:  newFakeTaxConfigRepo(configs...),
		employeeRepo:   newFakeEmployeeRepo(employees...),
		attendanceRepo: newFakeAttendanceRepo(),
	}
	f.svc = NewPayrollService(
		f.cycleRepo,
		f.payslipRepo,
		f.componentRepo,
		f.rulesRepo,
		f.taxConfigRepo,
		f.employeeRepo,
		attendanceService.NewAggregator(f.attendanceRepo),
		4,
	)
	return f
}

// juneCycle seeds a 30-day draft cycle and returns its ID.
func (f *fixture) juneCycle(t *testing.T, ctx context.Context) string {
	t.Helper()
	created, err := f.svc.CreateCycle(ctx, payroll.CreateCycleRequest{
		PeriodStart: "2026-06-01",
		PeriodEnd:   "2026-06-30",
		PaymentDate: "2026-07-01",
	})
	require.NoError(t, err)
	return created.ID
}

func activeEmployee(id string, baseSalary string) employee.Employee {
	salary := dec(baseSalary)
	return employee.Employee{
		ID:               id,
		CompanyID:        testCompanyID,
		EmployeeCode:     "EMP-" + id,
		FullName:         "Employee " + id,
		HireDate:         time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC),
		EmploymentStatus: employee.EmploymentStatusActive,
		BaseSalary:       &salary,
	}
}

func TestPayrollService_CreateCycle_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(nil, nil, nil)
	ctx := testContext(testCompanyID, testUserID)

	_, err := f.svc.CreateCycle(ctx, payroll.CreateCycleRequest{
		PeriodStart: "2026-06-30",
		PeriodEnd:   "2026-06-01",
		PaymentDate: "2026-07-01",
	})

	assert.Error(t, err)
}

func TestPayrollService_GeneratePayslips_ComputesFullPayslip(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "30000")},
		[]payroll.SalaryComponent{
			{CompanyID: testCompanyID, Code: "HRA", Name: "House Rent", Type: payroll.ComponentTypeAllowance, CalculationType: payroll.CalculationTypePercentageOfBasic, Value: dec("40"), IsActive: true},
		},
		nil,
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)

	require.Equal(t, 1, summary.Generated)
	require.Len(t, summary.Payslips, 1)
	p := summary.Payslips[0]

	assertDecimal(t, "30000", p.BasicSalary)
	assertDecimal(t, "12000", p.Allowances["HRA"])
	assertDecimal(t, "42000", p.GrossSalary)
	// PF on capped basic; gross is above the ESI limit
	assertDecimal(t, "1800", p.Deductions["PF"])
	_, hasESI := p.Deductions["ESI"]
	assert.False(t, hasESI)
	assertDecimal(t, "1800", p.TotalDeductions)
	assertDecimal(t, "40200", p.NetSalary)
	assert.Equal(t, string(payroll.PayslipStatusDraft), p.Status)

	// the cycle is processing after a generation run
	cycle, err := f.svc.GetCycle(ctx, cycleID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.CycleStatusProcessing), cycle.Status)

	assertDecimal(t, "42000", summary.TotalGross)
	assertDecimal(t, "40200", summary.TotalNet)
}

func TestPayrollService_GeneratePayslips_ComponentDeductionSuppressesStatutory(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "30000")},
		[]payroll.SalaryComponent{
			{CompanyID: testCompanyID, Code: "PF", Name: "Provident Fund", Type: payroll.ComponentTypeDeduction, CalculationType: payroll.CalculationTypeFixed, Value: dec("1500"), IsActive: true},
		},
		nil,
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Generated)
	p := summary.Payslips[0]

	// the configured component wins over the statutory amount
	assertDecimal(t, "1500", p.Deductions["PF"])
	assertDecimal(t, "1500", p.TotalDeductions)
	assertDecimal(t, "28500", p.NetSalary)
}

func TestPayrollService_GeneratePayslips_StatutoryFillsMissingKeys(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "20000")},
		nil,
		nil,
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)
	p := summary.Payslips[0]

	assertDecimal(t, "1800", p.Deductions["PF"])
	assertDecimal(t, "150", p.Deductions["ESI"])
	assertDecimal(t, "1950", p.TotalDeductions)
	assertDecimal(t, "18050", p.NetSalary)
}

func TestPayrollService_GeneratePayslips_ZeroStatutoryOmitted(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "20000")},
		[]payroll.SalaryComponent{
			{CompanyID: testCompanyID, Code: "HEALTH_INSURANCE", Name: "Health Insurance", Type: payroll.ComponentTypeDeduction, CalculationType: payroll.CalculationTypeFixed, Value: dec("5000"), IsActive: true},
		},
		nil,
	)
	// a tenant with a zero PF rate produces a zero statutory PF
	rules := payroll.DefaultRules(testCompanyID)
	rules.PFRate = decimal.Zero
	_, err := f.rulesRepo.Upsert(context.Background(), rules)
	require.NoError(t, err)

	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)
	p := summary.Payslips[0]

	_, hasPF := p.Deductions["PF"]
	assert.False(t, hasPF)
	assertDecimal(t, "150", p.Deductions["ESI"])
	assertDecimal(t, "5000", p.Deductions["HEALTH_INSURANCE"])
	assertDecimal(t, "5150", p.TotalDeductions)
}

func TestPayrollService_GeneratePayslips_ProgressiveTaxDeducted(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "30000")},
		[]payroll.SalaryComponent{
			{CompanyID: testCompanyID, Code: "HRA", Name: "House Rent", Type: payroll.ComponentTypeAllowance, CalculationType: payroll.CalculationTypePercentageOfBasic, Value: dec("40"), IsActive: true},
		},
		[]payroll.TaxConfiguration{incomeTaxConfig(testCompanyID)},
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)
	p := summary.Payslips[0]

	// annualized gross 504000: 12500 in the 5% band, 800 in the 20% band
	assertDecimal(t, "1108.33", p.TaxDeduction)
	assertDecimal(t, "2908.33", p.TotalDeductions)
	assertDecimal(t, "39091.67", p.NetSalary)
}

func TestPayrollService_GeneratePayslips_AttendanceAndOvertime(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "24000")},
		nil,
		nil,
	)
	for day := 1; day <= 30; day++ {
		status := attendance.StatusPresent
		if day > 20 {
			status = attendance.StatusAbsent
		}
		entry := attendance.Entry{
			EmployeeID: "e1",
			CompanyID:  testCompanyID,
			Date:       time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC),
			Status:     status,
		}
		if day == 1 {
			entry.OvertimeHours = dec("10")
		}
		f.attendanceRepo.add("e1", entry)
	}
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)
	p := summary.Payslips[0]

	assertDecimal(t, "20", p.PresentDays)
	assertDecimal(t, "10", p.AbsentDays)
	assertDecimal(t, "16000", p.BasicSalary)
	// (24000 / 30 / 8) * 10 * 2
	assertDecimal(t, "2000", p.OvertimePay)
	assertDecimal(t, "18000", p.GrossSalary)
	// PF is computed on the full monthly basic, not the pro-rated one
	assertDecimal(t, "1800", p.Deductions["PF"])
	assertDecimal(t, "135", p.Deductions["ESI"])
	assertDecimal(t, "16065", p.NetSalary)
}

func TestPayrollService_GeneratePayslips_SkipsEmployeeWithoutBaseSalary(t *testing.T) {
	t.Parallel()
	noSalary := employee.Employee{
		ID:               "e2",
		CompanyID:        testCompanyID,
		EmployeeCode:     "EMP-e2",
		FullName:         "Employee e2",
		EmploymentStatus: employee.EmploymentStatusActive,
	}
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "30000"), noSalary},
		nil,
		nil,
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Generated)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, "e2", summary.Skipped[0].EmployeeID)
	assert.Empty(t, summary.Failed)
}

func TestPayrollService_GeneratePayslips_ExistingPayslipSkipped(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "30000")},
		nil,
		nil,
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	_, err := f.payslipRepo.Create(context.Background(), payroll.Payslip{
		CompanyID:  testCompanyID,
		CycleID:    cycleID,
		EmployeeID: "e1",
		Status:     payroll.PayslipStatusDraft,
	})
	require.NoError(t, err)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Generated)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, "e1", summary.Skipped[0].EmployeeID)
}

func TestPayrollService_GeneratePayslips_RejectsNonDraftCycle(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "30000")},
		nil,
		nil,
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	_, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)

	_, err = f.svc.GeneratePayslips(ctx, cycleID)
	assert.ErrorIs(t, err, payroll.ErrCycleNotDraft)
}

func TestPayrollService_GeneratePayslips_NetInvariantHolds(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{
			activeEmployee("e1", "30000"),
			activeEmployee("e2", "18000"),
			activeEmployee("e3", "55000"),
		},
		[]payroll.SalaryComponent{
			{CompanyID: testCompanyID, Code: "HRA", Name: "House Rent", Type: payroll.ComponentTypeAllowance, CalculationType: payroll.CalculationTypePercentageOfBasic, Value: dec("40"), IsActive: true},
			{CompanyID: testCompanyID, Code: "WELFARE", Name: "Welfare Fund", Type: payroll.ComponentTypeDeduction, CalculationType: payroll.CalculationTypePercentageOfGross, Value: dec("1"), IsActive: true},
		},
		[]payroll.TaxConfiguration{incomeTaxConfig(testCompanyID)},
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Generated)

	for _, p := range summary.Payslips {
		var deductionSum decimal.Decimal
		for _, amount := range p.Deductions {
			deductionSum = deductionSum.Add(amount)
			assert.False(t, amount.IsZero(), "zero deduction stored on payslip %s", p.EmployeeID)
		}
		expectedTotal := deductionSum.Add(p.TaxDeduction).Round(2)
		assertDecimal(t, expectedTotal.String(), p.TotalDeductions)
		assertDecimal(t, p.GrossSalary.Sub(p.TotalDeductions).Round(2).String(), p.NetSalary)
	}
}

func TestPayrollService_ApprovePayslip(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "30000")},
		nil,
		nil,
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	summary, err := f.svc.GeneratePayslips(ctx, cycleID)
	require.NoError(t, err)
	payslipID := summary.Payslips[0].ID

	approved, err := f.svc.ApprovePayslip(ctx, payslipID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PayslipStatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, testUserID, *approved.ApprovedBy)

	// approval is final; a second approval is a state conflict
	_, err = f.svc.ApprovePayslip(ctx, payslipID)
	assert.ErrorIs(t, err, payroll.ErrPayslipNotDraft)
}

func TestPayrollService_CreateComponent_RejectsLowercaseCode(t *testing.T) {
	t.Parallel()
	f := newFixture(nil, nil, nil)
	ctx := testContext(testCompanyID, testUserID)

	// A lowercase code could never be referenced from a formula and would not
	// suppress the matching statutory deduction, so it is rejected up front.
	_, err := f.svc.CreateComponent(ctx, payroll.CreateComponentRequest{
		Code:            "pf",
		Name:            "Provident Fund",
		Type:            "deduction",
		CalculationType: "fixed",
		Value:           dec("1500"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code")

	created, err := f.svc.CreateComponent(ctx, payroll.CreateComponentRequest{
		Code:            "PF",
		Name:            "Provident Fund",
		Type:            "deduction",
		CalculationType: "fixed",
		Value:           dec("1500"),
	})
	require.NoError(t, err)
	assert.Equal(t, "PF", created.Code)
}

func TestPayrollService_RulesFallBackToDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(nil, nil, nil)
	ctx := testContext(testCompanyID, testUserID)

	rules, err := f.svc.GetRules(ctx)
	require.NoError(t, err)

	assertDecimal(t, "0.12", rules.PFRate)
	assertDecimal(t, "15000", rules.PFWageLimit)
	assert.False(t, rules.GratuityEnabled)
}

func TestPayrollService_UpdateRulesPartial(t *testing.T) {
	t.Parallel()
	f := newFixture(nil, nil, nil)
	ctx := testContext(testCompanyID, testUserID)

	enabled := true
	newRate := dec("0.10")
	updated, err := f.svc.UpdateRules(ctx, payroll.UpdateRulesRequest{
		PFRate:          &newRate,
		GratuityEnabled: &enabled,
	})
	require.NoError(t, err)

	assertDecimal(t, "0.10", updated.PFRate)
	assert.True(t, updated.GratuityEnabled)
	// untouched fields keep their defaults
	assertDecimal(t, "21000", updated.ESIWageLimit)
}

func TestPayrollService_TenantIsolation(t *testing.T) {
	t.Parallel()
	f := newFixture(
		[]employee.Employee{activeEmployee("e1", "30000")},
		nil,
		nil,
	)
	ctx := testContext(testCompanyID, testUserID)
	cycleID := f.juneCycle(t, ctx)

	otherCtx := testContext("company-2", "user-9")
	_, err := f.svc.GetCycle(otherCtx, cycleID)
	assert.ErrorIs(t, err, payroll.ErrCycleNotFound)
}
