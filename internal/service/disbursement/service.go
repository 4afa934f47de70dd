package disbursement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/disbursement"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
)

// amountTolerance is the maximum difference between a bank confirmation and
// the disbursed amount that still reconciles as a match.
var amountTolerance = decimal.NewFromFloat(0.01)

type DisbursementServiceImpl struct {
	disbursementRepo disbursement.Repository
	payslipRepo      payroll.PayslipRepository
	cycleRepo        payroll.CycleRepository
	employeeRepo     employee.EmployeeRepository
}

func NewDisbursementService(
	disbursementRepo disbursement.Repository,
	payslipRepo payroll.PayslipRepository,
	cycleRepo payroll.CycleRepository,
	employeeRepo employee.EmployeeRepository,
) disbursement.Service {
	return &DisbursementServiceImpl{
		disbursementRepo: disbursementRepo,
		payslipRepo:      payslipRepo,
		cycleRepo:        cycleRepo,
		employeeRepo:     employeeRepo,
	}
}

// CreateForCycle batches every approved payslip in the cycle that has no
// disbursement yet into a pending bank instruction. Draft payslips are left
// alone; calling it again only picks up newly approved ones.
func (s *DisbursementServiceImpl) CreateForCycle(ctx context.Context, cycleID string) (disbursement.CreateResult, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return disbursement.CreateResult{}, err
	}

	if _, err := s.cycleRepo.GetByID(ctx, cycleID, companyID); err != nil {
		return disbursement.CreateResult{}, err
	}

	payslips, err := s.payslipRepo.ListByCycle(ctx, cycleID, companyID)
	if err != nil {
		return disbursement.CreateResult{}, err
	}

	var approved []payroll.Payslip
	for _, p := range payslips {
		if p.Status == payroll.PayslipStatusApproved {
			approved = append(approved, p)
		}
	}
	if len(approved) == 0 {
		return disbursement.CreateResult{}, disbursement.ErrNoApprovedPayslips
	}

	employeeIDs := make([]string, 0, len(approved))
	for _, p := range approved {
		employeeIDs = append(employeeIDs, p.EmployeeID)
	}
	employees, err := s.employeeRepo.GetByIDs(ctx, employeeIDs, companyID)
	if err != nil {
		return disbursement.CreateResult{}, err
	}
	employeeByID := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		employeeByID[e.ID] = e
	}

	result := disbursement.CreateResult{
		CycleID:     cycleID,
		TotalAmount: decimal.Zero,
	}

	for _, p := range approved {
		exists, err := s.disbursementRepo.ExistsForPayslip(ctx, p.ID, companyID)
		if err != nil {
			return result, err
		}
		if exists {
			continue
		}

		method := disbursement.PaymentMethodBankTransfer
		if emp, ok := employeeByID[p.EmployeeID]; ok && emp.BankAccountNumber == "" {
			method = disbursement.PaymentMethodCheque
		}

		created, err := s.disbursementRepo.Create(ctx, disbursement.Disbursement{
			CompanyID:     companyID,
			CycleID:       cycleID,
			EmployeeID:    p.EmployeeID,
			PayslipID:     p.ID,
			Amount:        p.NetSalary,
			PaymentMethod: method,
			Status:        disbursement.StatusPending,
		})
		if err != nil {
			if errors.Is(err, disbursement.ErrAlreadyExists) {
				continue
			}
			return result, err
		}

		result.Created++
		result.TotalAmount = result.TotalAmount.Add(created.Amount)
		result.Disbursements = append(result.Disbursements, mapResponse(created))
	}

	if result.Created == 0 {
		return disbursement.CreateResult{}, disbursement.ErrNoApprovedPayslips
	}
	return result, nil
}

func (s *DisbursementServiceImpl) Get(ctx context.Context, id string) (disbursement.Response, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return disbursement.Response{}, err
	}

	d, err := s.disbursementRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return disbursement.Response{}, err
	}
	return mapResponse(d), nil
}

func (s *DisbursementServiceImpl) ListByCycle(ctx context.Context, cycleID string) ([]disbursement.Response, error) {
	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	disbursements, err := s.disbursementRepo.ListByCycle(ctx, cycleID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]disbursement.Response, 0, len(disbursements))
	for _, d := range disbursements {
		result = append(result, mapResponse(d))
	}
	return result, nil
}

func (s *DisbursementServiceImpl) UpdateStatus(ctx context.Context, req disbursement.UpdateStatusRequest) (disbursement.Response, error) {
	if err := req.Validate(); err != nil {
		return disbursement.Response{}, err
	}

	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return disbursement.Response{}, err
	}

	updated, err := s.transition(ctx, companyID, req.ID, disbursement.Status(req.Status), req.TransactionRef, req.FailureReason)
	if err != nil {
		return disbursement.Response{}, err
	}
	return mapResponse(updated), nil
}

// BulkUpdateStatus applies the same transition to many disbursements. Rows
// are processed independently; the result reports which ones failed and why.
func (s *DisbursementServiceImpl) BulkUpdateStatus(ctx context.Context, req disbursement.BulkUpdateStatusRequest) (disbursement.BulkUpdateResult, error) {
	if err := req.Validate(); err != nil {
		return disbursement.BulkUpdateResult{}, err
	}

	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return disbursement.BulkUpdateResult{}, err
	}

	result := disbursement.BulkUpdateResult{Errors: make(map[string]string)}
	for _, id := range req.IDs {
		updated, err := s.transition(ctx, companyID, id, disbursement.Status(req.Status), req.TransactionRef, req.FailureReason)
		if err != nil {
			result.Errors[id] = err.Error()
			continue
		}
		result.Updated = append(result.Updated, mapResponse(updated))
	}
	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

// transition moves one disbursement through the state machine and, on
// completion, settles the payslip and possibly the cycle behind it.
func (s *DisbursementServiceImpl) transition(ctx context.Context, companyID, id string, to disbursement.Status, transactionRef, failureReason *string) (disbursement.Disbursement, error) {
	current, err := s.disbursementRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return disbursement.Disbursement{}, err
	}
	if !current.Status.CanTransitionTo(to) {
		return disbursement.Disbursement{}, disbursement.ErrInvalidTransition
	}

	updated, err := s.disbursementRepo.UpdateStatusIf(ctx, id, companyID, []disbursement.Status{current.Status}, to, transactionRef, failureReason)
	if err != nil {
		return disbursement.Disbursement{}, err
	}

	if to == disbursement.StatusCompleted {
		s.settle(ctx, companyID, updated)
	}
	return updated, nil
}

// settle marks the paid payslip and completes the cycle once nothing in it is
// unpaid. Settlement failures are logged, not returned: the money already
// moved and the disbursement row is the source of truth.
func (s *DisbursementServiceImpl) settle(ctx context.Context, companyID string, d disbursement.Disbursement) {
	if err := s.payslipRepo.MarkPaid(ctx, d.PayslipID, companyID, time.Now()); err != nil {
		slog.Error("Failed to mark payslip as paid", "payslip_id", d.PayslipID, "disbursement_id", d.ID, "error", err)
		return
	}

	unpaid, err := s.payslipRepo.CountUnpaidByCycle(ctx, d.CycleID, companyID)
	if err != nil {
		slog.Error("Failed to count unpaid payslips", "cycle_id", d.CycleID, "error", err)
		return
	}
	if unpaid > 0 {
		return
	}

	err = s.cycleRepo.UpdateStatusIf(ctx, d.CycleID, companyID, payroll.CycleStatusProcessing, payroll.CycleStatusCompleted)
	if err != nil && !errors.Is(err, payroll.ErrCycleNotFound) {
		slog.Error("Failed to complete cycle", "cycle_id", d.CycleID, "error", err)
	}
}

// Reconcile matches externally reported bank confirmations against open
// disbursements by employee code. Matches within tolerance complete, amount
// mismatches fail with a reason, and unknown codes are reported back.
func (s *DisbursementServiceImpl) Reconcile(ctx context.Context, req disbursement.ReconcileRequest) (disbursement.ReconcileResult, error) {
	if err := req.Validate(); err != nil {
		return disbursement.ReconcileResult{}, err
	}

	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return disbursement.ReconcileResult{}, err
	}

	open, err := s.disbursementRepo.ListOpenByCompany(ctx, companyID)
	if err != nil {
		return disbursement.ReconcileResult{}, err
	}
	openByCode := make(map[string][]disbursement.Disbursement, len(open))
	for _, d := range open {
		if d.EmployeeCode != nil {
			openByCode[*d.EmployeeCode] = append(openByCode[*d.EmployeeCode], d)
		}
	}

	openStates := []disbursement.Status{disbursement.StatusPending, disbursement.StatusProcessing}
	var result disbursement.ReconcileResult

	for _, entry := range req.Entries {
		candidates := openByCode[entry.EmployeeCode]
		if len(candidates) == 0 {
			result.NotFound = append(result.NotFound, disbursement.ReconcileOutcome{
				EmployeeCode: entry.EmployeeCode,
				Amount:       entry.Amount,
				Reason:       "no open disbursement for this employee code",
			})
			continue
		}

		// An employee can have open disbursements across several cycles, so a
		// confirmation binds to the candidate whose amount it matches. Each
		// candidate is consumed at most once per run.
		match := -1
		for i, d := range candidates {
			if d.Amount.Sub(entry.Amount).Abs().LessThanOrEqual(amountTolerance) {
				match = i
				break
			}
		}

		if match < 0 && len(candidates) > 1 {
			// No row can be singled out; report the entry without failing any.
			result.Failed = append(result.Failed, disbursement.ReconcileOutcome{
				EmployeeCode: entry.EmployeeCode,
				Amount:       entry.Amount,
				Reason:       fmt.Sprintf("amount matches none of %d open disbursements for this employee code", len(candidates)),
			})
			continue
		}

		if match < 0 {
			d := candidates[0]
			openByCode[entry.EmployeeCode] = nil
			reason := "amount mismatch: expected " + d.Amount.StringFixed(2) + ", bank reported " + entry.Amount.StringFixed(2)
			if _, err := s.disbursementRepo.UpdateStatusIf(ctx, d.ID, companyID, openStates, disbursement.StatusFailed, entry.Reference, &reason); err != nil {
				slog.Error("Failed to fail disbursement during reconciliation", "disbursement_id", d.ID, "error", err)
			}
			result.Failed = append(result.Failed, disbursement.ReconcileOutcome{
				EmployeeCode:   entry.EmployeeCode,
				DisbursementID: d.ID,
				Amount:         entry.Amount,
				Reason:         reason,
			})
			continue
		}

		d := candidates[match]
		openByCode[entry.EmployeeCode] = append(candidates[:match], candidates[match+1:]...)

		updated, err := s.disbursementRepo.UpdateStatusIf(ctx, d.ID, companyID, openStates, disbursement.StatusCompleted, entry.Reference, nil)
		if err != nil {
			result.Failed = append(result.Failed, disbursement.ReconcileOutcome{
				EmployeeCode:   entry.EmployeeCode,
				DisbursementID: d.ID,
				Amount:         entry.Amount,
				Reason:         err.Error(),
			})
			continue
		}
		s.settle(ctx, companyID, updated)
		result.Completed = append(result.Completed, disbursement.ReconcileOutcome{
			EmployeeCode:   entry.EmployeeCode,
			DisbursementID: d.ID,
			Amount:         entry.Amount,
		})
	}

	return result, nil
}

func mapResponse(d disbursement.Disbursement) disbursement.Response {
	employeeName := ""
	employeeCode := ""
	if d.EmployeeName != nil {
		employeeName = *d.EmployeeName
	}
	if d.EmployeeCode != nil {
		employeeCode = *d.EmployeeCode
	}

	return disbursement.Response{
		ID:             d.ID,
		CycleID:        d.CycleID,
		EmployeeID:     d.EmployeeID,
		EmployeeName:   employeeName,
		EmployeeCode:   employeeCode,
		PayslipID:      d.PayslipID,
		Amount:         d.Amount,
		PaymentMethod:  string(d.PaymentMethod),
		Status:         string(d.Status),
		TransactionRef: d.TransactionRef,
		FailureReason:  d.FailureReason,
	}
}
