package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// PayrollJobs owns the background sweeps the engine runs between batch
// operations. Cycle completion is driven by disbursement confirmations, so a
// daily sweep closes any processing cycle whose payslips have all been paid.
type PayrollJobs struct {
	cycleRepo   payroll.CycleRepository
	payslipRepo payroll.PayslipRepository
}

func NewPayrollJobs(cycleRepo payroll.CycleRepository, payslipRepo payroll.PayslipRepository) *PayrollJobs {
	return &PayrollJobs{
		cycleRepo:   cycleRepo,
		payslipRepo: payslipRepo,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("complete_settled_cycles", 24*time.Hour, j.CompleteSettledCycles)
}

// CompleteSettledCycles moves processing cycles to completed once every
// payslip in the cycle has reached paid.
func (j *PayrollJobs) CompleteSettledCycles(ctx context.Context) error {
	cycles, err := j.cycleRepo.ListProcessing(ctx)
	if err != nil {
		return fmt.Errorf("failed to list processing cycles: %w", err)
	}

	completed := 0
	for _, cycle := range cycles {
		unpaid, err := j.payslipRepo.CountUnpaidByCycle(ctx, cycle.ID, cycle.CompanyID)
		if err != nil {
			slog.Error("Cron: Failed to count unpaid payslips", "cycle_id", cycle.ID, "error", err)
			continue
		}
		if unpaid > 0 {
			continue
		}

		if err := j.cycleRepo.UpdateStatusIf(ctx, cycle.ID, cycle.CompanyID, payroll.CycleStatusProcessing, payroll.CycleStatusCompleted); err != nil {
			slog.Error("Cron: Failed to complete cycle", "cycle_id", cycle.ID, "error", err)
			continue
		}
		completed++
	}

	if completed > 0 {
		slog.Info("Cron: Completed settled payroll cycles", "count", completed)
	}
	return nil
}
