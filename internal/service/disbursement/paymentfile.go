package disbursement

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/disbursement"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
)

// GeneratePaymentFile renders the selected disbursements into a file the bank
// can ingest. Only bank_transfer instructions are eligible; cheque rows and
// rows missing bank details are rejected up front so a partial file is never
// produced.
func (s *DisbursementServiceImpl) GeneratePaymentFile(ctx context.Context, req disbursement.GeneratePaymentFileRequest) (disbursement.PaymentFile, error) {
	if err := req.Validate(); err != nil {
		return disbursement.PaymentFile{}, err
	}

	companyID, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return disbursement.PaymentFile{}, err
	}

	// Repeated ids collapse to one credit; the count check below compares
	// against unique ids so a duplicate is not mistaken for a missing row.
	ids := make([]string, 0, len(req.DisbursementIDs))
	seen := make(map[string]bool, len(req.DisbursementIDs))
	for _, id := range req.DisbursementIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	disbursements, err := s.disbursementRepo.GetByIDs(ctx, ids, companyID)
	if err != nil {
		return disbursement.PaymentFile{}, err
	}
	if len(disbursements) != len(ids) {
		return disbursement.PaymentFile{}, disbursement.ErrDisbursementNotFound
	}

	for _, d := range disbursements {
		if d.PaymentMethod != disbursement.PaymentMethodBankTransfer {
			return disbursement.PaymentFile{}, disbursement.ErrMissingBankDetails
		}
		if d.BankAccountNumber == nil || *d.BankAccountNumber == "" {
			return disbursement.PaymentFile{}, disbursement.ErrMissingBankDetails
		}
	}

	total := decimal.Zero
	for _, d := range disbursements {
		total = total.Add(d.Amount)
	}

	now := time.Now()
	switch req.Format {
	case "csv":
		payload, err := renderCSV(disbursements)
		if err != nil {
			return disbursement.PaymentFile{}, err
		}
		return disbursement.PaymentFile{
			Filename:    fmt.Sprintf("payment_%s.csv", now.Format("20060102_150405")),
			Payload:     payload,
			RecordCount: len(disbursements),
			TotalAmount: total,
		}, nil
	case "bank_transfer":
		return disbursement.PaymentFile{
			Filename:    fmt.Sprintf("payment_%s.txt", now.Format("20060102_150405")),
			Payload:     renderBankTransfer(disbursements, total, now),
			RecordCount: len(disbursements),
			TotalAmount: total,
		}, nil
	}
	return disbursement.PaymentFile{}, disbursement.ErrUnsupportedFileFormat
}

func renderCSV(disbursements []disbursement.Disbursement) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"employee_code", "employee_name", "bank_name", "bank_account_number", "amount", "disbursement_id"}); err != nil {
		return "", err
	}
	for _, d := range disbursements {
		record := []string{
			deref(d.EmployeeCode),
			deref(d.EmployeeName),
			deref(d.BankName),
			deref(d.BankAccountNumber),
			d.Amount.StringFixed(2),
			d.ID,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderBankTransfer emits the fixed-width layout most Indian bank upload
// portals accept: an H header with date and totals, one D line per credit
// with the amount in paise, and a T trailer echoing the counts.
func renderBankTransfer(disbursements []disbursement.Disbursement, total decimal.Decimal, now time.Time) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "H%s%06d%015s\n", now.Format("20060102"), len(disbursements), minorUnits(total))
	for _, d := range disbursements {
		fmt.Fprintf(&buf, "D%-20s%-40s%015s\n",
			truncate(deref(d.BankAccountNumber), 20),
			truncate(deref(d.EmployeeName), 40),
			minorUnits(d.Amount),
		)
	}
	fmt.Fprintf(&buf, "T%06d%015s\n", len(disbursements), minorUnits(total))

	return buf.String()
}

func minorUnits(amount decimal.Decimal) string {
	return amount.Shift(2).Round(0).String()
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
