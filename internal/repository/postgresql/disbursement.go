package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/disbursement"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type disbursementRepository struct {
	db *database.DB
}

func NewDisbursementRepository(db *database.DB) disbursement.Repository {
	return &disbursementRepository{db: db}
}

const disbursementColumns = `
	d.id, d.company_id, d.cycle_id, d.employee_id, d.payslip_id,
	d.amount, d.payment_method, d.status, d.transaction_ref, d.failure_reason,
	d.created_at, d.updated_at,
	e.full_name, e.employee_code, e.bank_name, e.bank_account_number
`

func scanDisbursement(row pgx.Row) (disbursement.Disbursement, error) {
	var d disbursement.Disbursement
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.CycleID, &d.EmployeeID, &d.PayslipID,
		&d.Amount, &d.PaymentMethod, &d.Status, &d.TransactionRef, &d.FailureReason,
		&d.CreatedAt, &d.UpdatedAt,
		&d.EmployeeName, &d.EmployeeCode, &d.BankName, &d.BankAccountNumber,
	)
	return d, err
}

func (r *disbursementRepository) Create(ctx context.Context, d disbursement.Disbursement) (disbursement.Disbursement, error) {
	query := `
		INSERT INTO disbursements (company_id, cycle_id, employee_id, payslip_id, amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	// Insert and re-read share one transaction so the joined read sees the row.
	var created disbursement.Disbursement
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		var id string
		err := q.QueryRow(txCtx, query,
			d.CompanyID, d.CycleID, d.EmployeeID, d.PayslipID, d.Amount, d.PaymentMethod, d.Status,
		).Scan(&id)
		if err != nil {
			if strings.Contains(err.Error(), "uk_disbursement_payslip") {
				return disbursement.ErrAlreadyExists
			}
			return fmt.Errorf("failed to create disbursement: %w", err)
		}

		created, err = r.GetByID(txCtx, id, d.CompanyID)
		return err
	})
	if err != nil {
		return disbursement.Disbursement{}, err
	}
	return created, nil
}

func (r *disbursementRepository) GetByID(ctx context.Context, id string, companyID string) (disbursement.Disbursement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + disbursementColumns + `
		FROM disbursements d
		JOIN employees e ON e.id = d.employee_id
		WHERE d.id = $1 AND d.company_id = $2
	`

	d, err := scanDisbursement(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return disbursement.Disbursement{}, disbursement.ErrDisbursementNotFound
		}
		return disbursement.Disbursement{}, fmt.Errorf("failed to get disbursement: %w", err)
	}

	return d, nil
}

func (r *disbursementRepository) GetByIDs(ctx context.Context, ids []string, companyID string) ([]disbursement.Disbursement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + disbursementColumns + `
		FROM disbursements d
		JOIN employees e ON e.id = d.employee_id
		WHERE d.id = ANY($1) AND d.company_id = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, ids, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get disbursements: %w", err)
	}
	defer rows.Close()

	var disbursements []disbursement.Disbursement
	for rows.Next() {
		d, err := scanDisbursement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan disbursement: %w", err)
		}
		disbursements = append(disbursements, d)
	}

	return disbursements, nil
}

func (r *disbursementRepository) ListByCycle(ctx context.Context, cycleID string, companyID string) ([]disbursement.Disbursement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + disbursementColumns + `
		FROM disbursements d
		JOIN employees e ON e.id = d.employee_id
		WHERE d.cycle_id = $1 AND d.company_id = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, cycleID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list disbursements: %w", err)
	}
	defer rows.Close()

	var disbursements []disbursement.Disbursement
	for rows.Next() {
		d, err := scanDisbursement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan disbursement: %w", err)
		}
		disbursements = append(disbursements, d)
	}

	return disbursements, nil
}

func (r *disbursementRepository) ListOpenByCompany(ctx context.Context, companyID string) ([]disbursement.Disbursement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + disbursementColumns + `
		FROM disbursements d
		JOIN employees e ON e.id = d.employee_id
		WHERE d.company_id = $1 AND d.status IN ('pending', 'processing')
		ORDER BY d.created_at
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open disbursements: %w", err)
	}
	defer rows.Close()

	var disbursements []disbursement.Disbursement
	for rows.Next() {
		d, err := scanDisbursement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan disbursement: %w", err)
		}
		disbursements = append(disbursements, d)
	}

	return disbursements, nil
}

func (r *disbursementRepository) ExistsForPayslip(ctx context.Context, payslipID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS (SELECT 1 FROM disbursements WHERE payslip_id = $1 AND company_id = $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, payslipID, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check disbursement existence: %w", err)
	}

	return exists, nil
}

func (r *disbursementRepository) UpdateStatusIf(ctx context.Context, id string, companyID string, from []disbursement.Status, to disbursement.Status, transactionRef, failureReason *string) (disbursement.Disbursement, error) {
	q := GetQuerier(ctx, r.db)

	fromValues := make([]string, 0, len(from))
	for _, s := range from {
		fromValues = append(fromValues, string(s))
	}

	query := `
		UPDATE disbursements
		SET status = $1,
			transaction_ref = COALESCE($2, transaction_ref),
			failure_reason = COALESCE($3, failure_reason),
			updated_at = NOW()
		WHERE id = $4 AND company_id = $5 AND status = ANY($6)
	`

	tag, err := q.Exec(ctx, query, to, transactionRef, failureReason, id, companyID, fromValues)
	if err != nil {
		return disbursement.Disbursement{}, fmt.Errorf("failed to update disbursement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id, companyID); getErr != nil {
			return disbursement.Disbursement{}, getErr
		}
		return disbursement.Disbursement{}, disbursement.ErrInvalidTransition
	}

	return r.GetByID(ctx, id, companyID)
}
