package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
	"github.com/hrportal/expense-service/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ExpenseRepository implements port.ExpenseRepository
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) port.ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists an expense together with its line items and receipts
func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	query := `
		INSERT INTO expenses (
			employee_id, description, total_amount, claim_date,
			reimbursement_period, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := r.getExecutor(ctx)

	result, err := exec.ExecContext(ctx, query,
		exp.EmployeeID,
		exp.Description,
		exp.TotalAmount,
		exp.ClaimDate,
		exp.ReimbursementPeriod,
		exp.Status,
		exp.CreatedAt,
		exp.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	exp.ID = id

	itemQuery := `
		INSERT INTO expense_items (
			expense_id, category, claimed_amount, claimed_currency,
			is_international, exchange_rate, base_amount, expense_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i := range exp.LineItems {
		item := &exp.LineItems[i]
		res, err := exec.ExecContext(ctx, itemQuery,
			id,
			item.Category,
			item.ClaimedAmount,
			item.ClaimedCurrency,
			item.IsInternational,
			item.ExchangeRate,
			item.BaseAmount,
			item.ExpenseDate,
		)
		if err != nil {
			r.logger.Error("Failed to create expense item", zap.Error(err))
			return fmt.Errorf("failed to create expense item: %w", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		item.ID = itemID
		item.ExpenseID = id
	}

	receiptQuery := `
		INSERT INTO expense_receipts (expense_id, url, storage_id)
		VALUES (?, ?, ?)
	`
	for i := range exp.Receipts {
		rec := &exp.Receipts[i]
		res, err := exec.ExecContext(ctx, receiptQuery, id, rec.URL, rec.StorageID)
		if err != nil {
			r.logger.Error("Failed to create expense receipt", zap.Error(err))
			return fmt.Errorf("failed to create expense receipt: %w", err)
		}
		recID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		rec.ID = recID
		rec.ExpenseID = id
	}

	return nil
}

// GetByID retrieves an expense with its line items and receipts.
// Returns (nil, nil) when no record exists.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	query := `
		SELECT id, employee_id, description, total_amount, claim_date,
			reimbursement_period, status, payment_mode, approved_by,
			approved_at, rejection_reason, payment_batch_id, paid_at,
			created_at, updated_at
		FROM expenses
		WHERE id = ?
	`

	exp, err := r.scanExpense(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.loadChildren(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// List retrieves a page of expenses matching the filter, newest first
func (r *ExpenseRepository) List(ctx context.Context, filter port.ExpenseFilter, limit, offset int) ([]*expense.Expense, error) {
	where, args := buildFilter(filter)

	query := fmt.Sprintf(`
		SELECT id, employee_id, description, total_amount, claim_date,
			reimbursement_period, status, payment_mode, approved_by,
			approved_at, rejection_reason, payment_batch_id, paid_at,
			created_at, updated_at
		FROM expenses
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, where)
	args = append(args, limit, offset)

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	for rows.Next() {
		exp, err := r.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, exp := range expenses {
		if err := r.loadChildren(ctx, exp); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// Count returns the number of expenses matching the filter
func (r *ExpenseRepository) Count(ctx context.Context, filter port.ExpenseFilter) (int64, error) {
	where, args := buildFilter(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM expenses %s`, where)

	var total int64
	if err := r.getExecutor(ctx).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return total, nil
}

// MarkApproved transitions PENDING -> APPROVED in a single conditional update.
// Returns false when the record was not in PENDING status.
func (r *ExpenseRepository) MarkApproved(ctx context.Context, id, approverID int64, at time.Time) (bool, error) {
	query := `
		UPDATE expenses
		SET status = ?, approved_by = ?, approved_at = ?,
			rejection_reason = NULL, updated_at = ?
		WHERE id = ? AND status = ?
	`
	return r.conditionalUpdate(ctx, query,
		expense.StatusApproved, approverID, at, at, id, expense.StatusPending)
}

// MarkRejected transitions PENDING -> REJECTED in a single conditional update
func (r *ExpenseRepository) MarkRejected(ctx context.Context, id int64, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE expenses
		SET status = ?, rejection_reason = ?, approved_by = NULL,
			approved_at = NULL, updated_at = ?
		WHERE id = ? AND status = ?
	`
	return r.conditionalUpdate(ctx, query,
		expense.StatusRejected, reason, at, id, expense.StatusPending)
}

// MarkPaid transitions APPROVED -> PAID in a single conditional update
func (r *ExpenseRepository) MarkPaid(ctx context.Context, id int64, mode expense.PaymentMode, batchID string, at time.Time) (bool, error) {
	query := `
		UPDATE expenses
		SET status = ?, payment_mode = ?, payment_batch_id = ?,
			paid_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`
	var batch sql.NullString
	if batchID != "" {
		batch = sql.NullString{String: batchID, Valid: true}
	}
	return r.conditionalUpdate(ctx, query,
		expense.StatusPaid, mode, batch, at, at, id, expense.StatusApproved)
}

func (r *ExpenseRepository) conditionalUpdate(ctx context.Context, query string, args ...interface{}) (bool, error) {
	result, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update expense status", zap.Error(err))
		return false, fmt.Errorf("failed to update expense status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *ExpenseRepository) scanExpense(row scanner) (*expense.Expense, error) {
	var exp expense.Expense
	var description sql.NullString
	var paymentMode sql.NullString
	var approvedBy sql.NullInt64
	var approvedAt sql.NullTime
	var rejectionReason sql.NullString
	var paymentBatchID sql.NullString
	var paidAt sql.NullTime

	err := row.Scan(
		&exp.ID,
		&exp.EmployeeID,
		&description,
		&exp.TotalAmount,
		&exp.ClaimDate,
		&exp.ReimbursementPeriod,
		&exp.Status,
		&paymentMode,
		&approvedBy,
		&approvedAt,
		&rejectionReason,
		&paymentBatchID,
		&paidAt,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	exp.Description = description.String
	exp.PaymentMode = expense.PaymentMode(paymentMode.String)
	exp.RejectionReason = rejectionReason.String
	exp.PaymentBatchID = paymentBatchID.String
	if approvedBy.Valid {
		exp.ApprovedBy = &approvedBy.Int64
	}
	if approvedAt.Valid {
		exp.ApprovedAt = &approvedAt.Time
	}
	if paidAt.Valid {
		exp.PaidAt = &paidAt.Time
	}
	return &exp, nil
}

func (r *ExpenseRepository) loadChildren(ctx context.Context, exp *expense.Expense) error {
	itemQuery := `
		SELECT id, expense_id, category, claimed_amount, claimed_currency,
			is_international, exchange_rate, base_amount, expense_date
		FROM expense_items
		WHERE expense_id = ?
		ORDER BY id
	`

	exec := r.getExecutor(ctx)

	rows, err := exec.QueryContext(ctx, itemQuery, exp.ID)
	if err != nil {
		return fmt.Errorf("failed to load expense items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item expense.LineItem
		if err := rows.Scan(
			&item.ID,
			&item.ExpenseID,
			&item.Category,
			&item.ClaimedAmount,
			&item.ClaimedCurrency,
			&item.IsInternational,
			&item.ExchangeRate,
			&item.BaseAmount,
			&item.ExpenseDate,
		); err != nil {
			return fmt.Errorf("failed to scan expense item: %w", err)
		}
		exp.LineItems = append(exp.LineItems, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	receiptQuery := `
		SELECT id, expense_id, url, storage_id
		FROM expense_receipts
		WHERE expense_id = ?
		ORDER BY id
	`

	recRows, err := exec.QueryContext(ctx, receiptQuery, exp.ID)
	if err != nil {
		return fmt.Errorf("failed to load expense receipts: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var rec expense.Receipt
		var storageID sql.NullString
		if err := recRows.Scan(&rec.ID, &rec.ExpenseID, &rec.URL, &storageID); err != nil {
			return fmt.Errorf("failed to scan expense receipt: %w", err)
		}
		rec.StorageID = storageID.String
		exp.Receipts = append(exp.Receipts, rec)
	}
	return recRows.Err()
}

func buildFilter(filter port.ExpenseFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.ReimbursementPeriod != "" {
		conditions = append(conditions, "reimbursement_period = ?")
		args = append(args, filter.ReimbursementPeriod)
	}
	if filter.EmployeeID > 0 {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// getExecutor returns appropriate executor based on context
func (r *ExpenseRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Verify interface compliance
var _ port.ExpenseRepository = (*ExpenseRepository)(nil)
