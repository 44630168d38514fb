package port

import (
	"context"
	"time"

	"github.com/hrportal/expense-service/internal/domain/expense"
)

// ExpenseFilter narrows List and Count queries. Zero values mean "no filter"
// for that field.
type ExpenseFilter struct {
	Status              expense.Status
	ReimbursementPeriod string
	EmployeeID          int64
}

// ExpenseRepository defines persistence operations for Expense.
//
// The Mark* methods are conditional updates: each checks the expected prior
// status and applies the transition in a single statement, returning false
// when no row matched. That check-and-set closes the race between two
// concurrent transitions on the same record.
type ExpenseRepository interface {
	// Create persists a new expense with its line items and receipts.
	Create(ctx context.Context, exp *expense.Expense) error

	// GetByID retrieves an expense with line items and receipts, or nil when
	// no such record exists.
	GetByID(ctx context.Context, id int64) (*expense.Expense, error)

	// List retrieves a page of expenses matching the filter, newest first.
	List(ctx context.Context, filter ExpenseFilter, limit, offset int) ([]*expense.Expense, error)

	// Count returns the number of expenses matching the filter.
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)

	// MarkApproved transitions PENDING -> APPROVED, recording the approver
	// and clearing any prior rejection reason.
	MarkApproved(ctx context.Context, id, approverID int64, at time.Time) (bool, error)

	// MarkRejected transitions PENDING -> REJECTED, recording the reason and
	// clearing approver fields.
	MarkRejected(ctx context.Context, id int64, reason string, at time.Time) (bool, error)

	// MarkPaid transitions APPROVED -> PAID with the given payment mode.
	// batchID groups records settled together; empty for separate payment.
	MarkPaid(ctx context.Context, id int64, mode expense.PaymentMode, batchID string, at time.Time) (bool, error)
}

// EmployeeRepository defines lookups against the employee directory.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *expense.Employee) error
	GetByID(ctx context.Context, id int64) (*expense.Employee, error)

	// GetByEmail resolves an employee by registered email, or nil when no
	// record matches.
	GetByEmail(ctx context.Context, email string) (*expense.Employee, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
