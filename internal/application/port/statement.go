package port

import (
	"context"
	"time"

	"github.com/hrportal/expense-service/internal/domain/expense"
)

// CombinedStatementData aggregates the constituent claims of one combined
// payment batch. Each claim stays individually addressable; the statement is
// the single document presenting them together.
type CombinedStatementData struct {
	BatchID     string
	Employee    *expense.Employee
	Expenses    []*expense.Expense
	TotalAmount float64
	Periods     []string
	PaidAt      time.Time
}

// StatementWriter renders a combined reimbursement statement and returns the
// path of the generated document.
type StatementWriter interface {
	WriteCombined(ctx context.Context, data *CombinedStatementData) (string, error)
}
