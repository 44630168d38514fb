package service

import (
	"context"
	"time"

	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
)

// Hand-rolled mocks with overridable behavior per test.

type mockExpenseRepo struct {
	createFunc       func(ctx context.Context, exp *expense.Expense) error
	getByIDFunc      func(ctx context.Context, id int64) (*expense.Expense, error)
	listFunc         func(ctx context.Context, filter port.ExpenseFilter, limit, offset int) ([]*expense.Expense, error)
	countFunc        func(ctx context.Context, filter port.ExpenseFilter) (int64, error)
	markApprovedFunc func(ctx context.Context, id, approverID int64, at time.Time) (bool, error)
	markRejectedFunc func(ctx context.Context, id int64, reason string, at time.Time) (bool, error)
	markPaidFunc     func(ctx context.Context, id int64, mode expense.PaymentMode, batchID string, at time.Time) (bool, error)
}

func (m *mockExpenseRepo) Create(ctx context.Context, exp *expense.Expense) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, exp)
	}
	exp.ID = 1
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &expense.Expense{ID: id, Status: expense.StatusPending}, nil
}

func (m *mockExpenseRepo) List(ctx context.Context, filter port.ExpenseFilter, limit, offset int) ([]*expense.Expense, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, limit, offset)
	}
	return []*expense.Expense{}, nil
}

func (m *mockExpenseRepo) Count(ctx context.Context, filter port.ExpenseFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockExpenseRepo) MarkApproved(ctx context.Context, id, approverID int64, at time.Time) (bool, error) {
	if m.markApprovedFunc != nil {
		return m.markApprovedFunc(ctx, id, approverID, at)
	}
	return true, nil
}

func (m *mockExpenseRepo) MarkRejected(ctx context.Context, id int64, reason string, at time.Time) (bool, error) {
	if m.markRejectedFunc != nil {
		return m.markRejectedFunc(ctx, id, reason, at)
	}
	return true, nil
}

func (m *mockExpenseRepo) MarkPaid(ctx context.Context, id int64, mode expense.PaymentMode, batchID string, at time.Time) (bool, error) {
	if m.markPaidFunc != nil {
		return m.markPaidFunc(ctx, id, mode, batchID, at)
	}
	return true, nil
}

type mockEmployeeRepo struct {
	createFunc     func(ctx context.Context, emp *expense.Employee) error
	getByIDFunc    func(ctx context.Context, id int64) (*expense.Employee, error)
	getByEmailFunc func(ctx context.Context, email string) (*expense.Employee, error)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, emp *expense.Employee) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, emp)
	}
	emp.ID = 1
	return nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*expense.Employee, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &expense.Employee{ID: id, Name: "Asha Rao", Email: "asha@example.com"}, nil
}

func (m *mockEmployeeRepo) GetByEmail(ctx context.Context, email string) (*expense.Employee, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return &expense.Employee{ID: 1, Name: "Asha Rao", Email: email}, nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockStatementWriter struct {
	writeCombinedFunc func(ctx context.Context, data *port.CombinedStatementData) (string, error)
}

func (m *mockStatementWriter) WriteCombined(ctx context.Context, data *port.CombinedStatementData) (string, error) {
	if m.writeCombinedFunc != nil {
		return m.writeCombinedFunc(ctx, data)
	}
	return "statements/combined.xlsx", nil
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
