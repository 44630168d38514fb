package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
)

func TestQueryService_VisibilityClampForEmployees(t *testing.T) {
	var gotFilter port.ExpenseFilter
	expenseRepo := &mockExpenseRepo{
		listFunc: func(ctx context.Context, filter port.ExpenseFilter, limit, offset int) ([]*expense.Expense, error) {
			gotFilter = filter
			return []*expense.Expense{}, nil
		},
	}
	employeeRepo := &mockEmployeeRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*expense.Employee, error) {
			return &expense.Employee{ID: 7, Email: email}, nil
		},
	}
	svc := NewQueryService(expenseRepo, employeeRepo, &mockLogger{})

	actor := expense.Actor{ID: 1, Email: "asha@example.com", Role: expense.RoleEmployee}
	// The employee tries to read someone else's records; the clamp wins.
	_, err := svc.ListExpenses(context.Background(), actor, QueryParams{EmployeeID: 999, EmployeeEmail: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), gotFilter.EmployeeID)
}

func TestQueryService_PrivilegedRoleSeesAll(t *testing.T) {
	var gotFilter port.ExpenseFilter
	expenseRepo := &mockExpenseRepo{
		listFunc: func(ctx context.Context, filter port.ExpenseFilter, limit, offset int) ([]*expense.Expense, error) {
			gotFilter = filter
			return []*expense.Expense{}, nil
		},
	}
	svc := NewQueryService(expenseRepo, &mockEmployeeRepo{}, &mockLogger{})

	actor := expense.Actor{ID: 9, Email: "finance@example.com", Role: expense.RoleAccountant}
	_, err := svc.ListExpenses(context.Background(), actor, QueryParams{Status: "PENDING", ReimbursementPeriod: "2025-02"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), gotFilter.EmployeeID, "no clamp for privileged roles")
	assert.Equal(t, expense.StatusPending, gotFilter.Status)
	assert.Equal(t, "2025-02", gotFilter.ReimbursementPeriod)
}

func TestQueryService_UnknownEmailYieldsEmptyPage(t *testing.T) {
	employeeRepo := &mockEmployeeRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*expense.Employee, error) {
			return nil, nil
		},
	}
	svc := NewQueryService(&mockExpenseRepo{}, employeeRepo, &mockLogger{})

	actor := expense.Actor{ID: 9, Email: "finance@example.com", Role: expense.RoleSuperAdmin}
	page, err := svc.ListExpenses(context.Background(), actor, QueryParams{EmployeeEmail: "nobody@example.com"})
	require.NoError(t, err)
	assert.Empty(t, page.Expenses)
	assert.Equal(t, int64(0), page.Meta.Total)
	assert.Equal(t, int64(0), page.Meta.TotalPages)
}

func TestQueryService_PaginationMeta(t *testing.T) {
	var gotLimit, gotOffset int
	expenseRepo := &mockExpenseRepo{
		listFunc: func(ctx context.Context, filter port.ExpenseFilter, limit, offset int) ([]*expense.Expense, error) {
			gotLimit, gotOffset = limit, offset
			return []*expense.Expense{{ID: 21}}, nil
		},
		countFunc: func(ctx context.Context, filter port.ExpenseFilter) (int64, error) {
			return 21, nil
		},
	}
	svc := NewQueryService(expenseRepo, &mockEmployeeRepo{}, &mockLogger{})

	actor := expense.Actor{ID: 9, Email: "finance@example.com", Role: expense.RoleAccountant}
	page, err := svc.ListExpenses(context.Background(), actor, QueryParams{Page: 3, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 3, page.Meta.Page)
	assert.Equal(t, int64(21), page.Meta.Total)
	assert.Equal(t, int64(3), page.Meta.TotalPages)
}

func TestQueryService_PaginationBounds(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults", 0, 0, 1, 10},
		{"negative page", -2, 5, 1, 5},
		{"limit over max", 1, 5000, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit int
			expenseRepo := &mockExpenseRepo{
				listFunc: func(ctx context.Context, filter port.ExpenseFilter, limit, offset int) ([]*expense.Expense, error) {
					gotLimit = limit
					return []*expense.Expense{}, nil
				},
			}
			svc := NewQueryService(expenseRepo, &mockEmployeeRepo{}, &mockLogger{})

			actor := expense.Actor{ID: 9, Email: "finance@example.com", Role: expense.RoleAccountant}
			page, err := svc.ListExpenses(context.Background(), actor, QueryParams{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Meta.Page)
			assert.Equal(t, tt.wantLimit, gotLimit)
		})
	}
}

func TestQueryService_InvalidStatusFilter(t *testing.T) {
	svc := NewQueryService(&mockExpenseRepo{}, &mockEmployeeRepo{}, &mockLogger{})

	actor := expense.Actor{ID: 9, Email: "finance@example.com", Role: expense.RoleAccountant}
	_, err := svc.ListExpenses(context.Background(), actor, QueryParams{Status: "IN_REVIEW"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestQueryService_GetExpense_OwnershipCheck(t *testing.T) {
	expenseRepo := &mockExpenseRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*expense.Expense, error) {
			return &expense.Expense{ID: id, EmployeeID: 55, Status: expense.StatusPending}, nil
		},
	}
	employeeRepo := &mockEmployeeRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*expense.Employee, error) {
			return &expense.Employee{ID: 7, Email: email}, nil
		},
	}
	svc := NewQueryService(expenseRepo, employeeRepo, &mockLogger{})

	actor := expense.Actor{ID: 1, Email: "asha@example.com", Role: expense.RoleEmployee}
	_, err := svc.GetExpense(context.Background(), actor, 3)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err), "foreign records read as absent")

	finance := expense.Actor{ID: 9, Email: "finance@example.com", Role: expense.RoleAccountant}
	record, err := svc.GetExpense(context.Background(), finance, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(55), record.EmployeeID)
}
