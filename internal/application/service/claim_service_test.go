package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/domain/expense"
)

func newClaimService(expenseRepo *mockExpenseRepo, employeeRepo *mockEmployeeRepo) ClaimService {
	return NewClaimService(expenseRepo, employeeRepo, &mockTxManager{}, &mockLogger{})
}

func validClaimInput() CreateClaimInput {
	return CreateClaimInput{
		ReimbursementPeriod: "2025-02",
		Items: []LineItemInput{
			{Category: "Travel", Amount: 100, Currency: "USD", IsInternational: true, ExchangeRate: 83, ExpenseDate: "2025-02-10"},
			{Category: "Food", Amount: 500, Currency: "INR", ExpenseDate: "2025-02-11"},
		},
		Receipts: []ReceiptInput{{URL: "https://files.example.com/r/abc", StorageID: "abc"}},
	}
}

func employeeActor() expense.Actor {
	return expense.Actor{ID: 42, Email: "asha@example.com", Role: expense.RoleEmployee}
}

func TestClaimService_CreateClaim(t *testing.T) {
	svc := newClaimService(&mockExpenseRepo{}, &mockEmployeeRepo{})

	record, err := svc.CreateClaim(context.Background(), employeeActor(), validClaimInput())
	require.NoError(t, err)

	assert.Equal(t, expense.StatusPending, record.Status)
	assert.Equal(t, int64(1), record.EmployeeID)
	assert.Len(t, record.LineItems, 2)
	assert.Equal(t, float64(8300), record.LineItems[0].BaseAmount)
	assert.Equal(t, float64(500), record.LineItems[1].BaseAmount)
	assert.Equal(t, float64(8800), record.TotalAmount)
	assert.Equal(t, "2025-02-10", record.ClaimDate.Format("2006-01-02"))
	assert.Equal(t, float64(1), record.LineItems[1].ExchangeRate)
}

func TestClaimService_CreateClaim_DropsMalformedItems(t *testing.T) {
	svc := newClaimService(&mockExpenseRepo{}, &mockEmployeeRepo{})

	input := validClaimInput()
	input.Items = append(input.Items,
		LineItemInput{Category: "", Amount: 50, ExpenseDate: "2025-02-12"},
		LineItemInput{Category: "Misc", Amount: 0, ExpenseDate: "2025-02-12"},
		LineItemInput{Category: "Misc", Amount: -10, ExpenseDate: "2025-02-12"},
	)

	record, err := svc.CreateClaim(context.Background(), employeeActor(), input)
	require.NoError(t, err)
	assert.Len(t, record.LineItems, 2, "malformed items are dropped, not fatal")
	assert.Equal(t, float64(8800), record.TotalAmount)
}

func TestClaimService_CreateClaim_AllItemsMalformed(t *testing.T) {
	svc := newClaimService(&mockExpenseRepo{}, &mockEmployeeRepo{})

	input := validClaimInput()
	input.Items = []LineItemInput{{Category: "", Amount: 100}, {Category: "Misc", Amount: 0}}

	_, err := svc.CreateClaim(context.Background(), employeeActor(), input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestClaimService_CreateClaim_MissingDateIsFatal(t *testing.T) {
	svc := newClaimService(&mockExpenseRepo{}, &mockEmployeeRepo{})

	// One well-formed item without a date fails the whole claim, unlike the
	// drop rule for malformed shape.
	input := validClaimInput()
	input.Items[1].ExpenseDate = ""

	_, err := svc.CreateClaim(context.Background(), employeeActor(), input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "expense date")
}

func TestClaimService_CreateClaim_BadExchangeRate(t *testing.T) {
	svc := newClaimService(&mockExpenseRepo{}, &mockEmployeeRepo{})

	input := validClaimInput()
	input.Items[0].ExchangeRate = 0

	_, err := svc.CreateClaim(context.Background(), employeeActor(), input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "exchange rate")
}

func TestClaimService_CreateClaim_NoReceipts(t *testing.T) {
	svc := newClaimService(&mockExpenseRepo{}, &mockEmployeeRepo{})

	input := validClaimInput()
	input.Receipts = nil

	_, err := svc.CreateClaim(context.Background(), employeeActor(), input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "receipt")
}

func TestClaimService_CreateClaim_NoLinkedEmployee(t *testing.T) {
	employeeRepo := &mockEmployeeRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*expense.Employee, error) {
			return nil, nil
		},
	}
	svc := newClaimService(&mockExpenseRepo{}, employeeRepo)

	_, err := svc.CreateClaim(context.Background(), employeeActor(), validClaimInput())
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "asha@example.com", "error names the actor identity")
}

func TestClaimService_CreateClaim_MissingPeriod(t *testing.T) {
	svc := newClaimService(&mockExpenseRepo{}, &mockEmployeeRepo{})

	input := validClaimInput()
	input.ReimbursementPeriod = ""

	_, err := svc.CreateClaim(context.Background(), employeeActor(), input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
