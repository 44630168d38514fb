package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// LineItemInput is one raw expense entry as submitted by the client.
type LineItemInput struct {
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	IsInternational bool    `json:"is_international"`
	ExchangeRate    float64 `json:"exchange_rate"`
	ExpenseDate     string  `json:"expense_date"`
}

// ReceiptInput references a receipt already placed in the receipt store.
type ReceiptInput struct {
	URL       string `json:"url"`
	StorageID string `json:"storage_id"`
}

// CreateClaimInput is the full claim submission payload.
type CreateClaimInput struct {
	ReimbursementPeriod string          `json:"reimbursement_period"`
	Description         string          `json:"description"`
	Items               []LineItemInput `json:"items"`
	Receipts            []ReceiptInput  `json:"receipts"`
}

// ClaimService validates and assembles submitted claims into persisted
// expense records.
type ClaimService interface {
	CreateClaim(ctx context.Context, actor expense.Actor, input CreateClaimInput) (*expense.Expense, error)
}

type claimServiceImpl struct {
	expenseRepo  port.ExpenseRepository
	employeeRepo port.EmployeeRepository
	txManager    port.TransactionManager
	logger       Logger
	now          func() time.Time
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	expenseRepo port.ExpenseRepository,
	employeeRepo port.EmployeeRepository,
	txManager port.TransactionManager,
	logger Logger,
) ClaimService {
	return &claimServiceImpl{
		expenseRepo:  expenseRepo,
		employeeRepo: employeeRepo,
		txManager:    txManager,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateClaim validates the submission and persists a PENDING expense record.
//
// Malformed items (empty category, non-positive amount) are dropped rather
// than rejected; an unresolvable expense date on a surviving item fails the
// whole claim. Receipts are mandatory. The submitting actor must resolve to
// an employee record by registered email.
func (s *claimServiceImpl) CreateClaim(ctx context.Context, actor expense.Actor, input CreateClaimInput) (*expense.Expense, error) {
	if input.ReimbursementPeriod == "" {
		return nil, apperror.Validation("reimbursement period is required")
	}

	surviving := make([]LineItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Category == "" || item.Amount <= 0 {
			s.logger.Info("Dropping malformed line item",
				"category", item.Category, "amount", item.Amount)
			continue
		}
		surviving = append(surviving, item)
	}
	if len(surviving) == 0 {
		return nil, apperror.Validation("at least one valid line item is required")
	}

	items := make([]expense.LineItem, 0, len(surviving))
	for i, item := range surviving {
		expenseDate, err := parseExpenseDate(item.ExpenseDate)
		if err != nil {
			return nil, apperror.Validation("line item %d has no resolvable expense date: %v", i+1, err)
		}

		currency := item.Currency
		if currency == "" {
			currency = expense.DefaultCurrency
		}
		rate := item.ExchangeRate
		if !item.IsInternational {
			rate = 1
		}

		baseAmount, err := expense.NormalizeAmount(item.Amount, rate, item.IsInternational)
		if err != nil {
			return nil, apperror.Validation("line item %d: %v", i+1, err)
		}

		items = append(items, expense.LineItem{
			Category:        item.Category,
			ClaimedAmount:   item.Amount,
			ClaimedCurrency: currency,
			IsInternational: item.IsInternational,
			ExchangeRate:    rate,
			BaseAmount:      baseAmount,
			ExpenseDate:     expenseDate,
		})
	}

	if len(input.Receipts) == 0 {
		return nil, apperror.Validation("at least one receipt file is required")
	}
	receipts := make([]expense.Receipt, 0, len(input.Receipts))
	for _, r := range input.Receipts {
		if r.URL == "" {
			return nil, apperror.Validation("receipt reference is missing its URL")
		}
		receipts = append(receipts, expense.Receipt{URL: r.URL, StorageID: r.StorageID})
	}

	employee, err := s.employeeRepo.GetByEmail(ctx, actor.Email)
	if err != nil {
		s.logger.Error("Failed to resolve employee", "error", err, "email", actor.Email)
		return nil, apperror.Internal("failed to resolve employee", err)
	}
	if employee == nil {
		return nil, apperror.NotFound("no employee record linked to %s; ensure the employee is created with a matching email", actor.Email)
	}

	createdAt := s.now()
	record := &expense.Expense{
		EmployeeID:          employee.ID,
		Description:         input.Description,
		LineItems:           items,
		TotalAmount:         expense.ComputeTotal(items),
		ClaimDate:           expense.DeriveClaimDate(items, createdAt),
		ReimbursementPeriod: input.ReimbursementPeriod,
		Receipts:            receipts,
		Status:              expense.StatusPending,
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Create(txCtx, record); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create expense", "error", err, "employee_id", employee.ID)
		return nil, apperror.Internal("failed to create expense", err)
	}

	s.logger.Info("Expense created",
		"id", record.ID,
		"employee_id", employee.ID,
		"total_amount", record.TotalAmount,
		"items", len(items))
	return record, nil
}

// parseExpenseDate accepts the date formats the form client sends.
func parseExpenseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
