package service

import (
	"context"
	"math"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// QueryParams are the caller-supplied filters and pagination controls.
type QueryParams struct {
	Status              string
	ReimbursementPeriod string
	EmployeeID          int64
	EmployeeEmail       string
	Page                int
	Limit               int
}

// PageMeta describes one page of results.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// ExpensePage is a page of expense records plus its pagination metadata.
type ExpensePage struct {
	Expenses []*expense.Expense `json:"expenses"`
	Meta     PageMeta           `json:"meta"`
}

// QueryService returns filtered, paginated expense records with role-based
// visibility applied at this layer, not the transport.
type QueryService interface {
	ListExpenses(ctx context.Context, actor expense.Actor, params QueryParams) (*ExpensePage, error)
	GetExpense(ctx context.Context, actor expense.Actor, id int64) (*expense.Expense, error)
}

type queryServiceImpl struct {
	expenseRepo  port.ExpenseRepository
	employeeRepo port.EmployeeRepository
	logger       Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(expenseRepo port.ExpenseRepository, employeeRepo port.EmployeeRepository, logger Logger) QueryService {
	return &queryServiceImpl{
		expenseRepo:  expenseRepo,
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

// ListExpenses returns a page of expenses matching the filters. An actor
// without a privileged role is always constrained to their own employee
// record, regardless of the filter values they pass.
func (s *queryServiceImpl) ListExpenses(ctx context.Context, actor expense.Actor, params QueryParams) (*ExpensePage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := port.ExpenseFilter{
		ReimbursementPeriod: params.ReimbursementPeriod,
		EmployeeID:          params.EmployeeID,
	}
	if params.Status != "" {
		status := expense.Status(params.Status)
		if !status.IsValid() {
			return nil, apperror.Validation("invalid status filter %q", params.Status)
		}
		filter.Status = status
	}

	if !actor.Role.CanViewAll() {
		// Visibility clamp: non-privileged actors only see their own claims.
		employee, err := s.employeeRepo.GetByEmail(ctx, actor.Email)
		if err != nil {
			s.logger.Error("Failed to resolve employee for visibility", "error", err, "email", actor.Email)
			return nil, apperror.Internal("failed to resolve employee", err)
		}
		if employee == nil {
			return emptyPage(page, limit), nil
		}
		filter.EmployeeID = employee.ID
	} else if filter.EmployeeID == 0 && params.EmployeeEmail != "" {
		employee, err := s.employeeRepo.GetByEmail(ctx, params.EmployeeEmail)
		if err != nil {
			s.logger.Error("Failed to resolve employee filter", "error", err, "email", params.EmployeeEmail)
			return nil, apperror.Internal("failed to resolve employee", err)
		}
		if employee == nil {
			// Unknown email filters to an empty page, not an error.
			return emptyPage(page, limit), nil
		}
		filter.EmployeeID = employee.ID
	}

	offset := (page - 1) * limit
	expenses, err := s.expenseRepo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list expenses", "error", err)
		return nil, apperror.Internal("failed to list expenses", err)
	}
	total, err := s.expenseRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count expenses", "error", err)
		return nil, apperror.Internal("failed to count expenses", err)
	}

	return &ExpensePage{
		Expenses: expenses,
		Meta: PageMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int64(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// GetExpense returns one expense, subject to the same visibility rule as
// ListExpenses.
func (s *queryServiceImpl) GetExpense(ctx context.Context, actor expense.Actor, id int64) (*expense.Expense, error) {
	record, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get expense", "error", err, "id", id)
		return nil, apperror.Internal("failed to get expense", err)
	}
	if record == nil {
		return nil, apperror.NotFound("expense %d not found", id)
	}

	if !actor.Role.CanViewAll() {
		employee, err := s.employeeRepo.GetByEmail(ctx, actor.Email)
		if err != nil {
			return nil, apperror.Internal("failed to resolve employee", err)
		}
		if employee == nil || employee.ID != record.EmployeeID {
			// Report not-found rather than confirming the record exists.
			return nil, apperror.NotFound("expense %d not found", id)
		}
	}

	return record, nil
}

func emptyPage(page, limit int) *ExpensePage {
	return &ExpensePage{
		Expenses: []*expense.Expense{},
		Meta:     PageMeta{Page: page, Limit: limit},
	}
}
