package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
	"github.com/hrportal/expense-service/internal/domain/workflow"
)

// CombinedPaymentResult reports one settled batch.
type CombinedPaymentResult struct {
	BatchID       string             `json:"batch_id"`
	ExpenseIDs    []int64            `json:"expense_ids"`
	TotalAmount   float64            `json:"total_amount"`
	Periods       []string           `json:"periods"`
	PaidAt        time.Time          `json:"paid_at"`
	StatementPath string             `json:"statement_path,omitempty"`
	Expenses      []*expense.Expense `json:"expenses"`
}

// PaymentService marks approved claims as paid, individually or as one
// combined batch.
type PaymentService interface {
	// PaySeparate settles a single APPROVED expense on its own.
	PaySeparate(ctx context.Context, id int64) (*expense.Expense, error)

	// PayCombined settles a set of APPROVED expenses of one employee as a
	// single batch. Either every record transitions or none do.
	PayCombined(ctx context.Context, ids []int64) (*CombinedPaymentResult, error)
}

type paymentServiceImpl struct {
	expenseRepo     port.ExpenseRepository
	employeeRepo    port.EmployeeRepository
	txManager       port.TransactionManager
	statementWriter port.StatementWriter
	logger          Logger
	now             func() time.Time
}

// NewPaymentService creates a new PaymentService. statementWriter may be nil,
// in which case combined payments skip statement generation.
func NewPaymentService(
	expenseRepo port.ExpenseRepository,
	employeeRepo port.EmployeeRepository,
	txManager port.TransactionManager,
	statementWriter port.StatementWriter,
	logger Logger,
) PaymentService {
	return &paymentServiceImpl{
		expenseRepo:     expenseRepo,
		employeeRepo:    employeeRepo,
		txManager:       txManager,
		statementWriter: statementWriter,
		logger:          logger,
		now:             time.Now,
	}
}

// PaySeparate transitions one APPROVED expense to PAID with mode SEPARATE.
// The status check and write are one conditional update, so a second call on
// the same record fails with a conflict and leaves paidAt untouched.
func (s *paymentServiceImpl) PaySeparate(ctx context.Context, id int64) (*expense.Expense, error) {
	record, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get expense", "error", err, "id", id)
		return nil, apperror.Internal("failed to get expense", err)
	}
	if record == nil {
		return nil, apperror.NotFound("expense %d not found", id)
	}

	machine := workflow.NewLifecycle(workflow.State(record.Status))
	if !machine.CanFire(workflow.TriggerPay) {
		return nil, apperror.Conflict("expense %d is not eligible for separate payment: only APPROVED expenses can be paid, current status is %s", id, record.Status)
	}

	updated, err := s.expenseRepo.MarkPaid(ctx, id, expense.PaymentModeSeparate, "", s.now())
	if err != nil {
		s.logger.Error("Failed to mark expense paid", "error", err, "id", id)
		return nil, apperror.Internal("failed to mark expense paid", err)
	}
	if !updated {
		return nil, apperror.Conflict("expense %d is not eligible for separate payment: only APPROVED expenses can be paid", id)
	}

	s.logger.Info("Expense paid separately", "id", id)
	return s.expenseRepo.GetByID(ctx, id)
}

// PayCombined settles all given expenses in one transaction. Every record
// must be APPROVED and belong to the same employee; any ineligible record
// aborts the whole batch with no state change.
func (s *paymentServiceImpl) PayCombined(ctx context.Context, ids []int64) (*CombinedPaymentResult, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return nil, apperror.Validation("at least one expense id is required")
	}

	batchID := uuid.NewString()
	paidAt := s.now()

	var (
		records  []*expense.Expense
		employee *expense.Employee
	)

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		records = records[:0]
		var employeeID int64
		var ineligible []int64

		for _, id := range ids {
			record, err := s.expenseRepo.GetByID(txCtx, id)
			if err != nil {
				return apperror.Internal("failed to get expense", err)
			}
			if record == nil {
				return apperror.NotFound("expense %d not found", id)
			}
			if !workflow.NewLifecycle(workflow.State(record.Status)).CanFire(workflow.TriggerPay) {
				ineligible = append(ineligible, id)
				continue
			}
			if employeeID == 0 {
				employeeID = record.EmployeeID
			} else if record.EmployeeID != employeeID {
				return apperror.Conflict("expense %d belongs to a different employee; a combined payment covers one employee", id)
			}
			records = append(records, record)
		}
		if len(ineligible) > 0 {
			return apperror.Conflict("expenses %v are not eligible for combined payment: only APPROVED expenses can be paid", ineligible)
		}

		for _, record := range records {
			updated, err := s.expenseRepo.MarkPaid(txCtx, record.ID, expense.PaymentModeCombined, batchID, paidAt)
			if err != nil {
				return apperror.Internal("failed to mark expense paid", err)
			}
			if !updated {
				return apperror.Conflict("expense %d changed state during the batch; no expenses were paid", record.ID)
			}
		}

		emp, err := s.employeeRepo.GetByID(txCtx, employeeID)
		if err != nil {
			return apperror.Internal("failed to resolve employee", err)
		}
		employee = emp
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CombinedPaymentResult{
		BatchID:    batchID,
		ExpenseIDs: ids,
		PaidAt:     paidAt,
	}
	periods := make(map[string]bool)
	for _, record := range records {
		record.Status = expense.StatusPaid
		record.PaymentMode = expense.PaymentModeCombined
		record.PaymentBatchID = batchID
		record.PaidAt = &paidAt
		result.TotalAmount += record.TotalAmount
		periods[record.ReimbursementPeriod] = true
	}
	for period := range periods {
		result.Periods = append(result.Periods, period)
	}
	sort.Strings(result.Periods)
	result.Expenses = records

	if s.statementWriter != nil {
		path, err := s.statementWriter.WriteCombined(ctx, &port.CombinedStatementData{
			BatchID:     batchID,
			Employee:    employee,
			Expenses:    records,
			TotalAmount: result.TotalAmount,
			Periods:     result.Periods,
			PaidAt:      paidAt,
		})
		if err != nil {
			// The batch is already committed; the statement can be
			// regenerated from the stored records.
			s.logger.Error("Failed to write combined statement", "error", err, "batch_id", batchID)
		} else {
			result.StatementPath = path
		}
	}

	s.logger.Info("Expenses paid combined",
		"batch_id", batchID,
		"count", len(records),
		"total_amount", result.TotalAmount)
	return result, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
