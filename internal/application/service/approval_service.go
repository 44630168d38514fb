package service

import (
	"context"
	"time"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
	"github.com/hrportal/expense-service/internal/domain/workflow"
)

// ApprovalService governs the role-gated PENDING -> APPROVED/REJECTED
// transitions of an expense record.
type ApprovalService interface {
	UpdateStatus(ctx context.Context, actor expense.Actor, id int64, target expense.Status, rejectionReason string) (*expense.Expense, error)
}

type approvalServiceImpl struct {
	expenseRepo port.ExpenseRepository
	logger      Logger
	now         func() time.Time
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(expenseRepo port.ExpenseRepository, logger Logger) ApprovalService {
	return &approvalServiceImpl{
		expenseRepo: expenseRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// UpdateStatus applies an APPROVED or REJECTED decision to a PENDING expense.
//
// The authorization check runs before any record is read. The transition
// itself is a conditional update keyed on the PENDING status, so two racing
// decisions cannot both land.
func (s *approvalServiceImpl) UpdateStatus(ctx context.Context, actor expense.Actor, id int64, target expense.Status, rejectionReason string) (*expense.Expense, error) {
	if !actor.Role.CanApprove() {
		return nil, apperror.Authorization("only an accountant or superadmin can update expense status")
	}

	var trigger workflow.Trigger
	switch target {
	case expense.StatusApproved:
		trigger = workflow.TriggerApprove
	case expense.StatusRejected:
		trigger = workflow.TriggerReject
	default:
		return nil, apperror.Validation("invalid status %q: only APPROVED or REJECTED are allowed", target)
	}

	record, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get expense", "error", err, "id", id)
		return nil, apperror.Internal("failed to get expense", err)
	}
	if record == nil {
		return nil, apperror.NotFound("expense %d not found", id)
	}

	machine := workflow.NewLifecycle(workflow.State(record.Status))
	if !machine.CanFire(trigger) {
		return nil, apperror.Conflict("expense %d is not eligible for %s: only PENDING expenses can be decided, current status is %s", id, target, record.Status)
	}

	at := s.now()
	var updated bool
	switch trigger {
	case workflow.TriggerApprove:
		updated, err = s.expenseRepo.MarkApproved(ctx, id, actor.ID, at)
	case workflow.TriggerReject:
		reason := rejectionReason
		if reason == "" {
			reason = expense.DefaultRejectionReason
		}
		updated, err = s.expenseRepo.MarkRejected(ctx, id, reason, at)
	}
	if err != nil {
		s.logger.Error("Failed to update expense status", "error", err, "id", id, "status", target)
		return nil, apperror.Internal("failed to update expense status", err)
	}
	if !updated {
		// Lost a race: another decision landed between read and write.
		return nil, apperror.Conflict("expense %d is not eligible for %s: it is no longer PENDING", id, target)
	}

	s.logger.Info("Expense status updated", "id", id, "status", target, "decided_by", actor.ID)
	return s.expenseRepo.GetByID(ctx, id)
}
