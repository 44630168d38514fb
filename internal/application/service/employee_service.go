package service

import (
	"context"
	"time"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
	"github.com/hrportal/expense-service/pkg/utils"
)

// CreateEmployeeInput is the onboarding payload for a directory record.
type CreateEmployeeInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// EmployeeService manages the employee directory records that claims are
// linked against.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, actor expense.Actor, input CreateEmployeeInput) (*expense.Employee, error)
}

type employeeServiceImpl struct {
	employeeRepo port.EmployeeRepository
	logger       Logger
	now          func() time.Time
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo port.EmployeeRepository, logger Logger) EmployeeService {
	return &employeeServiceImpl{
		employeeRepo: employeeRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateEmployee registers a directory record. Claims resolve their owner by
// matching the submitting actor's email against these records, so the email
// must be unique.
func (s *employeeServiceImpl) CreateEmployee(ctx context.Context, actor expense.Actor, input CreateEmployeeInput) (*expense.Employee, error) {
	if actor.Role != expense.RoleSuperAdmin {
		return nil, apperror.Authorization("only a superadmin can create employee records")
	}
	if input.Name == "" {
		return nil, apperror.Validation("employee name is required")
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return nil, apperror.Validation("invalid employee email: %v", err)
	}

	existing, err := s.employeeRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check employee email", "error", err, "email", input.Email)
		return nil, apperror.Internal("failed to check employee email", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("an employee with email %s already exists", input.Email)
	}

	employee := &expense.Employee{
		Name:       input.Name,
		Email:      input.Email,
		Department: input.Department,
		CreatedAt:  s.now(),
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		s.logger.Error("Failed to create employee", "error", err, "email", input.Email)
		return nil, apperror.Internal("failed to create employee", err)
	}

	s.logger.Info("Employee created", "id", employee.ID, "email", employee.Email)
	return employee, nil
}
