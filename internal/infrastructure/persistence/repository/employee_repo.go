package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/domain/expense"
	"github.com/hrportal/expense-service/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// EmployeeRepository implements port.EmployeeRepository
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) port.EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new employee record
func (r *EmployeeRepository) Create(ctx context.Context, emp *expense.Employee) error {
	query := `
		INSERT INTO employees (name, email, department, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		emp.Name,
		emp.Email,
		emp.Department,
		emp.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create employee", zap.Error(err))
		return fmt.Errorf("failed to create employee: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	emp.ID = id
	return nil
}

// GetByID retrieves an employee by ID. Returns (nil, nil) when absent.
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*expense.Employee, error) {
	query := `
		SELECT id, name, email, department, created_at
		FROM employees
		WHERE id = ?
	`
	return r.getOne(ctx, query, id)
}

// GetByEmail resolves an employee by registered email. Returns (nil, nil)
// when no record matches.
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*expense.Employee, error) {
	query := `
		SELECT id, name, email, department, created_at
		FROM employees
		WHERE email = ?
	`
	return r.getOne(ctx, query, email)
}

func (r *EmployeeRepository) getOne(ctx context.Context, query string, arg interface{}) (*expense.Employee, error) {
	var emp expense.Employee
	var department sql.NullString

	err := r.getExecutor(ctx).QueryRowContext(ctx, query, arg).Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&department,
		&emp.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	emp.Department = department.String
	return &emp, nil
}

// getExecutor returns appropriate executor based on context
func (r *EmployeeRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.EmployeeRepository = (*EmployeeRepository)(nil)
