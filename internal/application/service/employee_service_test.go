package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/domain/expense"
)

func superAdminActor() expense.Actor {
	return expense.Actor{ID: 1, Email: "admin@example.com", Role: expense.RoleSuperAdmin}
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	employeeRepo := &mockEmployeeRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*expense.Employee, error) {
			return nil, nil
		},
	}
	svc := NewEmployeeService(employeeRepo, &mockLogger{})

	emp, err := svc.CreateEmployee(context.Background(), superAdminActor(), CreateEmployeeInput{
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Department: "Engineering",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), emp.ID)
	assert.Equal(t, "asha@example.com", emp.Email)
}

func TestEmployeeService_CreateEmployee_Unauthorized(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, &mockLogger{})

	for _, role := range []expense.Role{expense.RoleEmployee, expense.RoleAccountant} {
		actor := expense.Actor{ID: 2, Email: "x@example.com", Role: role}
		_, err := svc.CreateEmployee(context.Background(), actor, CreateEmployeeInput{Name: "X", Email: "x@example.com"})
		require.Error(t, err, "role %s", role)
		assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))
	}
}

func TestEmployeeService_CreateEmployee_InvalidEmail(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, &mockLogger{})

	_, err := svc.CreateEmployee(context.Background(), superAdminActor(), CreateEmployeeInput{Name: "X", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestEmployeeService_CreateEmployee_DuplicateEmail(t *testing.T) {
	employeeRepo := &mockEmployeeRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*expense.Employee, error) {
			return &expense.Employee{ID: 5, Email: email}, nil
		},
	}
	svc := NewEmployeeService(employeeRepo, &mockLogger{})

	_, err := svc.CreateEmployee(context.Background(), superAdminActor(), CreateEmployeeInput{Name: "X", Email: "asha@example.com"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}
