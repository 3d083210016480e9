package employee

import (
	"context"
)

type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByNumber(ctx context.Context, employeeNumber string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ListActiveByDepartment(ctx context.Context, departmentID string) ([]Employee, error)
	Update(ctx context.Context, emp Employee) error
	Deactivate(ctx context.Context, id string) error

	// LockForUpdate takes a row lock on the employee so concurrent
	// assignment activations for the same employee are serialized.
	LockForUpdate(ctx context.Context, id string) error
}

type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (Department, error)
	ListActive(ctx context.Context) ([]Department, error)
}
