package employee

import "context"

// EmployeeRepository defines the read-only access payroll needs.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByIDs batch-fetches employees; missing ids are simply absent from
	// the result, callers decide whether that is an error.
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)

	GetActive(ctx context.Context) ([]Employee, error)
	GetActiveByDepartmentIDs(ctx context.Context, departmentIDs []string) ([]Employee, error)
}
