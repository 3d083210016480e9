package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	e.id, e.employee_number, e.full_name, e.gender, e.religion,
	e.department_id, e.joined_date, e.is_active, e.is_placeholder,
	e.created_at, e.updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeNumber, &emp.FullName, &emp.Gender, &emp.Religion,
		&emp.DepartmentID, &emp.JoinedDate, &emp.IsActive, &emp.IsPlaceholder,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			employee_number, full_name, gender, religion,
			department_id, joined_date, is_active, is_placeholder
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.EmployeeNumber, emp.FullName, emp.Gender, emp.Religion,
		emp.DepartmentID, emp.JoinedDate, emp.IsActive, emp.IsPlaceholder,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return employee.Employee{}, employee.ErrEmployeeNumberExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + ` FROM employees e WHERE e.id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return emp, nil
}

// GetByNumber implements employee.EmployeeRepository.
func (r *employeeRepository) GetByNumber(ctx context.Context, employeeNumber string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + ` FROM employees e WHERE e.employee_number = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, employeeNumber))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by number: %w", err)
	}

	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + ` FROM employees e WHERE e.is_active ORDER BY e.employee_number`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var result []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}

// ListActiveByDepartment implements employee.EmployeeRepository.
func (r *employeeRepository) ListActiveByDepartment(ctx context.Context, departmentID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + `
		FROM employees e
		WHERE e.is_active AND e.department_id = $1
		ORDER BY e.employee_number`

	rows, err := q.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by department: %w", err)
	}
	defer rows.Close()

	var result []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}

// Update implements employee.EmployeeRepository. The employee number is
// immutable once set and intentionally absent from the SET list.
func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $2, gender = $3, religion = $4, department_id = $5,
			joined_date = $6, is_active = $7, is_placeholder = $8, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		emp.ID, emp.FullName, emp.Gender, emp.Religion, emp.DepartmentID,
		emp.JoinedDate, emp.IsActive, emp.IsPlaceholder,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *employeeRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// LockForUpdate implements employee.EmployeeRepository.
func (r *employeeRepository) LockForUpdate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var locked string
	err := q.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to lock employee row: %w", err)
	}
	return nil
}

type departmentRepository struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) employee.DepartmentRepository {
	return &departmentRepository{db: db}
}

// GetByID implements employee.DepartmentRepository.
func (r *departmentRepository) GetByID(ctx context.Context, id string) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	var dep employee.Department
	err := q.QueryRow(ctx, `
		SELECT id, name, is_active, created_at, updated_at
		FROM departments WHERE id = $1
	`, id).Scan(&dep.ID, &dep.Name, &dep.IsActive, &dep.CreatedAt, &dep.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Department{}, employee.ErrDepartmentNotFound
		}
		return employee.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return dep, nil
}

// ListActive implements employee.DepartmentRepository.
func (r *departmentRepository) ListActive(ctx context.Context) ([]employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, name, is_active, created_at, updated_at
		FROM departments WHERE is_active ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var result []employee.Department
	for rows.Next() {
		var dep employee.Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.IsActive, &dep.CreatedAt, &dep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		result = append(result, dep)
	}
	return result, rows.Err()
}
