package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmployeeInactive       = errors.New("employee is not active")
	ErrEmployeeNumberExists   = errors.New("employee number already exists")
	ErrEmployeeNumberReadOnly = errors.New("employee number cannot be changed")
	ErrDepartmentNotFound     = errors.New("department not found")
)
