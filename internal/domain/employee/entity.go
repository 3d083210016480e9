package employee

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// ReligionMuslim drives the Ramadan break exemption in work-minute
// calculation.
const ReligionMuslim = "Muslim"

type Employee struct {
	ID             string
	EmployeeNumber string
	FullName       string
	Gender         Gender
	Religion       string
	DepartmentID   *string
	JoinedDate     *time.Time
	IsActive       bool
	IsPlaceholder  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	DepartmentName *string
}

type Department struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsMuslim reports whether the Ramadan working-hour rules apply.
func (e Employee) IsMuslim() bool {
	return e.Religion == ReligionMuslim
}
