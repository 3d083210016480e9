package shift

import (
	"context"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
)

type fakeShiftRepo struct {
	shifts     map[string]shift.Shift
	defaultOne *shift.Shift
}

func (f *fakeShiftRepo) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) GetDefault(ctx context.Context) (shift.Shift, error) {
	if f.defaultOne == nil {
		return shift.Shift{}, shift.ErrNoDefaultShift
	}
	return *f.defaultOne, nil
}

func (f *fakeShiftRepo) ListActive(ctx context.Context) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range f.shifts {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeShiftRepo) Update(ctx context.Context, s shift.Shift) error {
	f.shifts[s.ID] = s
	return nil
}

type fakeAssignmentRepo struct {
	covering    []shift.ShiftAssignment
	coveryCalls int
	created     []shift.ShiftAssignment
	updated     []shift.ShiftAssignment
	deactivated []string
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, a shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	a.ID = "created-" + a.ShiftID
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (shift.ShiftAssignment, error) {
	for _, a := range f.covering {
		if a.ID == id {
			return a, nil
		}
	}
	return shift.ShiftAssignment{}, shift.ErrAssignmentNotFound
}

func (f *fakeAssignmentRepo) ListActiveCovering(ctx context.Context, employeeID string, date time.Time) ([]shift.ShiftAssignment, error) {
	f.coveryCalls++
	return f.covering, nil
}

func (f *fakeAssignmentRepo) ListActiveOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]shift.ShiftAssignment, error) {
	return f.covering, nil
}

func (f *fakeAssignmentRepo) ListActiveByShift(ctx context.Context, shiftID string) ([]shift.ShiftAssignment, error) {
	return nil, nil
}

func (f *fakeAssignmentRepo) ListExpired(ctx context.Context, before time.Time) ([]shift.ShiftAssignment, error) {
	return nil, nil
}

func (f *fakeAssignmentRepo) ListStartingOn(ctx context.Context, date time.Time) ([]shift.ShiftAssignment, error) {
	return nil, nil
}

func (f *fakeAssignmentRepo) ListEmployeesWithoutAssignment(ctx context.Context, date time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, a shift.ShiftAssignment) error {
	f.updated = append(f.updated, a)
	return nil
}

func (f *fakeAssignmentRepo) Deactivate(ctx context.Context, id string) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeDateSpecificRepo struct {
	rows map[string]*shift.DateSpecificShift // shiftID + date
}

func dsKey(shiftID string, date time.Time) string {
	return shiftID + "|" + date.Format("2006-01-02")
}

func (f *fakeDateSpecificRepo) Create(ctx context.Context, d shift.DateSpecificShift) (shift.DateSpecificShift, error) {
	if f.rows == nil {
		f.rows = map[string]*shift.DateSpecificShift{}
	}
	f.rows[dsKey(d.ShiftID, d.Date)] = &d
	return d, nil
}

func (f *fakeDateSpecificRepo) GetForShiftDate(ctx context.Context, shiftID string, date time.Time) (*shift.DateSpecificShift, error) {
	return f.rows[dsKey(shiftID, date)], nil
}

func (f *fakeDateSpecificRepo) Deactivate(ctx context.Context, id string) error { return nil }

type fakeOverrideRepo struct {
	rows map[string]*shift.DateSpecificShiftOverride // date + type
}

func ovKey(date time.Time, t shift.ShiftType) string {
	return date.Format("2006-01-02") + "|" + string(t)
}

func (f *fakeOverrideRepo) Create(ctx context.Context, o shift.DateSpecificShiftOverride) (shift.DateSpecificShiftOverride, error) {
	if f.rows == nil {
		f.rows = map[string]*shift.DateSpecificShiftOverride{}
	}
	f.rows[ovKey(o.Date, o.ShiftType)] = &o
	return o, nil
}

func (f *fakeOverrideRepo) GetForDateType(ctx context.Context, date time.Time, t shift.ShiftType) (*shift.DateSpecificShiftOverride, error) {
	return f.rows[ovKey(date, t)], nil
}

func (f *fakeOverrideRepo) Deactivate(ctx context.Context, id string) error { return nil }

type fakeRamadanRepo struct {
	period *calendar.RamadanPeriod
	calls  int
}

func (f *fakeRamadanRepo) Create(ctx context.Context, p calendar.RamadanPeriod) (calendar.RamadanPeriod, error) {
	return p, nil
}

func (f *fakeRamadanRepo) GetByID(ctx context.Context, id string) (calendar.RamadanPeriod, error) {
	return calendar.RamadanPeriod{}, calendar.ErrRamadanPeriodNotFound
}

func (f *fakeRamadanRepo) GetActiveCovering(ctx context.Context, date time.Time) (*calendar.RamadanPeriod, error) {
	f.calls++
	if f.period != nil && f.period.Covers(date) {
		return f.period, nil
	}
	return nil, nil
}

func (f *fakeRamadanRepo) GetActiveForYear(ctx context.Context, year int) (*calendar.RamadanPeriod, error) {
	if f.period != nil && f.period.Year == year {
		return f.period, nil
	}
	return nil, nil
}

func (f *fakeRamadanRepo) ListOverlapping(ctx context.Context, start, end time.Time) ([]calendar.RamadanPeriod, error) {
	return nil, nil
}

func (f *fakeRamadanRepo) Update(ctx context.Context, p calendar.RamadanPeriod) error { return nil }
func (f *fakeRamadanRepo) Deactivate(ctx context.Context, id string) error            { return nil }

type fakeEmployeeRepo struct {
	byID map[string]employee.Employee
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	f.byID[emp.ID] = emp
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByNumber(ctx context.Context, number string) (employee.Employee, error) {
	for _, emp := range f.byID {
		if emp.EmployeeNumber == number {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.byID {
		if emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListActiveByDepartment(ctx context.Context, departmentID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, emp employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) Deactivate(ctx context.Context, id string) error         { return nil }
func (f *fakeEmployeeRepo) LockForUpdate(ctx context.Context, id string) error      { return nil }
