package shift

import (
	"context"
	"testing"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShiftValidation(t *testing.T) {
	svc := &ShiftServiceImpl{ShiftRepository: &fakeShiftRepo{shifts: map[string]shift.Shift{}}}

	_, err := svc.CreateShift(context.Background(), shift.Shift{
		StartTime: clock(9, 0), EndTime: clock(9, 0),
	})
	assert.ErrorIs(t, err, shift.ErrInvalidWindow)

	_, err = svc.CreateShift(context.Background(), shift.Shift{
		StartTime: clock(9, 0), EndTime: clock(17, 0), BreakMinutes: 200,
	})
	assert.ErrorIs(t, err, shift.ErrBreakOutOfRange)

	_, err = svc.CreateShift(context.Background(), shift.Shift{
		StartTime: clock(9, 0), EndTime: clock(17, 0), GraceMinutes: 90,
	})
	assert.ErrorIs(t, err, shift.ErrGraceOutOfRange)
}

func TestCreateShiftDefaultsPriorityFromType(t *testing.T) {
	svc := &ShiftServiceImpl{ShiftRepository: &fakeShiftRepo{shifts: map[string]shift.Shift{}}}

	created, err := svc.CreateShift(context.Background(), shift.Shift{
		ID: "sh-n", Type: shift.TypeNight, StartTime: clock(22, 0), EndTime: clock(6, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, created.Priority)
	assert.True(t, created.IsActive)

	created, err = svc.CreateShift(context.Background(), shift.Shift{
		ID: "sh-r", Type: shift.TypeRegular, StartTime: clock(9, 0), EndTime: clock(17, 0), Priority: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, created.Priority)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func TestDisplaceSingleDayDeactivates(t *testing.T) {
	assignments := &fakeAssignmentRepo{}
	svc := &ShiftServiceImpl{ShiftAssignmentRepository: assignments}

	existing := shift.ShiftAssignment{
		ID: "asg-1", EmployeeID: "emp-1", ShiftID: "sh-1",
		StartDate: day(2025, 6, 10), EndDate: datePtr(2025, 6, 10),
	}
	require.NoError(t, svc.displace(context.Background(), existing, day(2025, 6, 10), nil))
	assert.Equal(t, []string{"asg-1"}, assignments.deactivated)
	assert.Empty(t, assignments.updated)
	assert.Empty(t, assignments.created)
}

func TestDisplaceTrimsHead(t *testing.T) {
	assignments := &fakeAssignmentRepo{}
	svc := &ShiftServiceImpl{ShiftAssignmentRepository: assignments}

	existing := shift.ShiftAssignment{
		ID: "asg-1", EmployeeID: "emp-1", ShiftID: "sh-1",
		StartDate: day(2025, 6, 1), EndDate: datePtr(2025, 6, 30),
	}
	// New assignment covers 2025-06-10 onward with no end.
	require.NoError(t, svc.displace(context.Background(), existing, day(2025, 6, 10), nil))

	require.Len(t, assignments.updated, 1)
	head := assignments.updated[0]
	require.NotNil(t, head.EndDate)
	assert.Equal(t, day(2025, 6, 9), *head.EndDate)
	assert.Empty(t, assignments.deactivated)
	assert.Empty(t, assignments.created, "open-ended range leaves no tail")
}

func TestDisplaceSplitsAroundBoundedRange(t *testing.T) {
	assignments := &fakeAssignmentRepo{}
	svc := &ShiftServiceImpl{ShiftAssignmentRepository: assignments}

	createdBy := "admin-1"
	existing := shift.ShiftAssignment{
		ID: "asg-1", EmployeeID: "emp-1", ShiftID: "sh-1",
		StartDate: day(2025, 6, 1), EndDate: datePtr(2025, 6, 30),
		CreatedBy: &createdBy,
	}
	require.NoError(t, svc.displace(context.Background(), existing, day(2025, 6, 10), datePtr(2025, 6, 15)))

	require.Len(t, assignments.updated, 1)
	assert.Equal(t, day(2025, 6, 9), *assignments.updated[0].EndDate)

	require.Len(t, assignments.created, 1)
	tail := assignments.created[0]
	assert.Equal(t, day(2025, 6, 16), tail.StartDate)
	assert.Equal(t, day(2025, 6, 30), *tail.EndDate)
	assert.Equal(t, "sh-1", tail.ShiftID)
	require.NotNil(t, tail.CreatedBy)
	assert.Equal(t, "admin-1", *tail.CreatedBy)
	assert.True(t, tail.IsActive)
}

func TestDisplaceOpenEndedResumesAfterBoundedRange(t *testing.T) {
	assignments := &fakeAssignmentRepo{}
	svc := &ShiftServiceImpl{ShiftAssignmentRepository: assignments}

	// Permanent assignment displaced by a one-day override must resume
	// open-ended the next day, not fall back to the default shift.
	existing := shift.ShiftAssignment{
		ID: "asg-1", EmployeeID: "emp-1", ShiftID: "sh-1",
		StartDate: day(2025, 6, 1),
	}
	require.NoError(t, svc.displace(context.Background(), existing, day(2025, 6, 10), datePtr(2025, 6, 10)))

	require.Len(t, assignments.updated, 1)
	assert.Equal(t, day(2025, 6, 9), *assignments.updated[0].EndDate)

	require.Len(t, assignments.created, 1)
	tail := assignments.created[0]
	assert.Equal(t, day(2025, 6, 11), tail.StartDate)
	assert.Nil(t, tail.EndDate)
	assert.Equal(t, "sh-1", tail.ShiftID)
	assert.True(t, tail.IsActive)
}

func TestDisplaceFullyCoveredDeactivates(t *testing.T) {
	assignments := &fakeAssignmentRepo{}
	svc := &ShiftServiceImpl{ShiftAssignmentRepository: assignments}

	existing := shift.ShiftAssignment{
		ID: "asg-1", EmployeeID: "emp-1", ShiftID: "sh-1",
		StartDate: day(2025, 6, 10), EndDate: datePtr(2025, 6, 15),
	}
	// New range starts on or before the existing start and runs past its end.
	require.NoError(t, svc.displace(context.Background(), existing, day(2025, 6, 10), datePtr(2025, 6, 20)))

	assert.Equal(t, []string{"asg-1"}, assignments.deactivated)
	assert.Empty(t, assignments.created)
}
