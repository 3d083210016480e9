package notification

import (
	"context"
	"testing"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	notification.NotificationRepository
	created []notification.Notification
}

func (f *fakeNotificationRepo) CreateIfAbsent(ctx context.Context, n notification.Notification) (bool, error) {
	for _, existing := range f.created {
		if existing.DedupeKey == n.DedupeKey {
			return false, nil
		}
	}
	f.created = append(f.created, n)
	return true, nil
}

type fakeStartingOnRepo struct {
	shift.ShiftAssignmentRepository
	starting []shift.ShiftAssignment
}

func (f *fakeStartingOnRepo) ListStartingOn(ctx context.Context, date time.Time) ([]shift.ShiftAssignment, error) {
	return f.starting, nil
}

type stubResolver struct {
	byEmployee map[string]string
}

func (r *stubResolver) Resolve(ctx context.Context, employeeID string, date time.Time) (shift.ResolvedShift, error) {
	id, ok := r.byEmployee[employeeID]
	if !ok {
		return shift.ResolvedShift{}, shift.ErrNoEffectiveShift
	}
	return shift.ResolvedShift{ShiftID: id}, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProduceShiftChangeNoticesSkipsUnchangedShift(t *testing.T) {
	date := day(2025, time.June, 3)
	repo := &fakeNotificationRepo{}
	nightName := "Night"
	svc := &NotificationServiceImpl{
		NotificationRepository: repo,
		ShiftAssignmentRepository: &fakeStartingOnRepo{starting: []shift.ShiftAssignment{
			// emp-1 already works sh-1; the new assignment changes nothing.
			{ID: "asg-1", EmployeeID: "emp-1", ShiftID: "sh-1", StartDate: date},
			{ID: "asg-2", EmployeeID: "emp-2", ShiftID: "sh-night", ShiftName: &nightName, StartDate: date},
		}},
		resolver: &stubResolver{byEmployee: map[string]string{
			"emp-1": "sh-1",
			"emp-2": "sh-1",
		}},
	}

	produced, err := svc.ProduceShiftChangeNotices(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, produced)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "emp-2", repo.created[0].EmployeeID)
	assert.Equal(t, "Shift change effective 2025-06-03", repo.created[0].Subject)
	assert.Contains(t, repo.created[0].Body, "Night")
}

func TestProduceShiftChangeNoticesFirstAssignmentNotifies(t *testing.T) {
	date := day(2025, time.June, 3)
	repo := &fakeNotificationRepo{}
	svc := &NotificationServiceImpl{
		NotificationRepository: repo,
		ShiftAssignmentRepository: &fakeStartingOnRepo{starting: []shift.ShiftAssignment{
			{ID: "asg-1", EmployeeID: "emp-new", ShiftID: "sh-1", StartDate: date},
		}},
		// No shift resolves for the day before: the employee had no
		// schedule yet, so the assignment is a change worth announcing.
		resolver: &stubResolver{byEmployee: map[string]string{}},
	}

	produced, err := svc.ProduceShiftChangeNotices(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, produced)
}

func TestProduceShiftChangeNoticesDeduplicates(t *testing.T) {
	date := day(2025, time.June, 3)
	repo := &fakeNotificationRepo{}
	svc := &NotificationServiceImpl{
		NotificationRepository: repo,
		ShiftAssignmentRepository: &fakeStartingOnRepo{starting: []shift.ShiftAssignment{
			{ID: "asg-1", EmployeeID: "emp-1", ShiftID: "sh-2", StartDate: date},
		}},
		resolver: &stubResolver{byEmployee: map[string]string{"emp-1": "sh-1"}},
	}

	produced, err := svc.ProduceShiftChangeNotices(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, produced)

	produced, err = svc.ProduceShiftChangeNotices(context.Background(), date)
	require.NoError(t, err)
	assert.Zero(t, produced)
	assert.Len(t, repo.created, 1)
}
