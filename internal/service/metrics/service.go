package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
)

// MetricsServiceImpl aggregates department-day attendance counts and
// keeps the cached copies warm.
type MetricsServiceImpl struct {
	attendance.LogRepository
	store cache.Store
	ttl   time.Duration
}

func NewMetricsService(logRepo attendance.LogRepository, store cache.Store, cfg *config.Config) *MetricsServiceImpl {
	return &MetricsServiceImpl{
		LogRepository: logRepo,
		store:         store,
		ttl:           cfg.Cache.AttendanceMetricTTL,
	}
}

// Compute aggregates the date's active logs per department and caches
// each department's row plus a company-wide key.
func (s *MetricsServiceImpl) Compute(ctx context.Context, date time.Time) ([]attendance.DepartmentMetrics, error) {
	rows, err := s.LogRepository.AggregateByDepartment(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance metrics: %w", err)
	}

	for _, m := range rows {
		deptID := m.DepartmentID
		raw, err := json.Marshal(m)
		if err != nil {
			continue
		}
		if deptID == "" {
			s.store.Set(ctx, cache.AttendanceMetricsKey(date, nil), raw, s.ttl)
			continue
		}
		s.store.Set(ctx, cache.AttendanceMetricsKey(date, &deptID), raw, s.ttl)
	}
	return rows, nil
}

// Get returns the cached metrics for (date, department), recomputing on
// a miss.
func (s *MetricsServiceImpl) Get(ctx context.Context, date time.Time, departmentID *string) (attendance.DepartmentMetrics, error) {
	key := cache.AttendanceMetricsKey(date, departmentID)
	if raw, ok := s.store.Get(ctx, key); ok {
		var m attendance.DepartmentMetrics
		if err := json.Unmarshal(raw, &m); err == nil {
			return m, nil
		}
	}

	rows, err := s.Compute(ctx, date)
	if err != nil {
		return attendance.DepartmentMetrics{}, err
	}
	want := ""
	if departmentID != nil {
		want = *departmentID
	}
	for _, m := range rows {
		if m.DepartmentID == want {
			return m, nil
		}
	}
	return attendance.DepartmentMetrics{Date: date, DepartmentID: want}, nil
}
