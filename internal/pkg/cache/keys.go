package cache

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

func EmployeeShiftKey(employeeID string) string {
	return fmt.Sprintf("employee_shift:%s", employeeID)
}

func DepartmentShiftsKey(departmentID string) string {
	return fmt.Sprintf("department_shifts:%s", departmentID)
}

func RamadanPeriodKey(date time.Time) string {
	return fmt.Sprintf("ramadan_period:%s", date.Format(dateLayout))
}

func EmployeeScheduleKey(employeeID string, start, end time.Time) string {
	return fmt.Sprintf("employee_schedule:%s:%s:%s",
		employeeID, start.Format(dateLayout), end.Format(dateLayout))
}

func ShiftStatisticsKey(shiftID string) string {
	return fmt.Sprintf("shift_statistics:%s", shiftID)
}

// AttendanceMetricsKey uses "all" when the metrics are not scoped to a
// department.
func AttendanceMetricsKey(date time.Time, departmentID *string) string {
	scope := "all"
	if departmentID != nil {
		scope = *departmentID
	}
	return fmt.Sprintf("attendance_metrics:%s:%s", date.Format(dateLayout), scope)
}

func EmployeeSchedulePattern(employeeID string) string {
	return fmt.Sprintf("employee_schedule:%s:*", employeeID)
}

const RamadanPeriodPattern = "ramadan_period:*"

func AttendanceMetricsPattern(date time.Time) string {
	return fmt.Sprintf("attendance_metrics:%s:*", date.Format(dateLayout))
}
