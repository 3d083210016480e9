package leave

import (
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// CountDuration computes a request's duration in days: calendar days in
// [start, end] minus holidays in range, with the half-day flags each
// subtracting 0.5.
func CountDuration(start, end time.Time, holidayCount int, startHalf, endHalf bool) decimal.Decimal {
	days := int(shift.DateOnly(end).Sub(shift.DateOnly(start)).Hours()/24) + 1
	d := decimal.NewFromInt(int64(days - holidayCount))
	if startHalf {
		d = d.Sub(half)
	}
	if endHalf {
		d = d.Sub(half)
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// validateRules applies a leave type's structured rules to a proposed
// request. Balance, overlap and one-time checks live in the service;
// everything here is a pure function of its arguments.
func validateRules(lt leave.LeaveType, emp employee.Employee, subType *string, duration decimal.Decimal, hasDocument bool) error {
	switch lt.GenderConstraint {
	case leave.GenderMaleOnly:
		if emp.Gender != employee.GenderMale {
			return leave.ErrGenderNotEligible
		}
	case leave.GenderFemaleOnly:
		if emp.Gender != employee.GenderFemale {
			return leave.ErrGenderNotEligible
		}
	}

	if lt.RequiresDocument && !hasDocument {
		return leave.ErrDocumentRequired
	}

	rules := lt.Rules

	if len(rules.SubTypes) > 0 && subType != nil {
		forced, ok := rules.SubTypes[*subType]
		if !ok {
			return leave.ErrInvalidSubType
		}
		if !forced.IsZero() {
			// Bereavement sub-types cap the duration; every other
			// sub-type forces it exactly.
			if lt.Code == leave.CodeDeath {
				if duration.GreaterThan(forced) {
					return leave.ErrDurationOutOfBounds
				}
			} else if !duration.Equal(forced) {
				return leave.ErrDurationOutOfBounds
			}
			return nil
		}
	}
	if len(rules.SubTypes) > 0 && subType == nil && lt.Code == leave.CodeDeath {
		// Bereavement is meaningless without a relation sub-type.
		return leave.ErrInvalidSubType
	}

	if rules.FixedDuration != nil && !duration.Equal(*rules.FixedDuration) {
		return leave.ErrDurationOutOfBounds
	}
	if rules.MinDays != nil && duration.LessThan(*rules.MinDays) {
		return leave.ErrDurationOutOfBounds
	}
	if rules.MaxDays != nil && duration.GreaterThan(*rules.MaxDays) {
		return leave.ErrDurationOutOfBounds
	}
	return nil
}
