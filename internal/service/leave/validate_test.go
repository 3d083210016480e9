package leave

import (
	"testing"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestCountDuration(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		holidays   int
		startHalf  bool
		endHalf    bool
		want       string
	}{
		{"single day", date(2025, 6, 2), date(2025, 6, 2), 0, false, false, "1"},
		{"five days", date(2025, 6, 2), date(2025, 6, 6), 0, false, false, "5"},
		{"holiday excluded", date(2025, 6, 2), date(2025, 6, 6), 1, false, false, "4"},
		{"half start", date(2025, 6, 2), date(2025, 6, 3), 0, true, false, "1.5"},
		{"both halves", date(2025, 6, 2), date(2025, 6, 3), 0, true, true, "1"},
		{"half single day", date(2025, 6, 2), date(2025, 6, 2), 0, true, false, "0.5"},
		{"floors at zero", date(2025, 6, 2), date(2025, 6, 2), 1, true, true, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CountDuration(tc.start, tc.end, tc.holidays, tc.startHalf, tc.endHalf)
			assert.True(t, got.Equal(d(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestValidateRulesGenderConstraint(t *testing.T) {
	maternity := leave.LeaveType{Code: leave.CodeMaternity, GenderConstraint: leave.GenderFemaleOnly}

	err := validateRules(maternity, employee.Employee{Gender: employee.GenderMale}, nil, d("60"), false)
	assert.ErrorIs(t, err, leave.ErrGenderNotEligible)

	err = validateRules(maternity, employee.Employee{Gender: employee.GenderFemale}, nil, d("60"), false)
	assert.NoError(t, err)
}

func TestValidateRulesDocumentRequired(t *testing.T) {
	sick := leave.LeaveType{Code: leave.CodeSick, RequiresDocument: true}

	err := validateRules(sick, employee.Employee{}, nil, d("2"), false)
	assert.ErrorIs(t, err, leave.ErrDocumentRequired)

	err = validateRules(sick, employee.Employee{}, nil, d("2"), true)
	assert.NoError(t, err)
}

func TestValidateRulesFixedDuration(t *testing.T) {
	marriage := leave.LeaveType{
		Code:  leave.CodeMarriage,
		Rules: leave.ValidationRules{FixedDuration: dp("5")},
	}

	err := validateRules(marriage, employee.Employee{}, nil, d("3"), false)
	assert.ErrorIs(t, err, leave.ErrDurationOutOfBounds)

	err = validateRules(marriage, employee.Employee{}, nil, d("5"), false)
	assert.NoError(t, err)
}

func TestValidateRulesMinMax(t *testing.T) {
	hajj := leave.LeaveType{
		Code:  leave.CodeHajj,
		Rules: leave.ValidationRules{MinDays: dp("10"), MaxDays: dp("15")},
	}

	assert.ErrorIs(t, validateRules(hajj, employee.Employee{}, nil, d("9"), false), leave.ErrDurationOutOfBounds)
	assert.ErrorIs(t, validateRules(hajj, employee.Employee{}, nil, d("16"), false), leave.ErrDurationOutOfBounds)
	assert.NoError(t, validateRules(hajj, employee.Employee{}, nil, d("12"), false))
}

func TestValidateRulesDeathSubTypes(t *testing.T) {
	spouse := "SPOUSE"
	cousin := "COUSIN"
	death := leave.LeaveType{
		Code: leave.CodeDeath,
		Rules: leave.ValidationRules{
			SubTypes: map[string]decimal.Decimal{
				"SPOUSE": d("5"),
				"PARENT": d("3"),
			},
		},
	}

	// Bereavement sub-types cap rather than force the duration.
	assert.NoError(t, validateRules(death, employee.Employee{}, &spouse, d("3"), false))
	assert.NoError(t, validateRules(death, employee.Employee{}, &spouse, d("5"), false))
	assert.ErrorIs(t, validateRules(death, employee.Employee{}, &spouse, d("6"), false), leave.ErrDurationOutOfBounds)

	assert.ErrorIs(t, validateRules(death, employee.Employee{}, &cousin, d("1"), false), leave.ErrInvalidSubType)
	assert.ErrorIs(t, validateRules(death, employee.Employee{}, nil, d("1"), false), leave.ErrInvalidSubType)
}

func TestValidateRulesNonDeathSubTypeForcesExactDuration(t *testing.T) {
	exam := "EXAM"
	permission := leave.LeaveType{
		Code: leave.CodePermission,
		Rules: leave.ValidationRules{
			SubTypes: map[string]decimal.Decimal{"EXAM": d("1")},
		},
	}

	assert.NoError(t, validateRules(permission, employee.Employee{}, &exam, d("1"), false))
	assert.ErrorIs(t, validateRules(permission, employee.Employee{}, &exam, d("2"), false), leave.ErrDurationOutOfBounds)
}
