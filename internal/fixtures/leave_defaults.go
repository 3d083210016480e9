package fixtures

import (
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic("fixtures: bad decimal literal " + s)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func codePtr(c leave.Code) *leave.Code { return &c }

// DefaultLeaveTypes returns the canonical leave-type catalog seeded by
// init_leave_types.
func DefaultLeaveTypes() []leave.LeaveType {
	return []leave.LeaveType{
		{
			Code:               leave.CodeAnnual,
			Name:               "Annual Leave",
			Category:           "vacation",
			DaysAllowed:        d("30"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderAny,
			AccrualEnabled:     true,
			AccrualRate:        d("2.5"),
			AccrualPeriod:      leave.AccrualWorked,
			ResetPeriod:        leave.ResetYearly,
			BalanceCalculation: leave.BalanceAccrual,
			Rules: leave.ValidationRules{
				SubTypes: map[string]decimal.Decimal{
					"half_day":  d("0.5"),
					"morning":   d("0.5"),
					"afternoon": d("0.5"),
				},
			},
			IsActive: true,
		},
		{
			Code:               leave.CodeHalf,
			Name:               "Half Day Leave",
			Category:           "vacation",
			DaysAllowed:        d("0.5"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderAny,
			ResetPeriod:        leave.ResetYearly,
			BalanceCalculation: leave.BalanceShared,
			SharedBalanceWith:  codePtr(leave.CodeAnnual),
			Rules:              leave.ValidationRules{FixedDuration: dp("0.5")},
			IsActive:           true,
		},
		{
			Code:               leave.CodeSick,
			Name:               "Sick Leave",
			Category:           "medical",
			DaysAllowed:        d("55"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderAny,
			ResetPeriod:        leave.ResetYearly,
			BalanceCalculation: leave.BalanceTiered,
			Rules: leave.ValidationRules{
				Tiers: []leave.TierRule{
					{TierNumber: 1, TierName: "Full Pay", DaysAllowed: d("15"), PayPercentage: 100},
					{TierNumber: 2, TierName: "Half Pay", DaysAllowed: d("20"), PayPercentage: 50},
					{TierNumber: 3, TierName: "No Pay", DaysAllowed: d("20"), PayPercentage: 0},
				},
			},
			IsActive: true,
		},
		{
			Code:               leave.CodeHajj,
			Name:               "Hajj Leave",
			Category:           "religious",
			DaysAllowed:        d("14"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderAny,
			ResetPeriod:        leave.ResetNever,
			BalanceCalculation: leave.BalanceFixed,
			Rules:              leave.ValidationRules{IsOneTime: true, MaxDays: dp("14")},
			IsActive:           true,
		},
		{
			Code:               leave.CodeDeath,
			Name:               "Death Leave",
			Category:           "family",
			DaysAllowed:        d("30"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderAny,
			ResetPeriod:        leave.ResetEvent,
			BalanceCalculation: leave.BalanceFixed,
			Rules: leave.ValidationRules{
				SubTypes: map[string]decimal.Decimal{
					"spouse_30":     d("30"),
					"spouse_3":      d("3"),
					"first_degree":  d("3"),
					"second_degree": d("3"),
				},
			},
			IsActive: true,
		},
		{
			Code:               leave.CodeMarriage,
			Name:               "Marriage Leave",
			Category:           "family",
			DaysAllowed:        d("3"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderAny,
			ResetPeriod:        leave.ResetNever,
			BalanceCalculation: leave.BalanceFixed,
			Rules:              leave.ValidationRules{IsOneTime: true, FixedDuration: dp("3")},
			IsActive:           true,
		},
		{
			Code:               leave.CodePaternity,
			Name:               "Paternity Leave",
			Category:           "family",
			DaysAllowed:        d("1"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderMaleOnly,
			ResetPeriod:        leave.ResetEvent,
			BalanceCalculation: leave.BalanceFixed,
			Rules:              leave.ValidationRules{FixedDuration: dp("1")},
			IsActive:           true,
		},
		{
			Code:               leave.CodeMaternity,
			Name:               "Maternity Leave",
			Category:           "family",
			DaysAllowed:        d("60"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderFemaleOnly,
			ResetPeriod:        leave.ResetEvent,
			BalanceCalculation: leave.BalanceFixed,
			Rules: leave.ValidationRules{
				SubTypes: map[string]decimal.Decimal{
					"paid_60":   d("60"),
					"unpaid_15": d("15"),
				},
			},
			IsActive: true,
		},
		{
			Code:               leave.CodeIddah,
			Name:               "Iddah Leave",
			Category:           "family",
			DaysAllowed:        d("100"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderFemaleOnly,
			ResetPeriod:        leave.ResetEvent,
			BalanceCalculation: leave.BalanceFixed,
			Rules: leave.ValidationRules{
				SubTypes: map[string]decimal.Decimal{
					"paid_30":    d("30"),
					"unpaid_100": d("100"),
				},
			},
			IsActive: true,
		},
		{
			Code:               leave.CodeInjury,
			Name:               "Work Injury Leave",
			Category:           "medical",
			DaysAllowed:        d("180"),
			IsPaid:             true,
			RequiresDocument:   true,
			GenderConstraint:   leave.GenderAny,
			ResetPeriod:        leave.ResetEvent,
			BalanceCalculation: leave.BalanceFixed,
			Rules:              leave.ValidationRules{MaxDays: dp("180")},
			IsActive:           true,
		},
		{
			Code:               leave.CodeEmergency,
			Name:               "Emergency Leave",
			Category:           "personal",
			DaysAllowed:        d("5"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderAny,
			ResetPeriod:        leave.ResetYearly,
			BalanceCalculation: leave.BalanceFixed,
			Rules:              leave.ValidationRules{MaxDays: dp("5")},
			IsActive:           true,
		},
		{
			Code:               leave.CodePermission,
			Name:               "Permission Leave",
			Category:           "personal",
			DaysAllowed:        d("3"),
			IsPaid:             true,
			GenderConstraint:   leave.GenderAny,
			ResetPeriod:        leave.ResetYearly,
			BalanceCalculation: leave.BalanceFixed,
			Rules:              leave.ValidationRules{MinDays: dp("0.5"), MaxDays: dp("3")},
			IsActive:           true,
		},
	}
}
