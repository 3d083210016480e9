package leave

import (
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/shopspring/decimal"
)

var thirty = decimal.NewFromInt(30)

// CountWorkingDays counts accrual-eligible days in [anchor, until]: days
// with an attended log, holidays, and weekend days whose adjacent days
// were attended or holidays. Each date counts at most once.
func CountWorkingDays(anchor, until time.Time, attendedDates, holidayDates []time.Time, weekendDay time.Weekday) int {
	anchor, until = shift.DateOnly(anchor), shift.DateOnly(until)
	if until.Before(anchor) {
		return 0
	}

	attended := make(map[time.Time]struct{}, len(attendedDates))
	for _, d := range attendedDates {
		attended[shift.DateOnly(d)] = struct{}{}
	}
	holidays := make(map[time.Time]struct{}, len(holidayDates))
	for _, d := range holidayDates {
		holidays[shift.DateOnly(d)] = struct{}{}
	}

	counts := func(d time.Time) bool {
		if _, ok := attended[d]; ok {
			return true
		}
		_, ok := holidays[d]
		return ok
	}

	working := 0
	for d := anchor; !d.After(until); d = d.AddDate(0, 0, 1) {
		switch {
		case counts(d):
			working++
		case d.Weekday() == weekendDay:
			// A weekend day qualifies when either adjacent day counts.
			if counts(d.AddDate(0, 0, -1)) || counts(d.AddDate(0, 0, 1)) {
				working++
			}
		}
	}
	return working
}

// Accrue converts working days into accrued leave days at ratePer30
// days per 30 worked, carried at full decimal precision. Rounding to
// two places happens only at presentation boundaries.
func Accrue(workingDays int, ratePer30 decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(workingDays)).Mul(ratePer30).Div(thirty)
}
