package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datesBetween(start, end time.Time, skip func(time.Time) bool) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if skip != nil && skip(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func TestCountWorkingDaysCountsEachDateOnce(t *testing.T) {
	// Jan-Mar 2025 with every non-Friday attended: weekend days qualify
	// through adjacency but no date may be counted twice.
	anchor := date(2025, 1, 1)
	until := date(2025, 3, 31)
	attended := datesBetween(anchor, until, func(d time.Time) bool {
		return d.Weekday() == time.Friday
	})

	got := CountWorkingDays(anchor, until, attended, nil, time.Friday)
	// 90 calendar days in the range, every one qualifies.
	assert.Equal(t, 90, got)
}

func TestCountWorkingDaysIsolatedWeekendExcluded(t *testing.T) {
	// Friday 2025-06-06 with neither adjacent day attended.
	attended := []time.Time{date(2025, 6, 2), date(2025, 6, 3)}

	got := CountWorkingDays(date(2025, 6, 2), date(2025, 6, 6), attended, nil, time.Friday)
	assert.Equal(t, 2, got)
}

func TestCountWorkingDaysWeekendAdjacentToHoliday(t *testing.T) {
	// Holiday on Thursday qualifies the Friday through adjacency.
	holidays := []time.Time{date(2025, 6, 5)}

	got := CountWorkingDays(date(2025, 6, 5), date(2025, 6, 6), nil, holidays, time.Friday)
	assert.Equal(t, 2, got)
}

func TestCountWorkingDaysEmptyRange(t *testing.T) {
	assert.Equal(t, 0, CountWorkingDays(date(2025, 6, 10), date(2025, 6, 1), nil, nil, time.Friday))
}

func TestAccrueRate(t *testing.T) {
	rate := d("2.5")

	assert.True(t, Accrue(30, rate).Equal(d("2.5")))
	assert.True(t, Accrue(60, rate).Equal(d("5")))
	assert.True(t, Accrue(0, rate).Equal(d("0")))

	// 76 working days at 2.5/30 is a repeating decimal; the value is
	// carried at full precision and only rounded for display.
	got := Accrue(76, rate)
	assert.Equal(t, "6.33", got.Round(2).String())
	assert.True(t, got.GreaterThan(d("6.333")))
	assert.True(t, got.LessThan(d("6.334")))
}
