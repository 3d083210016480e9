package calendar

import "errors"

var (
	ErrHolidayNotFound        = errors.New("holiday not found")
	ErrRamadanPeriodNotFound  = errors.New("ramadan period not found")
	ErrRamadanPeriodOverlap   = errors.New("ramadan period overlaps an existing period")
	ErrRamadanPeriodDuration  = errors.New("ramadan period must span 28-31 days within one year")
	ErrRamadanPeriodDuplicate = errors.New("an active ramadan period already exists for this year")
)
