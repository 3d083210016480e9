package shift

import "errors"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrAssignmentNotFound = errors.New("shift assignment not found")
	ErrNoDefaultShift     = errors.New("no active default shift configured")

	// ErrNoEffectiveShift is the resolver's "no shift" sentinel: the
	// employee has no covering assignment and no default shift exists.
	ErrNoEffectiveShift = errors.New("no effective shift for employee on date")

	ErrInvalidWindow       = errors.New("shift start time must differ from end time")
	ErrAssignmentConflict  = errors.New("conflicting assignment with equal or higher priority")
	ErrInvalidDateRange    = errors.New("assignment end date precedes start date")
	ErrDuplicateDateShift  = errors.New("date-specific shift already exists for this shift and date")
	ErrDuplicateOverride   = errors.New("override already exists for this date and shift type")
	ErrBreakOutOfRange     = errors.New("break minutes must be within 0-180")
	ErrGraceOutOfRange     = errors.New("grace minutes must be within 0-60")
)
