package leave

import "errors"

var (
	ErrLeaveNotFound     = errors.New("leave not found")
	ErrLeaveTypeNotFound = errors.New("leave type not found")
	ErrBalanceNotFound   = errors.New("leave balance not found")

	ErrInvalidDateRange    = errors.New("start date must not be after end date")
	ErrOverlappingLeave    = errors.New("an overlapping leave already exists")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrOneTimeAlreadyUsed  = errors.New("this leave can only be taken once")
	ErrGenderNotEligible   = errors.New("employee gender is not eligible for this leave type")
	ErrDocumentRequired    = errors.New("supporting document is required for this leave type")
	ErrInvalidSubType      = errors.New("invalid sub type for this leave type")
	ErrDurationOutOfBounds = errors.New("duration is outside the allowed bounds")
	ErrTierStraddle        = errors.New("request exceeds available days in the current tier")
	ErrTiersExhausted      = errors.New("all tiers are exhausted")
	ErrAlreadyProcessed    = errors.New("leave has already been processed")
	ErrNotApproved         = errors.New("leave is not in approved status")

	// ErrBalanceContention is returned after the optimistic-locking retry
	// budget (3 attempts) is exhausted.
	ErrBalanceContention = errors.New("leave balance update contention, try again")

	// ErrBadTierConfig is a fatal configuration error: the tier rules of
	// a tiered leave type are inconsistent.
	ErrBadTierConfig = errors.New("inconsistent tier configuration")

	// ErrUnknownLeaveType is a fatal configuration error: a leave type
	// code outside the canonical set.
	ErrUnknownLeaveType = errors.New("unknown leave type code")
)
