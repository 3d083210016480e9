package punch

import "errors"

var (
	ErrPunchNotFound  = errors.New("punch event not found")
	ErrDuplicatePunch = errors.New("punch already recorded for this employee and timestamp")

	// ErrMissingColumns is fatal: the upload has no recognizable
	// personnel-id or timestamp column.
	ErrMissingColumns = errors.New("upload is missing personnel id or timestamp columns")
	ErrEmptyUpload    = errors.New("upload contains no data rows")
	ErrUnsupportedFmt = errors.New("unsupported upload format")
)
