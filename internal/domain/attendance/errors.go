package attendance

import "errors"

var (
	ErrLogNotFound = errors.New("attendance log not found")

	// ErrDerivationIntegrity marks a log that cannot be derived because
	// referenced data disappeared mid-request. Logged and surfaced as a
	// generic failure; never crashes workers.
	ErrDerivationIntegrity = errors.New("attendance log cannot be derived from current data")
)
