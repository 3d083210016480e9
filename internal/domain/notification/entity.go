package notification

import "time"

type Kind string

const (
	KindShiftChange       Kind = "shift_change"
	KindRamadanTransition Kind = "ramadan_transition"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Notification is a persisted notice produced by scheduler jobs and
// dispatched by the mail sender. Dispatch failures keep the row pending
// for the next run.
type Notification struct {
	ID         string
	EmployeeID string
	Kind       Kind
	Subject    string
	Body       string
	Status     Status
	// DedupeKey prevents double-producing the same notice when a job
	// re-runs on the same day.
	DedupeKey string
	SentAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
