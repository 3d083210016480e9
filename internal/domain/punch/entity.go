package punch

import "time"

// PunchEvent is a raw biometric attendance record. Unique on
// (employee_id, timestamp).
type PunchEvent struct {
	ID          string
	EmployeeID  string
	Timestamp   time.Time
	Device      *string
	EventPoint  *string
	VerifyType  *string
	Description *string
	Remarks     *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ImportSummary reports the outcome of a punch upload.
type ImportSummary struct {
	NewRecords   int `json:"new_records"`
	Duplicates   int `json:"duplicates"`
	NewEmployees int `json:"new_employees"`
	UniqueDates  int `json:"unique_dates"`
	Errors       int `json:"errors"`
}

// ImportRow is one parsed row from an uploaded workbook or CSV.
type ImportRow struct {
	EmployeeNumber string
	Timestamp      time.Time
	Device         *string
	EventPoint     *string
}
