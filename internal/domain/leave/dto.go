package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateLeaveRequest struct {
	EmployeeID  string  `json:"employee_id"`
	Code        Code    `json:"code"`
	SubType     *string `json:"sub_type,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	StartHalf   bool    `json:"start_half"`
	EndHalf     bool    `json:"end_half"`
	Reason      *string `json:"reason,omitempty"`
	DocumentURL *string `json:"document_url,omitempty"`
}

// ValidationResult is the side-effect-free outcome of a validation run.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
	Duration decimal.Decimal   `json:"duration"`
}

// BalanceView is the query-time balance for (employee, leave type).
type BalanceView struct {
	LeaveTypeCode Code               `json:"leave_type_code"`
	Year          int                `json:"year"`
	TotalDays     decimal.Decimal    `json:"total_days"`
	UsedDays      decimal.Decimal    `json:"used_days"`
	PendingDays   decimal.Decimal    `json:"pending_days"`
	AccruedDays   decimal.Decimal    `json:"accrued_days"`
	AvailableDays decimal.Decimal    `json:"available_days"`
	Tiers         []LeaveBalanceTier `json:"tiers,omitempty"`
}

type LeaveFilter struct {
	EmployeeID  *string
	Status      *Status
	Code        *Code
	Start       *time.Time
	End         *time.Time
	Page        int
	Limit       int
}
