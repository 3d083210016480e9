package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type Code string

const (
	CodeAnnual     Code = "ANNUAL"
	CodeSick       Code = "SICK"
	CodeHalf       Code = "HALF"
	CodeMaternity  Code = "MATERNITY"
	CodePaternity  Code = "PATERNITY"
	CodeDeath      Code = "DEATH"
	CodeMarriage   Code = "MARRIAGE"
	CodeHajj       Code = "HAJJ"
	CodeIddah      Code = "IDDAH"
	CodeInjury     Code = "INJURY"
	CodeEmergency  Code = "EMERG"
	CodePermission Code = "PERMISSION"
)

type GenderConstraint string

const (
	GenderMaleOnly   GenderConstraint = "M"
	GenderFemaleOnly GenderConstraint = "F"
	GenderAny        GenderConstraint = "A"
)

type BalanceCalculation string

const (
	BalanceFixed   BalanceCalculation = "FIXED"
	BalanceAccrual BalanceCalculation = "ACCRUAL"
	BalanceTiered  BalanceCalculation = "TIERED"
	BalanceShared  BalanceCalculation = "SHARED"
)

type AccrualPeriod string

const (
	AccrualWorked  AccrualPeriod = "WORKED"
	AccrualMonthly AccrualPeriod = "MONTHLY"
)

type ResetPeriod string

const (
	ResetYearly ResetPeriod = "YEARLY"
	ResetNever  ResetPeriod = "NEVER"
	ResetEvent  ResetPeriod = "EVENT"
)

// TierRule configures one tier of a TIERED leave type.
type TierRule struct {
	TierNumber    int             `json:"tier_number"`
	TierName      string          `json:"tier_name"`
	DaysAllowed   decimal.Decimal `json:"days_allowed"`
	PayPercentage int             `json:"pay_percentage"`
}

// ValidationRules is the structured rule blob stored on a leave type.
type ValidationRules struct {
	IsOneTime bool `json:"is_one_time,omitempty"`
	// FixedDuration forces the request duration to an exact value.
	FixedDuration *decimal.Decimal `json:"fixed_duration,omitempty"`
	MinDays       *decimal.Decimal `json:"min_days,omitempty"`
	MaxDays       *decimal.Decimal `json:"max_days,omitempty"`
	// SubTypes maps an allowed sub-type to the exact duration it forces.
	// A zero value means the sub-type is allowed without a duration rule.
	SubTypes map[string]decimal.Decimal `json:"sub_types,omitempty"`
	Tiers    []TierRule                 `json:"tiers,omitempty"`
}

type LeaveType struct {
	ID                 string
	Code               Code
	Name               string
	Category           string
	DaysAllowed        decimal.Decimal
	IsPaid             bool
	RequiresDocument   bool
	GenderConstraint   GenderConstraint
	AccrualEnabled     bool
	AccrualRate        decimal.Decimal
	AccrualPeriod      AccrualPeriod
	ResetPeriod        ResetPeriod
	BalanceCalculation BalanceCalculation
	// SharedBalanceWith names the leave-type code whose balance this type
	// consumes (HALF -> ANNUAL).
	SharedBalanceWith *Code
	Rules             ValidationRules
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

type Leave struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	SubType     *string
	StartDate   time.Time
	EndDate     time.Time
	StartHalf   bool
	EndHalf     bool
	Duration    decimal.Decimal
	Reason      *string
	Status      Status
	DocumentURL *string
	ActorID      *string
	ActedAt      *time.Time
	RejectReason *string
	IsActive     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	LeaveTypeCode *Code
	EmployeeName  *string
}

// Covers reports whether the leave spans the given date (inclusive).
func (l Leave) Covers(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(dateOnly(l.StartDate)) && !d.After(dateOnly(l.EndDate))
}

type LeaveBalance struct {
	ID              string
	EmployeeID      string
	LeaveTypeID     string
	TotalDays       decimal.Decimal
	UsedDays        decimal.Decimal
	PendingDays     decimal.Decimal
	Year            int
	LastAccrualDate *time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Available is total minus used and pending.
func (b LeaveBalance) Available() decimal.Decimal {
	return b.TotalDays.Sub(b.UsedDays).Sub(b.PendingDays)
}

// LeaveBalanceTier tracks consumption of one tier of a tiered balance.
// Tiers are consumed strictly in order.
type LeaveBalanceTier struct {
	ID            string
	BalanceID     string
	TierNumber    int
	TierName      string
	DaysAllowed   decimal.Decimal
	DaysUsed      decimal.Decimal
	PayPercentage int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Remaining is the unconsumed allowance of the tier.
func (t LeaveBalanceTier) Remaining() decimal.Decimal {
	return t.DaysAllowed.Sub(t.DaysUsed)
}

// LeaveBeginningBalance is the opening balance for an employee and leave
// type as of a date; the latest one anchors accrual.
type LeaveBeginningBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	AsOfDate    time.Time
	Days        decimal.Decimal
	CreatedAt   time.Time
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
