package response

import (
	"errors"
	"net/http"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Missing resources
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrDepartmentNotFound),
		errors.Is(err, attendance.ErrLogNotFound),
		errors.Is(err, punch.ErrPunchNotFound),
		errors.Is(err, shift.ErrShiftNotFound),
		errors.Is(err, shift.ErrAssignmentNotFound),
		errors.Is(err, calendar.ErrHolidayNotFound),
		errors.Is(err, calendar.ErrRamadanPeriodNotFound),
		errors.Is(err, leave.ErrLeaveNotFound),
		errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, err.Error())

	// Conflicting state
	case errors.Is(err, employee.ErrEmployeeNumberExists),
		errors.Is(err, shift.ErrAssignmentConflict),
		errors.Is(err, shift.ErrDuplicateDateShift),
		errors.Is(err, shift.ErrDuplicateOverride),
		errors.Is(err, punch.ErrDuplicatePunch),
		errors.Is(err, calendar.ErrRamadanPeriodOverlap),
		errors.Is(err, calendar.ErrRamadanPeriodDuplicate),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrAlreadyProcessed),
		errors.Is(err, leave.ErrBalanceContention):
		Conflict(w, err.Error())

	// Rule violations on otherwise well-formed requests
	case errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrOneTimeAlreadyUsed),
		errors.Is(err, leave.ErrGenderNotEligible),
		errors.Is(err, leave.ErrDocumentRequired),
		errors.Is(err, leave.ErrInvalidSubType),
		errors.Is(err, leave.ErrDurationOutOfBounds),
		errors.Is(err, leave.ErrTierStraddle),
		errors.Is(err, leave.ErrTiersExhausted),
		errors.Is(err, leave.ErrNotApproved),
		errors.Is(err, employee.ErrEmployeeInactive),
		errors.Is(err, employee.ErrEmployeeNumberReadOnly):
		ValidationError(w, map[string]string{"request": err.Error()})

	// Malformed input
	case errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, shift.ErrInvalidDateRange),
		errors.Is(err, shift.ErrInvalidWindow),
		errors.Is(err, shift.ErrBreakOutOfRange),
		errors.Is(err, shift.ErrGraceOutOfRange),
		errors.Is(err, calendar.ErrRamadanPeriodDuration),
		errors.Is(err, punch.ErrMissingColumns),
		errors.Is(err, punch.ErrEmptyUpload),
		errors.Is(err, punch.ErrUnsupportedFmt):
		BadRequest(w, err.Error(), nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
