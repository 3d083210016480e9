package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/validator"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	EndAssignment(w http.ResponseWriter, r *http.Request)
	SetDateSpecific(w http.ResponseWriter, r *http.Request)
	SetOverride(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	Schedule(w http.ResponseWriter, r *http.Request)
}

type ShiftHandlerImpl struct {
	shiftService shift.ShiftService
	resolver     shift.ShiftResolver
	loc          *time.Location
}

func NewShiftHandler(shiftService shift.ShiftService, resolver shift.ShiftResolver, loc *time.Location) *ShiftHandlerImpl {
	return &ShiftHandlerImpl{shiftService: shiftService, resolver: resolver, loc: loc}
}

// Create implements ShiftHandler.
func (h *ShiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	start, err := shift.ParseClock(req.StartTime)
	if err != nil {
		response.BadRequest(w, "Invalid start_time, expected HH:MM", nil)
		return
	}
	end, err := shift.ParseClock(req.EndTime)
	if err != nil {
		response.BadRequest(w, "Invalid end_time, expected HH:MM", nil)
		return
	}

	sh := shift.Shift{
		Name:         req.Name,
		Type:         req.Type,
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: req.BreakMinutes,
		GraceMinutes: req.GraceMinutes,
		IsActive:     true,
	}
	if req.Priority != nil {
		sh.Priority = *req.Priority
	}
	if req.RamadanStartTime != nil {
		t, err := shift.ParseClock(*req.RamadanStartTime)
		if err != nil {
			response.BadRequest(w, "Invalid ramadan_start_time, expected HH:MM", nil)
			return
		}
		sh.RamadanStartTime = &t
	}
	if req.RamadanEndTime != nil {
		t, err := shift.ParseClock(*req.RamadanEndTime)
		if err != nil {
			response.BadRequest(w, "Invalid ramadan_end_time, expected HH:MM", nil)
			return
		}
		sh.RamadanEndTime = &t
	}

	created, err := h.shiftService.CreateShift(r.Context(), sh)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift created", created)
}

// Assign implements ShiftHandler.
func (h *ShiftHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Assign shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if actor := actorID(r); actor != "" {
		req.CreatedBy = &actor
	}

	created, err := h.shiftService.AssignShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift assigned", created)
}

// EndAssignment implements ShiftHandler.
func (h *ShiftHandlerImpl) EndAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.shiftService.EndAssignment(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Assignment ended", nil)
}

// SetDateSpecific implements ShiftHandler.
func (h *ShiftHandlerImpl) SetDateSpecific(w http.ResponseWriter, r *http.Request) {
	var req shift.DateSpecificShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetDateSpecific decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, err := validator.ParseDate(req.Date, h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}
	start, err := shift.ParseClock(req.StartTime)
	if err != nil {
		response.BadRequest(w, "Invalid start_time, expected HH:MM", nil)
		return
	}
	end, err := shift.ParseClock(req.EndTime)
	if err != nil {
		response.BadRequest(w, "Invalid end_time, expected HH:MM", nil)
		return
	}

	created, err := h.shiftService.SetDateSpecificWindow(r.Context(), shift.DateSpecificShift{
		ShiftID:   req.ShiftID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Date-specific window set", created)
}

// SetOverride implements ShiftHandler.
func (h *ShiftHandlerImpl) SetOverride(w http.ResponseWriter, r *http.Request) {
	var req shift.TypeOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetOverride decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, err := validator.ParseDate(req.Date, h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}
	start, err := shift.ParseClock(req.StartTime)
	if err != nil {
		response.BadRequest(w, "Invalid start_time, expected HH:MM", nil)
		return
	}
	end, err := shift.ParseClock(req.EndTime)
	if err != nil {
		response.BadRequest(w, "Invalid end_time, expected HH:MM", nil)
		return
	}

	created, err := h.shiftService.SetTypeOverride(r.Context(), shift.DateSpecificShiftOverride{
		Date:      date,
		ShiftType: req.ShiftType,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Type override set", created)
}

// Resolve implements ShiftHandler.
func (h *ShiftHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	date, err := validator.ParseDate(chi.URLParam(r, "date"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	resolved, err := h.resolver.Resolve(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resolved)
}

// Schedule implements ShiftHandler.
func (h *ShiftHandlerImpl) Schedule(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	q := r.URL.Query()

	start, err := validator.ParseDate(q.Get("start"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid start date, expected YYYY-MM-DD", nil)
		return
	}
	end, err := validator.ParseDate(q.Get("end"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid end date, expected YYYY-MM-DD", nil)
		return
	}

	entries, err := h.resolver.ResolveSchedule(r.Context(), employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, entries)
}
