package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/validator"
)

type CatalogHandler interface {
	ListLeaveTypes(w http.ResponseWriter, r *http.Request)
	InitLeaveTypes(w http.ResponseWriter, r *http.Request)
	CreateLeaveType(w http.ResponseWriter, r *http.Request)

	ListHolidays(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
	GenerateHolidays(w http.ResponseWriter, r *http.Request)

	CreateRamadanPeriod(w http.ResponseWriter, r *http.Request)
	UpdateRamadanPeriod(w http.ResponseWriter, r *http.Request)

	ListShifts(w http.ResponseWriter, r *http.Request)
	DeactivateShift(w http.ResponseWriter, r *http.Request)
}

type CatalogHandlerImpl struct {
	catalogService calendar.CatalogService
	loc            *time.Location
}

func NewCatalogHandler(catalogService calendar.CatalogService, loc *time.Location) *CatalogHandlerImpl {
	return &CatalogHandlerImpl{catalogService: catalogService, loc: loc}
}

// ListLeaveTypes implements CatalogHandler.
func (h *CatalogHandlerImpl) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalogService.ListLeaveTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

// InitLeaveTypes implements CatalogHandler.
func (h *CatalogHandlerImpl) InitLeaveTypes(w http.ResponseWriter, r *http.Request) {
	created, err := h.catalogService.InitLeaveTypes(r.Context(), false)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave type catalog initialized", map[string]int{"created": created})
}

// CreateLeaveType implements CatalogHandler.
func (h *CatalogHandlerImpl) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var lt leave.LeaveType
	if err := json.NewDecoder(r.Body).Decode(&lt); err != nil {
		slog.Error("CreateLeaveType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.catalogService.CreateLeaveType(r.Context(), lt); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave type created", nil)
}

// ListHolidays implements CatalogHandler.
func (h *CatalogHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
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

	holidays, err := h.catalogService.ListHolidays(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, holidays)
}

// CreateHoliday implements CatalogHandler.
func (h *CatalogHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req calendar.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateHoliday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, err := validator.ParseDate(req.Date, h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	created, err := h.catalogService.CreateHoliday(r.Context(), calendar.Holiday{
		Date:         date,
		Name:         req.Name,
		HolidayType:  req.HolidayType,
		IsRecurring:  req.IsRecurring,
		IsPaid:       req.IsPaid,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Holiday created", created)
}

// DeleteHoliday implements CatalogHandler.
func (h *CatalogHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	affected, err := h.catalogService.DeleteHoliday(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Holiday removed", map[string]int{"employees_recomputed": len(affected)})
}

// GenerateHolidays implements CatalogHandler.
func (h *CatalogHandlerImpl) GenerateHolidays(w http.ResponseWriter, r *http.Request) {
	year := parseIntQuery(r.URL.Query().Get("year"), time.Now().In(h.loc).Year())

	created, err := h.catalogService.GenerateRecurringHolidays(r.Context(), year, false)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Recurring holidays generated", map[string]int{"created": created})
}

// CreateRamadanPeriod implements CatalogHandler.
func (h *CatalogHandlerImpl) CreateRamadanPeriod(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodeRamadanPeriod(w, r)
	if !ok {
		return
	}

	created, err := h.catalogService.CreateRamadanPeriod(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Ramadan period created", created)
}

// UpdateRamadanPeriod implements CatalogHandler.
func (h *CatalogHandlerImpl) UpdateRamadanPeriod(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodeRamadanPeriod(w, r)
	if !ok {
		return
	}
	p.ID = chi.URLParam(r, "id")

	if err := h.catalogService.UpdateRamadanPeriod(r.Context(), p); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Ramadan period updated", nil)
}

func (h *CatalogHandlerImpl) decodeRamadanPeriod(w http.ResponseWriter, r *http.Request) (calendar.RamadanPeriod, bool) {
	var req calendar.RamadanPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Ramadan period decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return calendar.RamadanPeriod{}, false
	}

	start, err := validator.ParseDate(req.StartDate, h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid start_date, expected YYYY-MM-DD", nil)
		return calendar.RamadanPeriod{}, false
	}
	end, err := validator.ParseDate(req.EndDate, h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid end_date, expected YYYY-MM-DD", nil)
		return calendar.RamadanPeriod{}, false
	}

	return calendar.RamadanPeriod{
		Year:      req.Year,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}, true
}

// ListShifts implements CatalogHandler.
func (h *CatalogHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.catalogService.ListShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shifts)
}

// DeactivateShift implements CatalogHandler.
func (h *CatalogHandlerImpl) DeactivateShift(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.DeactivateShift(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift deactivated", nil)
}
