package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/sahl-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/validator"
)

type LeaveHandler interface {
	Validate(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Balances(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	loc          *time.Location
}

func NewLeaveHandler(leaveService leave.LeaveService, loc *time.Location) *LeaveHandlerImpl {
	return &LeaveHandlerImpl{leaveService: leaveService, loc: loc}
}

// Validate implements LeaveHandler.
func (h *LeaveHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Validate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.leaveService.Validate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements LeaveHandler.
func (h *LeaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.leaveService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted", created)
}

// Approve implements LeaveHandler.
func (h *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	if err := h.leaveService.Approve(r.Context(), chi.URLParam(r, "id"), actorID(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave approved", nil)
}

// Reject implements LeaveHandler.
func (h *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	// The reason body is optional.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.leaveService.Reject(r.Context(), chi.URLParam(r, "id"), actorID(r), body.Reason); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave rejected", nil)
}

// Cancel implements LeaveHandler.
func (h *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.leaveService.Cancel(r.Context(), chi.URLParam(r, "id"), actorID(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave cancelled", nil)
}

// Delete implements LeaveHandler.
func (h *LeaveHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.leaveService.Delete(r.Context(), chi.URLParam(r, "id"), actorID(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave deleted", nil)
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := leave.LeaveFilter{
		Page:  parseIntQuery(q.Get("page"), 1),
		Limit: parseIntQuery(q.Get("limit"), 20),
	}
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("status"); v != "" {
		status := leave.Status(v)
		filter.Status = &status
	}
	if v := q.Get("code"); v != "" {
		code := leave.Code(v)
		filter.Code = &code
	}
	if v := q.Get("start"); v != "" {
		start, err := validator.ParseDate(v, h.loc)
		if err != nil {
			response.BadRequest(w, "Invalid start date, expected YYYY-MM-DD", nil)
			return
		}
		filter.Start = &start
	}
	if v := q.Get("end"); v != "" {
		end, err := validator.ParseDate(v, h.loc)
		if err != nil {
			response.BadRequest(w, "Invalid end date, expected YYYY-MM-DD", nil)
			return
		}
		filter.End = &end
	}

	leaves, total, err := h.leaveService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}
	response.SuccessWithMeta(w, leaves, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Balances implements LeaveHandler.
func (h *LeaveHandlerImpl) Balances(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	year := time.Now().In(h.loc).Year()
	if v := parseIntQuery(r.URL.Query().Get("year"), 0); v > 0 {
		year = v
	}

	balances, err := h.leaveService.Balances(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, balances)
}
