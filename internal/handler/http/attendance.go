package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sahl-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	GetLog(w http.ResponseWriter, r *http.Request)
	ListLogs(w http.ResponseWriter, r *http.Request)
	Calendar(w http.ResponseWriter, r *http.Request)
	UpsertManual(w http.ResponseWriter, r *http.Request)
	UploadPunches(w http.ResponseWriter, r *http.Request)
	RemovePunch(w http.ResponseWriter, r *http.Request)
	Reprocess(w http.ResponseWriter, r *http.Request)
	Metrics(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	metricsService    attendance.MetricsService
	loc               *time.Location
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, metricsService attendance.MetricsService, loc *time.Location) *AttendanceHandlerImpl {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
		metricsService:    metricsService,
		loc:               loc,
	}
}

// GetLog implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetLog(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	date, err := validator.ParseDate(chi.URLParam(r, "date"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	log, err := h.attendanceService.GetLog(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, log)
}

// ListLogs implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListLogs(w http.ResponseWriter, r *http.Request) {
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

	filter := attendance.LogFilter{
		Page:  parseIntQuery(q.Get("page"), 1),
		Limit: parseIntQuery(q.Get("limit"), 20),
	}
	if v := q.Get("department_id"); v != "" {
		filter.DepartmentID = &v
	}
	if v := q.Get("status"); v != "" {
		status := attendance.Status(v)
		filter.Status = &status
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}

	logs, total, err := h.attendanceService.ListLogs(r.Context(), filter, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}
	response.SuccessWithMeta(w, logs, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Calendar implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	month, err := time.ParseInLocation("2006-01", r.URL.Query().Get("month"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid month, expected YYYY-MM", nil)
		return
	}
	start := month
	end := month.AddDate(0, 1, -1)

	events, err := h.attendanceService.CalendarEvents(r.Context(), employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, events)
}

// UpsertManual implements AttendanceHandler.
func (h *AttendanceHandlerImpl) UpsertManual(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpsertManual decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, err := validator.ParseDate(req.Date, h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}
	log := attendance.AttendanceLog{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     req.Status,
	}
	if req.FirstInTime != nil {
		t, err := shift.ParseClock(*req.FirstInTime)
		if err != nil {
			response.BadRequest(w, "Invalid first_in_time, expected HH:MM", nil)
			return
		}
		in := shift.CombineDate(date, t)
		log.FirstInTime = &in
	}
	if req.LastOutTime != nil {
		t, err := shift.ParseClock(*req.LastOutTime)
		if err != nil {
			response.BadRequest(w, "Invalid last_out_time, expected HH:MM", nil)
			return
		}
		out := shift.CombineDate(date, t)
		if log.FirstInTime != nil && out.Before(*log.FirstInTime) {
			out = out.AddDate(0, 0, 1)
		}
		log.LastOutTime = &out
	}

	saved, err := h.attendanceService.UpsertManual(r.Context(), log)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance log corrected", saved)
}

// UploadPunches implements AttendanceHandler.
func (h *AttendanceHandlerImpl) UploadPunches(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Field 'file' is required", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read upload", nil)
		return
	}

	summary, err := h.attendanceService.ImportPunches(r.Context(), data)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Punches imported", summary)
}

// RemovePunch implements AttendanceHandler.
func (h *AttendanceHandlerImpl) RemovePunch(w http.ResponseWriter, r *http.Request) {
	punchID := chi.URLParam(r, "id")
	if punchID == "" {
		response.BadRequest(w, "Punch ID is required", nil)
		return
	}

	if err := h.attendanceService.RemovePunch(r.Context(), punchID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Punch removed and log re-derived", nil)
}

type reprocessRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// Reprocess implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Reprocess(w http.ResponseWriter, r *http.Request) {
	var req reprocessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reprocess decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	start, err := validator.ParseDate(req.StartDate, h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid start_date, expected YYYY-MM-DD", nil)
		return
	}
	end, err := validator.ParseDate(req.EndDate, h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid end_date, expected YYYY-MM-DD", nil)
		return
	}

	if req.EmployeeID != "" {
		err = h.attendanceService.RecomputeRange(r.Context(), req.EmployeeID, start, end)
	} else {
		for d := start; !d.After(end) && err == nil; d = d.AddDate(0, 0, 1) {
			err = h.attendanceService.RecomputeDateForAll(r.Context(), d)
		}
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance logs re-derived", nil)
}

// Metrics implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Metrics(w http.ResponseWriter, r *http.Request) {
	date, err := validator.ParseDate(r.URL.Query().Get("date"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}
	var departmentID *string
	if v := r.URL.Query().Get("department_id"); v != "" {
		departmentID = &v
	}

	m, err := h.metricsService.Get(r.Context(), date, departmentID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, m)
}

func parseIntQuery(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
