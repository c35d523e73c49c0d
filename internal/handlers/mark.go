package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/narvaro/internal/app"
	"github.com/shrimpsizemoose/narvaro/internal/attendance"
	"github.com/shrimpsizemoose/narvaro/internal/metrics"
	"github.com/shrimpsizemoose/narvaro/internal/models"
)

type AttendanceHandler struct {
	service *app.Service
}

func NewAttendanceHandler(service *app.Service) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
	}
}

// HandleMark is the public endpoint behind the QR code. No lecturer auth:
// anyone holding the session link may submit, the marker decides.
func (h *AttendanceHandler) HandleMark(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(duration)
	}()

	sessionID := r.PathValue("session_id")
	if sessionID == "" {
		logger.Error.Printf("Failed to extract session id from path: %s", r.URL.Path)
		status = http.StatusBadRequest
		writeError(w, status, "validation_error", "Invalid session id")
		return
	}

	var req models.MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, "validation_error", "Invalid request body")
		return
	}
	req.SessionID = sessionID

	result, err := h.service.Marker.Mark(req, clientIP(r), r.UserAgent())
	if err != nil {
		status = h.rejectionStatus(err)
		h.writeRejection(w, status, err)
		return
	}

	markStatus := "on_time"
	if result.Record.IsLate {
		markStatus = "late"
	}
	metrics.MarksTotal.WithLabelValues(result.Session.CourseCode, markStatus).Inc()

	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"message": "Attendance marked successfully",
		"data": map[string]interface{}{
			"id": result.Record.ID,
			"session": map[string]interface{}{
				"title":        result.Session.Title,
				"course_code":  result.Session.CourseCode,
				"session_date": result.Session.SessionDate,
			},
			"marked_at":       time.Unix(result.Record.MarkedAt, 0).UTC().Format(time.RFC3339),
			"is_late":         result.Record.IsLate,
			"late_by_minutes": result.Record.LateByMinutes,
			"status":          result.Status,
		},
	})
}

func (h *AttendanceHandler) rejectionStatus(err error) int {
	var vErr *attendance.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, attendance.ErrSessionNotFound),
		errors.Is(err, attendance.ErrSessionInactive):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeRejection maps marker errors to the stable error codes. Distinct codes
// for not-found vs inactive share the 404 status.
func (h *AttendanceHandler) writeRejection(w http.ResponseWriter, status int, err error) {
	var vErr *attendance.ValidationError
	switch {
	case errors.As(err, &vErr):
		metrics.MarkRejectionsTotal.WithLabelValues("validation").Inc()
		writeError(w, status, "validation_error", vErr.Reason)
	case errors.Is(err, attendance.ErrSessionNotFound):
		metrics.MarkRejectionsTotal.WithLabelValues("not_found").Inc()
		writeError(w, status, "session_not_found", "Session not found")
	case errors.Is(err, attendance.ErrSessionInactive):
		metrics.MarkRejectionsTotal.WithLabelValues("inactive").Inc()
		writeError(w, status, "session_inactive", "This attendance session is no longer active")
	case errors.Is(err, attendance.ErrDuplicate):
		metrics.MarkRejectionsTotal.WithLabelValues("duplicate").Inc()
		writeError(w, status, "duplicate_attendance", "You have already marked attendance for this session")
	default:
		logger.Error.Printf("Mark attendance failed: %v", err)
		metrics.MarkRejectionsTotal.WithLabelValues("storage").Inc()
		writeError(w, status, "internal_error", "Failed to mark attendance. Please try again.")
	}
}
