package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/narvaro/internal/app"
	"github.com/shrimpsizemoose/narvaro/internal/metrics"
	"github.com/shrimpsizemoose/narvaro/internal/models"
	"github.com/shrimpsizemoose/narvaro/internal/qr"
	"github.com/shrimpsizemoose/narvaro/internal/report"
)

type SessionHandler struct {
	service *app.Service
}

func NewSessionHandler(service *app.Service) *SessionHandler {
	return &SessionHandler{
		service: service,
	}
}

type sessionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CourseCode  string `json:"course_code"`
	SessionDate string `json:"session_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	lecturer, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	now := time.Now().UTC()
	session := models.Session{
		ID:          uuid.NewString(),
		LecturerID:  lecturer,
		Title:       req.Title,
		Description: req.Description,
		CourseCode:  req.CourseCode,
		SessionDate: req.SessionDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		JoinCode:    uuid.NewString(),
		IsActive:    true,
		CreatedAt:   now.Unix(),
	}
	if err := session.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	profile := models.Lecturer{
		ID:        lecturer,
		Email:     r.Header.Get("X-Lecturer-Email"),
		Role:      "lecturer",
		CreatedAt: now.Unix(),
	}
	if err := h.service.Store.EnsureLecturer(profile); err != nil {
		logger.Error.Printf("Failed to ensure lecturer profile: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create session")
		return
	}

	if err := h.service.Store.CreateSession(&session); err != nil {
		logger.Error.Printf("Failed to create session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create session")
		return
	}

	metrics.SessionsCreatedTotal.WithLabelValues(session.CourseCode).Inc()

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":        true,
		"session":        session,
		"attendance_url": h.service.AttendanceURL(session.ID),
	})
}

func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	lecturer, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	sessions, err := h.service.Store.ListSessions(lecturer)
	if err != nil {
		logger.Error.Printf("Failed to list sessions: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch sessions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    sessions,
	})
}

// HandleGet serves two audiences: the owner gets full detail with records,
// everyone else gets the reduced public view and only while the session is
// active.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	lecturer := ""
	if r.Header.Get(h.service.Config.API.LecturerIDHeader) != "" {
		if id, err := h.service.AuthenticateLecturer(r); err == nil {
			lecturer = id
		}
	}

	if lecturer != session.LecturerID {
		if !session.IsActive {
			writeError(w, http.StatusNotFound, "session_not_found", "Session not found or inactive")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id":           session.ID,
				"title":        session.Title,
				"description":  session.Description,
				"course_code":  session.CourseCode,
				"session_date": session.SessionDate,
				"start_time":   session.StartTime,
				"end_time":     session.EndTime,
				"is_active":    session.IsActive,
			},
		})
		return
	}

	records, err := h.service.Store.ListRecords(session.ID)
	if err != nil {
		logger.Error.Printf("Failed to fetch records: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch attendance records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"session":            session,
			"attendance_records": records,
		},
	})
}

func (h *SessionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	lecturer, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if session.LecturerID != lecturer {
		writeError(w, http.StatusNotFound, "session_not_found", "Session not found or unauthorized")
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	session.Title = req.Title
	session.Description = req.Description
	session.CourseCode = req.CourseCode
	session.SessionDate = req.SessionDate
	session.StartTime = req.StartTime
	session.EndTime = req.EndTime
	if err := session.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.service.Store.UpdateSession(session); err != nil {
		logger.Error.Printf("Failed to update session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Session updated successfully",
		"session": session,
	})
}

// HandleToggle flips is_active, the owner-driven transition of the session
// state machine.
func (h *SessionHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	lecturer, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	updated, err := h.service.Store.SetSessionActive(r.PathValue("id"), lecturer, req.IsActive)
	if err != nil {
		logger.Error.Printf("Failed to toggle session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update session")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "session_not_found", "Session not found or unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Session updated successfully",
	})
}

func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	lecturer, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Store.DeleteSession(r.PathValue("id"), lecturer)
	if err != nil {
		logger.Error.Printf("Failed to delete session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete session")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "session_not_found", "Session not found or unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Session deleted successfully",
	})
}

// HandleQR returns the QR code for the session's attendance link, as a PNG
// data URL by default or raw PNG bytes with ?format=png.
func (h *SessionHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	lecturer, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if session.LecturerID != lecturer {
		writeError(w, http.StatusNotFound, "session_not_found", "Session not found or unauthorized")
		return
	}

	url := h.service.AttendanceURL(session.ID)

	if r.URL.Query().Get("format") == "png" {
		png, err := qr.EncodePNG(url, 400)
		if err != nil {
			logger.Error.Printf("Failed to render QR code: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate QR code")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
		return
	}

	dataURL, err := qr.EncodeDataURL(url, 400)
	if err != nil {
		logger.Error.Printf("Failed to render QR code: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate QR code")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"qr_code":        dataURL,
		"attendance_url": url,
		"session": map[string]interface{}{
			"id":           session.ID,
			"title":        session.Title,
			"course_code":  session.CourseCode,
			"session_date": session.SessionDate,
			"start_time":   session.StartTime,
			"end_time":     session.EndTime,
		},
	})
}

// HandleReport renders the session ledger as JSON, CSV or PDF depending on
// the format query parameter.
func (h *SessionHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	lecturer, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if session.LecturerID != lecturer {
		writeError(w, http.StatusNotFound, "session_not_found", "Session not found or unauthorized")
		return
	}

	records, err := h.service.Store.ListRecords(session.ID)
	if err != nil {
		logger.Error.Printf("Failed to fetch records: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch attendance records")
		return
	}
	stats, err := h.service.Store.GetSessionStats(session.ID)
	if err != nil {
		logger.Error.Printf("Failed to fetch stats: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch session stats")
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="attendance-%s-%s.csv"`, session.CourseCode, session.SessionDate))
		if err := report.WriteCSV(w, records); err != nil {
			logger.Error.Printf("Failed to write CSV report: %v", err)
		}
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="attendance-%s-%s.pdf"`, session.CourseCode, session.SessionDate))
		if err := report.WritePDF(w, session, records, stats); err != nil {
			logger.Error.Printf("Failed to write PDF report: %v", err)
		}
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"session": session,
				"stats":   stats,
				"records": records,
			},
		})
	}
}

func (h *SessionHandler) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.service.ValidateHeaders(r.Header) {
		writeError(w, http.StatusForbidden, "forbidden", "these are not the droids you are looking for")
		return "", false
	}

	lecturer, err := h.service.AuthenticateLecturer(r)
	if err != nil {
		logger.Error.Printf("Auth failed: %v", err)
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return "", false
	}
	return lecturer, true
}

func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		logger.Error.Printf("Failed to extract session id from path: %s", r.URL.Path)
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid session id")
		return nil, false
	}

	session, err := h.service.Store.GetSession(id)
	if err != nil {
		logger.Error.Printf("Failed to get session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch session")
		return nil, false
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "session_not_found", "Session not found")
		return nil, false
	}
	return session, true
}
