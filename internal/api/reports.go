package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/najdeno/najdeno/internal/imaging"
	"github.com/najdeno/najdeno/internal/model"
	"github.com/najdeno/najdeno/internal/store"
)

// ReportsHandler handles lost and found report endpoints.
type ReportsHandler struct {
	DB *sql.DB
}

type createReportRequest struct {
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	EventDate   string `json:"event_date"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type reviewReportRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/reports.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createReportRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var eventDate *time.Time
	if req.EventDate != "" {
		d, err := time.Parse("2006-01-02", req.EventDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "event_date must be YYYY-MM-DD")
			return
		}
		eventDate = &d
	}

	report, err := store.CreateReport(r.Context(), h.DB, claims.UserID,
		req.Kind, req.Category, req.Location, req.Name, req.Description, eventDate)
	if err != nil {
		storeError(w, err, "failed to create report")
		return
	}

	slog.Info("report created", "user", claims.Username, "report", report.ID, "kind", report.Kind)
	jsonResponse(w, http.StatusCreated, report)
}

// List handles GET /api/reports. Regular users see approved reports plus
// their own; moderators see everything the filter allows.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	q := r.URL.Query()

	filter := store.ReportFilter{
		Kind:     q.Get("kind"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}

	switch {
	case q.Get("mine") == "true":
		filter.UserID = claims.UserID
	case !model.RoleAtLeast(claims.Role, model.RoleModerator):
		filter.Status = model.ReportStatusApproved
	}

	reports, err := store.ListReports(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("failed to list reports", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}
	jsonResponse(w, http.StatusOK, reports)
}

// Get handles GET /api/reports/{id}.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, ok := h.visibleReport(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, report)
}

// Review handles PUT /api/reports/{id}/review (moderator+). Only the review
// outcomes are accepted here; claimed and recovered are set by match
// confirmation.
func (h *ReportsHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	var req reviewReportRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Status != model.ReportStatusApproved && req.Status != model.ReportStatusRejected {
		jsonError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	if err := store.UpdateReportStatus(r.Context(), h.DB, id, req.Status); err != nil {
		storeError(w, err, "failed to review report")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("report reviewed", "user", claims.Username, "report", id, "status", req.Status)

	report, _ := store.GetReport(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, report)
}

// Delete handles DELETE /api/reports/{id}. Owners can withdraw their own
// reports; moderators can remove any.
func (h *ReportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := store.GetReport(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get report", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get report")
		return
	}
	if report == nil || report.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "report not found")
		return
	}

	claims := GetClaims(r.Context())
	if report.UserID != claims.UserID && !model.RoleAtLeast(claims.Role, model.RoleModerator) {
		jsonError(w, http.StatusForbidden, "not your report")
		return
	}

	if err := store.DeleteReport(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete report", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	slog.Info("report deleted", "user", claims.Username, "report", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "report deleted"})
}

// UploadPhoto handles PUT /api/reports/{id}/photo. The photo is normalized
// before storage.
func (h *ReportsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := store.GetReport(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get report", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get report")
		return
	}
	if report == nil || report.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "report not found")
		return
	}

	claims := GetClaims(r.Context())
	if report.UserID != claims.UserID && !model.RoleAtLeast(claims.Role, model.RoleModerator) {
		jsonError(w, http.StatusForbidden, "not your report")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetReportPhoto(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		slog.Error("failed to save photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/reports/{id}/photo.
func (h *ReportsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	report, ok := h.visibleReport(w, r)
	if !ok {
		return
	}

	data, mime, err := store.GetReportPhoto(r.Context(), h.DB, report.ID)
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// visibleReport resolves {id} and enforces read visibility: soft-deleted
// reports are only visible to moderators, unreviewed ones only to their
// submitter and moderators.
func (h *ReportsHandler) visibleReport(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return nil, false
	}

	report, err := store.GetReport(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get report", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get report")
		return nil, false
	}

	claims := GetClaims(r.Context())
	moderator := claims != nil && model.RoleAtLeast(claims.Role, model.RoleModerator)
	if report == nil ||
		(report.DeletedAt != nil && !moderator) ||
		(report.Status == model.ReportStatusPending && !moderator && (claims == nil || report.UserID != claims.UserID)) {
		jsonError(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	return report, true
}
