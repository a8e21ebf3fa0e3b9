package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/najdeno/najdeno/internal/imaging"
	"github.com/najdeno/najdeno/internal/match"
	"github.com/najdeno/najdeno/internal/vision"
)

// SearchHandler handles free-text and photo-driven searches over approved
// reports.
type SearchHandler struct {
	Engine *match.Engine
	Vision vision.Describer
}

type descriptionSearchRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

// Description handles POST /api/search/description.
func (h *SearchHandler) Description(w http.ResponseWriter, r *http.Request) {
	var req descriptionSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Description == "" {
		jsonError(w, http.StatusBadRequest, "description required")
		return
	}

	result, err := h.Engine.SearchByDescription(r.Context(), req.Description, req.Category, req.Page, req.PageSize)
	if err != nil {
		slog.Error("description search failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "search failed")
		return
	}

	respondPage(w, result, req.Page, req.PageSize)
}

// Image handles POST /api/search/image: the uploaded photo is normalized,
// described by the recognition provider, and the description drives the same
// search as a free-text query. The provider's category is used unless the
// client supplies one.
func (h *SearchHandler) Image(w http.ResponseWriter, r *http.Request) {
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

	desc, err := h.Vision.Describe(r.Context(), photo.Data, photo.MIME)
	if err != nil {
		var uerr *vision.UpstreamError
		if errors.As(err, &uerr) {
			slog.Error("image description provider unavailable", "error", err)
			jsonError(w, http.StatusBadGateway, "image recognition unavailable")
			return
		}
		slog.Error("describing photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "search failed")
		return
	}

	category := r.FormValue("category")
	if category == "" {
		category = desc.Category
	}
	page, _ := strconv.Atoi(r.FormValue("page"))
	pageSize, _ := strconv.Atoi(r.FormValue("page_size"))

	result, err := h.Engine.SearchByDescription(r.Context(), desc.Description, category, page, pageSize)
	if err != nil {
		slog.Error("image search failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "search failed")
		return
	}

	respondPage(w, result, page, pageSize)
}
