package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/najdeno/najdeno/internal/match"
	"github.com/najdeno/najdeno/internal/metrics"
	"github.com/najdeno/najdeno/internal/model"
	"github.com/najdeno/najdeno/internal/store"
)

// MatchesHandler handles recommendation and match lifecycle endpoints.
type MatchesHandler struct {
	DB        *sql.DB
	Engine    *match.Engine
	Lifecycle match.Lifecycle
}

type createMatchRequest struct {
	LostItemID  int64 `json:"lost_item_id"`
	FoundItemID int64 `json:"found_item_id"`
	Score       int   `json:"score"`
}

type rejectMatchRequest struct {
	Reason string `json:"reason"`
}

type pageResponse struct {
	Items    []model.MatchCandidate `json:"items"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// pageParams reads 1-indexed pagination from the query string. Defaults are
// applied downstream.
func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}

func respondPage(w http.ResponseWriter, p match.Page, page, pageSize int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = match.DefaultPageSize
	}
	if p.Items == nil {
		p.Items = []model.MatchCandidate{}
	}
	jsonResponse(w, http.StatusOK, pageResponse{
		Items:    p.Items,
		Total:    p.Total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Recommended handles GET /api/matches/recommended. Scores approved
// opposite-kind reports against the caller's open reports.
func (h *MatchesHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	page, pageSize := pageParams(r)

	result, err := h.Engine.RecommendForUser(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		slog.Error("failed to compute recommendations", "error", err, "user", claims.UserID)
		jsonError(w, http.StatusInternalServerError, "failed to compute recommendations")
		return
	}

	respondPage(w, result, page, pageSize)
}

// Create handles POST /api/matches (moderator+), promoting a scored pairing
// to a pending match.
func (h *MatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	m, err := store.CreateMatch(r.Context(), h.DB, req.LostItemID, req.FoundItemID, req.Score, claims.UserID)
	if err != nil {
		storeError(w, err, "failed to create match")
		return
	}

	metrics.MatchTransitions.WithLabelValues("created").Inc()
	slog.Info("match created", "user", claims.Username, "match", m.ID,
		"lost", m.LostItemID, "found", m.FoundItemID, "score", m.Score)
	jsonResponse(w, http.StatusCreated, m)
}

// Confirm handles POST /api/matches/{id}/confirm (moderator+). On success
// the paired reports advance to recovered and claimed.
func (h *MatchesHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	claims := GetClaims(r.Context())
	m, err := store.ConfirmMatch(r.Context(), h.DB, id, claims.UserID)
	if err != nil {
		storeError(w, err, "failed to confirm match")
		return
	}

	if err := h.Lifecycle.MatchConfirmed(r.Context(), m.LostItemID, m.FoundItemID); err != nil {
		// The match itself is confirmed; the reports need manual attention.
		slog.Error("failed to advance matched reports", "error", err, "match", m.ID)
	}

	metrics.MatchTransitions.WithLabelValues("confirmed").Inc()
	slog.Info("match confirmed", "user", claims.Username, "match", m.ID)
	jsonResponse(w, http.StatusOK, m)
}

// Reject handles POST /api/matches/{id}/reject (moderator+). The paired
// reports stay available for other matches.
func (h *MatchesHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	var req rejectMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	m, err := store.RejectMatch(r.Context(), h.DB, id, claims.UserID, req.Reason)
	if err != nil {
		storeError(w, err, "failed to reject match")
		return
	}

	metrics.MatchTransitions.WithLabelValues("rejected").Inc()
	slog.Info("match rejected", "user", claims.Username, "match", m.ID, "reason", req.Reason)
	jsonResponse(w, http.StatusOK, m)
}

// Get handles GET /api/matches/{id} (moderator+).
func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	m, err := store.GetMatch(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get match", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get match")
		return
	}
	if m == nil {
		jsonError(w, http.StatusNotFound, "match not found")
		return
	}

	jsonResponse(w, http.StatusOK, m)
}

// List handles GET /api/matches (moderator+), paging through match history.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lostID, _ := strconv.ParseInt(q.Get("lost_item_id"), 10, 64)
	foundID, _ := strconv.ParseInt(q.Get("found_item_id"), 10, 64)
	filter := store.MatchFilter{
		Status:      q.Get("status"),
		LostItemID:  lostID,
		FoundItemID: foundID,
	}
	page, pageSize := pageParams(r)

	matches, total, err := store.ListMatches(r.Context(), h.DB, filter, page, pageSize)
	if err != nil {
		slog.Error("failed to list matches", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list matches")
		return
	}
	if matches == nil {
		matches = []model.Match{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"matches": matches,
		"total":   total,
	})
}
