// internal/handler/segment_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/service"
)

// SegmentHandler holds the dependencies for segment-related HTTP handlers
type SegmentHandler struct {
	Service *service.SegmentService
}

// CreateSegmentHandler compiles the rule list, snapshots the audience
// size and persists the segment.
func (h *SegmentHandler) CreateSegmentHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  string       `json:"name"`
		Rules []model.Rule `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	seg, err := h.Service.CreateSegment(payload.Name, payload.Rules)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seg)
}

// PreviewSegmentHandler evaluates an ad-hoc rule list without saving
// anything. With ?materialize=N it also returns up to N members.
func (h *SegmentHandler) PreviewSegmentHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Rules []model.Rule `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	size, err := h.Service.PreviewAudience(payload.Rules)
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]interface{}{"audience_size": size}

	if limitStr := r.URL.Query().Get("materialize"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			http.Error(w, "invalid materialize limit", http.StatusBadRequest)
			return
		}
		members, err := h.Service.MaterializeAudience(payload.Rules, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		response["members"] = members
	}

	writeJSON(w, http.StatusOK, response)
}

// GetSegmentHandler returns a single segment by ID
func (h *SegmentHandler) GetSegmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid segment id", http.StatusBadRequest)
		return
	}

	seg, err := h.Service.GetSegment(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seg)
}

// ListSegmentsHandler returns a paginated list of segments
func (h *SegmentHandler) ListSegmentsHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	segments, pagination, err := h.Service.ListSegments(page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       segments,
		"pagination": pagination,
	})
}
