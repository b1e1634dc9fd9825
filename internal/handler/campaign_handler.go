// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/minicrm-backend/internal/service"
)

// CampaignHandler holds the dependencies for campaign-related HTTP handlers
type CampaignHandler struct {
	Service *service.CampaignService
}

// CreateCampaignHandler creates a DRAFT campaign bound to a segment.
func (h *CampaignHandler) CreateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SegmentID int    `json:"segment_id"`
		Name      string `json:"name"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	campaign, err := h.Service.CreateCampaign(payload.SegmentID, payload.Name, payload.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

// LaunchCampaignHandler dispatches the campaign to its full audience.
// The response carries the final counters; delivery receipts keep
// updating the campaign afterwards.
func (h *CampaignHandler) LaunchCampaignHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := h.Service.LaunchCampaign(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// GetCampaignHandler returns a campaign with its per-status log counts
func (h *CampaignHandler) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	details, err := h.Service.GetCampaignDetails(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// ListCampaignsHandler returns a paginated list of campaigns
func (h *CampaignHandler) ListCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	campaigns, pagination, err := h.Service.ListCampaigns(page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}
