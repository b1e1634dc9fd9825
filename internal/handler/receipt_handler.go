// internal/handler/receipt_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/service"
)

// ReceiptHandler accepts vendor delivery receipts over HTTP. It is the
// webhook-shaped twin of the queue subscriber; both feed the same
// ingestion path.
type ReceiptHandler struct {
	Service *service.ReceiptService
}

// IngestReceiptHandler applies one receipt. Duplicates are accepted and
// ignored so vendors can retry freely.
func (h *ReceiptHandler) IngestReceiptHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		VendorMessageID string     `json:"vendor_message_id"`
		Status          string     `json:"status"`
		DeliveredAt     *time.Time `json:"delivered_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.VendorMessageID == "" || payload.Status == "" {
		http.Error(w, "vendor_message_id and status are required", http.StatusBadRequest)
		return
	}

	deliveredAt := time.Now()
	if payload.DeliveredAt != nil {
		deliveredAt = *payload.DeliveredAt
	}

	err := h.Service.IngestReceipt(payload.VendorMessageID, model.LogStatus(payload.Status), deliveredAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}
