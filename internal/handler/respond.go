// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusForError(err))
}

// statusForError maps domain errors onto HTTP status codes. Anything
// unrecognized is a 500.
func statusForError(err error) int {
	var campaignNotFound *appErrors.ErrCampaignNotFound
	var segmentNotFound *appErrors.ErrSegmentNotFound
	var customerNotFound *appErrors.ErrCustomerNotFound
	var notLaunchable *appErrors.ErrCampaignNotLaunchable
	var invalidRule *appErrors.ErrInvalidRule

	switch {
	case errors.As(err, &campaignNotFound),
		errors.As(err, &segmentNotFound),
		errors.As(err, &customerNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrReceiptUnknownMessage):
		return http.StatusNotFound
	case errors.As(err, &notLaunchable):
		return http.StatusConflict
	case errors.As(err, &invalidRule):
		return http.StatusBadRequest
	case errors.Is(err, appErrors.ErrEmptyAudience):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
