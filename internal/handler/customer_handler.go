// internal/handler/customer_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/repository"
)

// CustomerHandler holds the dependencies for customer-related HTTP handlers
type CustomerHandler struct {
	Repo repository.CustomerRepositoryInterface
}

// ListCustomersHandler returns a paginated list of customers
func (h *CustomerHandler) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	customers, total, err := h.Repo.List((page-1)*pageSize, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": customers,
		"pagination": map[string]int{
			"page":        page,
			"page_size":   pageSize,
			"total_count": total,
			"total_pages": totalPages,
		},
	})
}

// GetCustomerHandler returns a single customer by ID
func (h *CustomerHandler) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	customer, err := h.Repo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if customer == nil {
		writeError(w, appErrors.NewCustomerNotFound(id))
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// CreateCustomerHandler inserts a new customer record
func (h *CustomerHandler) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var payload model.Customer
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Email == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Create(&payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}
