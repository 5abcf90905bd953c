package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/app"
	"github.com/shrimpsizemoose/lagkaka/internal/models"
	"github.com/shrimpsizemoose/lagkaka/internal/store"
)

type CriteriaHandler struct {
	service *app.Service
}

func NewCriteriaHandler(service *app.Service) *CriteriaHandler {
	return &CriteriaHandler{service: service}
}

func (h *CriteriaHandler) HandleListCriteria(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe(r, start, status) }()

	criteria, err := h.service.Store.ListCriteria(r.Context())
	if err != nil {
		logger.Error.Printf("Failed to list criteria: %v", err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to fetch criteria", status)
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"criteria": criteria,
	})
}

func (h *CriteriaHandler) HandleCreateCriterion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusCreated
	defer func() { observe(r, start, status) }()

	if _, err := h.service.Auth.ClaimsFromRequest(r); err != nil {
		status = http.StatusUnauthorized
		http.Error(w, "Unauthorized", status)
		return
	}

	var criterion models.EvaluationCriterion
	if err := json.NewDecoder(r.Body).Decode(&criterion); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}
	if err := criterion.Validate(); err != nil {
		status = http.StatusUnprocessableEntity
		http.Error(w, err.Error(), status)
		return
	}

	if err := h.service.Store.CreateCriterion(r.Context(), &criterion); err != nil {
		logger.Error.Printf("Failed to create criterion: %v", err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to create criterion", status)
		return
	}

	writeJSON(w, status, criterion)
}

func (h *CriteriaHandler) HandleUpdateCriterion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe(r, start, status) }()

	if _, err := h.service.Auth.ClaimsFromRequest(r); err != nil {
		status = http.StatusUnauthorized
		http.Error(w, "Unauthorized", status)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		status = http.StatusBadRequest
		http.Error(w, "Invalid criterion id", status)
		return
	}

	var criterion models.EvaluationCriterion
	if err := json.NewDecoder(r.Body).Decode(&criterion); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}
	criterion.ID = id
	if err := criterion.Validate(); err != nil {
		status = http.StatusUnprocessableEntity
		http.Error(w, err.Error(), status)
		return
	}

	if err := h.service.Store.UpdateCriterion(r.Context(), &criterion); err != nil {
		if store.IsNotFound(err) {
			status = http.StatusNotFound
			http.Error(w, "Criterion not found", status)
			return
		}
		logger.Error.Printf("Failed to update criterion %d: %v", id, err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to update criterion", status)
		return
	}

	writeJSON(w, status, criterion)
}
