package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/app"
	"github.com/shrimpsizemoose/lagkaka/internal/models"
)

type SubmissionHandler struct {
	service *app.Service
}

func NewSubmissionHandler(service *app.Service) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// HandleUpsertSubmission saves a team's submission with replace
// semantics: create-if-absent, else full overwrite, no history.
func (h *SubmissionHandler) HandleUpsertSubmission(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe(r, start, status) }()

	teamID, ok := pathID(r, "id")
	if !ok {
		status = http.StatusBadRequest
		http.Error(w, "Invalid team id", status)
		return
	}

	if _, err := h.service.Store.GetTeam(r.Context(), teamID); err != nil {
		status = http.StatusNotFound
		http.Error(w, "Team not found", status)
		return
	}

	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}
	sub.TeamID = teamID

	if err := sub.Validate(); err != nil {
		status = http.StatusUnprocessableEntity
		http.Error(w, err.Error(), status)
		return
	}

	if err := h.service.Store.UpsertSubmission(r.Context(), &sub); err != nil {
		logger.Error.Printf("Failed to save submission for team %d: %v", teamID, err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to save submission", status)
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"id": sub.ID,
	})
}

func (h *SubmissionHandler) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe(r, start, status) }()

	teamID, ok := pathID(r, "id")
	if !ok {
		status = http.StatusBadRequest
		http.Error(w, "Invalid team id", status)
		return
	}

	sub, err := h.service.Store.GetTeamSubmission(r.Context(), teamID)
	if err != nil {
		status = http.StatusNotFound
		http.Error(w, "Submission not found", status)
		return
	}

	writeJSON(w, status, sub)
}
