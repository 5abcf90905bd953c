package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/app"
	"github.com/shrimpsizemoose/lagkaka/internal/fault"
	"github.com/shrimpsizemoose/lagkaka/internal/models"
	"github.com/shrimpsizemoose/lagkaka/internal/scoring"
)

type EvaluationHandler struct {
	service *app.Service
}

func NewEvaluationHandler(service *app.Service) *EvaluationHandler {
	return &EvaluationHandler{service: service}
}

// HandleSubmitEvaluation replaces the acting evaluator's scoring of a
// submission. Resubmitting fully supersedes the previous score set.
func (h *EvaluationHandler) HandleSubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe(r, start, status) }()

	claims, err := h.service.Auth.ClaimsFromRequest(r)
	if err != nil {
		logger.Error.Printf("Auth failed: %v", err)
		status = http.StatusUnauthorized
		http.Error(w, "Unauthorized", status)
		return
	}

	submissionID, ok := pathID(r, "id")
	if !ok {
		status = http.StatusBadRequest
		http.Error(w, "Invalid submission id", status)
		return
	}

	var req models.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		writeFault(w, fault.Validation(scoring.CodeInvalidScoreSet, "invalid request body"))
		return
	}

	eval, err := h.service.Scoring.Submit(r.Context(), claims.Subject, submissionID, &req)
	if err != nil {
		status = fault.HTTPStatus(err)
		writeFault(w, err)
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"id":    eval.ID,
		"total": eval.Total,
	})
}

func (h *EvaluationHandler) HandleListEvaluations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe(r, start, status) }()

	submissionID, ok := pathID(r, "id")
	if !ok {
		status = http.StatusBadRequest
		http.Error(w, "Invalid submission id", status)
		return
	}

	evals, err := h.service.Store.ListEvaluations(r.Context(), submissionID)
	if err != nil {
		logger.Error.Printf("Failed to list evaluations for submission %d: %v", submissionID, err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to fetch evaluations", status)
		return
	}

	type evaluationWithScores struct {
		models.Evaluation
		Scores []models.EvaluationScore `json:"scores"`
	}

	rows := make([]evaluationWithScores, 0, len(evals))
	for _, ev := range evals {
		scores, err := h.service.Store.ListEvaluationScores(r.Context(), ev.ID)
		if err != nil {
			logger.Error.Printf("Failed to list scores for evaluation %d: %v", ev.ID, err)
			status = http.StatusInternalServerError
			http.Error(w, "Failed to fetch evaluation scores", status)
			return
		}
		rows = append(rows, evaluationWithScores{Evaluation: ev, Scores: scores})
	}

	writeJSON(w, status, map[string]interface{}{
		"evaluations": rows,
	})
}
