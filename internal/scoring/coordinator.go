package scoring

import (
	"context"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/fault"
	"github.com/shrimpsizemoose/lagkaka/internal/metrics"
	"github.com/shrimpsizemoose/lagkaka/internal/models"
	"github.com/shrimpsizemoose/lagkaka/internal/notify"
	"github.com/shrimpsizemoose/lagkaka/internal/store"
)

const (
	CodeInvalidScoreSet     = "INVALID_SCORE_SET"
	CodeSubmissionNotFound  = "SUBMISSION_NOT_FOUND"
	CodeScoringStoreFailure = "SCORING_STORE_FAILURE"
)

// Coordinator handles one evaluator scoring one submission with
// replace semantics: the latest call fully supersedes the previous
// evaluation, score rows included.
type Coordinator struct {
	store    store.Store
	notifier notify.Notifier
}

func NewCoordinator(s store.Store, n notify.Notifier) *Coordinator {
	if n == nil {
		n = notify.NopNotifier{}
	}
	return &Coordinator{store: s, notifier: n}
}

// Submit validates the score set, computes the normalized total and
// persists the evaluation atomically. Idempotent: calling it twice
// with the same input leaves exactly one evaluation with one score row
// per submitted pair.
func (c *Coordinator) Submit(ctx context.Context, evaluator string, submissionID int64, req *models.EvaluationRequest) (*models.Evaluation, error) {
	if err := req.Validate(); err != nil {
		return nil, fault.Validation(CodeInvalidScoreSet, err.Error())
	}

	if _, err := c.store.GetSubmission(ctx, submissionID); err != nil {
		if store.IsNotFound(err) {
			return nil, fault.Validation(CodeSubmissionNotFound, "no such submission")
		}
		return nil, fault.Transient(CodeScoringStoreFailure, err.Error())
	}

	criteria, err := c.store.ListCriteria(ctx)
	if err != nil {
		return nil, fault.Transient(CodeScoringStoreFailure, err.Error())
	}

	known := make(map[int64]bool, len(criteria))
	for _, criterion := range criteria {
		known[criterion.ID] = true
	}

	// Pairs against retired criteria contribute nothing to the total
	// and are not persisted either.
	var scores []models.EvaluationScore
	for _, s := range req.Scores {
		if !known[s.CriterionID] {
			logger.Debug.Printf("Ignoring score for unknown criterion %d", s.CriterionID)
			continue
		}
		scores = append(scores, models.EvaluationScore{
			CriterionID: s.CriterionID,
			Score:       s.Score,
		})
	}

	eval := &models.Evaluation{
		SubmissionID: submissionID,
		Evaluator:    evaluator,
		Total:        Normalize(criteria, req.Scores),
		Comments:     req.Comments,
		UpdatedAt:    time.Now().Unix(),
	}

	if err := c.store.SaveEvaluation(ctx, eval, scores); err != nil {
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		return nil, fault.Transient(CodeScoringStoreFailure, err.Error())
	}

	metrics.EvaluationsTotal.WithLabelValues("ok").Inc()
	metrics.EvaluationTotalHistogram.Observe(eval.Total)
	c.notifier.Publish(ctx, notify.EventEvaluationSaved, eval)

	return eval, nil
}
