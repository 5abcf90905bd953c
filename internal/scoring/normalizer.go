// internal/scoring/normalizer.go
package scoring

import (
	"github.com/shrimpsizemoose/lagkaka/internal/models"
)

// Normalize computes the reconciled total for a submitted score set
// against the current criterion weight table. Pairs referencing a
// criterion that no longer exists are silently ignored. When the
// matched weights do not sum to 0 or 100 the weighted sum is rescaled
// to a 100-point scale.
func Normalize(criteria []models.EvaluationCriterion, scores []models.ScoreInput) float64 {
	weights := make(map[int64]int, len(criteria))
	for _, c := range criteria {
		weights[c.ID] = c.Weight
	}

	var weightedSum float64
	totalWeight := 0
	for _, s := range scores {
		w, ok := weights[s.CriterionID]
		if !ok {
			continue
		}
		weightedSum += s.Score * float64(w) / 100
		totalWeight += w
	}

	if totalWeight == 0 || totalWeight == 100 {
		return weightedSum
	}
	return weightedSum * 100 / float64(totalWeight)
}
