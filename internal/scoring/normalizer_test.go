package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shrimpsizemoose/lagkaka/internal/models"
)

func TestNormalize(t *testing.T) {
	criteria := []models.EvaluationCriterion{
		{ID: 1, Name: "Innovation", Weight: 60},
		{ID: 2, Name: "Execution", Weight: 40},
	}

	testCases := []struct {
		name     string
		criteria []models.EvaluationCriterion
		scores   []models.ScoreInput
		expected float64
	}{
		{
			name:     "weights summing to 100 pass through",
			criteria: criteria,
			scores: []models.ScoreInput{
				{CriterionID: 1, Score: 80},
				{CriterionID: 2, Score: 70},
			},
			expected: 76, // 80*0.6 + 70*0.4
		},
		{
			name:     "full marks give 100",
			criteria: criteria,
			scores: []models.ScoreInput{
				{CriterionID: 1, Score: 100},
				{CriterionID: 2, Score: 100},
			},
			expected: 100,
		},
		{
			name: "weights summing to 50 renormalize to double",
			criteria: []models.EvaluationCriterion{
				{ID: 1, Weight: 30},
				{ID: 2, Weight: 20},
			},
			scores: []models.ScoreInput{
				{CriterionID: 1, Score: 80},
				{CriterionID: 2, Score: 70},
			},
			expected: 2 * (80*0.3 + 70*0.2),
		},
		{
			name:     "unknown criterion ids are ignored",
			criteria: criteria,
			scores: []models.ScoreInput{
				{CriterionID: 1, Score: 80},
				{CriterionID: 99, Score: 100},
				{CriterionID: 2, Score: 70},
			},
			expected: 76,
		},
		{
			name: "partial score set renormalizes over matched weights",
			criteria: criteria,
			scores: []models.ScoreInput{
				{CriterionID: 1, Score: 90},
			},
			expected: 90, // 90*0.6 rescaled by 100/60
		},
		{
			name:     "empty score set",
			criteria: criteria,
			scores:   nil,
			expected: 0,
		},
		{
			name: "all-zero weights stay unnormalized",
			criteria: []models.EvaluationCriterion{
				{ID: 1, Weight: 0},
				{ID: 2, Weight: 0},
			},
			scores: []models.ScoreInput{
				{CriterionID: 1, Score: 80},
				{CriterionID: 2, Score: 70},
			},
			expected: 0,
		},
		{
			name:     "no criteria at all",
			criteria: nil,
			scores: []models.ScoreInput{
				{CriterionID: 1, Score: 80},
			},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Normalize(tc.criteria, tc.scores), 1e-9)
		})
	}
}
