package models

import (
	"github.com/go-playground/validator/v10"
)

type Submission struct {
	ID          int64  `db:"id" json:"id"`
	TeamID      int64  `db:"team_id" json:"team_id"`
	Title       string `db:"title" json:"title" validate:"required,max=200"`
	RepoURL     string `db:"repo_url" json:"repo_url" validate:"omitempty,url"`
	DemoURL     string `db:"demo_url" json:"demo_url" validate:"omitempty,url"`
	Description string `db:"description" json:"description"`
	UpdatedAt   int64  `db:"updated_at" json:"updated_at"`
}

// EvaluationCriterion is shared across all submissions and referenced,
// never owned, by evaluation score rows.
type EvaluationCriterion struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name" validate:"required,max=100"`
	Weight      int    `db:"weight" json:"weight" validate:"min=0,max=100"`
	Description string `db:"description" json:"description"`
}

// Evaluation holds one evaluator's reconciled total for one submission.
// At most one row exists per (submission, evaluator) pair.
type Evaluation struct {
	ID           int64   `db:"id" json:"id"`
	SubmissionID int64   `db:"submission_id" json:"submission_id"`
	Evaluator    string  `db:"evaluator" json:"evaluator"`
	Total        float64 `db:"total" json:"total"`
	Comments     string  `db:"comments" json:"comments"`
	UpdatedAt    int64   `db:"updated_at" json:"updated_at"`
}

type EvaluationScore struct {
	ID           int64   `db:"id" json:"id"`
	EvaluationID int64   `db:"evaluation_id" json:"evaluation_id"`
	CriterionID  int64   `db:"criterion_id" json:"criterion_id"`
	Score        float64 `db:"score" json:"score"`
}

type ScoreInput struct {
	CriterionID int64   `json:"criterion_id" validate:"required"`
	Score       float64 `json:"score" validate:"min=0,max=100"`
}

type EvaluationRequest struct {
	Scores   []ScoreInput `json:"scores" validate:"required,min=1,dive"`
	Comments string       `json:"comments"`
}

func (s *Submission) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

func (c *EvaluationCriterion) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func (r *EvaluationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
