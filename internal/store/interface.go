package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/lagkaka/internal/models"
)

type Store interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateTeamAggregate(ctx context.Context, agg *models.TeamAggregate) error
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	GetTeamByName(ctx context.Context, name string) (*models.Team, error)
	ListRoster(ctx context.Context, teamID int64) ([]models.RosterMember, error)
	GetLeaderIdentity(ctx context.Context, teamID int64) (*models.LeaderIdentity, error)
	GetLeaderIdentityByEmail(ctx context.Context, email string) (*models.LeaderIdentity, error)
	DeleteTeam(ctx context.Context, id int64) error

	UpsertSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmission(ctx context.Context, id int64) (*models.Submission, error)
	GetTeamSubmission(ctx context.Context, teamID int64) (*models.Submission, error)

	CreateCriterion(ctx context.Context, criterion *models.EvaluationCriterion) error
	UpdateCriterion(ctx context.Context, criterion *models.EvaluationCriterion) error
	ListCriteria(ctx context.Context) ([]models.EvaluationCriterion, error)

	SaveEvaluation(ctx context.Context, eval *models.Evaluation, scores []models.EvaluationScore) error
	ListEvaluations(ctx context.Context, submissionID int64) ([]models.Evaluation, error)
	ListEvaluationScores(ctx context.Context, evaluationID int64) ([]models.EvaluationScore, error)
}

// BaseStore provides common functionality for different DB implementations.
// Dialects plug in the placeholder Converter, an insert-returning-id
// strategy, and driver error classification.
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
	InsertID  func(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) (int64, error)
	Classify  func(error) ErrorKind
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	var team models.Team
	query := s.Converter(`
		SELECT id, name, theme, created_at
		FROM teams
		WHERE id = ?
	`)
	if err := s.DB.GetContext(ctx, &team, query, id); err != nil {
		return nil, s.wrapErr("get team", err)
	}
	return &team, nil
}

func (s *BaseStore) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	var team models.Team
	query := s.Converter(`
		SELECT id, name, theme, created_at
		FROM teams
		WHERE name = ?
	`)
	if err := s.DB.GetContext(ctx, &team, query, name); err != nil {
		return nil, s.wrapErr("get team by name", err)
	}
	return &team, nil
}

func (s *BaseStore) ListRoster(ctx context.Context, teamID int64) ([]models.RosterMember, error) {
	var members []models.RosterMember
	query := s.Converter(`
		SELECT id, team_id, slot, full_name, email, gender, role,
		       ieee_member, ieee_number, school_standard, artifact_url
		FROM roster_members
		WHERE team_id = ?
		ORDER BY slot ASC
	`)
	if err := s.DB.SelectContext(ctx, &members, query, teamID); err != nil {
		return nil, s.wrapErr("list roster", err)
	}
	return members, nil
}

func (s *BaseStore) GetLeaderIdentity(ctx context.Context, teamID int64) (*models.LeaderIdentity, error) {
	var identity models.LeaderIdentity
	query := s.Converter(`
		SELECT id, team_id, member_id, email, password_hash, role
		FROM leader_identities
		WHERE team_id = ?
	`)
	if err := s.DB.GetContext(ctx, &identity, query, teamID); err != nil {
		return nil, s.wrapErr("get leader identity", err)
	}
	return &identity, nil
}

func (s *BaseStore) GetLeaderIdentityByEmail(ctx context.Context, email string) (*models.LeaderIdentity, error) {
	var identity models.LeaderIdentity
	query := s.Converter(`
		SELECT id, team_id, member_id, email, password_hash, role
		FROM leader_identities
		WHERE email = ?
	`)
	if err := s.DB.GetContext(ctx, &identity, query, email); err != nil {
		return nil, s.wrapErr("get leader identity by email", err)
	}
	return &identity, nil
}

// DeleteTeam removes a team; roster, mentor, representative, submission
// and evaluations go with it via ON DELETE CASCADE.
func (s *BaseStore) DeleteTeam(ctx context.Context, id int64) error {
	query := s.Converter(`DELETE FROM teams WHERE id = ?`)
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return s.wrapErr("delete team", err)
	}
	return nil
}

// UpsertSubmission is a full-field replace: create-if-absent, else
// overwrite. No history is kept.
func (s *BaseStore) UpsertSubmission(ctx context.Context, sub *models.Submission) error {
	sub.UpdatedAt = time.Now().Unix()
	_, err := s.DB.NamedExecContext(ctx, `
		INSERT INTO submissions (team_id, title, repo_url, demo_url, description, updated_at)
		VALUES (:team_id, :title, :repo_url, :demo_url, :description, :updated_at)
		ON CONFLICT(team_id) DO UPDATE SET
		title = :title,
		repo_url = :repo_url,
		demo_url = :demo_url,
		description = :description,
		updated_at = :updated_at
	`, sub)
	if err != nil {
		return s.wrapErr("upsert submission", err)
	}

	query := s.Converter(`SELECT id FROM submissions WHERE team_id = ?`)
	if err := s.DB.GetContext(ctx, &sub.ID, query, sub.TeamID); err != nil {
		return s.wrapErr("upsert submission", err)
	}
	return nil
}

func (s *BaseStore) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	var sub models.Submission
	query := s.Converter(`
		SELECT id, team_id, title, repo_url, demo_url, description, updated_at
		FROM submissions
		WHERE id = ?
	`)
	if err := s.DB.GetContext(ctx, &sub, query, id); err != nil {
		return nil, s.wrapErr("get submission", err)
	}
	return &sub, nil
}

func (s *BaseStore) GetTeamSubmission(ctx context.Context, teamID int64) (*models.Submission, error) {
	var sub models.Submission
	query := s.Converter(`
		SELECT id, team_id, title, repo_url, demo_url, description, updated_at
		FROM submissions
		WHERE team_id = ?
	`)
	if err := s.DB.GetContext(ctx, &sub, query, teamID); err != nil {
		return nil, s.wrapErr("get team submission", err)
	}
	return &sub, nil
}

func (s *BaseStore) CreateCriterion(ctx context.Context, criterion *models.EvaluationCriterion) error {
	query := s.Converter(`
		INSERT INTO evaluation_criteria (name, weight, description)
		VALUES (?, ?, ?)
	`)
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return s.wrapErr("create criterion", err)
	}
	id, err := s.InsertID(ctx, tx, query, criterion.Name, criterion.Weight, criterion.Description)
	if err != nil {
		tx.Rollback()
		return s.wrapErr("create criterion", err)
	}
	if err := tx.Commit(); err != nil {
		return s.wrapErr("create criterion", err)
	}
	criterion.ID = id
	return nil
}

func (s *BaseStore) UpdateCriterion(ctx context.Context, criterion *models.EvaluationCriterion) error {
	query := s.Converter(`
		UPDATE evaluation_criteria
		SET name = ?, weight = ?, description = ?
		WHERE id = ?
	`)
	res, err := s.DB.ExecContext(ctx, query, criterion.Name, criterion.Weight, criterion.Description, criterion.ID)
	if err != nil {
		return s.wrapErr("update criterion", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Kind: KindNotFound, Op: "update criterion", Err: fmt.Errorf("criterion %d does not exist", criterion.ID)}
	}
	return nil
}

func (s *BaseStore) ListCriteria(ctx context.Context) ([]models.EvaluationCriterion, error) {
	var criteria []models.EvaluationCriterion
	err := s.DB.SelectContext(ctx, &criteria, `
		SELECT id, name, weight, description
		FROM evaluation_criteria
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, s.wrapErr("list criteria", err)
	}
	return criteria, nil
}

func (s *BaseStore) ListEvaluations(ctx context.Context, submissionID int64) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	query := s.Converter(`
		SELECT id, submission_id, evaluator, total, comments, updated_at
		FROM evaluations
		WHERE submission_id = ?
		ORDER BY evaluator ASC
	`)
	if err := s.DB.SelectContext(ctx, &evals, query, submissionID); err != nil {
		return nil, s.wrapErr("list evaluations", err)
	}
	return evals, nil
}

func (s *BaseStore) ListEvaluationScores(ctx context.Context, evaluationID int64) ([]models.EvaluationScore, error) {
	var scores []models.EvaluationScore
	query := s.Converter(`
		SELECT id, evaluation_id, criterion_id, score
		FROM evaluation_scores
		WHERE evaluation_id = ?
		ORDER BY criterion_id ASC
	`)
	if err := s.DB.SelectContext(ctx, &scores, query, evaluationID); err != nil {
		return nil, s.wrapErr("list evaluation scores", err)
	}
	return scores, nil
}
