package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shrimpsizemoose/lagkaka/internal/models"
)

// CreateTeamAggregate persists a team together with its roster, mentor,
// representative and leader identity as one transaction. Either the
// whole aggregate exists afterwards, or none of it. A duplicate team
// name surfaces as KindUniqueViolation whether it is caught by the
// caller's pre-check or by the unique constraint losing the race.
func (s *BaseStore) CreateTeamAggregate(ctx context.Context, agg *models.TeamAggregate) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return s.wrapErr("create team aggregate", err)
	}
	defer tx.Rollback()

	agg.Team.CreatedAt = time.Now().Unix()
	teamID, err := s.InsertID(ctx, tx, s.Converter(`
		INSERT INTO teams (name, theme, created_at)
		VALUES (?, ?, ?)
	`), agg.Team.Name, agg.Team.Theme, agg.Team.CreatedAt)
	if err != nil {
		return s.wrapErr("create team", err)
	}
	agg.Team.ID = teamID

	var leaderMemberID int64
	for i := range agg.Roster {
		member := &agg.Roster[i]
		member.TeamID = teamID
		memberID, err := s.InsertID(ctx, tx, s.Converter(`
			INSERT INTO roster_members
				(team_id, slot, full_name, email, gender, role,
				 ieee_member, ieee_number, school_standard, artifact_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`),
			teamID, member.Slot, member.FullName, member.Email,
			member.Gender, member.Role, member.IEEEMember,
			member.IEEENumber, member.SchoolStandard, member.ArtifactURL,
		)
		if err != nil {
			return s.wrapErr("create roster member", err)
		}
		member.ID = memberID
		if member.Role == models.RoleLeader {
			leaderMemberID = memberID
		}
	}

	agg.Mentor.TeamID = teamID
	mentorID, err := s.InsertID(ctx, tx, s.Converter(`
		INSERT INTO mentors (team_id, full_name, email, organization)
		VALUES (?, ?, ?, ?)
	`), teamID, agg.Mentor.FullName, agg.Mentor.Email, agg.Mentor.Organization)
	if err != nil {
		return s.wrapErr("create mentor", err)
	}
	agg.Mentor.ID = mentorID

	agg.Representative.TeamID = teamID
	repID, err := s.InsertID(ctx, tx, s.Converter(`
		INSERT INTO community_representatives (team_id, full_name, email, phone)
		VALUES (?, ?, ?, ?)
	`), teamID, agg.Representative.FullName, agg.Representative.Email, agg.Representative.Phone)
	if err != nil {
		return s.wrapErr("create representative", err)
	}
	agg.Representative.ID = repID

	agg.Leader.TeamID = teamID
	agg.Leader.MemberID = leaderMemberID
	identityID, err := s.InsertID(ctx, tx, s.Converter(`
		INSERT INTO leader_identities (team_id, member_id, email, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
	`), teamID, leaderMemberID, agg.Leader.Email, agg.Leader.PasswordHash, agg.Leader.Role)
	if err != nil {
		return s.wrapErr("create leader identity", err)
	}
	agg.Leader.ID = identityID

	if err := tx.Commit(); err != nil {
		return s.wrapErr("create team aggregate", err)
	}
	return nil
}

// SaveEvaluation persists one evaluator's scoring of one submission
// with replace semantics: the previous score rows are deleted and the
// submitted set inserted, all in one transaction. A concurrent
// first-time insert losing the (submission, evaluator) uniqueness race
// is retried once, landing on the update path.
func (s *BaseStore) SaveEvaluation(ctx context.Context, eval *models.Evaluation, scores []models.EvaluationScore) error {
	for attempt := 0; ; attempt++ {
		err := s.saveEvaluationTx(ctx, eval, scores)
		if err == nil {
			return nil
		}
		if IsUniqueViolation(err) && attempt == 0 {
			continue
		}
		return err
	}
}

func (s *BaseStore) saveEvaluationTx(ctx context.Context, eval *models.Evaluation, scores []models.EvaluationScore) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return s.wrapErr("save evaluation", err)
	}
	defer tx.Rollback()

	eval.UpdatedAt = time.Now().Unix()

	var evalID int64
	err = tx.GetContext(ctx, &evalID, s.Converter(`
		SELECT id FROM evaluations
		WHERE submission_id = ? AND evaluator = ?
	`), eval.SubmissionID, eval.Evaluator)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		evalID, err = s.InsertID(ctx, tx, s.Converter(`
			INSERT INTO evaluations (submission_id, evaluator, total, comments, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`), eval.SubmissionID, eval.Evaluator, eval.Total, eval.Comments, eval.UpdatedAt)
		if err != nil {
			return s.wrapErr("create evaluation", err)
		}
	case err != nil:
		return s.wrapErr("find evaluation", err)
	default:
		if _, err := tx.ExecContext(ctx, s.Converter(`
			DELETE FROM evaluation_scores WHERE evaluation_id = ?
		`), evalID); err != nil {
			return s.wrapErr("clear evaluation scores", err)
		}
		if _, err := tx.ExecContext(ctx, s.Converter(`
			UPDATE evaluations
			SET total = ?, comments = ?, updated_at = ?
			WHERE id = ?
		`), eval.Total, eval.Comments, eval.UpdatedAt, evalID); err != nil {
			return s.wrapErr("update evaluation", err)
		}
	}

	for i := range scores {
		scores[i].EvaluationID = evalID
		if _, err := tx.ExecContext(ctx, s.Converter(`
			INSERT INTO evaluation_scores (evaluation_id, criterion_id, score)
			VALUES (?, ?, ?)
		`), evalID, scores[i].CriterionID, scores[i].Score); err != nil {
			return s.wrapErr("create evaluation score", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.wrapErr("save evaluation", err)
	}
	eval.ID = evalID
	return nil
}
