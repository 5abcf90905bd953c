package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/lagkaka/internal/fault"
	"github.com/shrimpsizemoose/lagkaka/internal/models"
	"github.com/shrimpsizemoose/lagkaka/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Close() error                    { return nil }
func (m *MockStore) ApplyMigrations(dir string) error { return nil }

func (m *MockStore) CreateTeamAggregate(ctx context.Context, agg *models.TeamAggregate) error {
	return nil
}

func (m *MockStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	return nil, nil
}

func (m *MockStore) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	return nil, nil
}

func (m *MockStore) ListRoster(ctx context.Context, teamID int64) ([]models.RosterMember, error) {
	return nil, nil
}

func (m *MockStore) GetLeaderIdentity(ctx context.Context, teamID int64) (*models.LeaderIdentity, error) {
	return nil, nil
}

func (m *MockStore) GetLeaderIdentityByEmail(ctx context.Context, email string) (*models.LeaderIdentity, error) {
	return nil, nil
}

func (m *MockStore) DeleteTeam(ctx context.Context, id int64) error { return nil }

func (m *MockStore) UpsertSubmission(ctx context.Context, sub *models.Submission) error {
	return nil
}

func (m *MockStore) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockStore) GetTeamSubmission(ctx context.Context, teamID int64) (*models.Submission, error) {
	return nil, nil
}

func (m *MockStore) CreateCriterion(ctx context.Context, criterion *models.EvaluationCriterion) error {
	return nil
}

func (m *MockStore) UpdateCriterion(ctx context.Context, criterion *models.EvaluationCriterion) error {
	return nil
}

func (m *MockStore) ListCriteria(ctx context.Context) ([]models.EvaluationCriterion, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EvaluationCriterion), args.Error(1)
}

func (m *MockStore) SaveEvaluation(ctx context.Context, eval *models.Evaluation, scores []models.EvaluationScore) error {
	args := m.Called(eval, scores)
	return args.Error(0)
}

func (m *MockStore) ListEvaluations(ctx context.Context, submissionID int64) ([]models.Evaluation, error) {
	return nil, nil
}

func (m *MockStore) ListEvaluationScores(ctx context.Context, evaluationID int64) ([]models.EvaluationScore, error) {
	return nil, nil
}

func TestCoordinator_Submit(t *testing.T) {
	ctx := context.Background()
	criteria := []models.EvaluationCriterion{
		{ID: 1, Name: "Innovation", Weight: 60},
		{ID: 2, Name: "Execution", Weight: 40},
	}

	t.Run("computes total and persists matched scores", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetSubmission", int64(7)).Return(&models.Submission{ID: 7}, nil).Once()
		st.On("ListCriteria").Return(criteria, nil).Once()
		st.On("SaveEvaluation",
			mock.MatchedBy(func(eval *models.Evaluation) bool {
				return eval.SubmissionID == 7 &&
					eval.Evaluator == "judge-1" &&
					eval.Total == 76
			}),
			mock.MatchedBy(func(scores []models.EvaluationScore) bool {
				return len(scores) == 2
			}),
		).Return(nil).Once()

		c := NewCoordinator(st, nil)
		eval, err := c.Submit(ctx, "judge-1", 7, &models.EvaluationRequest{
			Scores: []models.ScoreInput{
				{CriterionID: 1, Score: 80},
				{CriterionID: 2, Score: 70},
			},
			Comments: "solid",
		})
		require.NoError(t, err)
		assert.Equal(t, float64(76), eval.Total)
		st.AssertExpectations(t)
	})

	t.Run("drops pairs for retired criteria", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetSubmission", int64(7)).Return(&models.Submission{ID: 7}, nil).Once()
		st.On("ListCriteria").Return(criteria, nil).Once()
		st.On("SaveEvaluation",
			mock.Anything,
			mock.MatchedBy(func(scores []models.EvaluationScore) bool {
				return len(scores) == 1 && scores[0].CriterionID == 1
			}),
		).Return(nil).Once()

		c := NewCoordinator(st, nil)
		_, err := c.Submit(ctx, "judge-1", 7, &models.EvaluationRequest{
			Scores: []models.ScoreInput{
				{CriterionID: 1, Score: 80},
				{CriterionID: 42, Score: 90},
			},
		})
		require.NoError(t, err)
		st.AssertExpectations(t)
	})

	t.Run("unknown submission is a validation fault", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetSubmission", int64(404)).
			Return(nil, &store.Error{Kind: store.KindNotFound, Op: "get submission"}).Once()

		c := NewCoordinator(st, nil)
		_, err := c.Submit(ctx, "judge-1", 404, &models.EvaluationRequest{
			Scores: []models.ScoreInput{{CriterionID: 1, Score: 50}},
		})
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, CodeSubmissionNotFound, fe.Code)
		assert.Equal(t, fault.ClassValidation, fe.Class)
	})

	t.Run("empty score set rejected before any store call", func(t *testing.T) {
		st := new(MockStore)
		c := NewCoordinator(st, nil)
		_, err := c.Submit(ctx, "judge-1", 7, &models.EvaluationRequest{})
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidScoreSet, fe.Code)
		st.AssertExpectations(t)
	})

	t.Run("store failure surfaces as transient", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetSubmission", int64(7)).Return(&models.Submission{ID: 7}, nil).Once()
		st.On("ListCriteria").Return(criteria, nil).Once()
		st.On("SaveEvaluation", mock.Anything, mock.Anything).
			Return(&store.Error{Kind: store.KindTimeout, Op: "save evaluation"}).Once()

		c := NewCoordinator(st, nil)
		_, err := c.Submit(ctx, "judge-1", 7, &models.EvaluationRequest{
			Scores: []models.ScoreInput{{CriterionID: 1, Score: 50}},
		})
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, fault.ClassTransient, fe.Class)
	})
}
