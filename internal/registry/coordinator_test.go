package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/lagkaka/internal/artifacts"
	"github.com/shrimpsizemoose/lagkaka/internal/eligibility"
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
	args := m.Called(agg)
	if args.Error(0) == nil {
		agg.Team.ID = 42
	}
	return args.Error(0)
}

func (m *MockStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	return nil, nil
}

func (m *MockStore) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
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
	return nil, nil
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
	return nil, nil
}

func (m *MockStore) SaveEvaluation(ctx context.Context, eval *models.Evaluation, scores []models.EvaluationScore) error {
	return nil
}

func (m *MockStore) ListEvaluations(ctx context.Context, submissionID int64) ([]models.Evaluation, error) {
	return nil, nil
}

func (m *MockStore) ListEvaluationScores(ctx context.Context, evaluationID int64) ([]models.EvaluationScore, error) {
	return nil, nil
}

type stubUploader struct {
	fail bool
}

func (u *stubUploader) Upload(ctx context.Context, key string, payload []byte) (string, error) {
	if u.fail {
		return "", errors.New("blob gateway down")
	}
	return "https://files.example.org/" + key, nil
}

func notFound() *store.Error {
	return &store.Error{Kind: store.KindNotFound, Op: "get team by name"}
}

func validRequest() *models.RegistrationRequest {
	return &models.RegistrationRequest{
		Name:  "Falcons",
		Theme: "sustainable mobility",
		Roster: []models.MemberInput{
			{FullName: "Asha Rao", Email: "asha@example.org", Gender: "female", Role: models.RoleLeader, IEEEMember: true, IEEENumber: "IEEE123"},
			{FullName: "Priya Nair", Email: "priya@example.org", Gender: "female", Role: models.RoleSchoolStudent, SchoolStandard: "8th"},
			{FullName: "Ravi Kumar", Email: "ravi@example.org", Gender: "male", Role: models.RoleMember},
			{FullName: "Dev Patel", Email: "dev@example.org", Gender: "male", Role: models.RoleMember},
			{FullName: "Kiran Shah", Email: "kiran@example.org", Gender: "male", Role: models.RoleMember},
			{FullName: "Vikram Singh", Email: "vikram@example.org", Gender: "male", Role: models.RoleMember},
		},
		Mentor:         models.MentorInput{FullName: "Dr. Mehta", Email: "mehta@example.org"},
		Representative: models.RepresentativeInput{FullName: "Sunita Devi", Email: "sunita@example.org"},
	}
}

func schoolStudentDoc() map[int]artifacts.Payload {
	return map[int]artifacts.Payload{
		1: {Filename: "id.pdf", Data: []byte("identity document")},
	}
}

func newCoordinator(t *testing.T, st store.Store, uploader artifacts.Uploader) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(st, artifacts.NewResolver(uploader, 2), nil, "participant", "ieee@123")
	require.NoError(t, err)
	return c
}

func TestCoordinator_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("persists full aggregate with provisioned leader identity", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetTeamByName", "Falcons").Return(nil, notFound()).Once()
		st.On("CreateTeamAggregate", mock.MatchedBy(func(agg *models.TeamAggregate) bool {
			if agg.Team.Name != "Falcons" || len(agg.Roster) != models.RosterSize {
				return false
			}
			if agg.Leader.Email != "asha@example.org" || agg.Leader.Role != "participant" {
				return false
			}
			// the school student slot must carry the uploaded document
			return agg.Roster[1].ArtifactURL != ""
		})).Return(nil).Once()

		c := newCoordinator(t, st, &stubUploader{})
		team, err := c.Register(ctx, validRequest(), schoolStudentDoc())
		require.NoError(t, err)
		assert.Equal(t, int64(42), team.ID)
		assert.Equal(t, "Falcons", team.Name)
		st.AssertExpectations(t)
	})

	t.Run("leader credential is the hashed default password", func(t *testing.T) {
		st := new(MockStore)
		var hash string
		st.On("GetTeamByName", "Falcons").Return(nil, notFound()).Once()
		st.On("CreateTeamAggregate", mock.MatchedBy(func(agg *models.TeamAggregate) bool {
			hash = agg.Leader.PasswordHash
			return true
		})).Return(nil).Once()

		c := newCoordinator(t, st, &stubUploader{})
		_, err := c.Register(ctx, validRequest(), schoolStudentDoc())
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("ieee@123")))
	})

	t.Run("ineligible roster stops before any store access", func(t *testing.T) {
		st := new(MockStore)
		req := validRequest()
		req.Roster[0].IEEENumber = ""

		c := newCoordinator(t, st, &stubUploader{})
		_, err := c.Register(ctx, req, schoolStudentDoc())
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, eligibility.CodeLeaderNotIEEEMember, fe.Code)
		st.AssertExpectations(t)
	})

	t.Run("missing identity document is caught after resolution", func(t *testing.T) {
		st := new(MockStore)
		c := newCoordinator(t, st, &stubUploader{})
		_, err := c.Register(ctx, validRequest(), nil)
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, eligibility.CodeSchoolStudentMissing, fe.Code)
	})

	t.Run("upload failure aborts before persistence", func(t *testing.T) {
		st := new(MockStore)
		c := newCoordinator(t, st, &stubUploader{fail: true})
		_, err := c.Register(ctx, validRequest(), schoolStudentDoc())
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, artifacts.CodeUploadFailed, fe.Code)
		st.AssertExpectations(t)
	})

	t.Run("name already taken at pre-check", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetTeamByName", "Falcons").
			Return(&models.Team{ID: 1, Name: "Falcons"}, nil).Once()

		c := newCoordinator(t, st, &stubUploader{})
		_, err := c.Register(ctx, validRequest(), schoolStudentDoc())
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, CodeTeamNameTaken, fe.Code)
		assert.Equal(t, fault.ClassConflict, fe.Class)
	})

	t.Run("losing the uniqueness race maps to the same conflict", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetTeamByName", "Falcons").Return(nil, notFound()).Once()
		st.On("CreateTeamAggregate", mock.Anything).
			Return(&store.Error{Kind: store.KindUniqueViolation, Op: "create team"}).Once()

		c := newCoordinator(t, st, &stubUploader{})
		_, err := c.Register(ctx, validRequest(), schoolStudentDoc())
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, CodeTeamNameTaken, fe.Code)
		assert.Equal(t, fault.ClassConflict, fe.Class)
	})

	t.Run("other store failures are transient", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetTeamByName", "Falcons").Return(nil, notFound()).Once()
		st.On("CreateTeamAggregate", mock.Anything).
			Return(&store.Error{Kind: store.KindTimeout, Op: "create team aggregate"}).Once()

		c := newCoordinator(t, st, &stubUploader{})
		_, err := c.Register(ctx, validRequest(), schoolStudentDoc())
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, fault.ClassTransient, fe.Class)
	})

	t.Run("malformed request fails validation fast", func(t *testing.T) {
		st := new(MockStore)
		req := validRequest()
		req.Name = ""

		c := newCoordinator(t, st, &stubUploader{})
		_, err := c.Register(ctx, req, nil)
		require.Error(t, err)
		fe, ok := fault.From(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidPayload, fe.Code)
		st.AssertExpectations(t)
	})
}
