package registry

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/artifacts"
	"github.com/shrimpsizemoose/lagkaka/internal/eligibility"
	"github.com/shrimpsizemoose/lagkaka/internal/fault"
	"github.com/shrimpsizemoose/lagkaka/internal/metrics"
	"github.com/shrimpsizemoose/lagkaka/internal/models"
	"github.com/shrimpsizemoose/lagkaka/internal/notify"
	"github.com/shrimpsizemoose/lagkaka/internal/store"
)

const (
	CodeInvalidPayload       = "INVALID_PAYLOAD"
	CodeTeamNameTaken        = "TEAM_NAME_TAKEN"
	CodeRegistryStoreFailure = "REGISTRY_STORE_FAILURE"
)

// Coordinator runs team registration: resolve artifacts, re-check
// eligibility, then persist the whole aggregate in one transaction.
type Coordinator struct {
	store      store.Store
	resolver   *artifacts.Resolver
	notifier   notify.Notifier
	leaderRole string
	pwHash     string
}

// NewCoordinator hashes the fixed initial leader credential once up
// front; registration must not pay the bcrypt cost per request.
func NewCoordinator(s store.Store, resolver *artifacts.Resolver, n notify.Notifier, leaderRole, defaultPassword string) (*Coordinator, error) {
	if n == nil {
		n = notify.NopNotifier{}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Coordinator{
		store:      s,
		resolver:   resolver,
		notifier:   n,
		leaderRole: leaderRole,
		pwHash:     string(hash),
	}, nil
}

// Register admits a team. Artifact uploads happen before the database
// transaction and are not compensated if it fails; uploaded keys are
// logged by the resolver for external cleanup.
func (c *Coordinator) Register(ctx context.Context, req *models.RegistrationRequest, files map[int]artifacts.Payload) (*models.Team, error) {
	if err := req.Validate(); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fault.Validation(CodeInvalidPayload, err.Error())
	}

	start := time.Now()
	urls, err := c.resolver.Resolve(ctx, files)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("upload_failed").Inc()
		return nil, err
	}
	metrics.ArtifactUploadDuration.Observe(time.Since(start).Seconds())

	roster := make([]models.MemberInput, len(req.Roster))
	copy(roster, req.Roster)
	for slot, url := range urls {
		if slot >= 0 && slot < len(roster) {
			roster[slot].ArtifactURL = url
		}
	}

	// The handler already validated; the coordinator does not trust that.
	if ferr := eligibility.Check(roster); ferr != nil {
		metrics.RegistrationsTotal.WithLabelValues("ineligible").Inc()
		return nil, ferr
	}

	// Pre-check gives a clean error for the common case. The unique
	// constraint still backs it up when two registrations race.
	if _, err := c.store.GetTeamByName(ctx, req.Name); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("name_taken").Inc()
		return nil, fault.Conflict(CodeTeamNameTaken, "a team with this name already exists")
	} else if !store.IsNotFound(err) {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fault.Transient(CodeRegistryStoreFailure, err.Error())
	}

	agg := c.buildAggregate(req, roster)
	if err := c.store.CreateTeamAggregate(ctx, agg); err != nil {
		if store.IsUniqueViolation(err) {
			metrics.RegistrationsTotal.WithLabelValues("name_taken").Inc()
			return nil, fault.Conflict(CodeTeamNameTaken, "a team with this name already exists")
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fault.Transient(CodeRegistryStoreFailure, err.Error())
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	logger.Info.Printf("Registered team %q with id %d", agg.Team.Name, agg.Team.ID)
	c.notifier.Publish(ctx, notify.EventTeamRegistered, agg.Team)

	return &agg.Team, nil
}

func (c *Coordinator) buildAggregate(req *models.RegistrationRequest, roster []models.MemberInput) *models.TeamAggregate {
	agg := &models.TeamAggregate{
		Team: models.Team{
			Name:  req.Name,
			Theme: req.Theme,
		},
		Mentor: models.Mentor{
			FullName:     req.Mentor.FullName,
			Email:        req.Mentor.Email,
			Organization: req.Mentor.Organization,
		},
		Representative: models.CommunityRepresentative{
			FullName: req.Representative.FullName,
			Email:    req.Representative.Email,
			Phone:    req.Representative.Phone,
		},
	}

	for i, m := range roster {
		agg.Roster = append(agg.Roster, models.RosterMember{
			Slot:           i,
			FullName:       m.FullName,
			Email:          m.Email,
			Gender:         m.Gender,
			Role:           m.Role,
			IEEEMember:     m.IEEEMember,
			IEEENumber:     m.IEEENumber,
			SchoolStandard: m.SchoolStandard,
			ArtifactURL:    m.ArtifactURL,
		})
		if m.Role == models.RoleLeader {
			agg.Leader = models.LeaderIdentity{
				Email:        m.Email,
				PasswordHash: c.pwHash,
				Role:         c.leaderRole,
			}
		}
	}

	return agg
}
