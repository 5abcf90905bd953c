package app

import (
	"fmt"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/artifacts"
	"github.com/shrimpsizemoose/lagkaka/internal/notify"
	"github.com/shrimpsizemoose/lagkaka/internal/registry"
	"github.com/shrimpsizemoose/lagkaka/internal/scoring"
	"github.com/shrimpsizemoose/lagkaka/internal/store"
)

// Service wires the collaborators together. The store handle is owned
// here and passed down explicitly; nothing in the tree keeps its own
// process-wide connection.
type Service struct {
	Config   *Config
	Store    store.Store
	Auth     *Auth
	Notifier notify.Notifier
	Registry *registry.Coordinator
	Scoring  *scoring.Coordinator
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if config.Notify.Enabled {
		notifier, err = notify.NewRedisNotifier(config.Notify.RedisURL, config.Notify.Channel)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
	}

	uploader := artifacts.NewHTTPUploader(
		config.Blob.Endpoint,
		config.Blob.PublicBaseURL,
		time.Duration(config.Blob.TimeoutSeconds)*time.Second,
	)
	resolver := artifacts.NewResolver(uploader, config.Blob.MaxConcurrentUploads)

	reg, err := registry.NewCoordinator(
		st,
		resolver,
		notifier,
		config.Registration.LeaderRole,
		config.Registration.DefaultLeaderPassword,
	)
	if err != nil {
		st.Close()
		notifier.Close()
		return nil, fmt.Errorf("failed to init registry: %w", err)
	}

	logger.Info.Printf("Service wired with store %T", st)

	return &Service{
		Config:   config,
		Store:    st,
		Auth:     auth,
		Notifier: notifier,
		Registry: reg,
		Scoring:  scoring.NewCoordinator(st, notifier),
	}, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Notifier.Close(); err != nil {
		errs = append(errs, fmt.Errorf("notifier: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
