package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		JWTSecret       string `toml:"jwt_secret"`
		TokenTTLMinutes int    `toml:"token_ttl_minutes"`
		TokenHeader     string `toml:"token_header"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Blob struct {
		Endpoint             string `toml:"endpoint"`
		PublicBaseURL        string `toml:"public_base_url"`
		TimeoutSeconds       int    `toml:"timeout_seconds"`
		MaxConcurrentUploads int    `toml:"max_concurrent_uploads"`
	} `toml:"blob"`

	Notify struct {
		Enabled  bool   `toml:"enabled"`
		RedisURL string `toml:"redis_url"`
		Channel  string `toml:"channel"`
	} `toml:"notify"`

	Registration struct {
		LeaderRole            string `toml:"leader_role"`
		DefaultLeaderPassword string `toml:"default_leader_password"`
	} `toml:"registration"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Server.EnableAuth && config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth is enabled but jwt_secret is empty")
	}
	if config.Registration.LeaderRole == "" {
		config.Registration.LeaderRole = "participant"
	}
	if config.Auth.TokenHeader == "" {
		config.Auth.TokenHeader = "Authorization"
	}
	if config.Auth.TokenTTLMinutes <= 0 {
		config.Auth.TokenTTLMinutes = 12 * 60
	}
	if config.Blob.TimeoutSeconds <= 0 {
		config.Blob.TimeoutSeconds = 30
	}
	if config.Notify.Channel == "" {
		config.Notify.Channel = "lagkaka.events"
	}

	logger.Debug.Printf("Loaded blob config: %+v", config.Blob)

	return &config, nil
}
