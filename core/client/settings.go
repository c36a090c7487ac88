package client

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dolittle/go-sdk/core/execution"
	"github.com/dolittle/go-sdk/core/reversecall"
)

const DefaultSubjectPrefix = "dolittle"

// Settings configures how the client reaches the runtime.
type Settings struct {
	NATSURL        string                   `env:"DOLITTLE_NATS_URL"        envDefault:"nats://localhost:4222"`
	SubjectPrefix  string                   `env:"DOLITTLE_SUBJECT_PREFIX"  envDefault:"dolittle"`
	PingInterval   time.Duration            `env:"DOLITTLE_PING_INTERVAL"   envDefault:"5s"`
	ReconnectDelay time.Duration            `env:"DOLITTLE_RECONNECT_DELAY" envDefault:"1s"`
	Microservice   execution.MicroserviceID `env:"DOLITTLE_MICROSERVICE_ID"`
	Environment    string                   `env:"DOLITTLE_ENVIRONMENT"     envDefault:"Development"`
	Version        string                   `env:"DOLITTLE_VERSION"         envDefault:"1.0.0"`
}

// LoadSettings reads Settings from the process environment.
func LoadSettings() (Settings, error) {
	return parseSettings(env.Options{})
}

func parseSettings(opts env.Options) (Settings, error) {
	s, err := env.ParseAsWithOptions[Settings](opts)
	if err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := execution.ParseVersion(s.Version); err != nil {
		return Settings{}, fmt.Errorf("DOLITTLE_VERSION: %w", err)
	}
	return s, nil
}

func (s Settings) withDefaults() Settings {
	if s.SubjectPrefix == "" {
		s.SubjectPrefix = DefaultSubjectPrefix
	}
	if s.PingInterval <= 0 {
		s.PingInterval = reversecall.DefaultPingInterval
	}
	if s.ReconnectDelay <= 0 {
		s.ReconnectDelay = reversecall.DefaultReconnectDelay
	}
	if s.Environment == "" {
		s.Environment = "Development"
	}
	if s.Version == "" {
		s.Version = "1.0.0"
	}
	return s
}

func (s Settings) ConnectSubject() string { return s.SubjectPrefix + ".embeddings.connect" }
func (s Settings) StoreSubject() string   { return s.SubjectPrefix + ".embeddings.store" }
func (s Settings) CallbackPrefix() string { return s.SubjectPrefix + ".callback" }

// ExecutionContext is the base context of every request the client sends.
func (s Settings) ExecutionContext() (execution.Context, error) {
	v, err := execution.ParseVersion(s.Version)
	if err != nil {
		return execution.Context{}, err
	}
	return execution.Context{
		Microservice:  s.Microservice,
		Tenant:        execution.DevelopmentTenant,
		Version:       v,
		Environment:   s.Environment,
		CorrelationID: execution.NewCorrelationID(),
	}, nil
}
