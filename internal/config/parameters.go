// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Runtime modes.
const (
	ModeService     = "service"
	ModeLambdaHTTP  = "lambda-http"
	ModeLambdaEvent = "lambda-event"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Slack is a struct that contains the configuration for the Slack side of the relay.
	Slack slack
	// GitHub is a struct that contains the configuration for the GitHub dispatch target.
	GitHub github
	// Relay is a struct that contains the configuration for command-to-dispatch translation.
	Relay relay
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda modes.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"lambda-http"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type slack struct {
	// SigningSecret is the pre-shared secret used to validate slash-command signatures.
	SigningSecret string `yaml:"signingSecret,omitempty"`
	// SignatureTolerance is the anti-replay freshness window for request timestamps.
	SignatureTolerance time.Duration `yaml:"signatureTolerance,omitempty" default:"5m"`
	// Broadcast is a struct that contains the configuration for the secondary broadcast notification.
	Broadcast struct {
		Enabled bool `yaml:"enabled,omitempty"`
		// WebhookURL is the incoming-webhook destination for broadcast announcements.
		WebhookURL string `yaml:"webhookURL,omitempty"`
		// Channel overrides the webhook's default channel.
		Channel string `yaml:"channel,omitempty"`
	} `yaml:"broadcast,omitempty"`
}

type github struct {
	// AuthMode selects the credentials provider. Supported values are 'token', 'app' and 'ssm'.
	AuthMode string `yaml:"authMode,omitempty" default:"token"`
	// SSMKey is the SSM parameter holding JSON credentials when AuthMode is 'ssm'.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// Owner is the account owning the dispatch target repository.
	Owner string `yaml:"owner,omitempty"`
	// Repository is the dispatch target repository.
	Repository string `yaml:"repository,omitempty"`
}

type relay struct {
	// EventTypePrefix is prepended to the first argument token to form the dispatch event type.
	EventTypePrefix string `yaml:"eventTypePrefix,omitempty" default:"saga-"`
	// AckMessage overrides the default acknowledgment text.
	AckMessage string `yaml:"ackMessage,omitempty"`
	// AllowedEvents restricts the accepted first argument tokens. Empty means allow all.
	AllowedEvents []string `yaml:"allowedEvents,omitempty"`
	// Workers is the number of background dispatch workers in service mode.
	Workers int `yaml:"workers,omitempty" default:"4"`
	// DrainTimeout bounds the background dispatch drain on shutdown.
	DrainTimeout time.Duration `yaml:"drainTimeout,omitempty" default:"10s"`
}

type service struct {
	Path    string        `yaml:"path,omitempty" default:"/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
	// WorkerFunction is the name or ARN of the dispatch worker function used
	// by the two-stage lambda-http mode. Empty means dispatch in-process.
	WorkerFunction string `yaml:"workerFunction,omitempty"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Slack),
		defaults.Set(&GitHub),
		defaults.Set(&Relay),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		Slack   slack   `yaml:"slack,omitempty"`
		GitHub  github  `yaml:"github,omitempty"`
		Relay   relay   `yaml:"relay,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Slack = a.Slack
	GitHub = a.GitHub
	Relay = a.Relay
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
