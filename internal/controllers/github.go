package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v68/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/env0/saga/internal/models"
)

// GHOption mutates a GitHub controller during construction.
type GHOption func(*GitHub)

// GitHub is the dispatch client: it owns the credentials and issues
// repository_dispatch events against the configured owner/repository.
type GitHub struct {
	Credentials

	authMode   string
	ssmKey     string
	owner      string
	repository string
	baseURL    string
	ctx        context.Context
	logger     *slog.Logger

	awsController *AWS
	client        *github.Client
}

// Credentials is a helper struct to hold the GitHub credentials.
type Credentials struct {
	AppID          int64  `json:"app_id,omitempty"`
	InstallationID int64  `json:"installation_id,omitempty"`
	PrivateKey     string `json:"private_key,omitempty"`
	Token          string `json:"token,omitempty"`
}

// NewGitHubController creates a GitHub controller from the given options.
func NewGitHubController(opts ...GHOption) (*GitHub, error) {
	_inst := new(GitHub)
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.logger == nil {
		_inst.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if _inst.owner == "" || _inst.repository == "" {
		return nil, fmt.Errorf("missing dispatch target owner/repository")
	}
	return _inst, nil
}

// RetrieveCredentials fetches the GitHub credentials from the environment or SSM.
func (g *GitHub) RetrieveCredentials() error {
	switch strings.TrimSpace(strings.ToLower(g.authMode)) {
	case "token":
		if g.Token == "" {
			return fmt.Errorf("missing [GITHUB_TOKEN]")
		}
		return nil
	case "app":
		if g.AppID == 0 || g.InstallationID == 0 || g.PrivateKey == "" {
			return fmt.Errorf("missing GitHub App credentials")
		}
		return nil
	case "ssm":
		if g.Token != "" || (g.AppID != 0 && g.PrivateKey != "") {
			g.logger.Debug("using cached GitHub credentials...")
			return nil
		}
		g.logger.Debug("retrieving credentials from SSM...")
		secret, err := g.awsController.GetSecret(g.ssmKey, true)
		if err != nil {
			return errors.Wrap(err, "failed to fetch credentials from SSM")
		}
		if err = json.Unmarshal([]byte(*secret), &g.Credentials); err != nil {
			return errors.Wrap(err, "failed to unmarshal credentials")
		}
		return nil
	default:
		return fmt.Errorf("unsupported auth mode: %s", g.authMode)
	}
}

// getClient spawns the API client on first use, wrapped in a rate-limit
// waiter transport.
func (g *GitHub) getClient() (*github.Client, error) {
	if g.client != nil {
		return g.client, nil
	}

	switch {
	case g.Token != "":
		g.logger.Debug("[GITHUB_TOKEN] detected. Spawning client using PAT...")
		src := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: g.Token},
		)
		httpClient := oauth2.NewClient(g.ctx, src)
		rateLimiter, err := github_ratelimit.NewRateLimitWaiterClient(httpClient.Transport)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create rate-limited transport")
		}
		g.client = github.NewClient(rateLimiter)
	case g.PrivateKey != "" && g.AppID != 0 && g.InstallationID != 0:
		g.logger.Debug("Spawning client using GitHub App credentials...")
		transport, err := ghinstallation.New(http.DefaultTransport, g.AppID, g.InstallationID, []byte(g.PrivateKey))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create installation transport")
		}
		rateLimiter, err := github_ratelimit.NewRateLimitWaiterClient(transport)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create rate-limited transport")
		}
		g.client = github.NewClient(rateLimiter)
	default:
		return nil, fmt.Errorf("no valid credentials found")
	}

	if g.baseURL != "" {
		endpoint, err := url.Parse(strings.TrimSuffix(g.baseURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrap(err, "invalid API base URL")
		}
		g.client.BaseURL = endpoint
	}
	return g.client, nil
}

// Dispatch issues a single repository_dispatch event for the job. There is no
// retry: failures surface to the caller, which converts them into an outcome
// notification.
func (g *GitHub) Dispatch(ctx context.Context, job *models.DispatchJob) error {
	client, err := g.getClient()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(struct {
		Command  string   `json:"command"`
		UserName string   `json:"user_name"`
		Args     []string `json:"args"`
	}{
		Command:  job.Command,
		UserName: job.UserName,
		Args:     job.Args,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal client payload")
	}
	clientPayload := json.RawMessage(payload)

	g.logger.Info("creating repository dispatch event...",
		slog.String("eventType", job.EventType),
		slog.String("owner", g.owner),
		slog.String("repository", g.repository))
	_, _, err = client.Repositories.Dispatch(ctx, g.owner, g.repository, github.DispatchRequestOptions{
		EventType:     job.EventType,
		ClientPayload: &clientPayload,
	})
	return errors.Wrap(err, "failed to create repository dispatch event")
}
