package controllers

import (
	"context"
	"log/slog"
)

// WithToken sets the GitHub authentication token for the GitHub instance.
func WithToken(token string) GHOption {
	return func(g *GitHub) {
		g.Token = token
	}
}

// WithAppCredentials sets the GitHub App credentials for the GitHub instance.
func WithAppCredentials(appID, installationID int64, privateKey string) GHOption {
	return func(g *GitHub) {
		g.AppID = appID
		g.InstallationID = installationID
		g.PrivateKey = privateKey
	}
}

// WithAuthMode sets the authentication mode for a GitHub instance using the given mode string.
func WithAuthMode(mode string) GHOption {
	return func(g *GitHub) {
		g.authMode = mode
	}
}

// WithAWSController sets the awsController field of a GitHub instance with the provided AWS instance.
func WithAWSController(aws *AWS) GHOption {
	return func(g *GitHub) {
		g.awsController = aws
	}
}

// WithSSMKey sets the SSM key used for fetching credentials and applies it to the GitHub instance.
func WithSSMKey(key string) GHOption {
	return func(g *GitHub) {
		g.ssmKey = key
	}
}

// WithDispatchTarget sets the owner/repository coordinate receiving dispatch events.
func WithDispatchTarget(owner, repository string) GHOption {
	return func(g *GitHub) {
		g.owner = owner
		g.repository = repository
	}
}

// WithAPIBaseURL overrides the GitHub API endpoint. Used by tests.
func WithAPIBaseURL(baseURL string) GHOption {
	return func(g *GitHub) {
		g.baseURL = baseURL
	}
}

// WithGitHubContext sets the context for the GitHub instance.
func WithGitHubContext(ctx context.Context) GHOption {
	return func(g *GitHub) {
		g.ctx = ctx
	}
}

// WithLogger sets a custom logger for the GitHub instance to use for logging operations.
func WithLogger(logger *slog.Logger) GHOption {
	return func(g *GitHub) {
		g.logger = logger
	}
}
