package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/env0/saga/internal/models"
	"github.com/env0/saga/internal/relay"
)

// SlackOption mutates a Slack controller during construction.
type SlackOption func(*Slack)

// WithBroadcast enables the secondary broadcast notification towards the
// given incoming-webhook URL. channel may be empty to use the webhook default.
func WithBroadcast(webhookURL, channel string) SlackOption {
	return func(s *Slack) {
		s.broadcastURL = webhookURL
		s.broadcastChannel = channel
	}
}

// WithHTTPClient sets the HTTP client used for webhook deliveries.
func WithHTTPClient(client *http.Client) SlackOption {
	return func(s *Slack) {
		s.httpClient = client
	}
}

// WithSlackLogger sets a custom logger for the Slack instance.
func WithSlackLogger(logger *slog.Logger) SlackOption {
	return func(s *Slack) {
		s.logger = logger
	}
}

// Slack is the outcome notifier: it delivers exactly one follow-up message to
// the command's response_url and, when enabled, a best-effort broadcast
// announcement.
type Slack struct {
	logger           *slog.Logger
	httpClient       *http.Client
	broadcastURL     string
	broadcastChannel string
}

// NewSlackController creates a Slack controller from the given options.
func NewSlackController(opts ...SlackOption) (*Slack, error) {
	_inst := new(Slack)
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if _inst.httpClient == nil {
		_inst.httpClient = http.DefaultClient
	}
	return _inst, nil
}

// NotifyOutcome reports the dispatch outcome to the caller's response_url.
// Delivery failures are logged only: there is nobody left to notify about a
// failed notification.
func (s *Slack) NotifyOutcome(ctx context.Context, job *models.DispatchJob, dispatchErr error) {
	msg := &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeEphemeral,
	}
	if dispatchErr != nil {
		msg.Text = relay.FailureMessage(job)
	} else {
		msg.Text = relay.SuccessMessage(job)
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, job.ResponseURL, s.httpClient, msg); err != nil {
		s.logger.Error("failed to deliver outcome notification", slog.Any("error", err))
	}

	if s.broadcastURL == "" || dispatchErr != nil {
		return
	}
	s.broadcast(ctx, job)
}

// broadcast announces who triggered which action class. Best effort: its own
// failure never affects the primary outcome reporting.
func (s *Slack) broadcast(ctx context.Context, job *models.DispatchJob) {
	msg := &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeInChannel,
		Channel:      s.broadcastChannel,
		Text:         relay.BroadcastMessage(job),
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.broadcastURL, s.httpClient, msg); err != nil {
		s.logger.Warn("failed to deliver broadcast notification", slog.Any("error", err))
	}
}
