// Package handler implements the slash-command relay pipeline: verify,
// decode, acknowledge. The dispatch itself happens after the response, in
// whichever deferred-execution unit the runtime provides.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/slack-go/slack"

	"github.com/env0/saga/internal/models"
	"github.com/env0/saga/internal/relay"
	"github.com/env0/saga/internal/validation"
)

// Option mutates a Handler during construction.
type Option func(*Handler)

// Handler performs the synchronous part of a relay request. It holds only
// read-only configuration: concurrent requests share no mutable state.
type Handler struct {
	ctx           context.Context
	logger        *slog.Logger
	signingSecret *validation.SigningSecret
	tolerance     time.Duration
	prefix        string
	ackMessage    string
	allowedEvents []string
}

// NewRelayHandler creates a relay handler from the given options.
func NewRelayHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		opt(_inst)
	}

	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.tolerance == 0 {
		_inst.tolerance = validation.DefaultTolerance
	}
	if _inst.prefix == "" {
		_inst.prefix = relay.DefaultEventTypePrefix
	}
	if _inst.ackMessage == "" {
		_inst.ackMessage = relay.DefaultAckMessage
	}

	return _inst, nil
}

// Process runs the verify → decode → validate path for one request and, on
// acceptance, returns the acknowledgment response together with the dispatch
// job to execute off the request path. A nil job means the request terminated
// before dispatch: rejected (401) or invalid (400), with no downstream call.
func (h *Handler) Process(body []byte, headers map[string]string) (models.Response, *models.DispatchJob, error) {
	logger := h.logger
	logger.Info("processing request...")

	raw := relay.DecodeTransport(body)

	// The signature covers the payload as Slack signed it, after transport
	// decoding and before form parsing.
	if err := h.signingSecret.ValidateSignatureWithin(h.tolerance, raw, headers); err != nil {
		logger.Warn("validating signature", slog.Any("error", err))
		return models.Response{Body: "invalid request signature", StatusCode: http.StatusUnauthorized}, nil, err
	}
	logger.Debug("request signature is valid")

	cmd, err := relay.ParseSlashCommand(raw)
	if err != nil {
		logger.Warn("decoding slash command", slog.Any("error", err))
		return models.Response{Body: "malformed command payload", StatusCode: http.StatusBadRequest}, nil, err
	}
	logger = logger.With(slog.String("command", cmd.Command), slog.String("user", cmd.UserName))

	job, err := relay.NewJob(cmd, h.prefix)
	if err != nil {
		logger.Warn("validating command", slog.Any("error", err))
		return models.Response{Body: err.Error(), StatusCode: http.StatusBadRequest}, nil, err
	}
	if len(h.allowedEvents) > 0 && !slices.Contains(h.allowedEvents, job.Args[0]) {
		logger.Warn("rejecting disallowed event type...", slog.String("event", job.Args[0]))
		return models.Response{Body: "unhandled event type: " + job.Args[0], StatusCode: http.StatusBadRequest}, nil, relay.ErrUnsupportedEventType
	}
	logger.Info("command accepted", slog.String("eventType", job.EventType), slog.Any("args", job.Args))

	return ackResponse(h.ackMessage), job, nil
}

// ackResponse builds the immediate ephemeral acknowledgment sent before the
// dispatch completes.
func ackResponse(text string) models.Response {
	body, _ := json.Marshal(slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         text,
	})
	return models.Response{
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
		StatusCode: http.StatusOK,
	}
}
