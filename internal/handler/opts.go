package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/env0/saga/internal/validation"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContext sets the context for the handler.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.ctx = ctx
	}
}

// WithSigningSecret configures the handler with the pre-shared secret for request validation.
func WithSigningSecret(secret string) Option {
	return func(h *Handler) {
		h.signingSecret = validation.NewSigningSecret(secret)
	}
}

// WithSignatureTolerance sets the anti-replay freshness window.
func WithSignatureTolerance(tolerance time.Duration) Option {
	return func(h *Handler) {
		h.tolerance = tolerance
	}
}

// WithEventTypePrefix sets the prefix prepended to the first argument token.
func WithEventTypePrefix(prefix string) Option {
	return func(h *Handler) {
		h.prefix = prefix
	}
}

// WithAckMessage overrides the default acknowledgment text.
func WithAckMessage(text string) Option {
	return func(h *Handler) {
		h.ackMessage = text
	}
}

// WithAllowedEvents restricts the accepted first argument tokens. An empty
// list allows all.
func WithAllowedEvents(events []string) Option {
	return func(h *Handler) {
		h.allowedEvents = events
	}
}
