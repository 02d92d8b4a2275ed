package controllers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// AWSOption mutates an AWS controller during construction.
type AWSOption func(*AWS)

// WithConfig sets the AWS SDK configuration for the AWS instance.
func WithConfig(cfg *aws.Config) AWSOption {
	return func(a *AWS) {
		a.config = cfg
	}
}

// WithAWSContext sets the context for the AWS instance.
func WithAWSContext(ctx context.Context) AWSOption {
	return func(a *AWS) {
		a.ctx = ctx
	}
}

// WithAWSLogger sets a custom logger for the AWS instance.
func WithAWSLogger(logger *slog.Logger) AWSOption {
	return func(a *AWS) {
		a.logger = logger
	}
}
