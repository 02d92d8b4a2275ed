package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"

	"github.com/env0/saga/internal/models"
)

// AWS bundles the SDK clients the relay touches: SSM for credential material
// and Lambda for the asynchronous worker handoff.
type AWS struct {
	ctx    context.Context
	logger *slog.Logger

	config       *aws.Config
	ssmClient    *ssm.Client
	lambdaClient *awslambda.Client
}

// NewAWSController creates an AWS controller, loading the default SDK
// configuration unless one is provided.
func NewAWSController(opts ...AWSOption) (*AWS, error) {
	_inst := &AWS{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.config == nil {
		cfg, err := config.LoadDefaultConfig(_inst.ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS configuration")
		}
		_inst.config = &cfg
	}
	if _inst.logger == nil {
		_inst.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})).With("controller", "aws")
	}

	_inst.ssmClient = ssm.NewFromConfig(*_inst.config)
	_inst.lambdaClient = awslambda.NewFromConfig(*_inst.config)
	return _inst, nil
}

// GetSecret fetches an SSM parameter value, decrypting it when requested.
func (a *AWS) GetSecret(key string, encrypted bool) (*string, error) {
	ssmResponse, err := a.ssmClient.GetParameter(a.ctx, &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(encrypted),
	})
	if err != nil {
		a.logAPIError("GetParameter", err)
		return nil, errors.Wrap(err, "failed to load SSM parameter")
	}
	return ssmResponse.Parameter.Value, nil
}

// InvokeWorker hands a dispatch job to the worker function without waiting
// for its result. The worker's own execution budget covers dispatch and
// outcome notification.
func (a *AWS) InvokeWorker(ctx context.Context, function string, job *models.DispatchJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "failed to marshal dispatch job")
	}

	a.logger.Info("invoking dispatch worker...", slog.String("function", function), slog.String("eventType", job.EventType))
	_, err = a.lambdaClient.Invoke(ctx, &awslambda.InvokeInput{
		FunctionName:   aws.String(function),
		InvocationType: lambdatypes.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		a.logAPIError("Invoke", err)
		return errors.Wrap(err, "failed to invoke dispatch worker")
	}
	return nil
}

func (a *AWS) logAPIError(operation string, err error) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		a.logger.Error("AWS API call failed",
			slog.String("operation", operation),
			slog.String("code", apiErr.ErrorCode()),
			slog.String("message", apiErr.ErrorMessage()))
	}
}
