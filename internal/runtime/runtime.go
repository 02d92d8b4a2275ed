// Package runtime wires the relay handler to its hosting environment and
// owns the post-acknowledgment phase: dispatch once, notify once.
package runtime

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/env0/saga/internal/handler"
	"github.com/env0/saga/internal/helpers"
	"github.com/env0/saga/internal/models"
	"github.com/env0/saga/internal/relay"
)

// Dispatcher issues the downstream repository dispatch call for a job.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *models.DispatchJob) error
}

// Notifier delivers the outcome notification for a job.
type Notifier interface {
	NotifyOutcome(ctx context.Context, job *models.DispatchJob, dispatchErr error)
}

// WorkerInvoker hands a job to an independently-scheduled worker unit.
type WorkerInvoker interface {
	InvokeWorker(ctx context.Context, function string, job *models.DispatchJob) error
}

// Option mutates a Runtime during construction.
type Option func(*Runtime)

// WithLogger sets a custom logger for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithDispatcher sets the downstream dispatch client.
func WithDispatcher(d Dispatcher) Option {
	return func(r *Runtime) {
		r.dispatcher = d
	}
}

// WithNotifier sets the outcome notifier.
func WithNotifier(n Notifier) Option {
	return func(r *Runtime) {
		r.notifier = n
	}
}

// WithWorkerInvoker enables the two-stage handoff: accepted jobs are passed
// to the named worker function instead of being executed in-process.
func WithWorkerInvoker(w WorkerInvoker, function string) Option {
	return func(r *Runtime) {
		r.workerInvoker = w
		r.workerFunction = function
	}
}

// WithLambdaPayloadType sets the expected Lambda payload shape.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.lambdaPayloadType = payloadType
	}
}

// WithBackgroundWorkers sets the size of the in-process dispatch worker pool.
func WithBackgroundWorkers(n int) Option {
	return func(r *Runtime) {
		r.backgroundWorkers = n
	}
}

// Runtime exposes the relay over HTTP and Lambda entrypoints.
type Runtime struct {
	*handler.Handler
	logger            *slog.Logger
	dispatcher        Dispatcher
	notifier          Notifier
	workerInvoker     WorkerInvoker
	workerFunction    string
	lambdaPayloadType string
	backgroundWorkers int
	background        *relay.Dispatcher
}

// NewRuntime creates a new runtime instance.
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler, backgroundWorkers: 1}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	_inst.background = relay.NewDispatcher(_inst.ExecuteJob,
		relay.WithWorkers(_inst.backgroundWorkers),
		relay.WithDispatcherLogger(_inst.logger.With("component", "dispatcher")))
	return _inst
}

// ExecuteJob runs the dispatch and outcome notification for a single job.
// Every fault is contained here: the acknowledgment has already been sent, so
// nothing may propagate back to the HTTP layer, and the notification step
// runs exactly once per dispatch attempt.
func (r *Runtime) ExecuteJob(ctx context.Context, job *models.DispatchJob) {
	logger := r.logger.With(slog.String("eventType", job.EventType), slog.String("user", job.UserName))
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic during dispatch phase", slog.Any("panic", rec))
		}
	}()

	err := r.dispatcher.Dispatch(ctx, job)
	if err != nil {
		logger.Error("dispatch failed", slog.Any("error", err))
	} else {
		logger.Info("dispatch succeeded")
	}
	r.notifier.NotifyOutcome(ctx, job, err)
}

// ServeHTTP is the HTTP handler for the runtime. Accepted jobs run on the
// supervised background worker pool; the acknowledgment does not wait for
// them.
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost:
		break
	default:
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusMethodNotAllowed}, resp)
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("path", req.URL.Path))
	headers := make(map[string]string)
	for k, v := range req.Header {
		headers[strings.ToLower(k)] = v[0]
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusInternalServerError}, resp)
		return
	}

	result, job, err := r.Handler.Process(body, headers)
	if err != nil {
		r.logger.Warn("request not relayed", slog.Any("error", err))
	}
	if job != nil {
		r.background.Enqueue(job)
	}
	helpers.RespondHTTP(result, resp)
}

// HandleEvent is the Lambda front-of-line handler. Accepted jobs are handed
// to the worker function asynchronously; when no worker is configured the
// dispatch runs in-process before the acknowledgment is returned, trading
// latency for not losing the job to a runtime freeze.
func (r *Runtime) HandleEvent(ctx context.Context, req events.APIGatewayV2HTTPRequest) (response any, err error) {
	r.logger.Info("received API Gateway request")

	// Lower-case incoming headers for compatibility purposes
	lch := make(map[string]string)
	for k, v := range req.Headers {
		lch[strings.ToLower(k)] = v
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		if decoded, decodeErr := base64.StdEncoding.DecodeString(req.Body); decodeErr == nil {
			body = decoded
		}
	}

	// A rejection is a valid response, not an invocation failure: returning a
	// non-nil error here would make the platform discard the 401/400 payload
	// and answer 502 instead.
	result, job, err := r.Handler.Process(body, lch)
	if err != nil {
		r.logger.Warn("request not relayed", slog.Any("error", err))
	}
	if job != nil {
		r.runJobAsync(ctx, job)
	}

	switch r.lambdaPayloadType {
	case "api-gateway-v1":
		return events.APIGatewayProxyResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case "api-gateway-v2":
		return events.APIGatewayV2HTTPResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case "lambda-url":
		return events.LambdaFunctionURLResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.lambdaPayloadType)
	}
}

// runJobAsync prefers the two-stage handoff; the in-process path is the
// fallback so exactly one dispatch attempt is made either way.
func (r *Runtime) runJobAsync(ctx context.Context, job *models.DispatchJob) {
	if r.workerInvoker != nil && r.workerFunction != "" {
		err := r.workerInvoker.InvokeWorker(ctx, r.workerFunction, job)
		if err == nil {
			return
		}
		r.logger.Error("worker invocation failed, executing in-process", slog.Any("error", err))
	}
	r.ExecuteJob(ctx, job)
}

// HandleWorkerEvent executes a dispatch job delivered via asynchronous
// invocation. It never returns an error: the platform would retry, and the
// relay makes exactly one dispatch attempt per command.
func (r *Runtime) HandleWorkerEvent(ctx context.Context, job models.DispatchJob) error {
	r.logger.Info("received dispatch job", slog.String("eventType", job.EventType))
	r.ExecuteJob(ctx, &job)
	return nil
}

// Shutdown drains the background worker pool.
func (r *Runtime) Shutdown(ctx context.Context) error {
	return r.background.Shutdown(ctx)
}
