package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/env0/saga/internal/config"
	"github.com/env0/saga/internal/controllers"
	"github.com/env0/saga/internal/handler"
	"github.com/env0/saga/internal/runtime"
)

// buildRuntime assembles the relay from the loaded configuration: controllers,
// handler and runtime. All configuration is read here, once; the resulting
// object graph is immutable for the process lifetime.
func buildRuntime(cmd *cobra.Command, opts ...runtime.Option) (*runtime.Runtime, error) {
	var awsCtl *controllers.AWS
	needsAWS := strings.EqualFold(config.GitHub.AuthMode, "ssm") || config.Lambda.WorkerFunction != ""
	if needsAWS {
		var err error
		awsCtl, err = controllers.NewAWSController(
			controllers.WithAWSLogger(logger.With("component", "aws-controller")),
			controllers.WithAWSContext(cmd.Context()))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
	}

	appID, _ := strconv.ParseInt(os.Getenv("GITHUB_APP_ID"), 10, 64)
	installationID, _ := strconv.ParseInt(os.Getenv("GITHUB_APP_INSTALLATION_ID"), 10, 64)
	githubCtl, err := controllers.NewGitHubController(
		controllers.WithLogger(logger.With("component", "github-controller")),
		controllers.WithGitHubContext(cmd.Context()),
		controllers.WithAuthMode(config.GitHub.AuthMode),
		controllers.WithToken(os.Getenv("GITHUB_TOKEN")),
		controllers.WithAppCredentials(appID, installationID, os.Getenv("GITHUB_APP_PRIVATE_KEY")),
		controllers.WithSSMKey(config.GitHub.SSMKey),
		controllers.WithAWSController(awsCtl),
		controllers.WithDispatchTarget(config.GitHub.Owner, config.GitHub.Repository))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the GitHub controller")
	}
	if err = githubCtl.RetrieveCredentials(); err != nil {
		return nil, errors.Wrap(err, "failed to retrieve GitHub credentials")
	}

	slackOpts := []controllers.SlackOption{
		controllers.WithSlackLogger(logger.With("component", "slack-controller")),
	}
	if config.Slack.Broadcast.Enabled {
		slackOpts = append(slackOpts, controllers.WithBroadcast(config.Slack.Broadcast.WebhookURL, config.Slack.Broadcast.Channel))
	}
	slackCtl, err := controllers.NewSlackController(slackOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the Slack controller")
	}

	logger.Debug("creating relay handler...")
	hdl, err := handler.NewRelayHandler(
		handler.WithSigningSecret(config.Slack.SigningSecret),
		handler.WithSignatureTolerance(config.Slack.SignatureTolerance),
		handler.WithEventTypePrefix(config.Relay.EventTypePrefix),
		handler.WithAckMessage(config.Relay.AckMessage),
		handler.WithAllowedEvents(config.Relay.AllowedEvents),
		handler.WithContext(cmd.Context()),
		handler.WithLogger(logger.With("component", "relay-handler")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create relay handler")
	}

	logger.Debug("creating runtime...")
	opts = append([]runtime.Option{
		runtime.WithLogger(logger.With("component", "runtime")),
		runtime.WithDispatcher(githubCtl),
		runtime.WithNotifier(slackCtl),
		runtime.WithBackgroundWorkers(config.Relay.Workers),
	}, opts...)
	if awsCtl != nil && config.Lambda.WorkerFunction != "" {
		opts = append(opts, runtime.WithWorkerInvoker(awsCtl, config.Lambda.WorkerFunction))
	}
	return runtime.NewRuntime(hdl, opts...), nil
}
