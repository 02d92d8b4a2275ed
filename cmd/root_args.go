package cmd

import (
	"time"

	"github.com/env0/saga/internal/config"
	"github.com/env0/saga/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'service', 'lambda-http' and 'lambda-event'",
		Short:       helpers.Ptr("m"),
	},
	&config.Slack.SigningSecret: {
		Name:        "slack-signing-secret",
		Description: "The secret used to validate incoming slash-command signatures",
	},
	&config.Slack.Broadcast.WebhookURL: {
		Name:        "slack-broadcast-webhook-url",
		Description: "The incoming-webhook URL receiving broadcast announcements",
	},
	&config.Slack.Broadcast.Channel: {
		Name:        "slack-broadcast-channel",
		Description: "Channel override for broadcast announcements",
	},
	&config.GitHub.AuthMode: {
		Name:        "github-auth-mode",
		Description: "Authentication credentials provider. Supported values are 'token', 'app' and 'ssm'",
		Short:       helpers.Ptr("A"),
	},
	&config.GitHub.SSMKey: {
		Name:        "github-ssm-key",
		Description: "The SSM parameter key to use when fetching GitHub credentials",
	},
	&config.GitHub.Owner: {
		Name:        "github-owner",
		Description: "The account owning the dispatch target repository",
	},
	&config.GitHub.Repository: {
		Name:        "github-repository",
		Description: "The dispatch target repository",
	},
	&config.Relay.EventTypePrefix: {
		Name:        "relay-event-type-prefix",
		Description: "Prefix prepended to the first command argument to form the dispatch event type",
	},
	&config.Relay.AckMessage: {
		Name:        "relay-ack-message",
		Description: "Override for the immediate acknowledgment text",
	},
	&config.Service.Addr: {
		Name:        "service-host-addr",
		Description: "The address to serve the service on (default all interfaces in dual-stack mode)",
		Short:       helpers.Ptr("H"),
	},
	&config.Service.Port: {
		Name:        "service-host-port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
	},
	&config.Service.Path: {
		Name:        "service-host-path",
		Description: "The path to serve the service on",
		Short:       helpers.Ptr("P"),
	},
	&config.Lambda.PayloadType: {
		Name:        "lambda-payload-type",
		Description: "The payload type to expect when running in Lambda mode. Supported values are 'api-gateway-v1', 'api-gateway-v2' and 'lambda-url'",
	},
	&config.Lambda.WorkerFunction: {
		Name:        "lambda-worker-function",
		Description: "The name or ARN of the dispatch worker function. Empty disables the two-stage handoff",
		Env:         helpers.Ptr("DISPATCH_WORKER_FUNCTION"),
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Slack.Broadcast.Enabled: {
		Name:        "slack-broadcast",
		Description: "Enable the secondary broadcast notification",
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Slack.SignatureTolerance: {
		Name:        "slack-signature-tolerance",
		Description: "The anti-replay freshness window for request timestamps",
	},
	&config.Relay.DrainTimeout: {
		Name:        "relay-drain-timeout",
		Description: "The time budget for draining background dispatches on shutdown",
	},
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations",
		Short:       helpers.Ptr("t"),
	},
}

var envMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Relay.AllowedEvents: {
		Name:        "relay-allowed-events",
		Description: "Restrict the accepted event types to this list. Empty allows all",
	},
}
