package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/env0/saga/internal/config"
	"github.com/env0/saga/internal/runtime"
)

var relayRuntime *runtime.Runtime

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use: "lambda",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			relayRuntime, err = buildRuntime(cmd,
				runtime.WithLambdaPayloadType(config.Lambda.PayloadType))
			return errors.Wrap(err, "failed to setup lambda")
		},
	}

	cmd.AddCommand(
		cmdLambdaHTTP(),
		cmdLambdaEvent(),
	)

	return cmd
}

// cmdLambdaHTTP runs the front-of-line stage: verify, decode, acknowledge and
// hand accepted jobs to the dispatch worker.
func cmdLambdaHTTP() *cobra.Command {
	return &cobra.Command{
		Use: "http",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Info("lambda starting...")
			lambda.StartWithOptions(relayRuntime.HandleEvent,
				lambda.WithContext(cmd.Context()))

			return nil
		},
	}
}

// cmdLambdaEvent runs the dispatch worker stage: it receives jobs via
// asynchronous invocation and performs the dispatch and outcome notification
// within its own execution budget.
func cmdLambdaEvent() *cobra.Command {
	return &cobra.Command{
		Use: "event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Info("lambda starting...")
			lambda.StartWithOptions(relayRuntime.HandleWorkerEvent,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}
}
