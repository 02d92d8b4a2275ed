package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/env0/saga/internal/config"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeService)
			logger.Info("Spawning...")

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			rtm, err := buildRuntime(cmd)
			if err != nil {
				return err
			}

			logger.Debug("Creating HTTP server...")
			h := http.NewServeMux()
			h.HandleFunc(config.Service.Path, rtm.ServeHTTP)

			s := &http.Server{
				Handler:      h,
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- s.ListenAndServe()
			}()
			logger.Info("Serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())

			select {
			case err = <-errCh:
				return err
			case <-ctx.Done():
			}

			// Drain in-flight dispatches before exit: an outcome notification
			// lost to shutdown must be a logged event, not a silent one.
			logger.Info("Shutting down...", "drainTimeout", config.Relay.DrainTimeout.String())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Relay.DrainTimeout)
			defer cancel()
			return errors.Join(
				s.Shutdown(shutdownCtx),
				rtm.Shutdown(shutdownCtx),
			)
		},
	}

	return cmd
}
