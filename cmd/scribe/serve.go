package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	scribe "github.com/MUSHYo888/patient-history-pro-scribe"
	"github.com/MUSHYo888/patient-history-pro-scribe/internal/cli"
	httpAdapter "github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/http"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/auth"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/export"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves interviews over a JSON REST API with Server-Sent Events for
live session updates. Routes require a bearer token with the clinician
role when SCRIBE_JWT_SECRET is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := cli.NewServiceLogger(cfg)

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		app, err := cli.NewApp(sigCtx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithVersion(strings.TrimSpace(scribe.Version)),
			httpAdapter.WithPDF(export.NewPDF()),
			httpAdapter.WithAllowedOrigins(cfg.CORSOrigins...),
		}
		if app.Registry != nil {
			opts = append(opts, httpAdapter.WithMetrics(observability.Handler(app.Registry)))
		}
		if cfg.JWTSecret != "" {
			var authOpts []auth.Option
			if cfg.JWTIssuer != "" {
				authOpts = append(authOpts, auth.WithIssuer(cfg.JWTIssuer))
			}
			provider, err := auth.NewJWTProvider([]byte(cfg.JWTSecret), authOpts...)
			if err != nil {
				return err
			}
			opts = append(opts, httpAdapter.WithAuth(provider))
		} else {
			logger.Warn("SCRIBE_JWT_SECRET is not set: API routes are served without authentication")
		}

		handler, err := httpAdapter.NewHandler(sigCtx, app.Interviewer, opts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("scribe server listening", "address", srv.Addr, "store", cfg.Store, "env", cfg.Env)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			logger.Info("shutting down", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			logger.Info("scribe server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics at /metrics")
	bindFlags(settings, serveCmd, map[string]string{
		"port":    "port",
		"metrics": "metrics",
	})
}
