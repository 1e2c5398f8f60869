package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akilli/monitorx/internal/digest"
	"github.com/akilli/monitorx/internal/notifications"
	"github.com/akilli/monitorx/internal/scheduler"
	"github.com/akilli/monitorx/internal/server"
	"github.com/akilli/monitorx/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled digest service",
	Long: `Run the digest service in the foreground. It performs:
  - A digest of the backend analytics on schedule (daily or weekly at 09:00)
  - Archiving of every digest as a JSON snapshot (SQLite or Azure Blob)
  - Delivery to Microsoft Teams and/or email, with an urgent alert when
    negative mentions reach the configured threshold
  - An HTTP server with /health, /metrics, /reports and POST /trigger

At least one of TEAMS_WEBHOOK_URL or NOTIFICATION_EMAIL must be set.

Use Ctrl+C to stop the service gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateDigest(); err != nil {
		return fmt.Errorf("digest configuration: %w", err)
	}

	logrus.Info("Starting MonitorX digest service")

	ctx := cmd.Context()

	archive, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if closer, ok := archive.(io.Closer); ok {
		defer closer.Close()
	}

	notifier := notifications.NewService(cfg)
	digestService := digest.NewService(cfg, newBackend(cfg), archive, notifier)

	sched := scheduler.NewService(cfg, digestService)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()
	logrus.Infof("Next digest at %s", sched.Next().Format(time.RFC3339))

	srv := server.New(cfg.Port, digestService)

	serverErr := make(chan error, 1)
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logrus.Info("Shutting down server...")
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
	return nil
}
