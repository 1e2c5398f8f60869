package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/akilli/monitorx/internal/api"
	"github.com/akilli/monitorx/internal/config"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	assumeYes bool
	cfg       *config.Config
)

// newBackend builds the backend client for the loaded configuration.
// Tests replace it to point commands at a fake server.
var newBackend = func(cfg *config.Config) api.Backend {
	return api.NewClient(cfg.APIBaseURL, cfg.APITimeout)
}

var rootCmd = &cobra.Command{
	Use:   "monitorx",
	Short: "Mention monitoring console",
	Long: `monitorx is the console for a mention monitoring backend. It lists,
filters, tags and deletes collected mentions, runs searches that ingest new
ones, shows aggregate analytics and runs a scheduled digest service.

Configuration is read from ~/.monitorx/config.toml (or --config), then from
environment variables and a .env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			logrus.Debug("No .env file found, using environment variables")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg, cmd.Name() == "serve")
		return nil
	},
}

// setupLogging configures the package-level logger. The digest server logs
// JSON unless told otherwise; interactive commands log text to stderr.
func setupLogging(cfg *config.Config, server bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
	if server {
		logrus.SetLevel(logrus.InfoLevel)
	}
	if cfg.Debug || verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	switch {
	case cfg.LogFormat == "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case cfg.LogFormat == "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case server:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.monitorx/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
