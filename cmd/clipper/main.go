package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heimdex/clipper/internal/clip"
	"github.com/heimdex/clipper/internal/config"
	"github.com/heimdex/clipper/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	serviceURL string
	timeout    string

	cfg    *config.EnvConfig
	logger *slog.Logger
)

// errClipFailed is returned after the view has already shown the failure.
var errClipFailed = errors.New("clip failed")

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errClipFailed) {
			fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "clipper",
	Short:         "Submit YouTube URLs to a local clipping service",
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.New(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("service-url") {
			if err := cfg.SetServiceURL(serviceURL); err != nil {
				return err
			}
		}
		if flags.Changed("timeout") {
			d, err := config.ParseTimeout(timeout)
			if err != nil {
				return err
			}
			if err := cfg.SetTimeout(d); err != nil {
				return err
			}
		}
		if flags.Changed("log-level") {
			cfg.SetLogLevel(logLevel)
		}

		logger = logging.NewLogger(os.Stderr, cfg.LogLevel())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", config.DefaultServiceURL, "base URL of the clipping service")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", config.DefaultTimeout.String(), "request deadline, e.g. 90s or 10m")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(serveCmd)
}

func newClient() (*clip.HTTPClient, error) {
	client, err := clip.NewHTTPClient(clip.Options{
		BaseURL: cfg.ServiceURL(),
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create clip client: %w", err)
	}
	return client, nil
}
