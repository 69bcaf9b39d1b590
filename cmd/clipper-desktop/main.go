// Command clipper-desktop is the native window front-end. It is a separate
// binary from clipper because fyne bundles its own system tray driver.
package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/heimdex/clipper/internal/clip"
	"github.com/heimdex/clipper/internal/config"
	"github.com/heimdex/clipper/internal/desktop"
	"github.com/heimdex/clipper/internal/logging"
	"github.com/heimdex/clipper/internal/ui"
)

const appID = "io.heimdex.clipper"

var cfgFile string

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "clipper-desktop",
	Short:         "Clipper desktop window",
	Version:       config.Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvConfigFile+")")
}

func run(parent context.Context) error {
	cfg, err := config.New(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(os.Stderr, cfg.LogLevel())
	logger.Info("starting clipper desktop",
		"version", config.Version,
		"build_time", config.BuildTime,
		"git_commit", config.GitCommit,
		"service_url", cfg.ServiceURL(),
	)

	client, err := clip.NewHTTPClient(clip.Options{
		BaseURL: cfg.ServiceURL(),
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create clip client: %w", err)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	window := desktop.New(app.NewWithID(appID), logging.WithComponent(logger, "desktop"))

	handler := ui.NewHandler(ui.HandlerConfig{
		Client:   client,
		Input:    window,
		Control:  window,
		Display:  window,
		Busy:     window,
		Status:   window,
		Notifier: window,
		Logger:   logger,
	})
	handler.Bind(ctx)

	window.ShowAndRun()

	logger.Info("shutdown complete")
	return nil
}
