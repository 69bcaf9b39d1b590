package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heimdex/clipper/internal/terminal"
	"github.com/heimdex/clipper/internal/ui"
)

var submitCmd = &cobra.Command{
	Use:   "submit [video URL]",
	Short: "Clip one video and print the clip URL",
	Long:  "Clip one video and print the clip URL on stdout. Without an argument the URL is read from stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		view := terminal.New(os.Stdout, os.Stderr, os.Stdin)

		var input ui.TextInput = view
		if len(args) == 1 {
			input = ui.StaticInput(args[0])
		}

		handler := ui.NewHandler(ui.HandlerConfig{
			Client:   client,
			Input:    input,
			Display:  view,
			Busy:     view,
			Status:   view,
			Notifier: view,
			Logger:   logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		outcome := handler.Trigger(ctx)
		logger.Debug("submit finished", "outcome", outcome.String(), "endpoint", client.Endpoint())
		if outcome != ui.OutcomeSuccess {
			return fmt.Errorf("%w: %s", errClipFailed, outcome)
		}
		return nil
	},
}
