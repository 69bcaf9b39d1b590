package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/heimdex/clipper/internal/config"
	"github.com/heimdex/clipper/internal/logging"
	"github.com/heimdex/clipper/internal/tray"
	"github.com/heimdex/clipper/internal/ui"
	"github.com/heimdex/clipper/internal/web"
)

var (
	servePort     int
	serveHeadless bool
	serveOpen     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the clip page on localhost, with a system tray icon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("port") {
			if err := cfg.SetPort(servePort); err != nil {
				return err
			}
		}
		if flags.Changed("headless") {
			cfg.SetHeadless(serveHeadless)
		}
		return serve()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port for the local page (default from config)")
	serveCmd.Flags().BoolVar(&serveHeadless, "headless", false, "run without the system tray")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the page in a browser on start")
}

func serve() error {
	startTime := time.Now()

	client, err := newClient()
	if err != nil {
		return err
	}

	logger.Info("starting clipper",
		"version", config.Version,
		"build_time", config.BuildTime,
		"git_commit", config.GitCommit,
		"service", client.Endpoint(),
		"timeout", cfg.Timeout(),
	)

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	page := web.NewPage()
	busy := ui.BusyIndicators{page}
	status := ui.StatusTexts{page}
	pageURL := fmt.Sprintf("http://127.0.0.1:%d/", cfg.Port())

	var trayIcon *tray.Tray
	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		trayIcon = tray.New(tray.Config{
			PageURL: pageURL,
			Logger:  logging.WithComponent(logger, "tray"),
			OnQuit:  quit,
		})
		busy = append(busy, trayIcon)
		status = append(status, trayIcon)
	}

	handler := ui.NewHandler(ui.HandlerConfig{
		Client:   client,
		Display:  page,
		Busy:     busy,
		Status:   status,
		Notifier: page,
		Logger:   logger,
	})

	server := web.NewServer(web.ServerConfig{
		Port:      cfg.Port(),
		Handler:   handler,
		Page:      page,
		Logger:    logging.WithComponent(logger, "web"),
		StartTime: startTime,
		Version:   config.Version,
	})

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			quit()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	if trayIcon != nil {
		go trayIcon.Run()
	}

	fmt.Fprintf(os.Stderr, "Clipper is running at %s\n", server.URL())
	if serveOpen {
		if err := browser.OpenURL(server.URL()); err != nil {
			logger.Warn("failed to open browser", "url", server.URL(), "error", err)
		}
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	if trayIcon != nil {
		trayIcon.Quit()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
