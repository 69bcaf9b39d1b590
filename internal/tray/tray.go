// Package tray is the system-tray companion of the local clipper page. It
// mirrors the handler's busy indicator and status text and offers shortcuts
// to open the page and quit.
package tray

import (
	_ "embed"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
	"github.com/pkg/browser"
)

//go:embed icon.png
var iconBytes []byte

type Tray struct {
	pageURL string
	logger  *slog.Logger

	statusItem *systray.MenuItem

	mu     sync.Mutex
	ready  bool
	busy   bool
	status string

	onQuit      func()
	openBrowser func(url string) error
}

type Config struct {
	PageURL string
	Logger  *slog.Logger
	OnQuit  func()
}

func New(cfg Config) *Tray {
	return &Tray{
		pageURL:     cfg.PageURL,
		logger:      cfg.Logger,
		onQuit:      cfg.OnQuit,
		openBrowser: browser.OpenURL,
	}
}

// Run blocks until the tray exits; call it from its own goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Clipper")
	systray.SetTooltip("Clipper: " + t.pageURL)

	t.mu.Lock()
	t.statusItem = systray.AddMenuItem(statusLabel(t.busy, t.status), "Current clip status")
	t.statusItem.Disable()
	t.ready = true
	t.mu.Unlock()

	systray.AddSeparator()

	openItem := systray.AddMenuItem("Open Clipper", "Open the clipper page in your browser")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Clipper")

	go func() {
		for {
			select {
			case <-openItem.ClickedCh:
				t.handleOpen()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) handleOpen() {
	if err := t.openBrowser(t.pageURL); err != nil {
		t.logger.Error("failed to open browser", "url", t.pageURL, "error", err)
	}
}

// Show marks a clip request as running.
func (t *Tray) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy = true
	t.refresh()
}

// Hide marks the tray idle again.
func (t *Tray) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy = false
	t.refresh()
}

func (t *Tray) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = text
	t.refresh()
}

// Label returns the text currently shown in the status item.
func (t *Tray) Label() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return statusLabel(t.busy, t.status)
}

// refresh must be called with mu held.
func (t *Tray) refresh() {
	if !t.ready {
		return
	}
	t.statusItem.SetTitle(statusLabel(t.busy, t.status))
	if t.busy {
		systray.SetTitle("Clipper (busy)")
	} else {
		systray.SetTitle("Clipper")
	}
}

func statusLabel(busy bool, status string) string {
	switch {
	case status != "":
		return "Status: " + status
	case busy:
		return "Status: Busy"
	default:
		return "Status: Idle"
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}
