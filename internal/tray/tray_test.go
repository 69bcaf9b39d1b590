package tray

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/heimdex/clipper/internal/ui"
)

func testTray() *Tray {
	return New(Config{
		PageURL: "http://127.0.0.1:8788/",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestTray_ImplementsHandles(t *testing.T) {
	var _ ui.BusyIndicator = (*Tray)(nil)
	var _ ui.StatusText = (*Tray)(nil)
}

func TestTray_LabelBeforeReady(t *testing.T) {
	tr := testTray()

	if got := tr.Label(); got != "Status: Idle" {
		t.Fatalf("Label() = %q, want %q", got, "Status: Idle")
	}

	tr.Show()
	if got := tr.Label(); got != "Status: Busy" {
		t.Errorf("Label() = %q, want %q", got, "Status: Busy")
	}

	tr.SetStatus(ui.MsgProcessing)
	if got := tr.Label(); got != "Status: "+ui.MsgProcessing {
		t.Errorf("Label() = %q, want %q", got, "Status: "+ui.MsgProcessing)
	}

	tr.Hide()
	tr.SetStatus("")
	if got := tr.Label(); got != "Status: Idle" {
		t.Errorf("Label() = %q, want %q", got, "Status: Idle")
	}
}

func TestTray_HandleOpen(t *testing.T) {
	tr := testTray()

	var opened string
	tr.openBrowser = func(url string) error {
		opened = url
		return nil
	}

	tr.handleOpen()

	if opened != "http://127.0.0.1:8788/" {
		t.Errorf("opened = %q, want %q", opened, "http://127.0.0.1:8788/")
	}
}

func TestTray_HandleOpenError(t *testing.T) {
	tr := testTray()
	tr.openBrowser = func(string) error { return errors.New("no browser") }

	// logged, never fatal
	tr.handleOpen()
}

func TestIconEmbedded(t *testing.T) {
	if len(iconBytes) < 8 || string(iconBytes[1:4]) != "PNG" {
		t.Fatalf("icon is not an embedded PNG (%d bytes)", len(iconBytes))
	}
}
