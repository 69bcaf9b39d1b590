package desktop

import (
	"io"
	"log/slog"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/heimdex/clipper/internal/ui"
)

func newTestWindow(t *testing.T) *Window {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	return New(a, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWindow_ImplementsHandles(t *testing.T) {
	var _ ui.TextInput = (*Window)(nil)
	var _ ui.Control = (*Window)(nil)
	var _ ui.Display = (*Window)(nil)
	var _ ui.BusyIndicator = (*Window)(nil)
	var _ ui.StatusText = (*Window)(nil)
	var _ ui.Notifier = (*Window)(nil)
}

func TestWindow_ValueReadsEntry(t *testing.T) {
	w := newTestWindow(t)

	test.Type(w.entry, "https://youtu.be/abc")

	if got := w.Value(); got != "https://youtu.be/abc" {
		t.Errorf("Value() = %q, want %q", got, "https://youtu.be/abc")
	}
}

func TestWindow_ButtonActivates(t *testing.T) {
	w := newTestWindow(t)

	activations := 0
	w.OnActivate(func() { activations++ })

	test.Tap(w.button)

	if activations != 1 {
		t.Errorf("activations = %d, want 1", activations)
	}
}

func TestWindow_BusyTogglesProgressAndButton(t *testing.T) {
	w := newTestWindow(t)

	w.Show()
	if !w.progress.Visible() {
		t.Error("progress bar hidden while busy")
	}
	if !w.button.Disabled() {
		t.Error("Clip button enabled while busy")
	}

	w.Hide()
	if w.progress.Visible() {
		t.Error("progress bar visible after Hide")
	}
	if w.button.Disabled() {
		t.Error("Clip button disabled after Hide")
	}
}

func TestWindow_DisplayRegion(t *testing.T) {
	w := newTestWindow(t)

	w.ShowError("Error: bad url")
	if len(w.display.Objects) != 1 {
		t.Fatalf("display has %d objects, want 1", len(w.display.Objects))
	}
	label, ok := w.display.Objects[0].(*widget.Label)
	if !ok || label.Text != "Error: bad url" {
		t.Errorf("display object = %#v, want error label", w.display.Objects[0])
	}

	w.Clear()
	w.ShowClip("http://127.0.0.1:5000/clip_abc.mp4")
	if len(w.display.Objects) != 1 {
		t.Fatalf("display has %d objects after re-render, want 1", len(w.display.Objects))
	}

	w.SetStatus(ui.MsgProcessing)
	if w.status.Text != ui.MsgProcessing {
		t.Errorf("status = %q, want %q", w.status.Text, ui.MsgProcessing)
	}
}
