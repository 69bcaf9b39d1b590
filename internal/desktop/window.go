// Package desktop is the native window front-end built with fyne.
//
// The clip handler runs off the UI goroutine, so every widget access from a
// handle method is funnelled through fyne.Do / fyne.DoAndWait.
package desktop

import (
	"log/slog"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type Window struct {
	app    fyne.App
	win    fyne.Window
	logger *slog.Logger

	entry    *widget.Entry
	button   *widget.Button
	progress *widget.ProgressBarInfinite
	status   *widget.Label
	display  *fyne.Container

	onActivate func()
}

func New(a fyne.App, logger *slog.Logger) *Window {
	w := &Window{
		app:    a,
		win:    a.NewWindow("Clipper"),
		logger: logger,
	}

	w.entry = widget.NewEntry()
	w.entry.SetPlaceHolder("Paste a YouTube URL")
	w.entry.OnSubmitted = func(string) { w.activate() }

	w.button = widget.NewButtonWithIcon("Clip", theme.MediaVideoIcon(), w.activate)

	w.progress = widget.NewProgressBarInfinite()
	w.progress.Stop()
	w.progress.Hide()

	w.status = widget.NewLabel("")
	w.display = container.NewVBox()

	form := container.NewBorder(nil, nil, nil, w.button, w.entry)
	w.win.SetContent(container.NewVBox(form, w.progress, w.status, w.display))
	w.win.Resize(fyne.NewSize(640, 360))

	return w
}

// ShowAndRun shows the window and runs the fyne event loop until it closes.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

func (w *Window) activate() {
	if w.onActivate != nil {
		w.onActivate()
	}
}

// OnActivate registers fn for both the Clip button and Enter in the entry.
func (w *Window) OnActivate(fn func()) {
	w.onActivate = fn
}

func (w *Window) Value() string {
	var v string
	fyne.DoAndWait(func() {
		v = w.entry.Text
	})
	return v
}

func (w *Window) Clear() {
	fyne.Do(func() {
		w.display.RemoveAll()
	})
}

func (w *Window) ShowClip(videoURL string) {
	fyne.Do(func() {
		u, err := url.Parse(videoURL)
		if err != nil {
			w.logger.Error("clip url is not a valid url", "video_url", videoURL, "error", err)
			w.display.Add(errorLabel("Clip ready, but its address could not be opened: " + videoURL))
			return
		}

		play := widget.NewButtonWithIcon("Play", theme.MediaPlayIcon(), func() {
			if err := w.app.OpenURL(u); err != nil {
				w.logger.Error("failed to open clip", "video_url", videoURL, "error", err)
			}
		})
		w.display.Add(container.NewVBox(
			widget.NewLabel("Clip ready"),
			widget.NewHyperlink(videoURL, u),
			play,
		))
	})
}

func (w *Window) ShowError(message string) {
	fyne.Do(func() {
		w.display.Add(errorLabel(message))
	})
}

func errorLabel(message string) *widget.Label {
	l := widget.NewLabel(message)
	l.Importance = widget.DangerImportance
	l.Wrapping = fyne.TextWrapWord
	return l
}

// Show starts the progress bar and disables the Clip button.
func (w *Window) Show() {
	fyne.Do(func() {
		w.button.Disable()
		w.progress.Show()
		w.progress.Start()
	})
}

func (w *Window) Hide() {
	fyne.Do(func() {
		w.progress.Stop()
		w.progress.Hide()
		w.button.Enable()
	})
}

func (w *Window) SetStatus(text string) {
	fyne.Do(func() {
		w.status.SetText(text)
	})
}

func (w *Window) Alert(message string) {
	fyne.Do(func() {
		dialog.ShowInformation("Clipper", message, w.win)
	})
}
