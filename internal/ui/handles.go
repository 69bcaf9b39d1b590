// Package ui holds the clip request handler and the UI handles it drives.
// Front-ends (terminal, web page, tray, desktop window) implement the handles;
// the handler never touches a concrete widget.
package ui

// TextInput is the field the user types the source video URL into.
type TextInput interface {
	Value() string
}

// Control is the trigger, e.g. a button. fn is called on every activation.
type Control interface {
	OnActivate(fn func())
}

// Display is the region that shows the outcome of the last completed request.
type Display interface {
	Clear()
	ShowClip(videoURL string)
	ShowError(message string)
}

type BusyIndicator interface {
	Show()
	Hide()
}

type StatusText interface {
	SetStatus(text string)
}

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Alert(message string)
}

// BusyIndicators fans Show/Hide out to several indicators.
type BusyIndicators []BusyIndicator

func (b BusyIndicators) Show() {
	for _, ind := range b {
		ind.Show()
	}
}

func (b BusyIndicators) Hide() {
	for _, ind := range b {
		ind.Hide()
	}
}

// StatusTexts fans SetStatus out to several status views.
type StatusTexts []StatusText

func (s StatusTexts) SetStatus(text string) {
	for _, st := range s {
		st.SetStatus(text)
	}
}

// StaticInput is a TextInput with a fixed value.
type StaticInput string

func (s StaticInput) Value() string {
	return string(s)
}
