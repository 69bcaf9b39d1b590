// Package terminal renders the clip handler's UI handles on a terminal.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

const spinnerInterval = 120 * time.Millisecond

// View writes results to out and everything else (prompts, status, errors) to
// errOut, so the clip URL on out can be piped.
type View struct {
	out    io.Writer
	errOut io.Writer
	in     *bufio.Reader

	animate bool

	mu     sync.Mutex
	status string
	stop   chan struct{}
	done   chan struct{}
}

// New creates a View. in may be nil, in which case Value never prompts.
func New(out, errOut io.Writer, in io.Reader) *View {
	v := &View{
		out:     out,
		errOut:  errOut,
		animate: isTerminal(errOut),
	}
	if in != nil {
		v.in = bufio.NewReader(in)
	}
	return v
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Value prompts for a URL and reads one line.
func (v *View) Value() string {
	if v.in == nil {
		return ""
	}
	fmt.Fprint(v.errOut, "Video URL: ")
	line, err := v.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}

// Clear is a no-op: earlier output stays in the scrollback.
func (v *View) Clear() {}

func (v *View) ShowClip(videoURL string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLine()
	fmt.Fprintf(v.out, "Clip ready: %s\n", videoURL)
}

func (v *View) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLine()
	fmt.Fprintln(v.errOut, message)
}

func (v *View) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLine()
	fmt.Fprintln(v.errOut, message)
}

// clearLine erases the spinner so the next write starts on a clean line.
// Callers hold mu.
func (v *View) clearLine() {
	if v.stop != nil {
		fmt.Fprint(v.errOut, "\r\033[K")
	}
}

func (v *View) SetStatus(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = text
	if !v.animate && text != "" {
		fmt.Fprintln(v.errOut, text)
	}
}

// Show starts the spinner on a TTY.
func (v *View) Show() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.animate || v.stop != nil {
		return
	}
	v.stop = make(chan struct{})
	v.done = make(chan struct{})
	go v.spin(v.stop, v.done)
}

// Hide stops the spinner and erases its line.
func (v *View) Hide() {
	v.mu.Lock()
	stop, done := v.stop, v.done
	v.stop, v.done = nil, nil
	v.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	fmt.Fprint(v.errOut, "\r\033[K")
}

func (v *View) spin(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		v.mu.Lock()
		fmt.Fprintf(v.errOut, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], v.status)
		v.mu.Unlock()

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}
