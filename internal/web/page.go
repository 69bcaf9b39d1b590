package web

import "sync"

// Page is the shared state behind the clipper page: the display region, the
// busy indicator, the status text and a pending notice. Every browser tab
// renders the same Page, so the last completed request wins.
type Page struct {
	mu       sync.Mutex
	busy     bool
	status   string
	videoURL string
	errMsg   string
	notice   string
}

// PageState is a point-in-time copy of a Page.
type PageState struct {
	Busy     bool   `json:"busy"`
	Status   string `json:"status,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error,omitempty"`
	Notice   string `json:"-"`
}

func NewPage() *Page {
	return &Page{}
}

func (p *Page) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoURL = ""
	p.errMsg = ""
}

func (p *Page) ShowClip(videoURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoURL = videoURL
	p.errMsg = ""
}

func (p *Page) ShowError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoURL = ""
	p.errMsg = message
}

func (p *Page) Show() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = true
}

func (p *Page) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = false
}

func (p *Page) SetStatus(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = text
}

// Alert queues a notice that the next render shows as a blocking alert.
func (p *Page) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = message
}

// Snapshot returns the current state without consuming the notice.
func (p *Page) Snapshot() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Render returns the current state and consumes the pending notice.
func (p *Page) Render() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.snapshot()
	p.notice = ""
	return s
}

func (p *Page) snapshot() PageState {
	return PageState{
		Busy:     p.busy,
		Status:   p.status,
		VideoURL: p.videoURL,
		Error:    p.errMsg,
		Notice:   p.notice,
	}
}
