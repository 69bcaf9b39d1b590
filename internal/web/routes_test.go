package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/heimdex/clipper/internal/clip"
	"github.com/heimdex/clipper/internal/ui"
)

type fakeClient struct {
	mu     sync.Mutex
	urls   []string
	result *clip.Result
	err    error
	block  chan struct{}
}

func (f *fakeClient) Clip(ctx context.Context, url string) (*clip.Result, error) {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.result, f.err
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}

func testConfig(client clip.Client) ServerConfig {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	page := NewPage()
	handler := ui.NewHandler(ui.HandlerConfig{
		Client:   client,
		Display:  page,
		Busy:     page,
		Status:   page,
		Notifier: page,
		Logger:   logger,
	})
	return ServerConfig{
		Handler:   handler,
		Page:      page,
		Logger:    logger,
		StartTime: time.Now(),
		Version:   "test",
	}
}

func loopbackRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.RemoteAddr = "127.0.0.1:12345"
	return req
}

func postForm(t *testing.T, router http.Handler, value string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"url": {value}}
	req := loopbackRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// waitIdle waits for the background clip started by a form post to finish.
func waitIdle(t *testing.T, cfg ServerConfig) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for cfg.Handler.InFlight() {
		if time.Now().After(deadline) {
			t.Fatal("clip request still in flight")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func getIndex(t *testing.T, router http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loopbackRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", rr.Code, http.StatusOK)
	}
	return rr.Body.String()
}

func TestIndex_RendersHandles(t *testing.T) {
	router := NewRouter(testConfig(&fakeClient{}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loopbackRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	for _, id := range []string{`id="clip-url"`, `id="clip-button"`, `id="result"`, `id="loading"`, `id="status"`} {
		if !strings.Contains(body, id) {
			t.Errorf("page missing %s", id)
		}
	}
	if !strings.Contains(body, `<div id="loading" hidden>`) {
		t.Error("busy indicator should be hidden when idle")
	}
}

func TestSubmitForm_Success(t *testing.T) {
	client := &fakeClient{result: &clip.Result{VideoURL: "http://127.0.0.1:5000/clip_abc.mp4"}}
	cfg := testConfig(client)
	router := NewRouter(cfg)

	rr := postForm(t, router, "https://youtu.be/abc")

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	waitIdle(t, cfg)
	if client.calls() != 1 || client.urls[0] != "https://youtu.be/abc" {
		t.Fatalf("calls = %v, want one call with the form value", client.urls)
	}

	body := getIndex(t, router)
	if strings.Count(body, "<video") != 1 {
		t.Errorf("page has %d video elements, want 1", strings.Count(body, "<video"))
	}
	if !strings.Contains(body, `src="http://127.0.0.1:5000/clip_abc.mp4" controls`) {
		t.Errorf("video element missing source or controls:\n%s", body)
	}
	if cfg.Page.Snapshot().Busy {
		t.Error("page still busy after completion")
	}
}

func TestSubmitForm_RespondsBeforeClipFinishes(t *testing.T) {
	client := &fakeClient{
		result: &clip.Result{VideoURL: "http://127.0.0.1:5000/clip_x.mp4"},
		block:  make(chan struct{}),
	}
	cfg := testConfig(client)
	router := NewRouter(cfg)

	rr := postForm(t, router, "https://youtu.be/x")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	body := getIndex(t, router)
	if !strings.Contains(body, `<div id="loading">`) {
		t.Errorf("busy indicator not shown while clipping:\n%s", body)
	}
	if !strings.Contains(body, ui.MsgProcessing) {
		t.Errorf("status text missing while clipping:\n%s", body)
	}

	close(client.block)
	waitIdle(t, cfg)

	body = getIndex(t, router)
	if !strings.Contains(body, "clip_x.mp4") {
		t.Errorf("page missing clip after completion:\n%s", body)
	}
	if !strings.Contains(body, `<div id="loading" hidden>`) {
		t.Error("busy indicator still shown after completion")
	}
}

func TestSubmitForm_BusyAlerts(t *testing.T) {
	client := &fakeClient{result: &clip.Result{VideoURL: "X"}, block: make(chan struct{})}
	cfg := testConfig(client)
	router := NewRouter(cfg)
	defer close(client.block)

	postForm(t, router, "https://youtu.be/first")
	rr := postForm(t, router, "https://youtu.be/second")

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if !strings.Contains(getIndex(t, router), msgAlreadyProcessing) {
		t.Error("page missing already-processing alert")
	}
	if client.calls() != 1 {
		t.Errorf("calls = %d, want 1", client.calls())
	}
}

func TestSubmitForm_ServiceError(t *testing.T) {
	client := &fakeClient{err: &clip.ServiceError{StatusCode: 400, Message: "bad url"}}
	cfg := testConfig(client)
	router := NewRouter(cfg)

	postForm(t, router, "https://youtu.be/abc")
	waitIdle(t, cfg)

	body := getIndex(t, router)
	if !strings.Contains(body, `<p class="error">Error: bad url</p>`) {
		t.Errorf("page missing service error:\n%s", body)
	}
	if strings.Contains(body, "<video") {
		t.Error("error page should not contain a video element")
	}
}

func TestSubmitForm_TransportErrorIsGeneric(t *testing.T) {
	client := &fakeClient{err: &clip.TransportError{Op: "request", Err: io.ErrUnexpectedEOF}}
	cfg := testConfig(client)
	router := NewRouter(cfg)

	postForm(t, router, "https://youtu.be/abc")
	waitIdle(t, cfg)

	body := getIndex(t, router)
	if !strings.Contains(body, ui.MsgUnexpected) {
		t.Errorf("page missing generic message:\n%s", body)
	}
	if strings.Contains(body, io.ErrUnexpectedEOF.Error()) {
		t.Error("page leaks raw transport error")
	}
}

func TestSubmitForm_EmptyInputAlertsOnce(t *testing.T) {
	client := &fakeClient{}
	router := NewRouter(testConfig(client))

	body := postForm(t, router, "   ").Body.String()

	if client.calls() != 0 {
		t.Fatalf("calls = %d, want 0", client.calls())
	}
	if !strings.Contains(body, "alert(") || !strings.Contains(body, ui.MsgInputMissing) {
		t.Errorf("page missing alert:\n%s", body)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loopbackRequest(http.MethodGet, "/", nil))
	if strings.Contains(rr.Body.String(), "alert(") {
		t.Error("notice should be consumed by the first render")
	}
}

func TestSubmitJSON(t *testing.T) {
	cases := []struct {
		name       string
		client     *fakeClient
		body       string
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{
			name:       "success",
			client:     &fakeClient{result: &clip.Result{VideoURL: "X"}},
			body:       `{"url":"https://youtu.be/abc"}`,
			wantStatus: http.StatusOK,
			wantField:  "video_url",
			wantValue:  "X",
		},
		{
			name:       "empty url",
			client:     &fakeClient{},
			body:       `{"url":""}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "code",
			wantValue:  "INPUT_MISSING",
		},
		{
			name:       "service error",
			client:     &fakeClient{err: &clip.ServiceError{StatusCode: 500, Message: "ffmpeg failed"}},
			body:       `{"url":"https://youtu.be/abc"}`,
			wantStatus: http.StatusBadGateway,
			wantField:  "error",
			wantValue:  "Error: ffmpeg failed",
		},
		{
			name:       "timeout",
			client:     &fakeClient{err: &clip.TransportError{Op: "request", Err: context.DeadlineExceeded, Timeout: true}},
			body:       `{"url":"https://youtu.be/abc"}`,
			wantStatus: http.StatusBadGateway,
			wantField:  "error",
			wantValue:  ui.MsgTimeout,
		},
		{
			name:       "invalid body",
			client:     &fakeClient{},
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			wantField:  "code",
			wantValue:  "BAD_REQUEST",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := NewRouter(testConfig(tc.client))

			req := loopbackRequest(http.MethodPost, "/api/clip", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			body := decodeJSONBody(t, rr)
			if got, _ := body[tc.wantField].(string); got != tc.wantValue {
				t.Errorf("%s = %q, want %q", tc.wantField, got, tc.wantValue)
			}
		})
	}
}

func TestSubmitJSON_ReplyIgnoresLaterPageChanges(t *testing.T) {
	client := &fakeClient{result: &clip.Result{VideoURL: "http://127.0.0.1:5000/clip_a.mp4"}}
	cfg := testConfig(client)

	// Another submission clears the shared display as soon as the clip is rendered.
	cfg.Handler = ui.NewHandler(ui.HandlerConfig{
		Client:   client,
		Display:  clearingDisplay{cfg.Page},
		Busy:     cfg.Page,
		Status:   cfg.Page,
		Notifier: cfg.Page,
	})
	router := NewRouter(cfg)

	req := loopbackRequest(http.MethodPost, "/api/clip", strings.NewReader(`{"url":"https://youtu.be/a"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeJSONBody(t, rr)
	if got, _ := body["video_url"].(string); got != "http://127.0.0.1:5000/clip_a.mp4" {
		t.Errorf("video_url = %q, want this request's clip", got)
	}
}

type clearingDisplay struct {
	*Page
}

func (d clearingDisplay) ShowClip(videoURL string) {
	d.Page.ShowClip(videoURL)
	d.Page.Clear()
}

func TestStatus_ReportsPageState(t *testing.T) {
	cfg := testConfig(&fakeClient{})
	cfg.Page.Show()
	cfg.Page.SetStatus(ui.MsgProcessing)
	router := NewRouter(cfg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loopbackRequest(http.MethodGet, "/status", nil))

	body := decodeJSONBody(t, rr)
	if busy, _ := body["busy"].(bool); !busy {
		t.Errorf("busy = %v, want true", body["busy"])
	}
	if status, _ := body["status"].(string); status != ui.MsgProcessing {
		t.Errorf("status = %q, want %q", status, ui.MsgProcessing)
	}
	if _, ok := body["in_flight"]; !ok {
		t.Error("in_flight missing from status")
	}
}

func TestHealth(t *testing.T) {
	router := NewRouter(testConfig(&fakeClient{}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, loopbackRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeJSONBody(t, rr)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("health = %v", body)
	}
}

func TestRouter_RejectsNonLoopback(t *testing.T) {
	router := NewRouter(testConfig(&fakeClient{}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.20:5555"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRouter_Integration(t *testing.T) {
	client := &fakeClient{
		result: &clip.Result{VideoURL: "http://127.0.0.1:5000/clip_x.mp4"},
		block:  make(chan struct{}),
	}
	cfg := testConfig(client)
	server := httptest.NewServer(NewRouter(cfg))
	defer server.Close()

	httpClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := httpClient.PostForm(server.URL+"/", url.Values{"url": {"https://youtu.be/x"}})
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if resp.Request.Method != http.MethodGet {
		t.Errorf("final method = %s, want GET after redirect", resp.Request.Method)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if !strings.Contains(string(body), `http-equiv="refresh"`) {
		t.Errorf("busy page does not refresh:\n%s", body)
	}

	close(client.block)
	waitIdle(t, cfg)

	resp, err = httpClient.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	body, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "clip_x.mp4") {
		t.Errorf("page missing clip:\n%s", body)
	}
}

func decodeJSONBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}
