package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/heimdex/clipper/internal/clip"
	"github.com/heimdex/clipper/internal/logging"
)

// User-facing messages.
const (
	MsgInputMissing = "Please enter a video URL."
	MsgProcessing   = "Processing..."
	MsgErrorPrefix  = "Error: "
	MsgUnexpected   = "An unexpected error occurred. Please try again."
	MsgTimeout      = "The clipping service did not respond in time. Please try again."
)

// Outcome is what a single activation ended in.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInputMissing
	OutcomeBusy
	OutcomeServiceError
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInputMissing:
		return "input_missing"
	case OutcomeBusy:
		return "busy"
	case OutcomeServiceError:
		return "service_error"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

type HandlerConfig struct {
	Client   clip.Client
	Input    TextInput
	Control  Control
	Display  Display
	Busy     BusyIndicator
	Status   StatusText
	Notifier Notifier
	Logger   *slog.Logger
}

// Handler turns one activation of the trigger into at most one clip request
// and renders its outcome. At most one request is in flight per Handler;
// activations that arrive meanwhile are dropped.
type Handler struct {
	client   clip.Client
	input    TextInput
	control  Control
	display  Display
	busy     BusyIndicator
	status   StatusText
	notifier Notifier
	logger   *slog.Logger

	inFlight atomic.Bool
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		client:   cfg.Client,
		input:    cfg.Input,
		control:  cfg.Control,
		display:  cfg.Display,
		busy:     cfg.Busy,
		status:   cfg.Status,
		notifier: cfg.Notifier,
		logger:   logging.WithComponent(logger, "clip_handler"),
	}
}

// Bind wires the trigger control to Trigger. Each activation runs on its own
// goroutine so the control's event loop is never blocked by the request.
func (h *Handler) Bind(ctx context.Context) {
	if h.control == nil {
		return
	}
	h.control.OnActivate(func() {
		go h.Trigger(ctx)
	})
}

// Trigger reads the text input and submits its value.
func (h *Handler) Trigger(ctx context.Context) Outcome {
	value := ""
	if h.input != nil {
		value = h.input.Value()
	}
	return h.Submit(ctx, value)
}

// InFlight reports whether a request is outstanding.
func (h *Handler) InFlight() bool {
	return h.inFlight.Load()
}

// Reply is what one submission produced: its outcome, the clip URL on success
// and the message shown to the user otherwise.
type Reply struct {
	Outcome  Outcome
	VideoURL string
	Message  string
}

// Submit validates raw, issues the clip request and renders the outcome.
func (h *Handler) Submit(ctx context.Context, raw string) Outcome {
	return h.Run(ctx, raw).Outcome
}

// Run is Submit returning the full Reply of this call, independent of what
// the shared display shows by the time the caller reads it.
func (h *Handler) Run(ctx context.Context, raw string) Reply {
	videoURL, reply, ok := h.begin(raw)
	if !ok {
		return reply
	}
	return h.finish(ctx, videoURL)
}

// Start validates raw and claims the in-flight slot before returning, then
// issues the request on its own goroutine. The channel receives exactly one
// Reply; a rejected submission (empty input, busy) has it ready on return.
func (h *Handler) Start(ctx context.Context, raw string) <-chan Reply {
	done := make(chan Reply, 1)
	videoURL, reply, ok := h.begin(raw)
	if !ok {
		done <- reply
		return done
	}
	go func() {
		done <- h.finish(ctx, videoURL)
	}()
	return done
}

// begin runs the synchronous part of a submission. When ok is false the
// submission was rejected and reply says why.
func (h *Handler) begin(raw string) (videoURL string, reply Reply, ok bool) {
	videoURL = strings.TrimSpace(raw)
	if videoURL == "" {
		h.logger.Debug("empty input, no request issued")
		if h.notifier != nil {
			h.notifier.Alert(MsgInputMissing)
		}
		return "", Reply{Outcome: OutcomeInputMissing, Message: MsgInputMissing}, false
	}

	if !h.inFlight.CompareAndSwap(false, true) {
		h.logger.Info("clip request already in flight, activation ignored")
		return "", Reply{Outcome: OutcomeBusy}, false
	}

	h.display.Clear()
	h.busy.Show()
	h.status.SetStatus(MsgProcessing)
	return videoURL, Reply{}, true
}

// finish issues the request claimed by begin and renders its outcome.
func (h *Handler) finish(ctx context.Context, videoURL string) Reply {
	defer h.inFlight.Store(false)
	defer func() {
		h.busy.Hide()
		h.status.SetStatus("")
	}()

	result, err := h.client.Clip(ctx, videoURL)
	if err == nil {
		h.display.ShowClip(result.VideoURL)
		return Reply{Outcome: OutcomeSuccess, VideoURL: result.VideoURL}
	}

	var svcErr *clip.ServiceError
	if errors.As(err, &svcErr) {
		h.logger.Warn("clip service reported failure", "status", svcErr.StatusCode, "error", svcErr.Message)
		msg := MsgErrorPrefix + svcErr.Message
		h.display.ShowError(msg)
		return Reply{Outcome: OutcomeServiceError, Message: msg}
	}

	h.logger.Error("clip request failed", "error", err, "timeout", clip.IsTimeout(err))
	msg := MsgUnexpected
	if clip.IsTimeout(err) {
		msg = MsgTimeout
	}
	h.display.ShowError(msg)
	return Reply{Outcome: OutcomeTransportError, Message: msg}
}
