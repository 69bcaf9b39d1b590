package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heimdex/clipper/internal/ui"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

const msgAlreadyProcessing = "A clip is already being processed. Please wait for it to finish."

type indexView struct {
	PageState
	Input string
}

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(LoopbackGuard())

	r.Get("/health", healthHandler(cfg))
	r.Get("/status", statusHandler(cfg))

	r.Get("/", indexHandler(cfg))
	r.Post("/", submitFormHandler(cfg))
	r.Post("/api/clip", submitJSONHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, StatusResponse{
			InFlight:  cfg.Handler.InFlight(),
			PageState: cfg.Page.Snapshot(),
		})
	}
}

func indexHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderIndex(w, cfg, "")
	}
}

// submitFormHandler starts the clip and redirects to the page, which refreshes
// while busy. Only empty input is answered in place, with the alert.
func submitFormHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid form body", "BAD_REQUEST")
			return
		}
		input := r.PostForm.Get("url")

		done := cfg.Handler.Start(detach(r.Context()), input)
		select {
		case reply := <-done:
			switch reply.Outcome {
			case ui.OutcomeInputMissing:
				renderIndex(w, cfg, input)
				return
			case ui.OutcomeBusy:
				cfg.Page.Alert(msgAlreadyProcessing)
			}
		default:
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func submitJSONHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		reply := cfg.Handler.Run(detach(r.Context()), req.URL)

		switch reply.Outcome {
		case ui.OutcomeSuccess:
			WriteJSON(w, http.StatusOK, ClipResponse{VideoURL: reply.VideoURL})
		case ui.OutcomeInputMissing:
			// The JSON caller gets the notice in the body; the page must not pop it.
			cfg.Page.Render()
			WriteError(w, http.StatusBadRequest, reply.Message, "INPUT_MISSING")
		case ui.OutcomeBusy:
			WriteError(w, http.StatusConflict, msgAlreadyProcessing, "BUSY")
		case ui.OutcomeServiceError:
			WriteError(w, http.StatusBadGateway, reply.Message, "SERVICE_ERROR")
		default:
			WriteError(w, http.StatusBadGateway, reply.Message, "TRANSPORT_ERROR")
		}
	}
}

// detach keeps the request's values but not its cancellation, so closing the
// tab does not abort a clip the service is already working on.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func renderIndex(w http.ResponseWriter, cfg ServerConfig, input string) {
	view := indexView{PageState: cfg.Page.Render(), Input: input}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := indexTemplate.Execute(w, view); err != nil {
		cfg.Logger.Error("failed to render page", "error", err)
	}
}
