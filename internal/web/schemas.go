package web

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	InFlight bool `json:"in_flight"`
	PageState
}

// ClipRequest is the JSON body accepted by POST /api/clip. It matches the
// clipping service's own request body.
type ClipRequest struct {
	URL string `json:"url"`
}

type ClipResponse struct {
	VideoURL string `json:"video_url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
