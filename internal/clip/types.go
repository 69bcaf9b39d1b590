package clip

import (
	"context"
	"errors"
	"fmt"
)

// Request is the body posted to the clipping service.
type Request struct {
	URL string `json:"url"`
}

// Response is the service reply. Exactly one of the fields is expected to be
// set: VideoURL on 2xx, Error otherwise.
type Response struct {
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Result is a finished clip. VideoURL is always absolute.
type Result struct {
	VideoURL  string
	RequestID string
}

// Client submits a source video URL and returns the produced clip.
type Client interface {
	Clip(ctx context.Context, url string) (*Result, error)
}

// ErrMalformedResponse is wrapped by TransportError when the body cannot be
// parsed or a successful reply carries no video_url.
var ErrMalformedResponse = errors.New("malformed clip service response")

// ServiceError is a non-2xx reply from the clipping service.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("clip service error: HTTP %d: %s", e.StatusCode, e.Message)
}

// TransportError covers everything between "request built" and "reply
// understood": dial failures, deadline expiry, unreadable or malformed bodies.
type TransportError struct {
	Op      string
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("clip %s: deadline exceeded: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("clip %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a TransportError caused by the request deadline.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}
