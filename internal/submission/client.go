package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrTransport wraps every failure that is not a well-formed verdict from the
// collaborator: network errors, 5xx answers and unreadable bodies.
var ErrTransport = errors.New("collaborator unavailable")

// Request is the payload sent to the collaborator.
type Request struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Steps int    `json:"steps"`
	Email string `json:"email"`
}

// Outcome is the collaborator's verdict.
type Outcome struct {
	Accepted bool
	Message  string
}

// Submitter sends one request per call. No retries.
type Submitter interface {
	Submit(ctx context.Context, req Request) (Outcome, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req Request) (Outcome, error)

func (f SubmitterFunc) Submit(ctx context.Context, req Request) (Outcome, error) {
	return f(ctx, req)
}

type responseBody struct {
	Message string `json:"message"`
}

// HTTPClient posts JSON to the collaborator endpoint.
type HTTPClient struct {
	URL    string
	Client *http.Client
}

// NewHTTPClient returns a client for url with the given per-request timeout.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Submit maps 2xx to an accepted outcome and 4xx to a rejection, both
// carrying the body's message.
func (c *HTTPClient) Submit(ctx context.Context, req Request) (Outcome, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("encoding request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return Outcome{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}

	var accepted bool
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		accepted = true
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		accepted = false
	default:
		return Outcome{}, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var decoded responseBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Outcome{}, fmt.Errorf("%w: decoding body: %v", ErrTransport, err)
	}
	return Outcome{Accepted: accepted, Message: decoded.Message}, nil
}
