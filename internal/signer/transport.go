package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Signer response statuses
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// SignPath is the signing endpoint of the local signer
const SignPath = "/firmardocumento/"

// Request is the body posted to the signer
type Request struct {
	NIT             string `json:"nit"`
	Active          bool   `json:"activo"`
	PrivatePassword string `json:"passwordPri"`
	Document        any    `json:"dteJson"`
}

// Response is the signer answer. Body is the compact JWS on OK and the
// failure reason on ERROR.
type Response struct {
	Status string          `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Transport sends signing requests
type Transport interface {
	Sign(ctx context.Context, req *Request) (*Response, error)
}

// HTTPStatusError is returned by transports for a non-2xx answer that carries
// no signer status
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// HTTPTransport posts signing requests to the signer over HTTP
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// TransportOption configures the HTTP transport
type TransportOption func(*transportConfig)

type transportConfig struct {
	timeout    time.Duration
	httpClient *http.Client
}

// WithTransportTimeout sets the HTTP client timeout
func WithTransportTimeout(timeout time.Duration) TransportOption {
	return func(cfg *transportConfig) {
		cfg.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client, overriding the timeout option
func WithHTTPClient(c *http.Client) TransportOption {
	return func(cfg *transportConfig) {
		cfg.httpClient = c
	}
}

// NewHTTPTransport creates a transport for the signer at baseURL
func NewHTTPTransport(baseURL string, opts ...TransportOption) *HTTPTransport {
	cfg := &transportConfig{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(cfg)
	}
	client := cfg.httpClient
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Sign implements Transport
func (t *HTTPTransport) Sign(ctx context.Context, req *Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal signing request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+SignPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read signer response: %w", err)
	}

	var out Response
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The signer reports its own failures with status ERROR and may use
		// a non-2xx code for them
		if decodeErr == nil && out.Status != "" {
			return &out, nil
		}
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if decodeErr != nil {
		return nil, ErrInvalidResponse(decodeErr)
	}
	return &out, nil
}
