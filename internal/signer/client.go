// Package signer wraps the external signing service that turns a DTE into
// a compact JWS.
package signer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/rezonia/dte-emitter/internal/logger"
	"github.com/rezonia/dte-emitter/internal/metrics"
	"github.com/rezonia/dte-emitter/internal/model"
)

// Default signer configuration
const (
	DefaultURL     = "http://localhost:8113"
	DefaultTimeout = 30 * time.Second
)

// SignResult is the structured outcome of a signing request
type SignResult struct {
	Success  bool          `json:"success"`
	Signed   string        `json:"signed,omitempty"`
	Error    *SigningError `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Err returns the failure as an error, nil on success
func (r *SignResult) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// Client signs documents through a Transport
type Client struct {
	transport Transport
	password  string
	active    bool
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures the client
type Option func(*Client)

// WithTimeout bounds every signing request
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithActive sets the "activo" flag sent to the signer
func WithActive(active bool) Option {
	return func(c *Client) {
		c.active = active
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a signer client. password is the private key password
// stored by the signing service for the issuer's certificate.
func NewClient(transport Transport, password string, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		password:  password,
		active:    true,
		timeout:   DefaultTimeout,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sign asks the signer to sign document on behalf of taxID. Expected failures
// are reported in the result, never as a panic.
func (c *Client) Sign(ctx context.Context, taxID string, document any) *SignResult {
	start := time.Now()
	result := c.sign(ctx, taxID, document)
	result.Duration = time.Since(start)

	outcome := "ok"
	if result.Error != nil {
		outcome = result.Error.Code
		c.logger.Warn("signing failed",
			"nit", model.CleanTaxID(taxID),
			"code", result.Error.Code,
			"error", result.Error.Message,
		)
	} else {
		c.logger.Debug("document signed", "nit", model.CleanTaxID(taxID), "duration", result.Duration)
	}
	c.metrics.ObserveSign(outcome, result.Duration)
	return result
}

func (c *Client) sign(ctx context.Context, taxID string, document any) *SignResult {
	nit := model.CleanTaxID(taxID)
	if nit == "" {
		return fail(ErrInvalidInput("nit", "tax id is required"))
	}
	if document == nil {
		return fail(ErrInvalidInput("document", "document is required"))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.transport.Sign(ctx, &Request{
		NIT:             nit,
		Active:          c.active,
		PrivatePassword: c.password,
		Document:        document,
	})
	if err != nil {
		return fail(classify(err))
	}

	switch strings.ToUpper(resp.Status) {
	case StatusOK:
		var signed string
		if err := json.Unmarshal(resp.Body, &signed); err != nil || signed == "" {
			return fail(ErrInvalidResponse(err))
		}
		return &SignResult{Success: true, Signed: signed}
	case StatusError:
		return fail(ErrRejected(bodyMessage(resp.Body)))
	default:
		return fail(ErrInvalidResponse(errors.New("unknown status " + resp.Status)))
	}
}

func fail(err *SigningError) *SignResult {
	return &SignResult{Success: false, Error: err}
}

// classify maps a transport error to its signing error kind
func classify(err error) *SigningError {
	var signingErr *SigningError
	if errors.As(err, &signingErr) {
		return signingErr
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		e := ErrHTTPStatus(statusErr.StatusCode)
		e.Cause = err
		return e
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrUnavailable(err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout(err)
	}

	return ErrTransport(err)
}

// bodyMessage extracts the reason text of an ERROR answer. The signer sends
// either a plain string or an object with a "mensaje" list.
func bodyMessage(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var obj struct {
		Code    string          `json:"codigo"`
		Message json.RawMessage `json:"mensaje"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && len(obj.Message) > 0 {
		var list []string
		if err := json.Unmarshal(obj.Message, &list); err == nil {
			return strings.Join(list, "; ")
		}
		if err := json.Unmarshal(obj.Message, &text); err == nil {
			return text
		}
	}
	return strings.TrimSpace(string(raw))
}
