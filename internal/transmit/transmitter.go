// Package transmit sends signed documents to the MH reception API and
// queries their status.
package transmit

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/dte-emitter/internal/auth"
	"github.com/rezonia/dte-emitter/internal/logger"
	"github.com/rezonia/dte-emitter/internal/metrics"
	"github.com/rezonia/dte-emitter/internal/model"
)

// Retry policy defaults
const (
	DefaultMaxAttempts      = 3
	DefaultBatchConcurrency = 4
)

// DefaultBackoff holds the delays before the second and third attempts
var DefaultBackoff = []time.Duration{time.Second, 2 * time.Second}

// Operation labels
const (
	OpSubmit     = "submit"
	OpInvalidate = "invalidate"
	OpConsult    = "consult"
	OpProbe      = "probe"
)

// TokenProvider hands out bearer tokens for the reception API
type TokenProvider interface {
	Token(ctx context.Context, env model.Environment, taxID string) (string, error)
	Invalidate(env model.Environment, taxID string)
}

// DelayFunc waits d or until ctx is done
type DelayFunc func(ctx context.Context, d time.Duration) error

// Request is a signed sales document ready to be transmitted
type Request struct {
	Environment    model.Environment `json:"environment"`
	Type           model.TypeCode    `json:"type"`
	Version        int               `json:"version"`
	GenerationCode string            `json:"generation_code"`
	Signed         string            `json:"signed"`
}

// InvalidationRequest is a signed invalidation event ready to be transmitted
type InvalidationRequest struct {
	Environment model.Environment `json:"environment"`
	Version     int               `json:"version"`
	Signed      string            `json:"signed"`
}

// Transmitter submits documents with bounded retries
type Transmitter struct {
	transport        Transport
	tokens           TokenProvider
	clock            clockwork.Clock
	delay            DelayFunc
	maxAttempts      int
	backoff          []time.Duration
	attemptTimeout   time.Duration
	probeTimeout     time.Duration
	batchConcurrency int
	newSendID        func() uint32
	logger           *slog.Logger
	metrics          *metrics.Metrics
}

// Option configures the transmitter
type Option func(*Transmitter)

// WithDelay replaces the wait between attempts
func WithDelay(delay DelayFunc) Option {
	return func(t *Transmitter) {
		t.delay = delay
	}
}

// WithMaxAttempts bounds the number of attempts of Submit and SubmitInvalidation
func WithMaxAttempts(n int) Option {
	return func(t *Transmitter) {
		if n > 0 {
			t.maxAttempts = n
		}
	}
}

// WithBackoff sets the delays between attempts; the last one repeats
func WithBackoff(delays ...time.Duration) Option {
	return func(t *Transmitter) {
		t.backoff = delays
	}
}

// WithAttemptTimeout bounds each attempt
func WithAttemptTimeout(d time.Duration) Option {
	return func(t *Transmitter) {
		t.attemptTimeout = d
	}
}

// WithProbeTimeout bounds the connectivity probe
func WithProbeTimeout(d time.Duration) Option {
	return func(t *Transmitter) {
		t.probeTimeout = d
	}
}

// WithBatchConcurrency limits the concurrent submissions of SubmitBatch
func WithBatchConcurrency(n int) Option {
	return func(t *Transmitter) {
		if n > 0 {
			t.batchConcurrency = n
		}
	}
}

// WithClock sets the clock used for durations and the default delay
func WithClock(clock clockwork.Clock) Option {
	return func(t *Transmitter) {
		t.clock = clock
	}
}

// WithSendIDGenerator replaces the idEnvio generator
func WithSendIDGenerator(fn func() uint32) Option {
	return func(t *Transmitter) {
		t.newSendID = fn
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(t *Transmitter) {
		t.logger = l
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Transmitter) {
		t.metrics = m
	}
}

// NewTransmitter creates a transmitter
func NewTransmitter(transport Transport, tokens TokenProvider, opts ...Option) *Transmitter {
	t := &Transmitter{
		transport:        transport,
		tokens:           tokens,
		clock:            clockwork.NewRealClock(),
		maxAttempts:      DefaultMaxAttempts,
		backoff:          DefaultBackoff,
		attemptTimeout:   DefaultAttemptTimeout,
		probeTimeout:     DefaultProbeTimeout,
		batchConcurrency: DefaultBatchConcurrency,
		newSendID:        func() uint32 { return uuid.New().ID() },
		logger:           logger.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.delay == nil {
		t.delay = t.sleep
	}
	return t
}

func (t *Transmitter) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.clock.After(d):
		return nil
	}
}

func (t *Transmitter) backoffFor(retry int) time.Duration {
	if len(t.backoff) == 0 {
		return 0
	}
	if retry >= len(t.backoff) {
		return t.backoff[len(t.backoff)-1]
	}
	return t.backoff[retry]
}

// Submit transmits a signed sales document for taxID
func (t *Transmitter) Submit(ctx context.Context, req *Request, taxID string) *Result {
	if req == nil || req.Signed == "" {
		return failed(ErrInvalidInput("signed document is required"))
	}
	if req.GenerationCode == "" {
		return failed(ErrInvalidInput("generation code is required"))
	}

	payload := &ReceptionPayload{
		Environment:    string(req.Environment),
		SendID:         t.newSendID(),
		Version:        req.Version,
		DocumentType:   string(req.Type),
		Document:       req.Signed,
		GenerationCode: strings.ToUpper(req.GenerationCode),
	}
	return t.withRetry(ctx, OpSubmit, req.Environment, model.CleanTaxID(taxID), func(ctx context.Context, token string) (*Response, error) {
		return t.transport.Submit(ctx, req.Environment, token, payload)
	})
}

// SubmitInvalidation transmits a signed invalidation event for taxID
func (t *Transmitter) SubmitInvalidation(ctx context.Context, req *InvalidationRequest, taxID string) *Result {
	if req == nil || req.Signed == "" {
		return failed(ErrInvalidInput("signed event is required"))
	}

	payload := &InvalidationPayload{
		Environment: string(req.Environment),
		SendID:      t.newSendID(),
		Version:     req.Version,
		Document:    req.Signed,
	}
	return t.withRetry(ctx, OpInvalidate, req.Environment, model.CleanTaxID(taxID), func(ctx context.Context, token string) (*Response, error) {
		return t.transport.Invalidate(ctx, req.Environment, token, payload)
	})
}

// Consult queries the status of a document once, without retries
func (t *Transmitter) Consult(ctx context.Context, env model.Environment, taxID string, typeCode model.TypeCode, generationCode string) *Result {
	if generationCode == "" {
		return failed(ErrInvalidInput("generation code is required"))
	}

	nit := model.CleanTaxID(taxID)
	start := t.clock.Now()
	result := t.attempt(ctx, env, nit, OpConsult, func(ctx context.Context, token string) (*Response, error) {
		return t.transport.Consult(ctx, env, token, &ConsultPayload{
			IssuerNIT:      nit,
			DocumentType:   string(typeCode),
			GenerationCode: strings.ToUpper(generationCode),
		})
	})
	result.Attempts = 1
	result.Duration = t.clock.Since(start)
	t.record(OpConsult, env, nit, result)
	return result
}

// Probe checks that the reception API of env is reachable
func (t *Transmitter) Probe(ctx context.Context, env model.Environment) error {
	ctx, cancel := context.WithTimeout(ctx, t.probeTimeout)
	defer cancel()

	start := t.clock.Now()
	err := t.transport.Probe(ctx, env)
	t.metrics.ObserveAttempt(OpProbe, t.clock.Since(start))

	status := "ok"
	if err != nil {
		status = "unreachable"
	}
	t.metrics.IncrementOutcome(OpProbe, status)
	return err
}

// SubmitBatch transmits independent documents concurrently. Results are in
// the order of reqs.
func (t *Transmitter) SubmitBatch(ctx context.Context, reqs []*Request, taxID string) []*Result {
	results := make([]*Result, len(reqs))

	var g errgroup.Group
	g.SetLimit(t.batchConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = t.Submit(ctx, req, taxID)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

type sendFunc func(ctx context.Context, token string) (*Response, error)

// withRetry runs send until it gets a reception answer, a non-retryable
// failure, or runs out of attempts. The cached token is dropped before
// every retry.
func (t *Transmitter) withRetry(ctx context.Context, op string, env model.Environment, nit string, send sendFunc) *Result {
	start := t.clock.Now()
	var result *Result

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if attempt > 1 {
			t.tokens.Invalidate(env, nit)
			wait := t.backoffFor(attempt - 2)
			t.logger.Info("retrying transmission",
				"operation", op,
				"nit", nit,
				"attempt", attempt,
				"delay", wait,
				"error", result.Error.Error(),
			)
			if err := t.delay(ctx, wait); err != nil {
				result = failed(ErrCanceled(err))
				result.Attempts = attempt - 1
				break
			}
		}

		result = t.attempt(ctx, env, nit, op, send)
		result.Attempts = attempt
		if result.Error == nil || !result.Error.Retryable() {
			break
		}
	}

	if result.Error != nil && result.Error.Retryable() {
		// Out of attempts on a transient failure; the token may be stale
		t.tokens.Invalidate(env, nit)
	}
	result.Duration = t.clock.Since(start)
	t.record(op, env, nit, result)
	return result
}

// attempt performs a single exchange
func (t *Transmitter) attempt(ctx context.Context, env model.Environment, nit, op string, send sendFunc) *Result {
	token, err := t.tokens.Token(ctx, env, nit)
	if err != nil {
		return failed(tokenError(err))
	}

	attemptCtx, cancel := context.WithTimeout(ctx, t.attemptTimeout)
	defer cancel()

	start := t.clock.Now()
	resp, err := send(attemptCtx, token)
	t.metrics.ObserveAttempt(op, t.clock.Since(start))
	if err != nil {
		var te *TransmissionError
		if !errors.As(err, &te) {
			te = networkError(err)
		}
		return failed(te)
	}
	return classify(resp)
}

func (t *Transmitter) record(op string, env model.Environment, nit string, result *Result) {
	status := "ok"
	if result.Error != nil {
		status = strings.ToLower(result.Error.Code)
	}
	t.metrics.IncrementOutcome(op, status)

	attrs := []any{
		"operation", op,
		"environment", env.String(),
		"nit", nit,
		"generation_code", result.GenerationCode,
		"attempts", result.Attempts,
		"duration", result.Duration,
	}
	switch {
	case result.Error == nil:
		t.logger.Info("transmission processed", append(attrs, "seal", result.ReceivedSeal)...)
	case result.Rejected():
		t.logger.Warn("transmission rejected", append(attrs,
			"code", result.MessageCode,
			"description", result.Description,
			"observations", result.Observations,
		)...)
	default:
		t.logger.Error("transmission failed", append(attrs, "error", result.Error.Error())...)
	}
}

// tokenError maps an authentication failure. Fatal ones stop the retries.
func tokenError(err error) *TransmissionError {
	var authErr *auth.AuthError
	if errors.As(err, &authErr) && !authErr.Fatal() {
		return ErrConnectivity(err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCanceled(err)
	}
	return ErrAuth(err)
}

func failed(err *TransmissionError) *Result {
	return &Result{Success: false, Error: err}
}
