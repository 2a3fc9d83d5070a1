package dtelib

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rezonia/dte-emitter/internal/auth"
	"github.com/rezonia/dte-emitter/internal/builder"
	"github.com/rezonia/dte-emitter/internal/config"
	"github.com/rezonia/dte-emitter/internal/logger"
	"github.com/rezonia/dte-emitter/internal/metrics"
	"github.com/rezonia/dte-emitter/internal/mh"
	"github.com/rezonia/dte-emitter/internal/model"
	"github.com/rezonia/dte-emitter/internal/signer"
	"github.com/rezonia/dte-emitter/internal/transmit"
)

// Options configures a Client
type Options struct {
	SignerURL          string
	SignerTimeout      time.Duration
	PrivateKeyPassword string
	SignerActive       bool

	AuthorityTestURL       string
	AuthorityProductionURL string
	UserAgent              string

	// API passwords by issuer NIT
	Credentials map[string]string

	SubmitTimeout    time.Duration
	ProbeTimeout     time.Duration
	MaxAttempts      int
	BatchConcurrency int

	Logger *slog.Logger

	// Metrics are registered here when set
	Registerer prometheus.Registerer

	// Wait between transmission attempts, nil sleeps
	Delay func(ctx context.Context, d time.Duration) error
}

// DefaultOptions returns options pointing at the public MH endpoints and a
// signer on localhost
func DefaultOptions() Options {
	return Options{
		SignerURL:              signer.DefaultURL,
		SignerTimeout:          signer.DefaultTimeout,
		SignerActive:           true,
		AuthorityTestURL:       mh.TestURL,
		AuthorityProductionURL: mh.ProductionURL,
		UserAgent:              mh.DefaultUserAgent,
		Credentials:            map[string]string{},
		SubmitTimeout:          transmit.DefaultAttemptTimeout,
		ProbeTimeout:           transmit.DefaultProbeTimeout,
		MaxAttempts:            transmit.DefaultMaxAttempts,
		BatchConcurrency:       transmit.DefaultBatchConcurrency,
	}
}

// OptionsFromConfig maps loaded configuration onto options
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.SignerURL = cfg.Signer.URL
	opts.SignerTimeout = cfg.Signer.Timeout
	opts.PrivateKeyPassword = cfg.Signer.PrivateKeyPassword
	opts.SignerActive = cfg.Signer.Active
	opts.AuthorityTestURL = cfg.Authority.TestURL
	opts.AuthorityProductionURL = cfg.Authority.ProductionURL
	opts.UserAgent = cfg.Authority.UserAgent
	opts.SubmitTimeout = cfg.Authority.SubmitTimeout
	opts.ProbeTimeout = cfg.Authority.ProbeTimeout
	opts.MaxAttempts = cfg.Authority.MaxAttempts
	opts.BatchConcurrency = cfg.Authority.BatchConcurrency
	if cfg.Authority.NIT != "" {
		opts.Credentials[cfg.Authority.NIT] = cfg.Authority.Password
	}
	opts.Logger = logger.New(cfg.Log.Level, cfg.Log.Format)
	return opts
}

// Client ties the builders, the signer, the authenticator and the
// transmitter together
type Client struct {
	builders      *builder.Registry
	invalidations *builder.InvalidationBuilder
	signer        *signer.Client
	auth          *auth.Authenticator
	transmitter   *transmit.Transmitter
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

// NewClient creates a client with the given options
func NewClient(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	var m *metrics.Metrics
	if opts.Registerer != nil {
		m = metrics.New(opts.Registerer)
	}

	endpoints := mh.Endpoints{Test: opts.AuthorityTestURL, Production: opts.AuthorityProductionURL}

	authOpts := []auth.Option{auth.WithLogger(log), auth.WithMetrics(m)}
	for nit, password := range opts.Credentials {
		authOpts = append(authOpts, auth.WithCredentials(nit, password))
	}
	authenticator := auth.NewAuthenticator(
		auth.NewHTTPTransport(endpoints, mh.NewHTTPClient(opts.SubmitTimeout, opts.UserAgent)),
		authOpts...,
	)

	txOpts := []transmit.Option{
		transmit.WithLogger(log),
		transmit.WithMetrics(m),
		transmit.WithMaxAttempts(opts.MaxAttempts),
		transmit.WithBatchConcurrency(opts.BatchConcurrency),
		transmit.WithProbeTimeout(opts.ProbeTimeout),
	}
	if opts.SubmitTimeout > 0 {
		txOpts = append(txOpts, transmit.WithAttemptTimeout(opts.SubmitTimeout))
	}
	if opts.Delay != nil {
		txOpts = append(txOpts, transmit.WithDelay(opts.Delay))
	}
	transmitter := transmit.NewTransmitter(
		transmit.NewHTTPTransport(endpoints, mh.NewHTTPClient(opts.SubmitTimeout, opts.UserAgent)),
		authenticator,
		txOpts...,
	)

	signerClient := signer.NewClient(
		signer.NewHTTPTransport(opts.SignerURL, signer.WithTransportTimeout(opts.SignerTimeout)),
		opts.PrivateKeyPassword,
		signer.WithTimeout(opts.SignerTimeout),
		signer.WithActive(opts.SignerActive),
		signer.WithLogger(log),
		signer.WithMetrics(m),
	)

	return &Client{
		builders:      builder.NewRegistry(),
		invalidations: builder.NewInvalidationBuilder(),
		signer:        signerClient,
		auth:          authenticator,
		transmitter:   transmitter,
		logger:        log,
		metrics:       m,
	}
}

// Types returns the document types the client can build
func (c *Client) Types() []TypeCode {
	return c.builders.Types()
}

// BuildDocument builds an unsigned document of the given type
func (c *Client) BuildDocument(typeCode TypeCode, params *Params) (*BuildResult, error) {
	result, err := c.builders.Build(typeCode, params)
	if err != nil {
		return nil, err
	}
	c.metrics.IncrementBuilt(string(typeCode))
	return result, nil
}

// BuildInvalidation builds an unsigned invalidation event
func (c *Client) BuildInvalidation(params *InvalidationParams) (*InvalidationResult, error) {
	result, err := c.invalidations.Build(params)
	if err != nil {
		return nil, err
	}
	c.metrics.IncrementBuilt(string(model.TypeInvalidation))
	return result, nil
}

// Sign signs a built document on behalf of taxID
func (c *Client) Sign(ctx context.Context, taxID string, document any) *SignResult {
	return c.signer.Sign(ctx, taxID, document)
}

// Meta describes a signed document for transmission
type Meta struct {
	Environment    Environment
	Type           TypeCode
	Version        int
	GenerationCode string
}

// Transmit submits a signed document with retries
func (c *Client) Transmit(ctx context.Context, signed string, meta Meta, taxID string) *TransmitResult {
	return c.transmitter.Submit(ctx, &transmit.Request{
		Environment:    meta.Environment,
		Type:           meta.Type,
		Version:        meta.Version,
		GenerationCode: meta.GenerationCode,
		Signed:         signed,
	}, taxID)
}

// TransmitInvalidation submits a signed invalidation event with retries
func (c *Client) TransmitInvalidation(ctx context.Context, signed string, env Environment, taxID string) *TransmitResult {
	return c.transmitter.SubmitInvalidation(ctx, &transmit.InvalidationRequest{
		Environment: env,
		Version:     model.TypeInvalidation.Version(),
		Signed:      signed,
	}, taxID)
}

// ConsultStatus queries the status of a transmitted document
func (c *Client) ConsultStatus(ctx context.Context, env Environment, taxID string, typeCode TypeCode, generationCode string) *TransmitResult {
	return c.transmitter.Consult(ctx, env, taxID, typeCode, generationCode)
}

// Probe checks that the authority of env is reachable
func (c *Client) Probe(ctx context.Context, env Environment) error {
	return c.transmitter.Probe(ctx, env)
}

// Issued is the outcome of Issue and Invalidate
type Issued struct {
	GenerationCode string          `json:"generation_code"`
	Document       any             `json:"document"`
	Totals         *Totals         `json:"totals,omitempty"`
	Signed         string          `json:"signed,omitempty"`
	Transmission   *TransmitResult `json:"transmission,omitempty"`
}

// Issue builds, signs and transmits one document. The returned Issued
// carries whatever steps completed.
func (c *Client) Issue(ctx context.Context, typeCode TypeCode, params *Params) (*Issued, error) {
	built, err := c.BuildDocument(typeCode, params)
	if err != nil {
		return nil, err
	}
	issued := &Issued{
		GenerationCode: built.GenerationCode,
		Document:       built.Document,
		Totals:         &built.Totals,
	}

	if err := c.signAndCheck(ctx, params.Issuer.NIT, built.Document, built.GenerationCode, issued); err != nil {
		return issued, err
	}

	issued.Transmission = c.Transmit(ctx, issued.Signed, Meta{
		Environment:    params.Environment,
		Type:           typeCode,
		Version:        built.Version,
		GenerationCode: built.GenerationCode,
	}, params.Issuer.NIT)
	return issued, issued.Transmission.Err()
}

// Invalidate builds, signs and transmits an invalidation event
func (c *Client) Invalidate(ctx context.Context, params *InvalidationParams) (*Issued, error) {
	built, err := c.BuildInvalidation(params)
	if err != nil {
		return nil, err
	}
	issued := &Issued{
		GenerationCode: built.GenerationCode,
		Document:       built.Document,
	}

	if err := c.signAndCheck(ctx, params.Issuer.NIT, built.Document, built.GenerationCode, issued); err != nil {
		return issued, err
	}

	issued.Transmission = c.TransmitInvalidation(ctx, issued.Signed, params.Environment, params.Issuer.NIT)
	return issued, issued.Transmission.Err()
}

func (c *Client) signAndCheck(ctx context.Context, taxID string, document any, generationCode string, issued *Issued) error {
	signed := c.Sign(ctx, taxID, document)
	if err := signed.Err(); err != nil {
		return fmt.Errorf("sign %s: %w", generationCode, err)
	}
	if err := signer.VerifyGenerationCode(signed.Signed, generationCode); err != nil {
		return err
	}
	issued.Signed = signed.Signed
	return nil
}
