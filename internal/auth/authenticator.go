// Package auth obtains and caches bearer tokens from the MH identity service.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/rezonia/dte-emitter/internal/logger"
	"github.com/rezonia/dte-emitter/internal/metrics"
	"github.com/rezonia/dte-emitter/internal/model"
)

// Token lifetimes granted by the authority
const (
	TestTokenTTL       = 48 * time.Hour
	ProductionTokenTTL = 24 * time.Hour
)

// TokenTTL returns the lifetime of a token issued in env
func TokenTTL(env model.Environment) time.Duration {
	if env == model.EnvironmentProduction {
		return ProductionTokenTTL
	}
	return TestTokenTTL
}

// Authenticator hands out tokens per (environment, NIT), logging in only
// when no usable token is cached. Concurrent requests for the same key
// share one login.
type Authenticator struct {
	transport   Transport
	cache       *TokenCache
	clock       clockwork.Clock
	credentials map[string]string
	group       singleflight.Group
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Option configures the authenticator
type Option func(*Authenticator)

// WithCredentials registers the API password of a taxpayer
func WithCredentials(nit, password string) Option {
	return func(a *Authenticator) {
		a.credentials[model.CleanTaxID(nit)] = password
	}
}

// WithClock sets the clock used for expiry
func WithClock(clock clockwork.Clock) Option {
	return func(a *Authenticator) {
		a.clock = clock
	}
}

// WithCache shares a token cache between authenticators
func WithCache(cache *TokenCache) Option {
	return func(a *Authenticator) {
		a.cache = cache
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = l
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Authenticator) {
		a.metrics = m
	}
}

// NewAuthenticator creates an authenticator over transport
func NewAuthenticator(transport Transport, opts ...Option) *Authenticator {
	a := &Authenticator{
		transport:   transport,
		clock:       clockwork.NewRealClock(),
		credentials: make(map[string]string),
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cache == nil {
		a.cache = NewTokenCache(a.clock)
	}
	return a
}

// Token returns a bearer token for taxID in env
func (a *Authenticator) Token(ctx context.Context, env model.Environment, taxID string) (string, error) {
	nit := model.CleanTaxID(taxID)
	if tok, ok := a.cache.Get(env, nit); ok {
		a.metrics.IncrementTokenCache(true)
		return tok.Value, nil
	}
	a.metrics.IncrementTokenCache(false)

	// The login outlives any single caller so that the others waiting on it
	// still get the token
	loginCtx := context.WithoutCancel(ctx)
	ch := a.group.DoChan(string(env)+":"+nit, func() (any, error) {
		return a.login(loginCtx, env, nit)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*Token).Value, nil
	}
}

func (a *Authenticator) login(ctx context.Context, env model.Environment, nit string) (*Token, error) {
	if tok, ok := a.cache.Get(env, nit); ok {
		return tok, nil
	}

	password, ok := a.credentials[nit]
	if !ok || password == "" {
		return nil, a.annotate(ErrMissingCredentials(), env, nit)
	}

	resp, err := a.transport.Login(ctx, env, nit, password)
	if err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			authErr = ErrConnectivity(err)
		}
		a.metrics.IncrementLogin(env.String(), strings.ToLower(authErr.Code))
		a.logger.Warn("login failed",
			"environment", env.String(),
			"nit", nit,
			"code", authErr.Code,
			"status", authErr.StatusCode,
		)
		return nil, a.annotate(authErr, env, nit)
	}

	now := a.clock.Now()
	tok := &Token{
		Value:       resp.Token,
		Environment: env,
		NIT:         nit,
		IssuedAt:    now,
		ExpiresAt:   now.Add(TokenTTL(env)),
	}
	a.cache.Set(tok)
	a.metrics.IncrementLogin(env.String(), "ok")
	a.logger.Info("logged in",
		"environment", env.String(),
		"nit", nit,
		"expires_at", tok.ExpiresAt,
	)
	return tok, nil
}

func (a *Authenticator) annotate(e *AuthError, env model.Environment, nit string) *AuthError {
	e.Environment = string(env)
	e.NIT = nit
	return e
}

// Invalidate drops the cached token of taxID in env
func (a *Authenticator) Invalidate(env model.Environment, taxID string) {
	a.cache.Delete(env, model.CleanTaxID(taxID))
}

// InvalidateAll drops every cached token
func (a *Authenticator) InvalidateAll() {
	a.cache.Clear()
}

// AuthorizationHeader returns the Authorization header value for token
func AuthorizationHeader(token string) string {
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return token
	}
	return "Bearer " + token
}
