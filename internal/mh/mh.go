// Package mh holds what the identity and reception clients share about the
// MH (Ministerio de Hacienda) API: base URLs per environment and the HTTP
// client setup.
package mh

import (
	"net/http"
	"strings"
	"time"

	"github.com/rezonia/dte-emitter/internal/model"
)

// Base URLs of the MH API
const (
	TestURL       = "https://apitest.dtes.mh.gob.sv"
	ProductionURL = "https://api.dtes.mh.gob.sv"
)

// DefaultUserAgent is sent on every request; the API rejects requests without one
const DefaultUserAgent = "dte-emitter"

// Endpoints maps each environment to its base URL
type Endpoints struct {
	Test       string
	Production string
}

// DefaultEndpoints returns the public MH endpoints
func DefaultEndpoints() Endpoints {
	return Endpoints{Test: TestURL, Production: ProductionURL}
}

// SingleEndpoint serves both environments from one base URL, as the sandbox does
func SingleEndpoint(baseURL string) Endpoints {
	return Endpoints{Test: baseURL, Production: baseURL}
}

// URL joins the base URL of env with path
func (e Endpoints) URL(env model.Environment, path string) string {
	base := e.Test
	if env == model.EnvironmentProduction {
		base = e.Production
	}
	return strings.TrimRight(base, "/") + path
}

// headerTransport wraps an http.RoundTripper to add fixed headers
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	if t.base != nil {
		return t.base.RoundTrip(req)
	}
	return http.DefaultTransport.RoundTrip(req)
}

// NewHTTPClient creates an HTTP client with the given timeout that sends
// userAgent on every request
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &headerTransport{
			base:      http.DefaultTransport,
			userAgent: userAgent,
		},
	}
}
