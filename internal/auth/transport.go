package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rezonia/dte-emitter/internal/mh"
	"github.com/rezonia/dte-emitter/internal/model"
)

// LoginPath is the identity endpoint of the authority
const LoginPath = "/seguridad/auth"

// DefaultLoginTimeout bounds one login request
const DefaultLoginTimeout = 8 * time.Second

// LoginResponse is the body of a successful login
type LoginResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	Roles     []string `json:"roles"`
}

type loginEnvelope struct {
	Status string          `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Transport performs the login call. Implementations map failures to *AuthError.
type Transport interface {
	Login(ctx context.Context, env model.Environment, user, password string) (*LoginResponse, error)
}

// HTTPTransport logs in against the MH identity service
type HTTPTransport struct {
	endpoints mh.Endpoints
	client    *http.Client
}

// NewHTTPTransport creates a login transport. A nil client uses a default
// one with DefaultLoginTimeout.
func NewHTTPTransport(endpoints mh.Endpoints, client *http.Client) *HTTPTransport {
	if client == nil {
		client = mh.NewHTTPClient(DefaultLoginTimeout, "")
	}
	return &HTTPTransport{endpoints: endpoints, client: client}
}

// Login implements Transport
func (t *HTTPTransport) Login(ctx context.Context, env model.Environment, user, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("user", user)
	form.Set("pwd", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoints.URL(env, LoginPath), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, ErrConnectivity(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, ErrConnectivity(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrInvalidCredentials()
	case http.StatusForbidden:
		return nil, ErrAccountBlocked()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := ErrConnectivity(fmt.Errorf("unexpected HTTP status %d", resp.StatusCode))
		e.StatusCode = resp.StatusCode
		return nil, e
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrConnectivity(err)
	}

	var envelope loginEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, ErrConnectivity(fmt.Errorf("decode login response: %w", err))
	}
	if envelope.Status != "OK" {
		return nil, ErrRejected(bodyMessage(envelope.Body))
	}

	var out LoginResponse
	if err := json.Unmarshal(envelope.Body, &out); err != nil || out.Token == "" {
		return nil, ErrRejected("login response carries no token")
	}
	return &out, nil
}

// bodyMessage renders a failure body, which is a plain string or an object
func bodyMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "login rejected"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
