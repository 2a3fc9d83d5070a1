package transmit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rezonia/dte-emitter/internal/auth"
	"github.com/rezonia/dte-emitter/internal/mh"
	"github.com/rezonia/dte-emitter/internal/model"
)

// Reception API paths
const (
	ReceptionPath    = "/fesv/recepciondte"
	InvalidationPath = "/fesv/anulardte"
	ConsultPath      = "/fesv/recepcion/consultadte/"
)

// Timeouts of the reception API
const (
	DefaultAttemptTimeout = 8 * time.Second
	DefaultProbeTimeout   = 5 * time.Second
)

// ReceptionPayload is the body of /fesv/recepciondte
type ReceptionPayload struct {
	Environment    string `json:"ambiente"`
	SendID         uint32 `json:"idEnvio"`
	Version        int    `json:"version"`
	DocumentType   string `json:"tipoDte"`
	Document       string `json:"documento"`
	GenerationCode string `json:"codigoGeneracion"`
}

// InvalidationPayload is the body of /fesv/anulardte
type InvalidationPayload struct {
	Environment string `json:"ambiente"`
	SendID      uint32 `json:"idEnvio"`
	Version     int    `json:"version"`
	Document    string `json:"documento"`
}

// ConsultPayload is the body of /fesv/recepcion/consultadte/
type ConsultPayload struct {
	IssuerNIT      string `json:"nitEmisor"`
	DocumentType   string `json:"tdte"`
	GenerationCode string `json:"codigoGeneracion"`
}

// Transport talks to the reception API. Failures without a reception
// answer are returned as *TransmissionError.
type Transport interface {
	Submit(ctx context.Context, env model.Environment, token string, payload *ReceptionPayload) (*Response, error)
	Invalidate(ctx context.Context, env model.Environment, token string, payload *InvalidationPayload) (*Response, error)
	Consult(ctx context.Context, env model.Environment, token string, payload *ConsultPayload) (*Response, error)
	Probe(ctx context.Context, env model.Environment) error
}

// HTTPTransport is the Transport over the MH HTTP API
type HTTPTransport struct {
	endpoints mh.Endpoints
	client    *http.Client
}

// NewHTTPTransport creates a reception transport. A nil client uses a
// default one with DefaultAttemptTimeout.
func NewHTTPTransport(endpoints mh.Endpoints, client *http.Client) *HTTPTransport {
	if client == nil {
		client = mh.NewHTTPClient(DefaultAttemptTimeout, "")
	}
	return &HTTPTransport{endpoints: endpoints, client: client}
}

// Submit implements Transport
func (t *HTTPTransport) Submit(ctx context.Context, env model.Environment, token string, payload *ReceptionPayload) (*Response, error) {
	return t.post(ctx, t.endpoints.URL(env, ReceptionPath), token, payload)
}

// Invalidate implements Transport
func (t *HTTPTransport) Invalidate(ctx context.Context, env model.Environment, token string, payload *InvalidationPayload) (*Response, error) {
	return t.post(ctx, t.endpoints.URL(env, InvalidationPath), token, payload)
}

// Consult implements Transport
func (t *HTTPTransport) Consult(ctx context.Context, env model.Environment, token string, payload *ConsultPayload) (*Response, error) {
	return t.post(ctx, t.endpoints.URL(env, ConsultPath), token, payload)
}

// Probe reports whether the reception host answers HTTP at all
func (t *HTTPTransport) Probe(ctx context.Context, env model.Environment) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoints.URL(env, ReceptionPath), nil)
	if err != nil {
		return ErrInvalidInput(err.Error())
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return networkError(err)
	}
	resp.Body.Close()
	return nil
}

func (t *HTTPTransport) post(ctx context.Context, url, token string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrInvalidInput(fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", auth.AuthorizationHeader(token))

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized()
	}

	var out Response
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Rejections come back as 400 with a regular reception answer
		if decodeErr == nil && out.Status != "" {
			return &out, nil
		}
		return nil, ErrHTTPStatus(resp.StatusCode, string(raw))
	}
	if decodeErr != nil {
		return nil, ErrInvalidResponse(decodeErr)
	}
	return &out, nil
}

// networkError classifies a failure to get any HTTP answer
func networkError(err error) *TransmissionError {
	if errors.Is(err, context.Canceled) {
		return ErrCanceled(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout(err)
	}
	return ErrConnectivity(err)
}
