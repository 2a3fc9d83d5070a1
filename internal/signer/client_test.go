package signer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/dte-emitter/internal/signer"
	"github.com/rezonia/dte-emitter/mocks"
)

var testDocument = map[string]any{
	"identificacion": map[string]any{"codigoGeneracion": "0F1E2D3C-4B5A-6978-8796-A5B4C3D2E1F0"},
}

func okResponse(jws string) *signer.Response {
	body, _ := json.Marshal(jws)
	return &signer.Response{Status: signer.StatusOK, Body: body}
}

func TestClient_Sign_Success(t *testing.T) {
	transport := new(mocks.MockSigningTransport)
	transport.On("Sign", mock.Anything, mock.MatchedBy(func(req *signer.Request) bool {
		return req.NIT == "06140101901013" && req.Active && req.PrivatePassword == "clave-privada"
	})).Return(okResponse("header.payload.signature"), nil).Once()

	client := signer.NewClient(transport, "clave-privada")
	result := client.Sign(context.Background(), "0614-010190-101-3", testDocument)

	require.True(t, result.Success)
	assert.Equal(t, "header.payload.signature", result.Signed)
	assert.Nil(t, result.Error)
	assert.NoError(t, result.Err())
	transport.AssertExpectations(t)
}

func TestClient_Sign_RejectedMessageVerbatim(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain string", `"Contraseña incorrecta"`, "Contraseña incorrecta"},
		{"message list", `{"codigo":"809","mensaje":["No existe certificado activo","Revise el NIT"]}`, "No existe certificado activo; Revise el NIT"},
		{"message string", `{"codigo":"809","mensaje":"Certificado vencido"}`, "Certificado vencido"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(mocks.MockSigningTransport)
			transport.On("Sign", mock.Anything, mock.Anything).
				Return(&signer.Response{Status: signer.StatusError, Body: json.RawMessage(tt.body)}, nil)

			result := signer.NewClient(transport, "x").Sign(context.Background(), "06140101901013", testDocument)

			require.False(t, result.Success)
			require.NotNil(t, result.Error)
			assert.Equal(t, signer.ErrCodeRejected, result.Error.Code)
			assert.Equal(t, tt.want, result.Error.Message)
			assert.False(t, result.Error.Retryable())
		})
	}
}

func TestClient_Sign_InvalidInput(t *testing.T) {
	transport := new(mocks.MockSigningTransport)
	client := signer.NewClient(transport, "x")

	result := client.Sign(context.Background(), "--", testDocument)
	require.NotNil(t, result.Error)
	assert.Equal(t, signer.ErrCodeInvalidInput, result.Error.Code)
	assert.Equal(t, "nit", result.Error.Field)

	result = client.Sign(context.Background(), "06140101901013", nil)
	require.NotNil(t, result.Error)
	assert.Equal(t, "document", result.Error.Field)

	transport.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
}

func TestClient_Sign_Classification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		retryable bool
	}{
		{"deadline", context.DeadlineExceeded, signer.ErrCodeTimeout, true},
		{"status", &signer.HTTPStatusError{StatusCode: 502}, signer.ErrCodeHTTPStatus, true},
		{"client status", &signer.HTTPStatusError{StatusCode: 404}, signer.ErrCodeHTTPStatus, false},
		{"other", errors.New("tls handshake failure"), signer.ErrCodeTransport, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(mocks.MockSigningTransport)
			transport.On("Sign", mock.Anything, mock.Anything).Return(nil, tt.err)

			result := signer.NewClient(transport, "x").Sign(context.Background(), "06140101901013", testDocument)

			require.NotNil(t, result.Error)
			assert.Equal(t, tt.code, result.Error.Code)
			assert.Equal(t, tt.retryable, result.Error.Retryable())
			assert.ErrorIs(t, result.Err(), tt.err)
		})
	}
}

func TestHTTPTransport_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := signer.NewClient(signer.NewHTTPTransport(url), "x")
	result := client.Sign(context.Background(), "06140101901013", testDocument)

	require.NotNil(t, result.Error)
	assert.Equal(t, signer.ErrCodeUnavailable, result.Error.Code)
	assert.Equal(t, "signing service unavailable", result.Error.Message)
}

func TestHTTPTransport_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := signer.NewClient(signer.NewHTTPTransport(server.URL), "x", signer.WithTimeout(50*time.Millisecond))
	result := client.Sign(context.Background(), "06140101901013", testDocument)

	require.NotNil(t, result.Error)
	assert.Equal(t, signer.ErrCodeTimeout, result.Error.Code)
}

func TestHTTPTransport_StatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	result := signer.NewClient(signer.NewHTTPTransport(server.URL), "x").
		Sign(context.Background(), "06140101901013", testDocument)

	require.NotNil(t, result.Error)
	assert.Equal(t, signer.ErrCodeHTTPStatus, result.Error.Code)
	assert.Equal(t, http.StatusBadGateway, result.Error.StatusCode)
}

func TestHTTPTransport_StatusWithoutSignerBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resp, err := signer.NewHTTPTransport(server.URL).Sign(context.Background(), &signer.Request{NIT: "06140101901013"})
	require.Error(t, err)
	assert.Nil(t, resp)

	var statusErr *signer.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "upstream down")
}

func TestHTTPTransport_RoundTrip(t *testing.T) {
	var received signer.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, signer.SignPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","body":"aaa.bbb.ccc"}`))
	}))
	defer server.Close()

	result := signer.NewClient(signer.NewHTTPTransport(server.URL+"/"), "clave").
		Sign(context.Background(), "0614-010190-101-3", testDocument)

	require.True(t, result.Success, "%v", result.Err())
	assert.Equal(t, "aaa.bbb.ccc", result.Signed)
	assert.Equal(t, "06140101901013", received.NIT)
	assert.Equal(t, "clave", received.PrivatePassword)
	assert.True(t, received.Active)
	assert.NotNil(t, received.Document)
}

func TestHTTPTransport_ErrorStatusWithBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"ERROR","body":"NIT no registrado"}`))
	}))
	defer server.Close()

	result := signer.NewClient(signer.NewHTTPTransport(server.URL), "x").
		Sign(context.Background(), "06140101901013", testDocument)

	require.NotNil(t, result.Error)
	assert.Equal(t, signer.ErrCodeRejected, result.Error.Code)
	assert.Equal(t, "NIT no registrado", result.Error.Message)
}
