package dtelib_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/dte-emitter/internal/config"
	"github.com/rezonia/dte-emitter/internal/sandbox"
	"github.com/rezonia/dte-emitter/pkg/dtelib"
)

const (
	issuerNIT   = "0614-010190-101-3"
	apiPassword = "api-pass"
	keyPassword = "key-pass"
	genCode     = "0F1E2D3C-4B5A-6978-8796-A5B4C3D2E1F0"
)

func ptr[T any](v T) *T {
	return &v
}

func newClient(t *testing.T) *dtelib.Client {
	t.Helper()

	sb := sandbox.NewServer(&sandbox.Config{
		Password:           apiPassword,
		PrivateKeyPassword: keyPassword,
	})
	server := httptest.NewServer(sb.Handler())
	t.Cleanup(server.Close)

	opts := dtelib.DefaultOptions()
	opts.SignerURL = server.URL
	opts.PrivateKeyPassword = keyPassword
	opts.AuthorityTestURL = server.URL
	opts.AuthorityProductionURL = server.URL
	opts.Credentials[issuerNIT] = apiPassword
	opts.Registerer = prometheus.NewRegistry()
	opts.Delay = func(ctx context.Context, d time.Duration) error { return nil }
	return dtelib.NewClient(opts)
}

func taxCreditParams() *dtelib.Params {
	return &dtelib.Params{
		Environment:    dtelib.EnvironmentTest,
		ControlNumber:  "DTE-03-M001P001-000000000000001",
		GenerationCode: genCode,
		IssuedAt:       time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Issuer: dtelib.Issuer{
			NIT:                 issuerNIT,
			NRC:                 "123456-7",
			Name:                "Comercial Ejemplo S.A. de C.V.",
			ActivityCode:        "46900",
			ActivityDescription: "Venta al por mayor de otros productos",
			EstablishmentType:   "01",
			Address:             dtelib.Address{Department: "06", Municipality: "14", Complement: "San Salvador"},
			Phone:               "22223333",
			Email:               "facturacion@ejemplo.com.sv",
		},
		Receiver: &dtelib.Receiver{
			NIT:  "0614-020202-102-4",
			NRC:  "765432-1",
			Name: "Cliente Corporativo S.A.",
		},
		Items: []dtelib.ItemInput{{
			ItemType:      1,
			Description:   "Resma de papel bond",
			Quantity:      decimal.NewFromInt(2),
			UnitPrice:     decimal.RequireFromString("10.00"),
			UnitOfMeasure: 59,
		}},
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := dtelib.DefaultOptions()

	assert.Equal(t, "http://localhost:8113", opts.SignerURL)
	assert.Equal(t, 30*time.Second, opts.SignerTimeout)
	assert.Equal(t, 8*time.Second, opts.SubmitTimeout)
	assert.Equal(t, 5*time.Second, opts.ProbeTimeout)
	assert.Equal(t, 3, opts.MaxAttempts)
	assert.True(t, opts.SignerActive)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Signer: config.SignerConfig{URL: "http://signer:8113", Timeout: 10 * time.Second, Active: true},
		Authority: config.AuthorityConfig{
			TestURL:     "http://test",
			NIT:         issuerNIT,
			Password:    apiPassword,
			MaxAttempts: 5,
		},
		Log: config.LogConfig{Level: "debug", Format: "json"},
	}

	opts := dtelib.OptionsFromConfig(cfg)

	assert.Equal(t, "http://signer:8113", opts.SignerURL)
	assert.Equal(t, "http://test", opts.AuthorityTestURL)
	assert.Equal(t, 5, opts.MaxAttempts)
	assert.Equal(t, apiPassword, opts.Credentials[issuerNIT])
	assert.NotNil(t, opts.Logger)
}

func TestClient_Types(t *testing.T) {
	client := dtelib.NewClient(dtelib.DefaultOptions())
	assert.Equal(t, []dtelib.TypeCode{"01", "03", "05", "06", "11", "14"}, client.Types())
}

func TestClient_BuildDocument(t *testing.T) {
	client := dtelib.NewClient(dtelib.DefaultOptions())

	result, err := client.BuildDocument(dtelib.TypeTaxCredit, taxCreditParams())
	require.NoError(t, err)
	assert.Equal(t, genCode, result.GenerationCode)
	assert.Equal(t, 3, result.Version)
	assert.Equal(t, "22.60", result.Totals.TotalPayable.StringFixed(2))
	assert.Equal(t, "VEINTIDOS DOLARES CON 60/100", result.Totals.AmountInWords)

	_, err = client.BuildDocument("99", taxCreditParams())
	assert.ErrorIs(t, err, dtelib.ErrUnknownType)

	p := taxCreditParams()
	p.Items = nil
	_, err = client.BuildDocument(dtelib.TypeTaxCredit, p)
	var ve *dtelib.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestClient_IssueConsultAndInvalidate(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	issued, err := client.Issue(ctx, dtelib.TypeTaxCredit, taxCreditParams())
	require.NoError(t, err)
	require.NotNil(t, issued.Transmission)
	assert.True(t, issued.Transmission.Accepted())
	assert.NotEmpty(t, issued.Signed)
	assert.NotEmpty(t, issued.Transmission.ReceivedSeal)

	status := client.ConsultStatus(ctx, dtelib.EnvironmentTest, issuerNIT, dtelib.TypeTaxCredit, genCode)
	require.NoError(t, status.Err())
	assert.Equal(t, issued.Transmission.ReceivedSeal, status.ReceivedSeal)

	voided, err := client.Invalidate(ctx, &dtelib.InvalidationParams{
		Environment: dtelib.EnvironmentTest,
		Issuer:      taxCreditParams().Issuer,
		Original: dtelib.OriginalDocument{
			Type:           dtelib.TypeTaxCredit,
			GenerationCode: genCode,
			ReceivedSeal:   issued.Transmission.ReceivedSeal,
			ControlNumber:  "DTE-03-M001P001-000000000000001",
			IssueDate:      "2026-03-15",
			TaxAmount:      decimal.RequireFromString("2.60"),
		},
		Motive: dtelib.Motive{
			Type:        3,
			Reason:      ptr("Error en el monto"),
			Responsible: dtelib.Party{Name: "Ana Lopez", DocumentType: "13", DocumentNumber: "012345678"},
			Requester:   dtelib.Party{Name: "Luis Perez", DocumentType: "13", DocumentNumber: "098765432"},
		},
	})
	require.NoError(t, err)
	assert.True(t, voided.Transmission.Accepted())
}

func TestClient_IssueDuplicateIsRejected(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	_, err := client.Issue(ctx, dtelib.TypeTaxCredit, taxCreditParams())
	require.NoError(t, err)

	issued, err := client.Issue(ctx, dtelib.TypeTaxCredit, taxCreditParams())
	require.Error(t, err)

	var te *dtelib.TransmissionError
	require.True(t, errors.As(err, &te))
	assert.False(t, te.Retryable())
	assert.True(t, issued.Transmission.Rejected())
	assert.Equal(t, 1, issued.Transmission.Attempts)
}

func TestClient_IssueSigningFailure(t *testing.T) {
	sb := sandbox.NewServer(&sandbox.Config{Password: apiPassword, PrivateKeyPassword: keyPassword})
	server := httptest.NewServer(sb.Handler())
	defer server.Close()

	opts := dtelib.DefaultOptions()
	opts.SignerURL = server.URL
	opts.PrivateKeyPassword = "wrong"
	client := dtelib.NewClient(opts)

	issued, err := client.Issue(context.Background(), dtelib.TypeTaxCredit, taxCreditParams())

	var se *dtelib.SigningError
	require.True(t, errors.As(err, &se))
	assert.Empty(t, issued.Signed)
	assert.Nil(t, issued.Transmission)
}
