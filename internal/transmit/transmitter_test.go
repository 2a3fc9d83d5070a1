package transmit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/dte-emitter/internal/auth"
	"github.com/rezonia/dte-emitter/internal/model"
	"github.com/rezonia/dte-emitter/internal/transmit"
	"github.com/rezonia/dte-emitter/mocks"
)

const (
	testNIT   = "06140101901013"
	testToken = "Bearer eyJ"
	genCode   = "3F2504E0-4F89-11D3-9A0C-0305E82C3301"
)

func seal() *string {
	s := "2026A1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6E7F8"
	return &s
}

func processed() *transmit.Response {
	return &transmit.Response{
		Version:        2,
		Environment:    "00",
		Status:         transmit.StatusProcessed,
		GenerationCode: genCode,
		ReceivedSeal:   seal(),
		ProcessedAt:    "15/03/2026 14:30:05",
		MessageCode:    "001",
		Description:    "RECIBIDO",
	}
}

func rejected() *transmit.Response {
	return &transmit.Response{
		Status:         transmit.StatusRejected,
		GenerationCode: genCode,
		MessageCode:    "004",
		Description:    "[identificacion.codigoGeneracion] YA EXISTE UN REGISTRO CON ESE VALOR",
		Observations:   []string{"Documento duplicado"},
	}
}

func request() *transmit.Request {
	return &transmit.Request{
		Environment:    model.EnvironmentTest,
		Type:           model.TypeTaxCredit,
		Version:        3,
		GenerationCode: genCode,
		Signed:         "eyJhbGciOiJSUzUxMiJ9.e30.c2ln",
	}
}

// delayRecorder records the requested delays without waiting
type delayRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (d *delayRecorder) wait(ctx context.Context, delay time.Duration) error {
	d.mu.Lock()
	d.delays = append(d.delays, delay)
	d.mu.Unlock()
	return ctx.Err()
}

func newTransmitter(transport transmit.Transport, tokens transmit.TokenProvider, opts ...transmit.Option) (*transmit.Transmitter, *delayRecorder) {
	rec := &delayRecorder{}
	opts = append([]transmit.Option{
		transmit.WithDelay(rec.wait),
		transmit.WithSendIDGenerator(func() uint32 { return 7 }),
	}, opts...)
	return transmit.NewTransmitter(transport, tokens, opts...), rec
}

func tokenProvider() *mocks.MockTokenProvider {
	tokens := new(mocks.MockTokenProvider)
	tokens.On("Token", mock.Anything, model.EnvironmentTest, testNIT).Return(testToken, nil)
	tokens.On("Invalidate", model.EnvironmentTest, testNIT).Return()
	return tokens
}

func TestSubmit_Processed(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, &transmit.ReceptionPayload{
		Environment:    "00",
		SendID:         7,
		Version:        3,
		DocumentType:   "03",
		Document:       "eyJhbGciOiJSUzUxMiJ9.e30.c2ln",
		GenerationCode: genCode,
	}).Return(processed(), nil).Once()

	tokens := tokenProvider()
	tx, rec := newTransmitter(transport, tokens)

	result := tx.Submit(context.Background(), request(), testNIT)

	require.NoError(t, result.Err())
	assert.True(t, result.Accepted())
	assert.Equal(t, *seal(), result.ReceivedSeal)
	assert.Equal(t, time.Date(2026, 3, 15, 14, 30, 5, 0, model.Location), result.ProcessedAt)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, rec.delays)
	tokens.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	transport.AssertExpectations(t)
}

func TestSubmit_RetriesTransientFailures(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(nil, transmit.ErrConnectivity(errors.New("connection reset"))).Once()
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(nil, transmit.ErrTimeout(context.DeadlineExceeded)).Once()
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(processed(), nil).Once()

	tokens := tokenProvider()
	tx, rec := newTransmitter(transport, tokens)

	result := tx.Submit(context.Background(), request(), testNIT)

	require.NoError(t, result.Err())
	assert.True(t, result.Accepted())
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
	transport.AssertNumberOfCalls(t, "Submit", 3)
	tokens.AssertNumberOfCalls(t, "Invalidate", 2)
}

func TestSubmit_GivesUpAfterMaxAttempts(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(nil, transmit.ErrUnauthorized())

	tokens := tokenProvider()
	tx, rec := newTransmitter(transport, tokens)

	result := tx.Submit(context.Background(), request(), testNIT)

	require.Error(t, result.Err())
	assert.False(t, result.Success)
	assert.Equal(t, transmit.ErrCodeUnauthorized, result.Error.Code)
	assert.True(t, result.Error.Retryable())
	assert.Equal(t, 3, result.Attempts)
	assert.Len(t, rec.delays, 2)
	transport.AssertNumberOfCalls(t, "Submit", 3)
	// Before each retry and once more after the last failure
	tokens.AssertNumberOfCalls(t, "Invalidate", 3)
}

func TestSubmit_RejectedIsNeverRetried(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(rejected(), nil).Once()

	tokens := tokenProvider()
	tx, rec := newTransmitter(transport, tokens)

	result := tx.Submit(context.Background(), request(), testNIT)

	assert.False(t, result.Success)
	assert.True(t, result.Rejected())
	assert.Equal(t, transmit.KindRejected, result.Error.Kind)
	assert.False(t, result.Error.Retryable())
	assert.Equal(t, "004", result.MessageCode)
	assert.Equal(t, []string{"Documento duplicado"}, result.Observations)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, rec.delays)
	transport.AssertNumberOfCalls(t, "Submit", 1)
	tokens.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestSubmit_NonTransientFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind transmit.Kind
	}{
		{"client error status", transmit.ErrHTTPStatus(404, "not found"), transmit.KindProtocol},
		{"undecodable answer", transmit.ErrInvalidResponse(errors.New("bad json")), transmit.KindProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(mocks.MockReceptionTransport)
			transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
				Return(nil, tt.err).Once()

			tx, _ := newTransmitter(transport, tokenProvider())
			result := tx.Submit(context.Background(), request(), testNIT)

			require.Error(t, result.Err())
			assert.Equal(t, tt.wantKind, result.Error.Kind)
			assert.Equal(t, 1, result.Attempts)
			transport.AssertNumberOfCalls(t, "Submit", 1)
		})
	}
}

func TestSubmit_ServerErrorIsRetried(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(nil, transmit.ErrHTTPStatus(503, "")).Once()
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(processed(), nil).Once()

	tx, _ := newTransmitter(transport, tokenProvider())
	result := tx.Submit(context.Background(), request(), testNIT)

	require.NoError(t, result.Err())
	assert.Equal(t, 2, result.Attempts)
}

func TestSubmit_FatalAuthStopsImmediately(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	tokens := new(mocks.MockTokenProvider)
	tokens.On("Token", mock.Anything, model.EnvironmentTest, testNIT).Return("", auth.ErrInvalidCredentials())

	tx, _ := newTransmitter(transport, tokens)
	result := tx.Submit(context.Background(), request(), testNIT)

	require.Error(t, result.Err())
	assert.Equal(t, transmit.KindAuth, result.Error.Kind)
	assert.Equal(t, 1, result.Attempts)

	var authErr *auth.AuthError
	require.True(t, errors.As(result.Err(), &authErr))
	assert.Equal(t, auth.ErrCodeInvalidCredentials, authErr.Code)
	transport.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_LoginConnectivityIsRetried(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(processed(), nil).Once()

	tokens := new(mocks.MockTokenProvider)
	tokens.On("Token", mock.Anything, model.EnvironmentTest, testNIT).
		Return("", auth.ErrConnectivity(errors.New("dial tcp: i/o timeout"))).Once()
	tokens.On("Token", mock.Anything, model.EnvironmentTest, testNIT).Return(testToken, nil)
	tokens.On("Invalidate", model.EnvironmentTest, testNIT).Return()

	tx, _ := newTransmitter(transport, tokens)
	result := tx.Submit(context.Background(), request(), testNIT)

	require.NoError(t, result.Err())
	assert.Equal(t, 2, result.Attempts)
}

func TestSubmit_InvalidInput(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	tx, _ := newTransmitter(transport, new(mocks.MockTokenProvider))

	result := tx.Submit(context.Background(), &transmit.Request{GenerationCode: genCode}, testNIT)
	require.Error(t, result.Err())
	assert.Equal(t, transmit.ErrCodeInvalidInput, result.Error.Code)

	result = tx.Submit(context.Background(), &transmit.Request{Signed: "x.y.z"}, testNIT)
	assert.Equal(t, transmit.ErrCodeInvalidInput, result.Error.Code)

	transport.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_CanceledDuringBackoff(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(nil, transmit.ErrConnectivity(errors.New("connection refused"))).Once()

	tokens := tokenProvider()
	tx := transmit.NewTransmitter(transport, tokens, transmit.WithDelay(func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}))

	result := tx.Submit(context.Background(), request(), testNIT)

	require.Error(t, result.Err())
	assert.Equal(t, transmit.ErrCodeCanceled, result.Error.Code)
	assert.Equal(t, 1, result.Attempts)
	transport.AssertNumberOfCalls(t, "Submit", 1)
}

func TestSubmitInvalidation(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Invalidate", mock.Anything, model.EnvironmentTest, testToken, &transmit.InvalidationPayload{
		Environment: "00",
		SendID:      7,
		Version:     2,
		Document:    "a.b.c",
	}).Return(nil, transmit.ErrTimeout(context.DeadlineExceeded)).Once()
	transport.On("Invalidate", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(processed(), nil).Once()

	tokens := tokenProvider()
	tx, rec := newTransmitter(transport, tokens)

	result := tx.SubmitInvalidation(context.Background(), &transmit.InvalidationRequest{
		Environment: model.EnvironmentTest,
		Version:     2,
		Signed:      "a.b.c",
	}, testNIT)

	require.NoError(t, result.Err())
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, []time.Duration{time.Second}, rec.delays)
	tokens.AssertNumberOfCalls(t, "Invalidate", 1)
}

func TestConsult_SingleAttempt(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Consult", mock.Anything, model.EnvironmentTest, testToken, &transmit.ConsultPayload{
		IssuerNIT:      testNIT,
		DocumentType:   "03",
		GenerationCode: genCode,
	}).Return(nil, transmit.ErrConnectivity(errors.New("connection reset"))).Once()

	tokens := tokenProvider()
	tx, rec := newTransmitter(transport, tokens)

	result := tx.Consult(context.Background(), model.EnvironmentTest, "0614-010190-101-3", model.TypeTaxCredit, "3f2504e0-4f89-11d3-9a0c-0305e82c3301")

	require.Error(t, result.Err())
	assert.True(t, result.Error.Retryable())
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, rec.delays)
	transport.AssertNumberOfCalls(t, "Consult", 1)
	tokens.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestConsult_Processed(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Consult", mock.Anything, model.EnvironmentTest, testToken, mock.Anything).
		Return(processed(), nil).Once()

	tx, _ := newTransmitter(transport, tokenProvider())
	result := tx.Consult(context.Background(), model.EnvironmentTest, testNIT, model.TypeTaxCredit, genCode)

	require.NoError(t, result.Err())
	assert.Equal(t, transmit.StatusProcessed, result.Status)
	assert.Equal(t, genCode, result.GenerationCode)
}

func TestSubmitBatch_PreservesOrder(t *testing.T) {
	codes := []string{"A", "B", "C", "D", "E"}

	transport := new(mocks.MockReceptionTransport)
	for _, code := range codes {
		resp := processed()
		resp.GenerationCode = code
		transport.On("Submit", mock.Anything, model.EnvironmentTest, testToken,
			mock.MatchedBy(func(p *transmit.ReceptionPayload) bool { return p.GenerationCode == code }),
		).Return(resp, nil).Once()
	}

	tx, _ := newTransmitter(transport, tokenProvider(), transmit.WithBatchConcurrency(2))

	reqs := make([]*transmit.Request, len(codes))
	for i, code := range codes {
		reqs[i] = request()
		reqs[i].GenerationCode = code
	}

	results := tx.SubmitBatch(context.Background(), reqs, testNIT)

	require.Len(t, results, len(codes))
	for i, code := range codes {
		require.NoError(t, results[i].Err())
		assert.Equal(t, code, results[i].GenerationCode)
	}
	transport.AssertNumberOfCalls(t, "Submit", len(codes))
}

func TestProbe(t *testing.T) {
	transport := new(mocks.MockReceptionTransport)
	transport.On("Probe", mock.Anything, model.EnvironmentTest).Return(nil).Once()
	transport.On("Probe", mock.Anything, model.EnvironmentProduction).
		Return(transmit.ErrConnectivity(errors.New("no route to host"))).Once()

	tx, _ := newTransmitter(transport, new(mocks.MockTokenProvider))

	assert.NoError(t, tx.Probe(context.Background(), model.EnvironmentTest))
	assert.Error(t, tx.Probe(context.Background(), model.EnvironmentProduction))
}
