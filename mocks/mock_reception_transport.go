package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rezonia/dte-emitter/internal/model"
	"github.com/rezonia/dte-emitter/internal/transmit"
)

// MockReceptionTransport is a mock implementation of transmit.Transport.
type MockReceptionTransport struct {
	mock.Mock
}

func (m *MockReceptionTransport) Submit(ctx context.Context, env model.Environment, token string, payload *transmit.ReceptionPayload) (*transmit.Response, error) {
	args := m.Called(ctx, env, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transmit.Response), args.Error(1)
}

func (m *MockReceptionTransport) Invalidate(ctx context.Context, env model.Environment, token string, payload *transmit.InvalidationPayload) (*transmit.Response, error) {
	args := m.Called(ctx, env, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transmit.Response), args.Error(1)
}

func (m *MockReceptionTransport) Consult(ctx context.Context, env model.Environment, token string, payload *transmit.ConsultPayload) (*transmit.Response, error) {
	args := m.Called(ctx, env, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transmit.Response), args.Error(1)
}

func (m *MockReceptionTransport) Probe(ctx context.Context, env model.Environment) error {
	args := m.Called(ctx, env)
	return args.Error(0)
}
