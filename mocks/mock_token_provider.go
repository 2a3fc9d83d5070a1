package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rezonia/dte-emitter/internal/model"
)

// MockTokenProvider is a mock implementation of transmit.TokenProvider.
type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) Token(ctx context.Context, env model.Environment, taxID string) (string, error) {
	args := m.Called(ctx, env, taxID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenProvider) Invalidate(env model.Environment, taxID string) {
	m.Called(env, taxID)
}
