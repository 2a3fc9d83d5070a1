package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rezonia/dte-emitter/internal/auth"
	"github.com/rezonia/dte-emitter/internal/model"
)

// MockAuthTransport is a mock implementation of auth.Transport.
type MockAuthTransport struct {
	mock.Mock
}

func (m *MockAuthTransport) Login(ctx context.Context, env model.Environment, user, password string) (*auth.LoginResponse, error) {
	args := m.Called(ctx, env, user, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}
