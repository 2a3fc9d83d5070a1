package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rezonia/dte-emitter/internal/signer"
)

// MockSigningTransport is a mock implementation of signer.Transport.
type MockSigningTransport struct {
	mock.Mock
}

func (m *MockSigningTransport) Sign(ctx context.Context, req *signer.Request) (*signer.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signer.Response), args.Error(1)
}
