package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/supporthub/conversation-service/internal/services/responder"
)

// MockCompleter is a mock implementation of responder.Completer.
type MockCompleter struct {
	mock.Mock
}

// Complete returns the full reply text in one call.
func (m *MockCompleter) Complete(ctx context.Context, req responder.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// CompleteStream delivers the reply through emit. Use Run on the expectation
// to drive the emit callback.
func (m *MockCompleter) CompleteStream(ctx context.Context, req responder.Request, emit func(chunk string) error) (string, error) {
	args := m.Called(ctx, req, emit)
	return args.String(0), args.Error(1)
}

// Model identifies the backend.
func (m *MockCompleter) Model() string {
	args := m.Called()
	return args.String(0)
}
