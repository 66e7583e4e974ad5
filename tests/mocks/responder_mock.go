package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/supporthub/conversation-service/internal/services/responder"
)

// MockResponder is a mock implementation of responder.Responder.
type MockResponder struct {
	mock.Mock
}

// Respond handles one user message.
func (m *MockResponder) Respond(ctx context.Context, sessionID, text string) (*responder.Reply, error) {
	args := m.Called(ctx, sessionID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responder.Reply), args.Error(1)
}

// RespondStream handles one user message, delivering the reply through emit.
func (m *MockResponder) RespondStream(ctx context.Context, sessionID, text string, emit func(chunk string) error) (*responder.Reply, error) {
	args := m.Called(ctx, sessionID, text, emit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responder.Reply), args.Error(1)
}
