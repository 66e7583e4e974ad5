package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/conversation"
)

// MockManager is a mock implementation of conversation.Manager.
type MockManager struct {
	mock.Mock
}

// RecordMessage appends a message to the session's history.
func (m *MockManager) RecordMessage(ctx context.Context, sessionID string, msg models.Message) (*models.ConversationContext, error) {
	args := m.Called(ctx, sessionID, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationContext), args.Error(1)
}

// GetContext returns the session's context.
func (m *MockManager) GetContext(ctx context.Context, sessionID string) (*models.ConversationContext, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationContext), args.Error(1)
}

// ClearContext resets the session's context.
func (m *MockManager) ClearContext(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// UpdatePreferences merges a preferences patch.
func (m *MockManager) UpdatePreferences(ctx context.Context, sessionID string, patch models.PreferencesPatch) (bool, error) {
	args := m.Called(ctx, sessionID, patch)
	return args.Bool(0), args.Error(1)
}

// UpdateOnboardingStep moves the session onto an onboarding step.
func (m *MockManager) UpdateOnboardingStep(ctx context.Context, sessionID string, step *int) (bool, error) {
	args := m.Called(ctx, sessionID, step)
	return args.Bool(0), args.Error(1)
}

// UpdateTroubleshootingState merges a troubleshooting patch.
func (m *MockManager) UpdateTroubleshootingState(ctx context.Context, sessionID string, patch models.TroubleshootingPatch) (bool, error) {
	args := m.Called(ctx, sessionID, patch)
	return args.Bool(0), args.Error(1)
}

// PreserveHistory rewrites an over-long history.
func (m *MockManager) PreserveHistory(ctx context.Context, sessionID string) (*models.ConversationContext, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationContext), args.Error(1)
}

// MemoryStats reports usage statistics.
func (m *MockManager) MemoryStats(ctx context.Context) (*conversation.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversation.Stats), args.Error(1)
}

// Sweep clears idle contexts.
func (m *MockManager) Sweep(ctx context.Context, maxIdle time.Duration) (int, error) {
	args := m.Called(ctx, maxIdle)
	return args.Int(0), args.Error(1)
}
