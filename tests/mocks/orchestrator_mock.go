package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/flows"
)

// MockOrchestrator is a mock implementation of flows.Orchestrator.
type MockOrchestrator struct {
	mock.Mock
}

// StartOnboarding begins the onboarding flow.
func (m *MockOrchestrator) StartOnboarding(ctx context.Context, sessionID, flowType string) (*flows.Result, error) {
	args := m.Called(ctx, sessionID, flowType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flows.Result), args.Error(1)
}

// AdvanceOnboarding moves the session to the next step.
func (m *MockOrchestrator) AdvanceOnboarding(ctx context.Context, sessionID string) (*flows.Result, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flows.Result), args.Error(1)
}

// StartTroubleshooting begins the escalation flow.
func (m *MockOrchestrator) StartTroubleshooting(ctx context.Context, sessionID, issue string) (*flows.Result, error) {
	args := m.Called(ctx, sessionID, issue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flows.Result), args.Error(1)
}

// ReportOutcome records whether the offered solution worked.
func (m *MockOrchestrator) ReportOutcome(ctx context.Context, sessionID string, worked bool) (*flows.Result, error) {
	args := m.Called(ctx, sessionID, worked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flows.Result), args.Error(1)
}

// Transition dispatches a generic mode change.
func (m *MockOrchestrator) Transition(ctx context.Context, sessionID string, from, to models.FlowMode) (bool, error) {
	args := m.Called(ctx, sessionID, from, to)
	return args.Bool(0), args.Error(1)
}

// RecoverFromError forces the session back to idle.
func (m *MockOrchestrator) RecoverFromError(ctx context.Context, sessionID string, cause error) (bool, error) {
	args := m.Called(ctx, sessionID, cause)
	return args.Bool(0), args.Error(1)
}

// PreserveHistory rewrites an over-long history.
func (m *MockOrchestrator) PreserveHistory(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// Status recomputes the flow read-model.
func (m *MockOrchestrator) Status(ctx context.Context, sessionID string) (*flows.Status, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flows.Status), args.Error(1)
}
