// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// MockStore is a mock implementation of store.Store.
type MockStore struct {
	mock.Mock
}

// Create allocates a session.
func (m *MockStore) Create(ctx context.Context, userID string, cfg models.SessionConfig) (*models.Session, error) {
	args := m.Called(ctx, userID, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

// Get retrieves a session by ID.
func (m *MockStore) Get(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

// Touch refreshes the session's last-activity timestamp.
func (m *MockStore) Touch(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

// UpdateContext applies a patch to the session's context.
func (m *MockStore) UpdateContext(ctx context.Context, id string, patch models.ContextPatch) (*models.Session, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

// Delete removes a session.
func (m *MockStore) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// SweepExpired removes idle sessions.
func (m *MockStore) SweepExpired(ctx context.Context, maxIdle time.Duration) (int, error) {
	args := m.Called(ctx, maxIdle)
	return args.Int(0), args.Error(1)
}

// List returns all live sessions.
func (m *MockStore) List(ctx context.Context) ([]*models.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

// Count returns the number of live sessions.
func (m *MockStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Ping checks the store connection.
func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the store connection.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
