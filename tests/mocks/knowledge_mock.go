package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// MockKnowledgeProvider is a mock implementation of knowledge.Provider.
type MockKnowledgeProvider struct {
	mock.Mock
}

// List returns all knowledge entries.
func (m *MockKnowledgeProvider) List(ctx context.Context) ([]models.KnowledgeEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KnowledgeEntry), args.Error(1)
}

// ListByCategory returns the entries in the given category.
func (m *MockKnowledgeProvider) ListByCategory(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KnowledgeEntry), args.Error(1)
}

// Ping checks the provider connection.
func (m *MockKnowledgeProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the provider connection.
func (m *MockKnowledgeProvider) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
