// Package testutils provides test utilities and helpers.
package testutils

import (
	"fmt"
	"time"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// Test constants
const (
	TestSessionID = "sess_test_123"
	TestUserID    = "user_test_456"
)

// NewTestSession creates a test session with default values.
func NewTestSession() *models.Session {
	now := time.Now().UTC()
	return &models.Session{
		ID:             TestSessionID,
		UserID:         TestUserID,
		CreatedAt:      now,
		LastActivityAt: now,
		Config:         models.DefaultSessionConfig(),
		Context:        models.NewConversationContext(),
	}
}

// NewTestUserMessage creates a test user message in the fixture session.
func NewTestUserMessage(content string) models.Message {
	return models.NewUserMessage(TestSessionID, content)
}

// NewTestAssistantMessage creates a test assistant message in the fixture
// session.
func NewTestAssistantMessage(content string) models.Message {
	return models.NewAssistantMessage(TestSessionID, content)
}

// NewTestMessages creates a slice of test messages alternating between user
// and assistant turns.
func NewTestMessages(count int) []models.Message {
	messages := make([]models.Message, count)
	for i := 0; i < count; i++ {
		if i%2 == 0 {
			messages[i] = NewTestUserMessage(fmt.Sprintf("User message %d", i))
		} else {
			messages[i] = NewTestAssistantMessage(fmt.Sprintf("Assistant message %d", i))
		}
	}
	return messages
}

// NewTestEntry creates a test knowledge entry in the given category.
func NewTestEntry(id, category string) models.KnowledgeEntry {
	return models.KnowledgeEntry{
		ID:       id,
		Category: category,
		Question: "How do I reset my password?",
		Answer:   "Open Settings, choose Security, then follow the reset link.",
		Keywords: []string{"password", "reset", "security"},
	}
}
