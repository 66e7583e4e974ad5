// Package models contains domain models for the conversation service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageType represents the author of a message.
type MessageType string

const (
	// MessageTypeUser represents a message written by the end user.
	MessageTypeUser MessageType = "user"
	// MessageTypeAssistant represents a message produced by the assistant.
	MessageTypeAssistant MessageType = "assistant"
	// MessageTypeSystem represents a message authored by the service itself
	// (flow prompts, summaries, recovery notices).
	MessageTypeSystem MessageType = "system"
)

// Intent labels assigned to messages and sessions. The first five form the
// closed set the classifier chooses from; the remaining labels mark
// system-authored messages.
const (
	IntentFAQ             = "faq"
	IntentTroubleshooting = "troubleshooting"
	IntentOnboarding      = "onboarding"
	IntentProduct         = "product"
	IntentGeneral         = "general"

	IntentSummary       = "summary"
	IntentErrorRecovery = "error_recovery"
)

// MessageMetadata holds optional processing metadata attached to a message.
type MessageMetadata struct {
	// Intent is the classified or flow-assigned intent label.
	Intent string `json:"intent,omitempty"`
	// Confidence is the classifier confidence for the intent, in [0,1].
	Confidence float64 `json:"confidence,omitempty"`
	// LatencyMs is the processing latency for assistant messages.
	LatencyMs int64 `json:"latencyMs,omitempty"`
	// Model is the completion model used for assistant messages.
	Model string `json:"model,omitempty"`
}

// Message is a single conversation turn. Messages are immutable once created.
type Message struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	Type      MessageType      `json:"type"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// NewMessage creates a message of the given type with a fresh identifier.
func NewMessage(sessionID string, msgType MessageType, content string) Message {
	return Message{
		ID:        "msg_" + uuid.New().String(),
		SessionID: sessionID,
		Type:      msgType,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(sessionID, content string) Message {
	return NewMessage(sessionID, MessageTypeUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(sessionID, content string) Message {
	return NewMessage(sessionID, MessageTypeAssistant, content)
}

// NewSystemMessage creates a system message carrying the given intent label.
func NewSystemMessage(sessionID, content, intent string) Message {
	msg := NewMessage(sessionID, MessageTypeSystem, content)
	msg.Metadata = &MessageMetadata{Intent: intent}
	return msg
}

// Intent returns the intent label from the message metadata, or "" when the
// message carries none.
func (m Message) Intent() string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata.Intent
}

// IsFlowRelated reports whether the message should survive history
// preservation: system-authored messages and messages labeled with a guided
// flow intent.
func (m Message) IsFlowRelated() bool {
	if m.Type == MessageTypeSystem {
		return true
	}
	switch m.Intent() {
	case IntentOnboarding, IntentTroubleshooting:
		return true
	}
	return false
}
