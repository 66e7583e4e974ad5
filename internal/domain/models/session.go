package models

import (
	"time"

	"github.com/google/uuid"
)

// Default session configuration values.
const (
	// DefaultMaxMessages caps how many raw messages a session holds before
	// the intake layer refuses further growth without compaction.
	DefaultMaxMessages = 100
	// DefaultResponseTimeout bounds reply composition for a session.
	DefaultResponseTimeout = 30 * time.Second
	// DefaultLocale is the locale assigned to new sessions.
	DefaultLocale = "en-US"
)

// SessionConfig holds per-session behavior settings.
type SessionConfig struct {
	// MaxMessages is the session-level message cap.
	MaxMessages int `json:"maxMessages"`
	// ResponseTimeout bounds how long reply composition may take.
	ResponseTimeout time.Duration `json:"responseTimeout"`
	// Locale is the BCP 47 locale for rendered replies.
	Locale string `json:"locale"`
	// VoiceEnabled marks sessions driven by a voice front end.
	VoiceEnabled bool `json:"voiceEnabled"`
}

// DefaultSessionConfig returns the configuration assigned to new sessions.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxMessages:     DefaultMaxMessages,
		ResponseTimeout: DefaultResponseTimeout,
		Locale:          DefaultLocale,
	}
}

// Session is the canonical record for one ongoing conversation.
type Session struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	LastActivityAt time.Time           `json:"lastActivityAt"`
	Config         SessionConfig       `json:"config"`
	Context        ConversationContext `json:"context"`
}

// NewSession creates a session with a fresh identifier, default configuration
// and an empty context. userID may be empty for anonymous sessions.
func NewSession(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             "sess_" + uuid.New().String(),
		UserID:         userID,
		CreatedAt:      now,
		LastActivityAt: now,
		Config:         DefaultSessionConfig(),
		Context:        NewConversationContext(),
	}
}

// IdleSince reports whether the session has seen no activity since the given
// cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	return s.LastActivityAt.Before(cutoff)
}
