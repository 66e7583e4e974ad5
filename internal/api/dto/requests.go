// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// CreateSessionRequest represents the request body for creating a session.
type CreateSessionRequest struct {
	UserID      string `json:"userId" binding:"required,min=1,max=128"`
	MaxMessages int    `json:"maxMessages" binding:"omitempty,min=1,max=1000"`
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=32000"`
	Stream  bool   `json:"stream"`
}

// UpdatePreferencesRequest represents a partial preferences update. Absent
// fields keep their current values.
type UpdatePreferencesRequest struct {
	Language      *string `json:"language" binding:"omitempty,min=2,max=8"`
	ResponseStyle *string `json:"responseStyle" binding:"omitempty,oneof=concise detailed"`
}

// StartOnboardingRequest represents the request for starting onboarding.
type StartOnboardingRequest struct {
	FlowType string `json:"flowType"`
}

// UpdateOnboardingStepRequest sets the onboarding step directly. A null
// step leaves the onboarding flow.
type UpdateOnboardingStepRequest struct {
	Step *int `json:"step"`
}

// StartTroubleshootingRequest represents the request for starting the
// troubleshooting flow.
type StartTroubleshootingRequest struct {
	Issue string `json:"issue" binding:"required,min=1,max=2000"`
}

// ReportOutcomeRequest reports whether the offered solution worked. Worked
// is a pointer so an explicit false passes the required binding.
type ReportOutcomeRequest struct {
	Worked *bool `json:"worked" binding:"required"`
}

// TransitionRequest represents a generic flow mode change.
type TransitionRequest struct {
	From string `json:"from" binding:"omitempty,oneof=idle onboarding troubleshooting"`
	To   string `json:"to" binding:"required,oneof=idle onboarding troubleshooting"`
}

// UpdateTroubleshootingRequest represents a partial troubleshooting state
// update. Absent fields keep their current values.
type UpdateTroubleshootingRequest struct {
	Issue              *string  `json:"issue"`
	AttemptedSolutions []string `json:"attemptedSolutions"`
	EscalationLevel    *int     `json:"escalationLevel" binding:"omitempty,min=0"`
}

// SweepRequest represents the admin sweep request. A zero MaxIdleSeconds
// uses the configured default.
type SweepRequest struct {
	MaxIdleSeconds int `json:"maxIdleSeconds" binding:"omitempty,min=1"`
}
