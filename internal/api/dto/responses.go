// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "time"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// PreferencesResponse represents conversation preferences.
type PreferencesResponse struct {
	Language      string `json:"language"`
	ResponseStyle string `json:"responseStyle"`
}

// TroubleshootingStateResponse represents active troubleshooting state.
type TroubleshootingStateResponse struct {
	Issue              string   `json:"issue"`
	AttemptedSolutions []string `json:"attemptedSolutions"`
	EscalationLevel    int      `json:"escalationLevel"`
}

// FlowStateResponse represents a session's guided-flow state.
type FlowStateResponse struct {
	Mode            string                        `json:"mode"`
	OnboardingStep  *int                          `json:"onboardingStep,omitempty"`
	Troubleshooting *TroubleshootingStateResponse `json:"troubleshooting,omitempty"`
}

// SessionResponse represents a session in API responses.
type SessionResponse struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId"`
	CreatedAt      time.Time           `json:"createdAt"`
	LastActivityAt time.Time           `json:"lastActivityAt"`
	MessageCount   int                 `json:"messageCount"`
	CurrentIntent  string              `json:"currentIntent,omitempty"`
	Flow           FlowStateResponse   `json:"flow"`
	Preferences    PreferencesResponse `json:"preferences"`
}

// ListSessionsResponse represents the response for listing sessions.
type ListSessionsResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int                `json:"total"`
}

// MetadataResponse represents message metadata in API responses.
type MetadataResponse struct {
	Intent     string  `json:"intent,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	LatencyMs  int64   `json:"latencyMs,omitempty"`
	Model      string  `json:"model,omitempty"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID        string            `json:"id"`
	SessionID string            `json:"sessionId"`
	Type      string            `json:"type"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  *MetadataResponse `json:"metadata,omitempty"`
}

// ContextResponse represents a session's conversation context.
type ContextResponse struct {
	SessionID     string              `json:"sessionId"`
	Messages      []*MessageResponse  `json:"messages"`
	CurrentIntent string              `json:"currentIntent,omitempty"`
	Flow          FlowStateResponse   `json:"flow"`
	Preferences   PreferencesResponse `json:"preferences"`
}

// EntityResponse represents an extracted entity.
type EntityResponse struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ContextualResponse represents classification context info.
type ContextualResponse struct {
	IsFollowUp        bool   `json:"isFollowUp"`
	PreviousIntent    string `json:"previousIntent,omitempty"`
	ConversationStage string `json:"conversationStage"`
}

// KnowledgeEntryResponse represents a knowledge base entry.
type KnowledgeEntryResponse struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords,omitempty"`
}

// RankedEntryResponse represents a scored knowledge base entry.
type RankedEntryResponse struct {
	Entry KnowledgeEntryResponse `json:"entry"`
	Score float64                `json:"score"`
}

// ClassificationResponse represents a classification outcome.
type ClassificationResponse struct {
	Intent            string                `json:"intent"`
	Confidence        float64               `json:"confidence"`
	Keywords          []string              `json:"keywords"`
	Entities          []EntityResponse      `json:"entities"`
	Contextual        ContextualResponse    `json:"contextual"`
	RelevantKnowledge []RankedEntryResponse `json:"relevantKnowledge,omitempty"`
}

// OnboardingStepResponse represents a step of the onboarding catalog.
type OnboardingStepResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// SolutionResponse represents a troubleshooting solution.
type SolutionResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Instruction string  `json:"instruction"`
	SuccessRate float64 `json:"successRate"`
	Difficulty  string  `json:"difficulty"`
}

// FlowResultResponse represents the outcome of a flow operation.
type FlowResultResponse struct {
	Applied   bool                    `json:"applied"`
	Completed bool                    `json:"completed"`
	Escalated bool                    `json:"escalated"`
	Message   *MessageResponse        `json:"message,omitempty"`
	Step      *OnboardingStepResponse `json:"step,omitempty"`
	Solution  *SolutionResponse       `json:"solution,omitempty"`
	Flow      FlowStateResponse       `json:"flow"`
}

// OnboardingStatusResponse represents the onboarding read-model.
type OnboardingStatusResponse struct {
	StepIndex   int                      `json:"stepIndex"`
	TotalSteps  int                      `json:"totalSteps"`
	Completion  float64                  `json:"completion"`
	CurrentStep OnboardingStepResponse   `json:"currentStep"`
	Steps       []OnboardingStepResponse `json:"steps"`
}

// TroubleshootingStatusResponse represents the troubleshooting read-model.
type TroubleshootingStatusResponse struct {
	State          TroubleshootingStateResponse `json:"state"`
	TotalSolutions int                          `json:"totalSolutions"`
	NextSolution   *SolutionResponse            `json:"nextSolution,omitempty"`
}

// FlowStatusResponse represents the full flow read-model for a session.
type FlowStatusResponse struct {
	SessionID       string                         `json:"sessionId"`
	Mode            string                         `json:"mode"`
	CurrentIntent   string                         `json:"currentIntent,omitempty"`
	Onboarding      *OnboardingStatusResponse      `json:"onboarding,omitempty"`
	Troubleshooting *TroubleshootingStatusResponse `json:"troubleshooting,omitempty"`
}

// SendMessageResponse represents the response for sending a message.
type SendMessageResponse struct {
	Message        *MessageResponse        `json:"message"`
	Classification *ClassificationResponse `json:"classification,omitempty"`
	Flow           *FlowResultResponse     `json:"flow,omitempty"`
	Suggestions    []RankedEntryResponse   `json:"suggestions,omitempty"`
	LatencyMs      int64                   `json:"latencyMs"`
}

// StatsResponse represents memory usage statistics.
type StatsResponse struct {
	SessionCount          int     `json:"sessionCount"`
	TotalMessages         int     `json:"totalMessages"`
	AvgMessagesPerSession float64 `json:"avgMessagesPerSession"`
	EstimatedBytes        int64   `json:"estimatedBytes"`
}

// SweepResponse represents the outcome of an admin sweep.
type SweepResponse struct {
	Deleted int `json:"deleted"`
	Reset   int `json:"reset"`
}

// AppliedResponse represents the outcome of a boolean operation.
type AppliedResponse struct {
	Applied bool `json:"applied"`
}

// SSEMessageEvent represents an SSE message event.
type SSEMessageEvent struct {
	Content   string `json:"content"`
	MessageID string `json:"messageId,omitempty"`
	Done      bool   `json:"done"`
}

// SSEErrorEvent represents an SSE error event.
type SSEErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
