package models

// Entity types surfaced by classification.
const (
	EntityError   = "error"
	EntityProduct = "product"
	EntityFeature = "feature"
	EntityStep    = "step"
)

// Conversation stages reported alongside a classification.
const (
	StageInitial    = "initial"
	StageOngoing    = "ongoing"
	StageResolution = "resolution"
)

// Entity is a typed span recognized in a user question.
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ContextualInfo describes how a question relates to the conversation so far.
type ContextualInfo struct {
	IsFollowUp        bool   `json:"isFollowUp"`
	PreviousIntent    string `json:"previousIntent,omitempty"`
	ConversationStage string `json:"conversationStage"`
}

// Classification is the full outcome of analyzing one user question.
type Classification struct {
	Intent            string         `json:"intent"`
	Confidence        float64        `json:"confidence"`
	Keywords          []string       `json:"keywords"`
	Entities          []Entity       `json:"entities"`
	Contextual        ContextualInfo `json:"contextual"`
	RelevantKnowledge []RankedEntry  `json:"relevantKnowledge,omitempty"`
}
