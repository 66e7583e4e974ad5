package models

import "time"

// Preferences holds user-adjustable conversation preferences.
type Preferences struct {
	// Language is the preferred reply language.
	Language string `json:"language"`
	// ResponseStyle selects between concise and detailed replies.
	ResponseStyle string `json:"responseStyle"`
}

// DefaultPreferences returns the preferences assigned to new contexts.
func DefaultPreferences() Preferences {
	return Preferences{Language: "en", ResponseStyle: "concise"}
}

// ConversationContext is the mutable conversational state embedded in a
// session: the ordered message history plus the flow fields the classifier
// and orchestrator act on.
//
// Invariant: the onboarding step and troubleshooting state are mutually
// exclusive (enforced structurally by FlowState), and the flow resets to idle
// whenever CurrentIntent is cleared (enforced by ApplyPatch).
type ConversationContext struct {
	// Messages is the insertion-ordered history. Unbounded unless compacted.
	Messages []Message `json:"messages"`
	// CurrentIntent is the most recent intent label, "" when unset.
	CurrentIntent string `json:"currentIntent,omitempty"`
	// Flow is the guided-flow state.
	Flow FlowState `json:"flow"`
	// Preferences are the user's conversation preferences.
	Preferences Preferences `json:"preferences"`
}

// NewConversationContext returns an empty context with default preferences.
func NewConversationContext() ConversationContext {
	return ConversationContext{
		Messages:    []Message{},
		Flow:        IdleFlow(),
		Preferences: DefaultPreferences(),
	}
}

// MessageCount returns the number of messages in the context.
func (c *ConversationContext) MessageCount() int {
	return len(c.Messages)
}

// LastMessage returns the most recent message, or false when the history is
// empty.
func (c *ConversationContext) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// LastMessageOfType returns the most recent message of the given type.
func (c *ConversationContext) LastMessageOfType(t MessageType) (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Type == t {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// LastMessageAt returns the timestamp of the most recent message, or the zero
// time when the history is empty.
func (c *ConversationContext) LastMessageAt() time.Time {
	last, ok := c.LastMessage()
	if !ok {
		return time.Time{}
	}
	return last.CreatedAt
}

// Clone returns a deep copy of the context.
func (c *ConversationContext) Clone() ConversationContext {
	cp := *c
	cp.Messages = append([]Message(nil), c.Messages...)
	return cp
}
