package models

// ContextPatch is an explicit partial update for a ConversationContext. Nil
// fields are left untouched; non-nil fields replace (or, for preferences,
// merge into) the existing value.
type ContextPatch struct {
	Messages      *[]Message
	CurrentIntent *string
	Flow          *FlowState
	Preferences   *PreferencesPatch
}

// PreferencesPatch is an explicit partial update for Preferences.
type PreferencesPatch struct {
	Language      *string
	ResponseStyle *string
}

// TroubleshootingPatch is an explicit partial update for TroubleshootingState.
type TroubleshootingPatch struct {
	Issue              *string
	AttemptedSolutions []string
	EscalationLevel    *int
}

// ApplyPatch merges the patch into the context. Clearing CurrentIntent (an
// explicit empty string) also resets the flow to idle, so a patch that both
// clears the intent and sets a flow keeps the invariant: the intent clear
// wins.
func (c *ConversationContext) ApplyPatch(p ContextPatch) {
	if p.Messages != nil {
		c.Messages = *p.Messages
	}
	if p.Flow != nil {
		c.Flow = *p.Flow
	}
	if p.Preferences != nil {
		c.Preferences.Apply(*p.Preferences)
	}
	if p.CurrentIntent != nil {
		c.CurrentIntent = *p.CurrentIntent
		if c.CurrentIntent == "" {
			c.Flow = IdleFlow()
		}
	}
}

// Apply merges the patch into the preferences.
func (p *Preferences) Apply(patch PreferencesPatch) {
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.ResponseStyle != nil {
		p.ResponseStyle = *patch.ResponseStyle
	}
}

// ResetContextPatch returns a patch that restores a context to its initial
// state: no messages, no intent, idle flow, default preferences.
func ResetContextPatch() ContextPatch {
	empty := []Message{}
	clear := ""
	defaults := DefaultPreferences()
	return ContextPatch{
		Messages:      &empty,
		CurrentIntent: &clear,
		Preferences: &PreferencesPatch{
			Language:      &defaults.Language,
			ResponseStyle: &defaults.ResponseStyle,
		},
	}
}

// MergeTroubleshooting applies the patch on top of the existing state,
// starting from a zero state when none exists yet. Nil patch fields keep the
// existing (or default) values.
func MergeTroubleshooting(existing *TroubleshootingState, patch TroubleshootingPatch) TroubleshootingState {
	merged := TroubleshootingState{AttemptedSolutions: []string{}}
	if existing != nil {
		merged = existing.Clone()
	}
	if patch.Issue != nil {
		merged.Issue = *patch.Issue
	}
	if patch.AttemptedSolutions != nil {
		merged.AttemptedSolutions = append([]string(nil), patch.AttemptedSolutions...)
	}
	if patch.EscalationLevel != nil {
		merged.EscalationLevel = *patch.EscalationLevel
	}
	return merged
}
