package models

import "encoding/json"

// FlowMode identifies which guided flow, if any, a conversation is in.
type FlowMode string

const (
	// FlowIdle means no guided flow is active.
	FlowIdle FlowMode = "idle"
	// FlowOnboarding means the onboarding walkthrough is active.
	FlowOnboarding FlowMode = "onboarding"
	// FlowTroubleshooting means the troubleshooting escalation flow is active.
	FlowTroubleshooting FlowMode = "troubleshooting"
)

// TroubleshootingState tracks progress through the troubleshooting flow.
type TroubleshootingState struct {
	// Issue is the problem description the flow is addressing.
	Issue string `json:"issue"`
	// AttemptedSolutions lists solution IDs already offered and rejected.
	AttemptedSolutions []string `json:"attemptedSolutions"`
	// EscalationLevel counts how many times the solution list was exhausted.
	EscalationLevel int `json:"escalationLevel"`
}

// Clone returns a deep copy of the state.
func (t TroubleshootingState) Clone() TroubleshootingState {
	cp := t
	cp.AttemptedSolutions = append([]string(nil), t.AttemptedSolutions...)
	return cp
}

// FlowState is a tagged union over the three conversational flow modes.
// Fields are unexported so an onboarding step and a troubleshooting state can
// never coexist; use the constructors and accessors. The zero value is idle.
type FlowState struct {
	mode            FlowMode
	onboardingStep  int
	troubleshooting *TroubleshootingState
}

// IdleFlow returns the idle flow state.
func IdleFlow() FlowState {
	return FlowState{mode: FlowIdle}
}

// OnboardingFlow returns a flow state at the given onboarding step.
// Negative steps clamp to 0.
func OnboardingFlow(step int) FlowState {
	if step < 0 {
		step = 0
	}
	return FlowState{mode: FlowOnboarding, onboardingStep: step}
}

// TroubleshootingFlow returns a flow state carrying the given troubleshooting
// progress.
func TroubleshootingFlow(state TroubleshootingState) FlowState {
	cp := state.Clone()
	return FlowState{mode: FlowTroubleshooting, troubleshooting: &cp}
}

// Mode returns the active flow mode. The zero value reads as idle.
func (f FlowState) Mode() FlowMode {
	if f.mode == "" {
		return FlowIdle
	}
	return f.mode
}

// OnboardingStep returns the current onboarding step. The second return is
// false unless the onboarding flow is active.
func (f FlowState) OnboardingStep() (int, bool) {
	if f.mode != FlowOnboarding {
		return 0, false
	}
	return f.onboardingStep, true
}

// Troubleshooting returns a copy of the troubleshooting progress. The second
// return is false unless the troubleshooting flow is active.
func (f FlowState) Troubleshooting() (TroubleshootingState, bool) {
	if f.mode != FlowTroubleshooting || f.troubleshooting == nil {
		return TroubleshootingState{}, false
	}
	return f.troubleshooting.Clone(), true
}

// flowStateJSON is the wire shape of FlowState.
type flowStateJSON struct {
	Mode            FlowMode              `json:"mode"`
	OnboardingStep  *int                  `json:"onboardingStep,omitempty"`
	Troubleshooting *TroubleshootingState `json:"troubleshooting,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f FlowState) MarshalJSON() ([]byte, error) {
	wire := flowStateJSON{Mode: f.Mode()}
	switch f.mode {
	case FlowOnboarding:
		step := f.onboardingStep
		wire.OnboardingStep = &step
	case FlowTroubleshooting:
		if f.troubleshooting != nil {
			cp := f.troubleshooting.Clone()
			wire.Troubleshooting = &cp
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler. Payloads that violate the union
// (both step and troubleshooting present, or a mode with no matching payload)
// normalize to the mode field, dropping mismatched data.
func (f *FlowState) UnmarshalJSON(data []byte) error {
	var wire flowStateJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Mode {
	case FlowOnboarding:
		step := 0
		if wire.OnboardingStep != nil {
			step = *wire.OnboardingStep
		}
		*f = OnboardingFlow(step)
	case FlowTroubleshooting:
		if wire.Troubleshooting != nil {
			*f = TroubleshootingFlow(*wire.Troubleshooting)
		} else {
			*f = TroubleshootingFlow(TroubleshootingState{})
		}
	default:
		*f = IdleFlow()
	}
	return nil
}
