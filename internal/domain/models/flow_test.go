package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

func TestFlowState_ZeroValue_ReadsAsIdle(t *testing.T) {
	// Arrange
	var flow models.FlowState

	// Assert
	assert.Equal(t, models.FlowIdle, flow.Mode())

	_, ok := flow.OnboardingStep()
	assert.False(t, ok)

	_, ok = flow.Troubleshooting()
	assert.False(t, ok)
}

func TestOnboardingFlow_NegativeStep_ClampsToZero(t *testing.T) {
	// Act
	flow := models.OnboardingFlow(-3)

	// Assert
	step, ok := flow.OnboardingStep()
	require.True(t, ok)
	assert.Equal(t, 0, step)
}

func TestOnboardingFlow_ExcludesTroubleshooting(t *testing.T) {
	// Act
	flow := models.OnboardingFlow(2)

	// Assert
	assert.Equal(t, models.FlowOnboarding, flow.Mode())

	step, ok := flow.OnboardingStep()
	require.True(t, ok)
	assert.Equal(t, 2, step)

	_, ok = flow.Troubleshooting()
	assert.False(t, ok)
}

func TestTroubleshootingFlow_AccessorReturnsCopy(t *testing.T) {
	// Arrange
	flow := models.TroubleshootingFlow(models.TroubleshootingState{
		Issue:              "sync keeps failing",
		AttemptedSolutions: []string{"check-network"},
	})

	// Act
	state, ok := flow.Troubleshooting()
	require.True(t, ok)
	state.AttemptedSolutions[0] = "mutated"
	state.Issue = "mutated"

	// Assert
	fresh, ok := flow.Troubleshooting()
	require.True(t, ok)
	assert.Equal(t, "sync keeps failing", fresh.Issue)
	assert.Equal(t, []string{"check-network"}, fresh.AttemptedSolutions)
}

func TestFlowState_MarshalJSON_OmitsInactivePayload(t *testing.T) {
	// Arrange
	flow := models.OnboardingFlow(3)

	// Act
	data, err := json.Marshal(flow)

	// Assert
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "onboarding", wire["mode"])
	assert.Equal(t, float64(3), wire["onboardingStep"])
	assert.NotContains(t, wire, "troubleshooting")
}

func TestFlowState_UnmarshalJSON_NormalizesConflictingUnion(t *testing.T) {
	// Arrange
	payload := `{"mode":"onboarding","onboardingStep":1,"troubleshooting":{"issue":"stale","attemptedSolutions":[],"escalationLevel":2}}`

	// Act
	var flow models.FlowState
	err := json.Unmarshal([]byte(payload), &flow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.FlowOnboarding, flow.Mode())

	step, ok := flow.OnboardingStep()
	require.True(t, ok)
	assert.Equal(t, 1, step)

	_, ok = flow.Troubleshooting()
	assert.False(t, ok, "troubleshooting payload should be dropped")
}

func TestFlowState_UnmarshalJSON_ModeWithoutPayload(t *testing.T) {
	// Arrange
	payload := `{"mode":"troubleshooting"}`

	// Act
	var flow models.FlowState
	err := json.Unmarshal([]byte(payload), &flow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.FlowTroubleshooting, flow.Mode())

	state, ok := flow.Troubleshooting()
	require.True(t, ok)
	assert.Empty(t, state.Issue)
	assert.Empty(t, state.AttemptedSolutions)
	assert.Equal(t, 0, state.EscalationLevel)
}

func TestFlowState_UnmarshalJSON_UnknownModeFallsBackToIdle(t *testing.T) {
	// Arrange
	payload := `{"mode":"wizard","onboardingStep":4}`

	// Act
	var flow models.FlowState
	err := json.Unmarshal([]byte(payload), &flow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.FlowIdle, flow.Mode())
}

func TestFlowState_JSONRoundTrip(t *testing.T) {
	// Arrange
	original := models.TroubleshootingFlow(models.TroubleshootingState{
		Issue:              "cannot log in",
		AttemptedSolutions: []string{"reset-password", "clear-cookies"},
		EscalationLevel:    1,
	})

	// Act
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded models.FlowState
	err = json.Unmarshal(data, &decoded)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.FlowTroubleshooting, decoded.Mode())

	state, ok := decoded.Troubleshooting()
	require.True(t, ok)
	assert.Equal(t, "cannot log in", state.Issue)
	assert.Equal(t, []string{"reset-password", "clear-cookies"}, state.AttemptedSolutions)
	assert.Equal(t, 1, state.EscalationLevel)
}
