package flows_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/infrastructure/store/memory"
	"github.com/supporthub/conversation-service/internal/services/conversation"
	"github.com/supporthub/conversation-service/internal/services/flows"
	"github.com/supporthub/conversation-service/tests/mocks"
)

func newTestOrchestrator(t *testing.T) (flows.Orchestrator, *memory.Store) {
	t.Helper()

	store := memory.New()
	mgr, err := conversation.NewManager(&conversation.Config{Store: store})
	require.NoError(t, err)

	orch, err := flows.NewOrchestrator(&flows.Config{Store: store, Manager: mgr})
	require.NoError(t, err)
	return orch, store
}

func newFlowSession(t *testing.T, store *memory.Store) *models.Session {
	t.Helper()

	sess, err := store.Create(context.Background(), "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)
	return sess
}

func TestNewOrchestrator_NilConfig(t *testing.T) {
	// Act
	orch, err := flows.NewOrchestrator(nil)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, orch)
	assert.Contains(t, err.Error(), "config is required")
}

func TestNewOrchestrator_NilStore(t *testing.T) {
	// Act
	orch, err := flows.NewOrchestrator(&flows.Config{Manager: &mocks.MockManager{}})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, orch)
	assert.Contains(t, err.Error(), "store is required")
}

func TestNewOrchestrator_NilManager(t *testing.T) {
	// Act
	orch, err := flows.NewOrchestrator(&flows.Config{Store: memory.New()})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, orch)
	assert.Contains(t, err.Error(), "manager is required")
}

func TestOrchestrator_StartOnboarding(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	// Act
	result, err := orch.StartOnboarding(ctx, sess.ID, "")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Applied)
	assert.False(t, result.Completed)

	require.NotNil(t, result.Step)
	assert.Equal(t, "welcome", result.Step.ID)

	require.NotNil(t, result.Message)
	assert.Equal(t, models.MessageTypeSystem, result.Message.Type)
	assert.Equal(t, result.Step.Prompt, result.Message.Content)

	step, ok := result.Flow.OnboardingStep()
	require.True(t, ok)
	assert.Equal(t, 0, step)

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentOnboarding, fresh.Context.CurrentIntent)
	assert.Equal(t, models.FlowOnboarding, fresh.Context.Flow.Mode())
	assert.Len(t, fresh.Context.Messages, 1)
}

func TestOrchestrator_StartOnboarding_UnknownFlowType(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)

	// Act
	result, err := orch.StartOnboarding(context.Background(), sess.ID, "wizard")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestOrchestrator_StartOnboarding_MissingSession(t *testing.T) {
	// Arrange
	orch, _ := newTestOrchestrator(t)

	// Act
	result, err := orch.StartOnboarding(context.Background(), "sess_missing", "")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestOrchestrator_AdvanceOnboarding_StepsThroughCatalog(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	_, err := orch.StartOnboarding(ctx, sess.ID, "")
	require.NoError(t, err)

	// Act / Assert - three advances walk the middle steps
	expected := []string{"account-setup", "feature-overview", "first-task"}
	for i, id := range expected {
		result, err := orch.AdvanceOnboarding(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Applied)
		assert.False(t, result.Completed)
		require.NotNil(t, result.Step)
		assert.Equal(t, id, result.Step.ID)

		step, ok := result.Flow.OnboardingStep()
		require.True(t, ok)
		assert.Equal(t, i+1, step)
	}

	// The fourth advance reaches the completion marker and ends the flow
	final, err := orch.AdvanceOnboarding(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.True(t, final.Applied)
	assert.True(t, final.Completed)
	assert.Nil(t, final.Step)
	assert.Equal(t, models.FlowIdle, final.Flow.Mode())

	require.NotNil(t, final.Message)
	assert.Contains(t, final.Message.Content, "You're fully set up")

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Context.CurrentIntent)
	assert.Equal(t, models.FlowIdle, fresh.Context.Flow.Mode())
}

func TestOrchestrator_AdvanceOnboarding_NotOnboarding(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)

	// Act
	result, err := orch.AdvanceOnboarding(context.Background(), sess.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Applied)
	assert.Equal(t, models.FlowIdle, result.Flow.Mode())
}

func TestOrchestrator_AdvanceOnboarding_MissingSession(t *testing.T) {
	// Arrange
	orch, _ := newTestOrchestrator(t)

	// Act
	result, err := orch.AdvanceOnboarding(context.Background(), "sess_missing")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestOrchestrator_StartTroubleshooting(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	// Act
	result, err := orch.StartTroubleshooting(ctx, sess.ID, "my sync is broken")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Applied)

	require.NotNil(t, result.Solution)
	assert.Equal(t, "check-network", result.Solution.ID)

	require.NotNil(t, result.Message)
	assert.Equal(t,
		"Let's try this: Make sure you're online, then retry. Tell me if that worked or didn't work.",
		result.Message.Content)

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentTroubleshooting, fresh.Context.CurrentIntent)

	state, ok := fresh.Context.Flow.Troubleshooting()
	require.True(t, ok)
	assert.Equal(t, "my sync is broken", state.Issue)
	assert.Empty(t, state.AttemptedSolutions)
	assert.Equal(t, 0, state.EscalationLevel)
}

func TestOrchestrator_StartTroubleshooting_BlankIssue(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)

	// Act
	result, err := orch.StartTroubleshooting(context.Background(), sess.ID, "   ")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestOrchestrator_ReportOutcome_Worked(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	_, err := orch.StartTroubleshooting(ctx, sess.ID, "my sync is broken")
	require.NoError(t, err)

	// Act
	result, err := orch.ReportOutcome(ctx, sess.ID, true)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Applied)
	assert.True(t, result.Completed)
	assert.False(t, result.Escalated)
	assert.Equal(t, models.FlowIdle, result.Flow.Mode())

	require.NotNil(t, result.Message)
	assert.Contains(t, result.Message.Content, "glad that solved it")

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Context.CurrentIntent)
	assert.Equal(t, models.FlowIdle, fresh.Context.Flow.Mode())
}

func TestOrchestrator_ReportOutcome_FailureOffersNextSolution(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	_, err := orch.StartTroubleshooting(ctx, sess.ID, "my sync is broken")
	require.NoError(t, err)

	// Act
	result, err := orch.ReportOutcome(ctx, sess.ID, false)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Applied)
	assert.False(t, result.Completed)
	assert.False(t, result.Escalated)

	require.NotNil(t, result.Solution)
	assert.Equal(t, "force-sync", result.Solution.ID)

	state, ok := result.Flow.Troubleshooting()
	require.True(t, ok)
	assert.Equal(t, []string{"check-network"}, state.AttemptedSolutions)
	assert.Equal(t, 0, state.EscalationLevel)
}

func TestOrchestrator_ReportOutcome_EscalatesThroughToHumanSupport(t *testing.T) {
	// Arrange - connection issues carry three solutions
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	_, err := orch.StartTroubleshooting(ctx, sess.ID, "my sync is broken")
	require.NoError(t, err)

	// Act / Assert - two failures offer the remaining solutions
	for _, id := range []string{"force-sync", "refresh-session"} {
		result, err := orch.ReportOutcome(ctx, sess.ID, false)
		require.NoError(t, err)
		require.NotNil(t, result.Solution)
		assert.Equal(t, id, result.Solution.ID)
		assert.False(t, result.Escalated)
	}

	// The third failure exhausts the list: escalation level one
	third, err := orch.ReportOutcome(ctx, sess.ID, false)
	require.NoError(t, err)
	assert.True(t, third.Escalated)
	assert.False(t, third.Completed)
	require.NotNil(t, third.Message)
	assert.Contains(t, third.Message.Content, "different angle")

	state, ok := third.Flow.Troubleshooting()
	require.True(t, ok)
	assert.Equal(t, 1, state.EscalationLevel)
	assert.Len(t, state.AttemptedSolutions, 3)

	// The fourth failure escalates again
	fourth, err := orch.ReportOutcome(ctx, sess.ID, false)
	require.NoError(t, err)
	assert.True(t, fourth.Escalated)
	assert.False(t, fourth.Completed)

	// The fifth failure hands off to human support and ends the flow
	fifth, err := orch.ReportOutcome(ctx, sess.ID, false)
	require.NoError(t, err)
	assert.True(t, fifth.Escalated)
	assert.True(t, fifth.Completed)
	require.NotNil(t, fifth.Message)
	assert.Contains(t, fifth.Message.Content, "human support team")
	assert.Equal(t, models.FlowIdle, fifth.Flow.Mode())

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Context.CurrentIntent)
	assert.Equal(t, models.FlowIdle, fresh.Context.Flow.Mode())
}

func TestOrchestrator_ReportOutcome_NotTroubleshooting(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)

	// Act
	result, err := orch.ReportOutcome(context.Background(), sess.ID, false)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Applied)
}

func TestOrchestrator_Transition_ToOnboarding(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	// Act
	ok, err := orch.Transition(ctx, sess.ID, models.FlowIdle, models.FlowOnboarding)

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowOnboarding, fresh.Context.Flow.Mode())
}

func TestOrchestrator_Transition_ToIdleClearsFlow(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	_, err := orch.StartTroubleshooting(ctx, sess.ID, "login trouble")
	require.NoError(t, err)

	// Act
	ok, err := orch.Transition(ctx, sess.ID, models.FlowTroubleshooting, models.FlowIdle)

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowIdle, fresh.Context.Flow.Mode())
	assert.Empty(t, fresh.Context.CurrentIntent)
}

func TestOrchestrator_Transition_MissingSession(t *testing.T) {
	// Arrange
	orch, _ := newTestOrchestrator(t)

	// Act
	ok, err := orch.Transition(context.Background(), "sess_missing", models.FlowIdle, models.FlowOnboarding)

	// Assert
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrchestrator_RecoverFromError(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	_, err := orch.StartOnboarding(ctx, sess.ID, "")
	require.NoError(t, err)

	// Act
	ok, err := orch.RecoverFromError(ctx, sess.ID, assert.AnError)

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowIdle, fresh.Context.Flow.Mode())
	assert.Empty(t, fresh.Context.CurrentIntent)

	last, found := fresh.Context.LastMessage()
	require.True(t, found)
	assert.Equal(t, models.MessageTypeSystem, last.Type)
	assert.Contains(t, last.Content, "start over")
}

func TestOrchestrator_RecoverFromError_MissingSession(t *testing.T) {
	// Arrange
	orch, _ := newTestOrchestrator(t)

	// Act
	ok, err := orch.RecoverFromError(context.Background(), "sess_missing", assert.AnError)

	// Assert
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrchestrator_PreserveHistory_DelegatesToManager(t *testing.T) {
	// Arrange
	mockManager := &mocks.MockManager{}
	preserved := models.NewConversationContext()
	mockManager.On("PreserveHistory", mock.Anything, "sess_1").Return(&preserved, nil)

	orch, err := flows.NewOrchestrator(&flows.Config{Store: memory.New(), Manager: mockManager})
	require.NoError(t, err)

	// Act
	ok, err := orch.PreserveHistory(context.Background(), "sess_1")

	// Assert
	require.NoError(t, err)
	assert.True(t, ok)
	mockManager.AssertExpectations(t)
}

func TestOrchestrator_PreserveHistory_MissingSession(t *testing.T) {
	// Arrange
	mockManager := &mocks.MockManager{}
	mockManager.On("PreserveHistory", mock.Anything, "sess_missing").Return(nil, nil)

	orch, err := flows.NewOrchestrator(&flows.Config{Store: memory.New(), Manager: mockManager})
	require.NoError(t, err)

	// Act
	ok, err := orch.PreserveHistory(context.Background(), "sess_missing")

	// Assert
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrchestrator_Status_Onboarding(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	_, err := orch.StartOnboarding(ctx, sess.ID, "")
	require.NoError(t, err)
	_, err = orch.AdvanceOnboarding(ctx, sess.ID)
	require.NoError(t, err)

	// Act
	status, err := orch.Status(ctx, sess.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, sess.ID, status.SessionID)
	assert.Equal(t, models.FlowOnboarding, status.Mode)
	assert.Equal(t, models.IntentOnboarding, status.CurrentIntent)

	require.NotNil(t, status.Onboarding)
	assert.Equal(t, 1, status.Onboarding.StepIndex)
	assert.Equal(t, 5, status.Onboarding.TotalSteps)
	assert.InDelta(t, 25.0, status.Onboarding.Completion, 0.001)
	assert.Equal(t, "account-setup", status.Onboarding.CurrentStep.ID)
	assert.Len(t, status.Onboarding.Steps, 5)
	assert.Nil(t, status.Troubleshooting)
}

func TestOrchestrator_Status_Troubleshooting(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)
	ctx := context.Background()

	_, err := orch.StartTroubleshooting(ctx, sess.ID, "password trouble")
	require.NoError(t, err)
	_, err = orch.ReportOutcome(ctx, sess.ID, false)
	require.NoError(t, err)

	// Act
	status, err := orch.Status(ctx, sess.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.FlowTroubleshooting, status.Mode)

	require.NotNil(t, status.Troubleshooting)
	assert.Equal(t, "password trouble", status.Troubleshooting.State.Issue)
	assert.Equal(t, []string{"reset-password"}, status.Troubleshooting.State.AttemptedSolutions)
	assert.Equal(t, 3, status.Troubleshooting.TotalSolutions)
	require.NotNil(t, status.Troubleshooting.NextSolution)
	assert.Equal(t, "clear-cookies", status.Troubleshooting.NextSolution.ID)
	assert.Nil(t, status.Onboarding)
}

func TestOrchestrator_Status_IdleSession(t *testing.T) {
	// Arrange
	orch, store := newTestOrchestrator(t)
	sess := newFlowSession(t, store)

	// Act
	status, err := orch.Status(context.Background(), sess.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.FlowIdle, status.Mode)
	assert.Nil(t, status.Onboarding)
	assert.Nil(t, status.Troubleshooting)
}

func TestOrchestrator_Status_MissingSession(t *testing.T) {
	// Arrange
	orch, _ := newTestOrchestrator(t)

	// Act
	status, err := orch.Status(context.Background(), "sess_missing")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, status)
}
