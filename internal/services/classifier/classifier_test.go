package classifier_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/classifier"
)

func TestClassify_FAQQuestion(t *testing.T) {
	// Arrange
	c := classifier.New()

	// Act
	result := c.Classify("How do I export my data?", nil, nil)

	// Assert
	assert.Equal(t, models.IntentFAQ, result.Intent)
	assert.InDelta(t, 0.54, result.Confidence, 0.001)
	assert.Equal(t, []string{"how", "how do"}, result.Keywords)

	require.Len(t, result.Entities, 1)
	assert.Equal(t, models.EntityFeature, result.Entities[0].Type)
	assert.Equal(t, "export", result.Entities[0].Value)
	assert.InDelta(t, 0.7, result.Entities[0].Confidence, 0.001)
}

func TestClassify_TroubleshootingReport(t *testing.T) {
	// Arrange
	c := classifier.New()

	// Act
	result := c.Classify("The sync keeps crashing with an error", nil, nil)

	// Assert
	assert.Equal(t, models.IntentTroubleshooting, result.Intent)
	assert.Equal(t, 1.0, result.Confidence, "accumulated score clamps to 1")
	assert.Equal(t, []string{"error", "crash"}, result.Keywords)
}

func TestClassify_OnboardingRequest(t *testing.T) {
	// Arrange
	c := classifier.New()

	// Act
	result := c.Classify("I'm new here, how do I get started?", nil, nil)

	// Assert
	assert.Equal(t, models.IntentOnboarding, result.Intent)
	assert.InDelta(t, 0.75, result.Confidence, 0.001)
	assert.Equal(t, []string{"start", "new", "get started"}, result.Keywords)
}

func TestClassify_EmptyText_FallsBackToGeneral(t *testing.T) {
	// Arrange
	c := classifier.New()

	// Act
	result := c.Classify("", nil, nil)

	// Assert
	assert.Equal(t, models.IntentGeneral, result.Intent)
	assert.InDelta(t, 0.1, result.Confidence, 0.001)
	assert.Empty(t, result.Keywords)
	assert.Empty(t, result.Entities)
}

func TestClassify_TieResolvesToEarlierIntent(t *testing.T) {
	// Arrange - "can i" scores faq 0.2, "upgrade" scores product 0.2
	c := classifier.New()

	// Act
	result := c.Classify("can I upgrade", nil, nil)

	// Assert
	assert.Equal(t, models.IntentFAQ, result.Intent)
	assert.InDelta(t, 0.2, result.Confidence, 0.001)
}

func TestClassify_PunctuationNormalization(t *testing.T) {
	// Arrange - "doesn't" normalizes to "doesn t" and matches the error entity
	c := classifier.New()

	// Act
	result := c.Classify("It doesn't work!", nil, nil)

	// Assert
	assert.Equal(t, models.IntentTroubleshooting, result.Intent)
	assert.InDelta(t, 0.36, result.Confidence, 0.001)

	require.Len(t, result.Entities, 1)
	assert.Equal(t, models.EntityError, result.Entities[0].Type)
	assert.Equal(t, "doesn t work", result.Entities[0].Value)
}

func TestClassify_EntitiesDeduplicatedAndSorted(t *testing.T) {
	// Arrange
	c := classifier.New()

	// Act
	result := c.Classify("error error during setup", nil, nil)

	// Assert - one entity per (type, value), highest confidence first
	require.Len(t, result.Entities, 2)
	assert.Equal(t, models.EntityError, result.Entities[0].Type)
	assert.Equal(t, "error", result.Entities[0].Value)
	assert.InDelta(t, 0.9, result.Entities[0].Confidence, 0.001)
	assert.Equal(t, models.EntityStep, result.Entities[1].Type)
	assert.Equal(t, "setup", result.Entities[1].Value)
	assert.InDelta(t, 0.6, result.Entities[1].Confidence, 0.001)
}

func TestClassify_ActiveTroubleshootingFlowBiasesIntent(t *testing.T) {
	// Arrange - the text alone carries no intent signal
	c := classifier.New()
	convCtx := models.NewConversationContext()

	neutral := c.Classify("it is still the same", nil, nil)
	require.Equal(t, models.IntentGeneral, neutral.Intent)

	convCtx.CurrentIntent = models.IntentTroubleshooting
	convCtx.Flow = models.TroubleshootingFlow(models.TroubleshootingState{Issue: "sync fails"})

	// Act
	result := c.Classify("it is still the same", &convCtx, nil)

	// Assert - current intent and active issue push troubleshooting ahead
	assert.Equal(t, models.IntentTroubleshooting, result.Intent)
	assert.InDelta(t, 0.5, result.Confidence, 0.001)
}

func TestClassify_ActiveOnboardingStepBiasesIntent(t *testing.T) {
	// Arrange
	c := classifier.New()
	convCtx := models.NewConversationContext()
	convCtx.CurrentIntent = models.IntentOnboarding
	convCtx.Flow = models.OnboardingFlow(1)

	// Act
	result := c.Classify("ok done", &convCtx, nil)

	// Assert
	assert.Equal(t, models.IntentOnboarding, result.Intent)
	assert.InDelta(t, 0.5, result.Confidence, 0.001)
}

func TestClassify_ContextualInfo_NilContext(t *testing.T) {
	// Arrange
	c := classifier.New()

	// Act
	result := c.Classify("hello", nil, nil)

	// Assert
	assert.False(t, result.Contextual.IsFollowUp)
	assert.Empty(t, result.Contextual.PreviousIntent)
	assert.Equal(t, models.StageInitial, result.Contextual.ConversationStage)
}

func TestClassify_ContextualInfo_EmptyHistoryIsInitial(t *testing.T) {
	// Arrange
	c := classifier.New()
	convCtx := models.NewConversationContext()

	// Act
	result := c.Classify("hello", &convCtx, nil)

	// Assert
	assert.False(t, result.Contextual.IsFollowUp)
	assert.Equal(t, models.StageInitial, result.Contextual.ConversationStage)
}

func TestClassify_ContextualInfo_OngoingConversation(t *testing.T) {
	// Arrange
	c := classifier.New()
	convCtx := models.NewConversationContext()
	convCtx.CurrentIntent = models.IntentFAQ
	convCtx.Messages = []models.Message{
		models.NewUserMessage("sess_1", "how do I export?"),
		models.NewAssistantMessage("sess_1", "Use the export button."),
	}

	// Act
	result := c.Classify("and as a CSV?", &convCtx, nil)

	// Assert
	assert.True(t, result.Contextual.IsFollowUp)
	assert.Equal(t, models.IntentFAQ, result.Contextual.PreviousIntent)
	assert.Equal(t, models.StageOngoing, result.Contextual.ConversationStage)
}

func TestClassify_ContextualInfo_ResolutionStage(t *testing.T) {
	// Arrange - six messages and a closing assistant turn
	c := classifier.New()
	convCtx := models.NewConversationContext()
	for i := 0; i < 3; i++ {
		convCtx.Messages = append(convCtx.Messages,
			models.NewUserMessage("sess_1", "question"),
			models.NewAssistantMessage("sess_1", "answer"),
		)
	}
	convCtx.Messages[5].Content = "Glad that worked. Is there anything else?"

	// Act
	result := c.Classify("no that was it", &convCtx, nil)

	// Assert
	assert.Equal(t, models.StageResolution, result.Contextual.ConversationStage)
}

func TestClassify_ContextualInfo_ShortHistoryNeverResolves(t *testing.T) {
	// Arrange - closing phrase present but only four messages
	c := classifier.New()
	convCtx := models.NewConversationContext()
	convCtx.Messages = []models.Message{
		models.NewUserMessage("sess_1", "question"),
		models.NewAssistantMessage("sess_1", "answer"),
		models.NewUserMessage("sess_1", "thanks"),
		models.NewAssistantMessage("sess_1", "Is there anything else?"),
	}

	// Act
	result := c.Classify("no", &convCtx, nil)

	// Assert
	assert.Equal(t, models.StageOngoing, result.Contextual.ConversationStage)
}

func TestClassify_RanksKnowledgeByRelevance(t *testing.T) {
	// Arrange
	c := classifier.New()
	entries := []models.KnowledgeEntry{
		{
			ID:       "kb_plans",
			Category: models.IntentProduct,
			Question: "What plans exist?",
			Answer:   "Free and premium.",
			Keywords: []string{"plan"},
		},
		{
			ID:       "kb_password",
			Category: models.IntentFAQ,
			Question: "How do I reset my password?",
			Answer:   "Open Settings, choose Security, then follow the reset link.",
			Keywords: []string{"password", "reset", "security"},
		},
	}

	// Act
	result := c.Classify("How do I reset my password", nil, entries)

	// Assert - the matching entry scores category + keywords + word overlap
	require.Len(t, result.RelevantKnowledge, 1)
	assert.Equal(t, "kb_password", result.RelevantKnowledge[0].Entry.ID)
	assert.InDelta(t, 1.8, result.RelevantKnowledge[0].Score, 0.001)
}

func TestClassify_RelevanceFloorExcludesWeakMatches(t *testing.T) {
	// Arrange - a single keyword overlap scores exactly the floor
	c := classifier.New()
	entries := []models.KnowledgeEntry{
		{
			ID:       "kb_weak",
			Category: models.IntentFAQ,
			Question: "Completely unrelated topic",
			Answer:   "Nothing useful here.",
			Keywords: []string{"password"},
		},
	}

	// Act
	result := c.Classify("password", nil, entries)

	// Assert
	assert.Empty(t, result.RelevantKnowledge)
}

func TestClassify_SuggestionsCappedAtFive(t *testing.T) {
	// Arrange
	c := classifier.New()
	var entries []models.KnowledgeEntry
	for i := 0; i < 7; i++ {
		entries = append(entries, models.KnowledgeEntry{
			ID:       fmt.Sprintf("kb_%d", i),
			Category: models.IntentFAQ,
			Question: "How do I export my data?",
			Answer:   "Use the export button.",
			Keywords: []string{"export"},
		})
	}

	// Act
	result := c.Classify("How do I export my data?", nil, entries)

	// Assert
	assert.Len(t, result.RelevantKnowledge, 5)
}

func TestClassify_NoKnowledgeEntries(t *testing.T) {
	// Arrange
	c := classifier.New()

	// Act
	result := c.Classify("How do I export my data?", nil, nil)

	// Assert
	assert.Empty(t, result.RelevantKnowledge)
}
