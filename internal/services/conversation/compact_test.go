package conversation_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/conversation"
)

// makeMessage builds a message with a deterministic timestamp so ordering
// assertions do not depend on wall-clock resolution.
func makeMessage(i int, msgType models.MessageType, content string) models.Message {
	msg := models.NewMessage("sess_1", msgType, content)
	msg.CreatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	return msg
}

func TestCompactMessages_AtOrBelowCapUnchanged(t *testing.T) {
	// Arrange
	messages := []models.Message{
		makeMessage(0, models.MessageTypeUser, "first"),
		makeMessage(1, models.MessageTypeAssistant, "second"),
	}

	// Act
	out := conversation.CompactMessages("sess_1", messages, 2)

	// Assert
	assert.Equal(t, messages, out)
}

func TestCompactMessages_ZeroCapUnchanged(t *testing.T) {
	// Arrange
	messages := []models.Message{makeMessage(0, models.MessageTypeUser, "first")}

	// Act
	out := conversation.CompactMessages("sess_1", messages, 0)

	// Assert
	assert.Equal(t, messages, out)
}

func TestCompactMessages_KeepsRecentAndSummarizesOlder(t *testing.T) {
	// Arrange - three older messages plus ten recent ones
	older := []models.Message{
		makeMessage(0, models.MessageTypeUser, "I forgot my password"),
		makeMessage(1, models.MessageTypeAssistant, "Try resetting it"),
		makeMessage(2, models.MessageTypeUser, "the sync is broken too"),
	}
	older[2].Metadata = &models.MessageMetadata{Intent: models.IntentTroubleshooting}

	messages := older
	for i := 3; i < 13; i++ {
		messages = append(messages, makeMessage(i, models.MessageTypeUser, fmt.Sprintf("recent-%d", i)))
	}

	// Act
	out := conversation.CompactMessages("sess_1", messages, 10)

	// Assert
	require.Len(t, out, 11, "ten recent messages plus one summary")

	summary := out[0]
	assert.Equal(t, models.MessageTypeSystem, summary.Type)
	assert.Equal(t, models.IntentSummary, summary.Intent())
	assert.Equal(t,
		"Conversation summary: 2 user and 1 assistant messages. Topics: password, sync. Intents: troubleshooting.",
		summary.Content)

	assert.Equal(t, messages[3:], out[1:])
}

func TestCompactMessages_AbsorbsEarlierSummary(t *testing.T) {
	// Arrange - a history that was already compacted once
	var messages []models.Message
	for i := 0; i < 13; i++ {
		messages = append(messages, makeMessage(i, models.MessageTypeUser, "I forgot my password"))
	}
	first := conversation.CompactMessages("sess_1", messages, 10)
	require.Len(t, first, 11)

	for i := 13; i < 15; i++ {
		first = append(first, makeMessage(i, models.MessageTypeUser, "still waiting"))
	}

	// Act
	out := conversation.CompactMessages("sess_1", first, 10)

	// Assert - the old summary falls past the cutoff and feeds the new digest
	require.Len(t, out, 11)
	assert.Equal(t, models.MessageTypeSystem, out[0].Type)
	assert.Contains(t, out[0].Content, "password")
	for _, msg := range out[1:] {
		assert.NotEqual(t, models.MessageTypeSystem, msg.Type)
	}
}

func TestPreserveMessages_UnionOfRecentAndFlowRelated(t *testing.T) {
	// Arrange - message 0 is flow-related, the rest are plain turns
	messages := []models.Message{
		makeMessage(0, models.MessageTypeSystem, "Step 1: create your workspace"),
	}
	for i := 1; i < 8; i++ {
		messages = append(messages, makeMessage(i, models.MessageTypeUser, fmt.Sprintf("turn-%d", i)))
	}

	// Act
	out := conversation.PreserveMessages(messages, 3)

	// Assert - system message survives alongside the last three, in order
	require.Len(t, out, 4)
	assert.Equal(t, messages[0].ID, out[0].ID)
	assert.Equal(t, messages[5].ID, out[1].ID)
	assert.Equal(t, messages[6].ID, out[2].ID)
	assert.Equal(t, messages[7].ID, out[3].ID)
}

func TestPreserveMessages_FlowIntentSurvives(t *testing.T) {
	// Arrange
	flagged := makeMessage(0, models.MessageTypeUser, "help me get started")
	flagged.Metadata = &models.MessageMetadata{Intent: models.IntentOnboarding}
	messages := []models.Message{flagged}
	for i := 1; i < 6; i++ {
		messages = append(messages, makeMessage(i, models.MessageTypeUser, fmt.Sprintf("turn-%d", i)))
	}

	// Act
	out := conversation.PreserveMessages(messages, 2)

	// Assert
	require.Len(t, out, 3)
	assert.Equal(t, flagged.ID, out[0].ID)
}

func TestPreserveMessages_ShortHistoryKeptWhole(t *testing.T) {
	// Arrange
	messages := []models.Message{
		makeMessage(0, models.MessageTypeUser, "first"),
		makeMessage(1, models.MessageTypeAssistant, "second"),
	}

	// Act
	out := conversation.PreserveMessages(messages, 5)

	// Assert
	assert.Equal(t, messages, out)
}

func TestPreserveMessages_NegativeRecentKeepsOnlyFlowRelated(t *testing.T) {
	// Arrange
	messages := []models.Message{
		makeMessage(0, models.MessageTypeUser, "turn-0"),
		makeMessage(1, models.MessageTypeSystem, "Step 2: invite your team"),
		makeMessage(2, models.MessageTypeUser, "turn-2"),
	}

	// Act
	out := conversation.PreserveMessages(messages, -1)

	// Assert
	require.Len(t, out, 1)
	assert.Equal(t, messages[1].ID, out[0].ID)
}
