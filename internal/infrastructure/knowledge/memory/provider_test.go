package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/infrastructure/knowledge/memory"
	"github.com/supporthub/conversation-service/tests/testutils"
)

func TestNew_SeedsBuiltInCatalog(t *testing.T) {
	// Arrange
	provider := memory.New()

	// Act
	entries, err := provider.List(context.Background())

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	categories := make(map[string]bool)
	for _, e := range entries {
		categories[e.Category] = true
	}
	assert.True(t, categories[models.IntentFAQ])
	assert.True(t, categories[models.IntentTroubleshooting])
	assert.True(t, categories[models.IntentOnboarding])
	assert.True(t, categories[models.IntentProduct])
}

func TestNewWithEntries_IsolatesInput(t *testing.T) {
	// Arrange
	entries := []models.KnowledgeEntry{testutils.NewTestEntry("kb_1", models.IntentFAQ)}

	// Act
	provider := memory.NewWithEntries(entries)
	entries[0].Question = "mutated"

	// Assert
	listed, err := provider.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "How do I reset my password?", listed[0].Question)
}

func TestProvider_ListByCategory(t *testing.T) {
	// Arrange
	provider := memory.NewWithEntries([]models.KnowledgeEntry{
		testutils.NewTestEntry("kb_1", models.IntentFAQ),
		testutils.NewTestEntry("kb_2", models.IntentTroubleshooting),
		testutils.NewTestEntry("kb_3", models.IntentFAQ),
	})

	// Act
	entries, err := provider.ListByCategory(context.Background(), models.IntentFAQ)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "kb_1", entries[0].ID)
	assert.Equal(t, "kb_3", entries[1].ID)
}

func TestProvider_ListByCategory_NoMatch(t *testing.T) {
	// Arrange
	provider := memory.NewWithEntries([]models.KnowledgeEntry{
		testutils.NewTestEntry("kb_1", models.IntentFAQ),
	})

	// Act
	entries, err := provider.ListByCategory(context.Background(), models.IntentProduct)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewFromFile_LoadsEntries(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "knowledge.json")
	payload := `[
		{"id":"kb_1","category":"faq","question":"How do I export?","answer":"Use the export button.","keywords":["export"]},
		{"id":"kb_2","category":"product","question":"What plans exist?","answer":"Free and premium.","keywords":["plan","premium"]}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	// Act
	provider, err := memory.NewFromFile(path)

	// Assert
	require.NoError(t, err)

	entries, err := provider.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "kb_1", entries[0].ID)
	assert.Equal(t, []string{"plan", "premium"}, entries[1].Keywords)
}

func TestNewFromFile_MissingFile(t *testing.T) {
	// Act
	provider, err := memory.NewFromFile(filepath.Join(t.TempDir(), "absent.json"))

	// Assert
	assert.Error(t, err)
	assert.Nil(t, provider)
	assert.Contains(t, err.Error(), "failed to read knowledge file")
}

func TestNewFromFile_InvalidJSON(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "knowledge.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	// Act
	provider, err := memory.NewFromFile(path)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, provider)
	assert.Contains(t, err.Error(), "failed to parse knowledge file")
}

func TestProvider_PingAndClose(t *testing.T) {
	// Arrange
	provider := memory.New()
	ctx := context.Background()

	// Assert
	assert.NoError(t, provider.Ping(ctx))
	assert.NoError(t, provider.Close(ctx))
}
