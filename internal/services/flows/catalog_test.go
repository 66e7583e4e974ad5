package flows_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporthub/conversation-service/internal/services/flows"
)

func TestCatalogFor_EmptyTypeSelectsDefault(t *testing.T) {
	// Act
	steps, ok := flows.CatalogFor("")

	// Assert
	require.True(t, ok)
	require.Len(t, steps, 5)
	assert.Equal(t, "welcome", steps[0].ID)
	assert.Equal(t, "completion", steps[len(steps)-1].ID)
}

func TestCatalogFor_DefaultType(t *testing.T) {
	// Act
	steps, ok := flows.CatalogFor(flows.DefaultFlowType)

	// Assert
	require.True(t, ok)
	assert.NotEmpty(t, steps)

	for _, step := range steps {
		assert.NotEmpty(t, step.ID)
		assert.NotEmpty(t, step.Title)
		assert.NotEmpty(t, step.Prompt)
	}
}

func TestCatalogFor_UnknownType(t *testing.T) {
	// Act
	steps, ok := flows.CatalogFor("wizard")

	// Assert
	assert.False(t, ok)
	assert.Nil(t, steps)
}
