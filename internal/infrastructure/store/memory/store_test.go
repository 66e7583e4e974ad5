package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporthub/conversation-service/internal/core/store"
	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/infrastructure/store/memory"
)

func TestStore_CreateAndGet(t *testing.T) {
	// Arrange
	s := memory.New()
	ctx := context.Background()

	// Act
	created, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)

	fetched, err := s.Get(ctx, created.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "user_1", fetched.UserID)
	assert.Equal(t, models.DefaultSessionConfig(), fetched.Config)
	assert.Empty(t, fetched.Context.Messages)
}

func TestStore_Get_Missing(t *testing.T) {
	// Arrange
	s := memory.New()

	// Act
	sess, err := s.Get(context.Background(), "sess_missing")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_Create_CapacityExceeded(t *testing.T) {
	// Arrange
	s := memory.New(memory.WithMaxSessions(1))
	ctx := context.Background()

	_, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)

	// Act
	sess, err := s.Create(ctx, "user_2", models.DefaultSessionConfig())

	// Assert
	assert.ErrorIs(t, err, store.ErrCapacity)
	assert.Nil(t, sess)
}

func TestStore_Get_ReturnsClone(t *testing.T) {
	// Arrange
	s := memory.New()
	ctx := context.Background()

	created, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)

	// Act - mutate the returned copy
	fetched, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	fetched.Context.Messages = append(fetched.Context.Messages, models.NewUserMessage(created.ID, "mutation"))
	fetched.Context.CurrentIntent = models.IntentFAQ

	// Assert - the stored session is unaffected
	fresh, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Context.Messages)
	assert.Empty(t, fresh.Context.CurrentIntent)
}

func TestStore_Touch_RefreshesActivity(t *testing.T) {
	// Arrange
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := memory.New(memory.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	created, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)

	// Act
	now = now.Add(10 * time.Minute)
	touched, err := s.Touch(ctx, created.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, touched)
	assert.Equal(t, now, touched.LastActivityAt)
	assert.Equal(t, created.CreatedAt, touched.CreatedAt)
}

func TestStore_Touch_Missing(t *testing.T) {
	// Arrange
	s := memory.New()

	// Act
	sess, err := s.Touch(context.Background(), "sess_missing")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_UpdateContext_AppliesPatch(t *testing.T) {
	// Arrange
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := memory.New(memory.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	created, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)

	messages := []models.Message{models.NewUserMessage(created.ID, "hello")}
	intent := models.IntentGeneral
	now = now.Add(time.Minute)

	// Act
	updated, err := s.UpdateContext(ctx, created.ID, models.ContextPatch{
		Messages:      &messages,
		CurrentIntent: &intent,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Len(t, updated.Context.Messages, 1)
	assert.Equal(t, models.IntentGeneral, updated.Context.CurrentIntent)
	assert.Equal(t, now, updated.LastActivityAt)
}

func TestStore_UpdateContext_Missing(t *testing.T) {
	// Arrange
	s := memory.New()

	// Act
	sess, err := s.UpdateContext(context.Background(), "sess_missing", models.ContextPatch{})

	// Assert
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_Delete(t *testing.T) {
	// Arrange
	s := memory.New()
	ctx := context.Background()

	created, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)

	// Act
	deleted, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)

	missing, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)

	// Assert
	assert.True(t, deleted)
	assert.False(t, missing)

	sess, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_SweepExpired_RemovesIdleSessions(t *testing.T) {
	// Arrange
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := memory.New(memory.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	stale, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	fresh, err := s.Create(ctx, "user_2", models.DefaultSessionConfig())
	require.NoError(t, err)

	// Act
	removed, err := s.SweepExpired(ctx, 30*time.Minute)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	gone, err := s.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := s.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestStore_List_OrderedByCreation(t *testing.T) {
	// Arrange
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := memory.New(memory.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	first, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)

	now = now.Add(time.Minute)
	second, err := s.Create(ctx, "user_2", models.DefaultSessionConfig())
	require.NoError(t, err)

	// Act
	sessions, err := s.List(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)
}

func TestStore_Count(t *testing.T) {
	// Arrange
	s := memory.New()
	ctx := context.Background()

	_, err := s.Create(ctx, "user_1", models.DefaultSessionConfig())
	require.NoError(t, err)
	_, err = s.Create(ctx, "user_2", models.DefaultSessionConfig())
	require.NoError(t, err)

	// Act
	count, err := s.Count(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_PingAndClose(t *testing.T) {
	// Arrange
	s := memory.New()

	// Assert
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}
