// Package conversation implements the context manager: message history
// bookkeeping, compaction, retention expiry and targeted context updates.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/supporthub/conversation-service/internal/core/store"
	"github.com/supporthub/conversation-service/internal/domain/models"
)

// Default tunables for the context manager.
const (
	// DefaultCompressionThreshold is the message count that triggers a
	// compaction attempt on the record path.
	DefaultCompressionThreshold = 30
	// DefaultMaxMessages is how many messages compaction retains verbatim.
	DefaultMaxMessages = 50
	// DefaultRetention is how long a context survives after its last message.
	DefaultRetention = 24 * time.Hour
	// DefaultPreserveThreshold is the history length above which explicit
	// preservation rewrites the history.
	DefaultPreserveThreshold = 50
	// DefaultPreserveRecent is the recent-window size preservation keeps.
	DefaultPreserveRecent = 30
)

// Stats reports rough memory usage across all live sessions.
type Stats struct {
	SessionCount          int     `json:"sessionCount"`
	TotalMessages         int     `json:"totalMessages"`
	AvgMessagesPerSession float64 `json:"avgMessagesPerSession"`
	EstimatedBytes        int64   `json:"estimatedBytes"`
}

// Manager owns the conversational context embedded in each session: it
// appends messages, applies the compaction and preservation policies, expires
// stale histories, and routes targeted partial updates through the store.
type Manager interface {
	// RecordMessage appends the message to the session's history, adopts the
	// message's intent label as the session's current intent when present,
	// compacts the history once it grows past the compression threshold, and
	// persists the result. Returns (nil, nil) if the session does not exist.
	RecordMessage(ctx context.Context, sessionID string, msg models.Message) (*models.ConversationContext, error)

	// GetContext returns the session's context, or (nil, nil) when the
	// session does not exist or its last message is older than the retention
	// window. A context past retention is cleared as a side effect.
	GetContext(ctx context.Context, sessionID string) (*models.ConversationContext, error)

	// ClearContext resets the session's context to its initial state.
	// Returns false if the session does not exist.
	ClearContext(ctx context.Context, sessionID string) (bool, error)

	// UpdatePreferences merges the patch into the session's preferences.
	// Returns false if the session does not exist.
	UpdatePreferences(ctx context.Context, sessionID string, patch models.PreferencesPatch) (bool, error)

	// UpdateOnboardingStep moves the session onto the given onboarding step,
	// or off the onboarding flow when step is nil.
	// Returns false if the session does not exist.
	UpdateOnboardingStep(ctx context.Context, sessionID string, step *int) (bool, error)

	// UpdateTroubleshootingState merges the patch into the session's
	// troubleshooting state, starting fresh when none is active.
	// Returns false if the session does not exist.
	UpdateTroubleshootingState(ctx context.Context, sessionID string, patch models.TroubleshootingPatch) (bool, error)

	// PreserveHistory rewrites an over-long history to the union of the
	// recent window with all flow-related messages. Histories at or below
	// the preservation threshold are left alone. Returns (nil, nil) if the
	// session does not exist.
	PreserveHistory(ctx context.Context, sessionID string) (*models.ConversationContext, error)

	// MemoryStats reports session and message counts plus a rough byte
	// estimate. Observability only.
	MemoryStats(ctx context.Context) (*Stats, error)

	// Sweep clears the context of every session whose last message is older
	// than maxIdle. Returns the number of contexts cleared.
	Sweep(ctx context.Context, maxIdle time.Duration) (int, error)
}

// Config holds the configuration for the context manager.
type Config struct {
	Store                store.Store
	CompressionThreshold int
	MaxMessages          int
	Retention            time.Duration
	PreserveThreshold    int
	PreserveRecent       int
	Clock                func() time.Time
	Logger               *zerolog.Logger
}

// manager implements the Manager interface.
type manager struct {
	store                store.Store
	compressionThreshold int
	maxMessages          int
	retention            time.Duration
	preserveThreshold    int
	preserveRecent       int
	clock                func() time.Time
	logger               zerolog.Logger
}

// NewManager creates a new context manager.
func NewManager(cfg *Config) (Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	m := &manager{
		store:                cfg.Store,
		compressionThreshold: cfg.CompressionThreshold,
		maxMessages:          cfg.MaxMessages,
		retention:            cfg.Retention,
		preserveThreshold:    cfg.PreserveThreshold,
		preserveRecent:       cfg.PreserveRecent,
		clock:                cfg.Clock,
		logger:               log.Logger,
	}
	if m.compressionThreshold <= 0 {
		m.compressionThreshold = DefaultCompressionThreshold
	}
	if m.maxMessages <= 0 {
		m.maxMessages = DefaultMaxMessages
	}
	if m.retention <= 0 {
		m.retention = DefaultRetention
	}
	if m.preserveThreshold <= 0 {
		m.preserveThreshold = DefaultPreserveThreshold
	}
	if m.preserveRecent <= 0 {
		m.preserveRecent = DefaultPreserveRecent
	}
	if m.clock == nil {
		m.clock = func() time.Time { return time.Now().UTC() }
	}
	if cfg.Logger != nil {
		m.logger = *cfg.Logger
	}
	return m, nil
}

// RecordMessage appends a message and persists the resulting context.
func (m *manager) RecordMessage(ctx context.Context, sessionID string, msg models.Message) (*models.ConversationContext, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	msg.SessionID = sessionID
	messages := append(sess.Context.Messages, msg)

	// Session-level cap on raw growth, independent of compaction.
	if limit := sess.Config.MaxMessages; limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	if len(messages) > m.compressionThreshold {
		before := len(messages)
		messages = m.safeCompact(sessionID, messages)
		if len(messages) < before {
			m.logger.Debug().
				Str("sessionId", sessionID).
				Int("before", before).
				Int("after", len(messages)).
				Msg("compacted conversation history")
		}
	}

	patch := models.ContextPatch{Messages: &messages}
	if intent := msg.Intent(); intent != "" {
		patch.CurrentIntent = &intent
	}

	updated, err := m.store.UpdateContext(ctx, sessionID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to persist context for session %s: %w", sessionID, err)
	}
	if updated == nil {
		return nil, nil
	}
	return &updated.Context, nil
}

// GetContext returns the session's context, lazily expiring stale histories.
func (m *manager) GetContext(ctx context.Context, sessionID string) (*models.ConversationContext, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	if m.expired(&sess.Context) {
		if _, err := m.store.UpdateContext(ctx, sessionID, models.ResetContextPatch()); err != nil {
			return nil, fmt.Errorf("failed to expire context for session %s: %w", sessionID, err)
		}
		m.logger.Info().Str("sessionId", sessionID).Msg("context past retention, cleared")
		return nil, nil
	}
	return &sess.Context, nil
}

// ClearContext resets the session's context to its initial state.
func (m *manager) ClearContext(ctx context.Context, sessionID string) (bool, error) {
	updated, err := m.store.UpdateContext(ctx, sessionID, models.ResetContextPatch())
	if err != nil {
		return false, fmt.Errorf("failed to clear context for session %s: %w", sessionID, err)
	}
	return updated != nil, nil
}

// UpdatePreferences merges the patch into the session's preferences.
func (m *manager) UpdatePreferences(ctx context.Context, sessionID string, patch models.PreferencesPatch) (bool, error) {
	updated, err := m.store.UpdateContext(ctx, sessionID, models.ContextPatch{Preferences: &patch})
	if err != nil {
		return false, fmt.Errorf("failed to update preferences for session %s: %w", sessionID, err)
	}
	return updated != nil, nil
}

// UpdateOnboardingStep moves the session onto the given onboarding step.
func (m *manager) UpdateOnboardingStep(ctx context.Context, sessionID string, step *int) (bool, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return false, nil
	}

	var flow models.FlowState
	if step != nil {
		flow = models.OnboardingFlow(*step)
	} else {
		if sess.Context.Flow.Mode() != models.FlowOnboarding {
			return true, nil
		}
		flow = models.IdleFlow()
	}

	updated, err := m.store.UpdateContext(ctx, sessionID, models.ContextPatch{Flow: &flow})
	if err != nil {
		return false, fmt.Errorf("failed to update onboarding step for session %s: %w", sessionID, err)
	}
	return updated != nil, nil
}

// UpdateTroubleshootingState merges the patch into the troubleshooting state.
func (m *manager) UpdateTroubleshootingState(ctx context.Context, sessionID string, patch models.TroubleshootingPatch) (bool, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return false, nil
	}

	var existing *models.TroubleshootingState
	if state, ok := sess.Context.Flow.Troubleshooting(); ok {
		existing = &state
	}
	merged := models.MergeTroubleshooting(existing, patch)
	flow := models.TroubleshootingFlow(merged)

	updated, err := m.store.UpdateContext(ctx, sessionID, models.ContextPatch{Flow: &flow})
	if err != nil {
		return false, fmt.Errorf("failed to update troubleshooting state for session %s: %w", sessionID, err)
	}
	return updated != nil, nil
}

// PreserveHistory rewrites an over-long history, keeping flow-related
// messages alongside the recent window.
func (m *manager) PreserveHistory(ctx context.Context, sessionID string) (*models.ConversationContext, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	if len(sess.Context.Messages) <= m.preserveThreshold {
		return &sess.Context, nil
	}

	preserved := PreserveMessages(sess.Context.Messages, m.preserveRecent)
	updated, err := m.store.UpdateContext(ctx, sessionID, models.ContextPatch{Messages: &preserved})
	if err != nil {
		return nil, fmt.Errorf("failed to preserve history for session %s: %w", sessionID, err)
	}
	if updated == nil {
		return nil, nil
	}
	m.logger.Debug().
		Str("sessionId", sessionID).
		Int("before", len(sess.Context.Messages)).
		Int("after", len(preserved)).
		Msg("preserved conversation history")
	return &updated.Context, nil
}

// MemoryStats reports counts and a rough byte estimate over live sessions.
func (m *manager) MemoryStats(ctx context.Context) (*Stats, error) {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	stats := &Stats{SessionCount: len(sessions)}
	for _, sess := range sessions {
		stats.TotalMessages += len(sess.Context.Messages)
		if payload, err := json.Marshal(sess); err == nil {
			stats.EstimatedBytes += int64(len(payload))
		}
	}
	if stats.SessionCount > 0 {
		stats.AvgMessagesPerSession = float64(stats.TotalMessages) / float64(stats.SessionCount)
	}
	return stats, nil
}

// Sweep clears contexts that have been idle longer than maxIdle.
func (m *manager) Sweep(ctx context.Context, maxIdle time.Duration) (int, error) {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	swept := 0
	for _, sess := range sessions {
		last := sess.Context.LastMessageAt()
		if last.IsZero() {
			continue
		}
		if m.clock().Sub(last) > maxIdle {
			if _, err := m.store.UpdateContext(ctx, sess.ID, models.ResetContextPatch()); err != nil {
				return swept, fmt.Errorf("failed to clear idle context for session %s: %w", sess.ID, err)
			}
			swept++
		}
	}
	if swept > 0 {
		m.logger.Info().Int("count", swept).Msg("cleared idle conversation contexts")
	}
	return swept, nil
}

// expired reports whether the context's last message is older than the
// retention window. Empty histories never expire.
func (m *manager) expired(c *models.ConversationContext) bool {
	last := c.LastMessageAt()
	if last.IsZero() {
		return false
	}
	return m.clock().Sub(last) > m.retention
}

// safeCompact runs compaction, falling back to the uncompacted history if the
// policy panics so one malformed session never aborts the request.
func (m *manager) safeCompact(sessionID string, messages []models.Message) (out []models.Message) {
	out = messages
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Str("sessionId", sessionID).
				Interface("panic", r).
				Msg("compaction failed, keeping history uncompacted")
		}
	}()
	return CompactMessages(sessionID, messages, m.maxMessages)
}
