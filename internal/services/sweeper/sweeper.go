// Package sweeper runs the periodic idle-session cleanup.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/supporthub/conversation-service/internal/core/store"
	"github.com/supporthub/conversation-service/internal/services/conversation"
)

const (
	// DefaultInterval is the pause between sweep passes.
	DefaultInterval = 5 * time.Minute
	// DefaultMaxIdle is the inactivity span after which sessions are swept.
	DefaultMaxIdle = 30 * time.Minute
	// sweepTimeout bounds one sweep pass.
	sweepTimeout = 30 * time.Second
)

// Config holds the configuration for the sweeper.
type Config struct {
	Store    store.Store
	Manager  conversation.Manager
	Interval time.Duration
	MaxIdle  time.Duration
	Logger   *zerolog.Logger
}

// Sweeper periodically deletes idle sessions and resets idle contexts.
// Deletion keys on session activity, reset on message recency, so a session
// kept alive by touches still sheds its stale conversation state.
type Sweeper struct {
	store    store.Store
	manager  conversation.Manager
	interval time.Duration
	maxIdle  time.Duration
	logger   zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// New creates a new sweeper.
func New(cfg *Config) (*Sweeper, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Manager == nil {
		return nil, fmt.Errorf("manager is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Sweeper{
		store:    cfg.Store,
		manager:  cfg.Manager,
		interval: cfg.Interval,
		maxIdle:  cfg.MaxIdle,
		logger:   log.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.maxIdle <= 0 {
		s.maxIdle = DefaultMaxIdle
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	}
	return s, nil
}

// Start launches the background sweep loop.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.run()
}

// Stop stops the sweep loop and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

// RunOnce performs a single sweep pass: expired sessions are deleted first,
// then surviving idle contexts are reset.
func (s *Sweeper) RunOnce(ctx context.Context) (deleted, reset int, err error) {
	deleted, err = s.store.SweepExpired(ctx, s.maxIdle)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	reset, err = s.manager.Sweep(ctx, s.maxIdle)
	if err != nil {
		return deleted, 0, fmt.Errorf("failed to sweep idle contexts: %w", err)
	}
	return deleted, reset, nil
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	deleted, reset, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("session sweep failed")
		return
	}
	if deleted > 0 || reset > 0 {
		s.logger.Info().Int("deleted", deleted).Int("reset", reset).Msg("session sweep completed")
	}
}
