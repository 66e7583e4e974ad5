// Package redis provides the Redis implementation of the session store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/pkg/encryption"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "session:"

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	// SessionTTL bounds how long an idle session survives. Every write
	// refreshes the key's expiry, so Redis itself enforces the idle window.
	SessionTTL time.Duration
}

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

// Option configures the store.
type Option func(*Store)

// WithClock overrides the store's time source.
func WithClock(clock Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithEncryptor sets the payload encryptor. Defaults to pass-through.
func WithEncryptor(enc encryption.Encryptor) Option {
	return func(s *Store) {
		s.encryptor = enc
	}
}

// Store is a Redis-backed session store. Session payloads are JSON,
// encrypted at rest when an encryptor is configured.
type Store struct {
	client    *redis.Client
	encryptor encryption.Encryptor
	ttl       time.Duration
	clock     Clock
}

// New creates a Redis session store and verifies the connection.
func New(cfg Config, opts ...Option) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s := &Store{
		client:    client,
		encryptor: encryption.NewNoOpEncryptor(),
		ttl:       cfg.SessionTTL,
		clock:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create allocates a session and stores it with the configured TTL.
func (s *Store) Create(ctx context.Context, userID string, cfg models.SessionConfig) (*models.Session, error) {
	sess := models.NewSession(userID)
	now := s.clock()
	sess.CreatedAt = now
	sess.LastActivityAt = now
	sess.Config = cfg

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get retrieves a session by ID. Returns (nil, nil) if absent or expired.
func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return nil, nil // Key not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return s.decode(val)
}

// Touch refreshes the session's last-activity timestamp and its key TTL.
func (s *Store) Touch(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil || sess == nil {
		return nil, err
	}
	sess.LastActivityAt = s.clock()
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// UpdateContext applies the patch to the session's context, refreshing the
// last-activity timestamp and the key TTL.
func (s *Store) UpdateContext(ctx context.Context, id string, patch models.ContextPatch) (*models.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil || sess == nil {
		return nil, err
	}
	sess.Context.ApplyPatch(patch)
	sess.LastActivityAt = s.clock()
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete removes a session. Returns true if it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return result > 0, nil
}

// SweepExpired reports zero removals. Idle expiry is delegated to the key
// TTL, which every write refreshes.
func (s *Store) SweepExpired(ctx context.Context, maxIdle time.Duration) (int, error) {
	return 0, nil
}

// List returns all live sessions ordered by creation time. Entries that can
// no longer be decoded are skipped.
func (s *Store) List(ctx context.Context) ([]*models.Session, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]*models.Session, 0, len(keys))
	for _, key := range keys {
		val, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue // Expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get key %s: %w", key, err)
		}
		sess, err := s.decode(val)
		if err != nil {
			continue
		}
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Count returns the number of live sessions.
func (s *Store) Count(ctx context.Context) (int, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Ping checks if the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing purposes).
func (s *Store) GetClient() *redis.Client {
	return s.client
}

func (s *Store) save(ctx context.Context, sess *models.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sess.ID, err)
	}
	sealed, err := s.encryptor.Encrypt(payload)
	if err != nil {
		return fmt.Errorf("failed to encrypt session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, sealed, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *Store) decode(val string) (*models.Session, error) {
	payload, err := s.encryptor.Decrypt(val)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *Store) scanKeys(ctx context.Context) ([]string, error) {
	var cursor uint64
	var keys []string

	for {
		batch, nextCursor, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan session keys: %w", err)
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
