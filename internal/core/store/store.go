// Package store defines the session store interface and factory types.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// ErrCapacity is returned by Create when the store has reached its configured
// session limit.
var ErrCapacity = errors.New("session capacity reached")

// Store defines the interface for session persistence. Each method is atomic
// with respect to other completed calls; there is no cross-call transaction
// boundary.
type Store interface {
	// Create allocates a session with a fresh identifier, default context
	// and the given configuration, and inserts it into the store.
	Create(ctx context.Context, userID string, cfg models.SessionConfig) (*models.Session, error)

	// Get retrieves a session by ID without side effects.
	// Returns (nil, nil) if the session does not exist.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Touch refreshes the session's last-activity timestamp.
	// Returns (nil, nil) if the session does not exist.
	Touch(ctx context.Context, id string) (*models.Session, error)

	// UpdateContext applies the patch to the session's context and refreshes
	// the last-activity timestamp as a side effect.
	// Returns (nil, nil) if the session does not exist.
	UpdateContext(ctx context.Context, id string, patch models.ContextPatch) (*models.Session, error)

	// Delete removes a session.
	// Returns true if the session was removed, false if it didn't exist.
	Delete(ctx context.Context, id string) (bool, error)

	// SweepExpired removes every session whose last activity is older than
	// maxIdle and returns the number removed.
	SweepExpired(ctx context.Context, maxIdle time.Duration) (int, error)

	// List returns all live sessions.
	List(ctx context.Context) ([]*models.Session, error)

	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the backing store connection.
	Close() error
}
