// Package knowledge defines the knowledge base provider interface.
package knowledge

import (
	"context"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// Provider defines the interface for knowledge base retrieval. Entries feed
// the classifier's relevance ranking; providers are read-only at runtime.
type Provider interface {
	// List returns all knowledge entries.
	List(ctx context.Context) ([]models.KnowledgeEntry, error)

	// ListByCategory returns the entries whose category matches exactly.
	ListByCategory(ctx context.Context, category string) ([]models.KnowledgeEntry, error)

	// Ping checks if the backing source is reachable.
	Ping(ctx context.Context) error

	// Close releases the backing source connection.
	Close(ctx context.Context) error
}
