// Package memory provides the embedded in-process knowledge base.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// Provider serves knowledge entries held in process memory. Entries are fixed
// at construction time.
type Provider struct {
	entries []models.KnowledgeEntry
}

// New creates a provider seeded with the built-in support catalog.
func New() *Provider {
	return &Provider{entries: defaultEntries()}
}

// NewWithEntries creates a provider serving the given entries.
func NewWithEntries(entries []models.KnowledgeEntry) *Provider {
	return &Provider{entries: append([]models.KnowledgeEntry(nil), entries...)}
}

// NewFromFile creates a provider from a JSON file holding an array of
// knowledge entries.
func NewFromFile(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file %s: %w", path, err)
	}
	var entries []models.KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file %s: %w", path, err)
	}
	return NewWithEntries(entries), nil
}

// List returns all knowledge entries.
func (p *Provider) List(ctx context.Context) ([]models.KnowledgeEntry, error) {
	return append([]models.KnowledgeEntry(nil), p.entries...), nil
}

// ListByCategory returns the entries whose category matches exactly.
func (p *Provider) ListByCategory(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	var entries []models.KnowledgeEntry
	for _, e := range p.entries {
		if e.Category == category {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Ping always succeeds for the embedded provider.
func (p *Provider) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the embedded provider.
func (p *Provider) Close(ctx context.Context) error {
	return nil
}
