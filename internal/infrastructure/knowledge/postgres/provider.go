// Package postgres provides the PostgreSQL-backed knowledge base.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// Provider serves knowledge entries from the knowledge_entries table.
// Keywords are stored as a text[] column.
type Provider struct {
	db *sql.DB
}

// New opens a connection pool and verifies connectivity.
func New(dsn string) (*Provider, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Provider{db: db}, nil
}

// List returns all knowledge entries ordered by ID.
func (p *Provider) List(ctx context.Context) ([]models.KnowledgeEntry, error) {
	return p.query(ctx, `
		SELECT id, category, question, answer, keywords
		FROM knowledge_entries
		ORDER BY id ASC
	`)
}

// ListByCategory returns the entries whose category matches exactly.
func (p *Provider) ListByCategory(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	return p.query(ctx, `
		SELECT id, category, question, answer, keywords
		FROM knowledge_entries
		WHERE category = $1
		ORDER BY id ASC
	`, category)
}

// Ping verifies the connection to PostgreSQL.
func (p *Provider) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Provider) Close(ctx context.Context) error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("failed to close postgres connection: %w", err)
	}
	return nil
}

func (p *Provider) query(ctx context.Context, query string, args ...interface{}) ([]models.KnowledgeEntry, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge entries: %w", err)
	}
	defer rows.Close()

	var entries []models.KnowledgeEntry
	for rows.Next() {
		var entry models.KnowledgeEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Category,
			&entry.Question,
			&entry.Answer,
			pq.Array(&entry.Keywords),
		); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate knowledge entries: %w", err)
	}
	return entries, nil
}
