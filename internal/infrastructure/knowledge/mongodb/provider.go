// Package mongodb provides the MongoDB-backed knowledge base.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// EntriesCollection is the name of the knowledge entries collection.
const EntriesCollection = "knowledge_entries"

// Config holds MongoDB connection configuration.
type Config struct {
	URI          string
	DatabaseName string
}

// Provider serves knowledge entries from a MongoDB collection.
type Provider struct {
	client  *mongo.Client
	entries *mongo.Collection
}

// New creates a MongoDB knowledge provider and verifies the connection.
func New(ctx context.Context, cfg *Config) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.DatabaseName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	clientOpts := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Provider{
		client:  client,
		entries: client.Database(cfg.DatabaseName).Collection(EntriesCollection),
	}, nil
}

// List returns all knowledge entries ordered by ID.
func (p *Provider) List(ctx context.Context) ([]models.KnowledgeEntry, error) {
	return p.find(ctx, bson.M{})
}

// ListByCategory returns the entries whose category matches exactly.
func (p *Provider) ListByCategory(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	return p.find(ctx, bson.M{"category": category})
}

// Ping verifies the connection to MongoDB.
func (p *Provider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (p *Provider) Close(ctx context.Context) error {
	if err := p.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

func (p *Provider) find(ctx context.Context, filter bson.M) ([]models.KnowledgeEntry, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := p.entries.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.KnowledgeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge entries: %w", err)
	}
	return entries, nil
}
