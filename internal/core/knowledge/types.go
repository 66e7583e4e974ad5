// Package knowledge provides the knowledge provider type constants.
package knowledge

// Type represents the type of knowledge base backend.
type Type string

const (
	// TypeMemory represents the embedded in-process knowledge base.
	TypeMemory Type = "memory"
	// TypeMongoDB represents a MongoDB-backed knowledge base.
	TypeMongoDB Type = "mongodb"
	// TypePostgres represents a PostgreSQL-backed knowledge base.
	TypePostgres Type = "postgres"
)
