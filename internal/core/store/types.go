// Package store provides the session store type constants.
package store

// Type represents the type of session store.
type Type string

const (
	// TypeMemory represents the in-process map-backed store.
	TypeMemory Type = "memory"
	// TypeRedis represents a Redis-backed store.
	TypeRedis Type = "redis"
)
