// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server       ServerConfig
	Store        StoreConfig
	Knowledge    KnowledgeConfig
	Conversation ConversationConfig
	Flows        FlowsConfig
	Responder    ResponderConfig
	Sweep        SweepConfig
	Auth         AuthConfig
	Log          LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig holds session store configuration.
type StoreConfig struct {
	Type          string
	MaxSessions   int
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
	EncryptionKey string
}

// KnowledgeConfig holds knowledge base provider configuration.
type KnowledgeConfig struct {
	Type          string
	SeedFile      string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
}

// ConversationConfig holds context manager tuning.
type ConversationConfig struct {
	CompressionThreshold int
	MaxMessages          int
	Retention            time.Duration
	PreserveThreshold    int
	PreserveRecent       int
}

// FlowsConfig holds flow orchestrator tuning.
type FlowsConfig struct {
	MaxEscalation int
}

// ResponderConfig holds completion backend configuration.
type ResponderConfig struct {
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	MaxHistory    int
	Temperature   float64
}

// SweepConfig holds background sweeper configuration.
type SweepConfig struct {
	Enabled  bool
	Interval time.Duration
	MaxIdle  time.Duration
}

// AuthConfig holds API authentication configuration.
type AuthConfig struct {
	APIKey string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Store: StoreConfig{
			Type:          getEnv("STORE_TYPE", "memory"),
			MaxSessions:   getEnvAsInt("STORE_MAX_SESSIONS", 0),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_SECONDS", 86400)) * time.Second,
			EncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", ""),
		},
		Knowledge: KnowledgeConfig{
			Type:          getEnv("KNOWLEDGE_TYPE", "memory"),
			SeedFile:      getEnv("KNOWLEDGE_SEED_FILE", ""),
			MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "supporthub"),
			PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		},
		Conversation: ConversationConfig{
			CompressionThreshold: getEnvAsInt("COMPRESSION_THRESHOLD", 30),
			MaxMessages:          getEnvAsInt("MAX_MESSAGES", 50),
			Retention:            time.Duration(getEnvAsInt("CONTEXT_RETENTION_HOURS", 24)) * time.Hour,
			PreserveThreshold:    getEnvAsInt("PRESERVE_THRESHOLD", 50),
			PreserveRecent:       getEnvAsInt("PRESERVE_RECENT", 30),
		},
		Flows: FlowsConfig{
			MaxEscalation: getEnvAsInt("MAX_ESCALATION", 3),
		},
		Responder: ResponderConfig{
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			MaxHistory:    getEnvAsInt("OPENAI_MAX_HISTORY", 12),
			Temperature:   getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
		},
		Sweep: SweepConfig{
			Enabled:  getEnvAsBool("SWEEP_ENABLED", true),
			Interval: time.Duration(getEnvAsInt("SWEEP_INTERVAL_SECONDS", 300)) * time.Second,
			MaxIdle:  time.Duration(getEnvAsInt("SWEEP_MAX_IDLE_SECONDS", 1800)) * time.Second,
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as a float with a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
