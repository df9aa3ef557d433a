package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Dataset sources
const (
	SourceBuiltIn  = "builtin"
	SourceExcel    = "excel"
	SourcePostgres = "postgres"
)

// DefaultKnownAreas is the closed vocabulary of areas the analyzer recognizes
var DefaultKnownAreas = []string{"wakad", "aundh", "ambegaon budruk", "akurdi"}

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Dataset    DatasetConfig
	Upload     UploadConfig
	PostgreSQL PostgreSQLConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig

	// Warnings lists environment values that were ignored in favor of a default
	Warnings []string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// DatasetConfig describes where market records come from and how queries read them
type DatasetConfig struct {
	Source        string   // builtin, excel or postgres
	File          string   // Spreadsheet path when Source is excel
	Table         string   // Table name when Source is postgres
	ReferenceYear int      // The year treated as "now" by the lookback window
	DefaultWindow int      // Lookback window when a query names none
	KnownAreas    []string // Lowercase area vocabulary, in match order
}

// UploadConfig holds spreadsheet upload limits
type UploadConfig struct {
	MaxBytes       int64
	ReplaceDataset bool
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // Full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// OpenAIConfig holds configuration for the optional generative summarizer
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatMaxTokens   int
	Timeout         int // Seconds
	Enabled         bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	env := &envReader{}

	cfg := &Config{
		Server: ServerConfig{
			Port:           env.getEnvAsInt("SERVER_PORT", 8000),
			Host:           env.getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        env.getEnv("GIN_MODE", "release"),
			AllowedOrigins: env.getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: env.getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: env.getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Dataset: DatasetConfig{
			Source:        strings.ToLower(env.getEnv("DATASET_SOURCE", SourceBuiltIn)),
			File:          env.getEnv("DATASET_FILE", ""),
			Table:         env.getEnv("DATASET_TABLE", "market_trends"),
			ReferenceYear: env.getEnvAsInt("DATASET_REFERENCE_YEAR", 2024),
			DefaultWindow: env.getEnvAsInt("DATASET_DEFAULT_WINDOW", 4),
			KnownAreas:    env.getEnvAsList("DATASET_KNOWN_AREAS", DefaultKnownAreas),
		},
		Upload: UploadConfig{
			MaxBytes:       int64(env.getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
			ReplaceDataset: env.getEnvAsBool("UPLOAD_REPLACE_DATASET", true),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                env.getEnv("DATABASE_URL", env.getEnv("PG_DSN", "")),
			Host:               env.getEnv("PG_HOST", "localhost"),
			Port:               env.getEnvAsInt("PG_PORT", 5432),
			User:               env.getEnv("PG_USER", "postgres"),
			Password:           env.getEnv("PG_PASSWORD", ""),
			Database:           env.getEnv("PG_DATABASE", "market_insights"),
			SSLMode:            env.getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     env.getEnvAsInt("PG_MAX_CONNECTIONS", 5),
			MaxIdleConnections: env.getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Logging: LoggingConfig{
			Level:  env.getEnv("LOG_LEVEL", "info"),
			Format: env.getEnv("LOG_FORMAT", "text"),
		},
		OpenAI: OpenAIConfig{
			APIKey:          env.getEnv("OPENAI_API_KEY", ""),
			APIBase:         env.getEnv("OPENAI_API_BASE", ""),
			ChatModel:       env.getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: env.getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.2),
			ChatMaxTokens:   env.getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			Timeout:         env.getEnvAsInt("OPENAI_TIMEOUT", 20),
			Enabled:         env.getEnv("OPENAI_API_KEY", "") != "",
		},
	}

	cfg.Warnings = env.warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive the analysis pipeline
func (c *Config) Validate() error {
	var errs []error

	if c.Dataset.ReferenceYear <= 0 {
		errs = append(errs, fmt.Errorf("DATASET_REFERENCE_YEAR must be positive, got %d", c.Dataset.ReferenceYear))
	}
	if c.Dataset.DefaultWindow <= 0 {
		errs = append(errs, fmt.Errorf("DATASET_DEFAULT_WINDOW must be positive, got %d", c.Dataset.DefaultWindow))
	}
	if len(c.Dataset.KnownAreas) == 0 {
		errs = append(errs, errors.New("DATASET_KNOWN_AREAS must list at least one area"))
	}

	switch c.Dataset.Source {
	case SourceBuiltIn, SourcePostgres:
	case SourceExcel:
		if c.Dataset.File == "" {
			errs = append(errs, errors.New("DATASET_FILE is required when DATASET_SOURCE=excel"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATASET_SOURCE %q", c.Dataset.Source))
	}

	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// envReader reads typed values from the environment and remembers rejected ones
type envReader struct {
	warnings []string
}

func (e *envReader) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

func (e *envReader) getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (e *envReader) getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.warnf("invalid integer value %q for %s, using default %d", valueStr, key, defaultValue)
		return defaultValue
	}
	return value
}

func (e *envReader) getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		e.warnf("invalid float value %q for %s, using default %g", valueStr, key, defaultValue)
		return defaultValue
	}
	return value
}

func (e *envReader) getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		e.warnf("invalid boolean value %q for %s, using default %t", valueStr, key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated value, lowercasing and trimming each entry
func (e *envReader) getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return append([]string(nil), defaultValue...)
	}

	var items []string
	for _, part := range strings.Split(valueStr, ",") {
		item := strings.Join(strings.Fields(strings.ToLower(part)), " ")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
