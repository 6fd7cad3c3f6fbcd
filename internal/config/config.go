package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultModels is the fallback chain used when AI_MODELS is not set, in trial order.
var DefaultModels = []string{
	"google/gemini-2.0-flash-exp:free",
	"google/gemma-3-27b-it:free",
	"meta-llama/llama-3.3-70b-instruct:free",
	"mistralai/mistral-7b-instruct:free",
}

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Redis      RedisConfig
	NATS       NATSConfig
	Server     ServerConfig
	Search     SearchConfig
	Leads      LeadsConfig
	Logging    LoggingConfig
	AI         AIConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, wins over the individual fields
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// RedisConfig holds the session store configuration
type RedisConfig struct {
	URL         string
	SessionTTL  time.Duration
	MaxMessages int
	Enabled     bool
}

// NATSConfig holds the request/reply transport configuration
type NATSConfig struct {
	URL     string
	Subject string
	Timeout time.Duration
	Enabled bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// SearchConfig holds listing search configuration
type SearchConfig struct {
	DefaultLimit  int
	WeightPrice   float64
	WeightRecency float64
}

// LeadsConfig holds lead notification configuration
type LeadsConfig struct {
	AWSRegion   string
	SNSTopicARN string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// AIConfig holds the chat completion provider configuration.
// Models is the ordered fallback chain; it is not modified after Load.
type AIConfig struct {
	APIKey         string
	APIBase        string
	Models         []string
	Temperature    float64
	RequestTimeout time.Duration
	MaxHistory     int
	SiteURL        string
	SiteName       string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                firstNonEmpty(v.GetString("DATABASE_URL"), v.GetString("PG_DSN")),
			Host:               v.GetString("PG_HOST"),
			Port:               v.GetInt("PG_PORT"),
			User:               v.GetString("PG_USER"),
			Password:           v.GetString("PG_PASSWORD"),
			Database:           v.GetString("PG_DATABASE"),
			SSLMode:            v.GetString("PG_SSLMODE"),
			MaxConnections:     v.GetInt("PG_MAX_CONNECTIONS"),
			MaxIdleConnections: v.GetInt("PG_MAX_IDLE_CONNECTIONS"),
			Enabled:            v.GetBool("PG_ENABLED"),
		},
		Redis: RedisConfig{
			URL:         v.GetString("REDIS_URL"),
			SessionTTL:  v.GetDuration("SESSION_TTL"),
			MaxMessages: v.GetInt("SESSION_MAX_MESSAGES"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
			Timeout: v.GetDuration("NATS_TIMEOUT"),
		},
		Server: ServerConfig{
			Port:           v.GetInt("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			GinMode:        v.GetString("GIN_MODE"),
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Search: SearchConfig{
			DefaultLimit:  v.GetInt("SEARCH_DEFAULT_LIMIT"),
			WeightPrice:   v.GetFloat64("RANK_WEIGHT_PRICE"),
			WeightRecency: v.GetFloat64("RANK_WEIGHT_RECENCY"),
		},
		Leads: LeadsConfig{
			AWSRegion:   v.GetString("AWS_REGION"),
			SNSTopicARN: v.GetString("LEADS_SNS_TOPIC_ARN"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		AI: AIConfig{
			APIKey:         v.GetString("OPENROUTER_API_KEY"),
			APIBase:        strings.TrimRight(v.GetString("AI_API_BASE"), "/"),
			Models:         splitList(v.GetString("AI_MODELS")),
			Temperature:    v.GetFloat64("AI_TEMPERATURE"),
			RequestTimeout: v.GetDuration("AI_REQUEST_TIMEOUT"),
			MaxHistory:     v.GetInt("AI_MAX_HISTORY"),
			SiteURL:        v.GetString("AI_SITE_URL"),
			SiteName:       v.GetString("AI_SITE_NAME"),
		},
	}

	if len(cfg.AI.Models) == 0 {
		cfg.AI.Models = append([]string(nil), DefaultModels...)
	}
	cfg.Redis.Enabled = cfg.Redis.URL != ""
	cfg.NATS.Enabled = cfg.NATS.URL != ""

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PG_HOST", "localhost")
	v.SetDefault("PG_PORT", 5432)
	v.SetDefault("PG_USER", "postgres")
	v.SetDefault("PG_DATABASE", "landsale")
	v.SetDefault("PG_SSLMODE", "disable")
	v.SetDefault("PG_MAX_CONNECTIONS", 25)
	v.SetDefault("PG_MAX_IDLE_CONNECTIONS", 5)
	v.SetDefault("PG_ENABLED", true)

	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("SESSION_MAX_MESSAGES", 50)

	v.SetDefault("NATS_SUBJECT", "assistant.chat")
	v.SetDefault("NATS_TIMEOUT", 30*time.Second)

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("SEARCH_DEFAULT_LIMIT", 12)
	v.SetDefault("RANK_WEIGHT_PRICE", 0.6)
	v.SetDefault("RANK_WEIGHT_RECENCY", 0.4)

	v.SetDefault("AWS_REGION", "ap-south-1")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AI_API_BASE", "https://openrouter.ai/api/v1")
	v.SetDefault("AI_TEMPERATURE", 0.3)
	v.SetDefault("AI_REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("AI_MAX_HISTORY", 10)
	v.SetDefault("AI_SITE_URL", "https://landsale.lk")
	v.SetDefault("AI_SITE_NAME", "LandSale.lk")
}

func (c *Config) validate() error {
	if c.AI.APIBase == "" {
		return fmt.Errorf("AI_API_BASE must not be empty")
	}
	if c.AI.RequestTimeout <= 0 {
		return fmt.Errorf("AI_REQUEST_TIMEOUT must be positive, got %s", c.AI.RequestTimeout)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2, got %.2f", c.AI.Temperature)
	}
	if c.AI.MaxHistory <= 0 {
		return fmt.Errorf("AI_MAX_HISTORY must be positive, got %d", c.AI.MaxHistory)
	}
	if c.Redis.Enabled && c.Redis.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Redis.SessionTTL)
	}
	return nil
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

// Helper functions

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
