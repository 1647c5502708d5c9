package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Redis      RedisConfig
	Server     ServerConfig
	Session    SessionConfig
	Scraper    ScraperConfig
	Classifier ClassifierConfig
	Ranking    RankingConfig
	Features   FeatureConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence over the parts below
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

// RedisConfig holds Redis session store configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Enabled  bool
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

// SessionConfig holds chat session limits
type SessionConfig struct {
	TTL              time.Duration
	MaxChatMessages  int
	MaxSearchHistory int
}

// ScraperConfig holds marketplace scraping configuration
type ScraperConfig struct {
	BaseURL       string
	MaxResults    int
	Timeout       time.Duration
	RetryAttempts int
	RequestDelay  time.Duration
	UserAgent     string
}

// ClassifierConfig holds intent classification limits
type ClassifierConfig struct {
	MaxQueryLength int
}

// RankingConfig holds product ranking weights configuration
type RankingConfig struct {
	WeightRelevance float64
	WeightPrice     float64
}

// FeatureConfig toggles assistant capabilities
type FeatureConfig struct {
	Scraping        bool
	OrderTracking   bool
	Recommendations bool
	PriceAlerts     bool
	Comparison      bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	pgDSN := getEnv("DATABASE_URL", getEnv("PG_DSN", ""))

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                pgDSN,
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "shopassist"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			Enabled:            getEnvAsBool("PG_ENABLED", pgDSN != ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "shopassist:session:"),
			Enabled:  getEnv("REDIS_ADDR", "") != "",
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Session: SessionConfig{
			TTL:              getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			MaxChatMessages:  getEnvAsInt("SESSION_MAX_CHAT_MESSAGES", 100),
			MaxSearchHistory: getEnvAsInt("SESSION_MAX_SEARCH_HISTORY", 50),
		},
		Scraper: ScraperConfig{
			BaseURL:       strings.TrimRight(getEnv("SCRAPER_BASE_URL", "https://jiji.com.gh"), "/"),
			MaxResults:    getEnvAsInt("SCRAPER_MAX_RESULTS", 10),
			Timeout:       getEnvAsDuration("SCRAPER_TIMEOUT", 10*time.Second),
			RetryAttempts: getEnvAsInt("SCRAPER_RETRY_ATTEMPTS", 3),
			RequestDelay:  getEnvAsDuration("SCRAPER_REQUEST_DELAY", time.Second),
			UserAgent: getEnv("SCRAPER_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		},
		Classifier: ClassifierConfig{
			MaxQueryLength: getEnvAsInt("CLASSIFIER_MAX_QUERY_LENGTH", 2000),
		},
		Ranking: RankingConfig{
			WeightRelevance: getEnvAsFloat("RANK_WEIGHT_RELEVANCE", 0.6),
			WeightPrice:     getEnvAsFloat("RANK_WEIGHT_PRICE", 0.4),
		},
		Features: FeatureConfig{
			Scraping:        getEnvAsBool("FEATURE_SCRAPING", true),
			OrderTracking:   getEnvAsBool("FEATURE_ORDER_TRACKING", true),
			Recommendations: getEnvAsBool("FEATURE_RECOMMENDATIONS", true),
			PriceAlerts:     getEnvAsBool("FEATURE_PRICE_ALERTS", false),
			Comparison:      getEnvAsBool("FEATURE_COMPARISON", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.Session.MaxChatMessages <= 0 {
		errs = append(errs, errors.New("session max chat messages must be positive"))
	}
	if c.Session.MaxSearchHistory <= 0 {
		errs = append(errs, errors.New("session max search history must be positive"))
	}
	if c.Scraper.MaxResults <= 0 {
		errs = append(errs, errors.New("scraper max results must be positive"))
	}
	if c.Scraper.RetryAttempts < 0 {
		errs = append(errs, errors.New("scraper retry attempts must not be negative"))
	}
	if c.Classifier.MaxQueryLength <= 0 {
		errs = append(errs, errors.New("classifier max query length must be positive"))
	}
	if c.Ranking.WeightRelevance < 0 || c.Ranking.WeightPrice < 0 {
		errs = append(errs, errors.New("ranking weights must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
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

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
