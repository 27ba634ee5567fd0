package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // LEDGER_TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret    = "a-very-secret-key-should-be-longer-and-random"
	defaultTimezone     = "Asia/Kolkata"
	defaultRateLimit    = "300-M"
	defaultCategories   = "Type 1,Type 2,Type 3"
	defaultAMQPQueue    = "ledger.recompute"
	defaultAMQPExchange = "ledger"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Bearer tokens are issued elsewhere; only verification happens here.
	JWTSecret string
	JWTIssuer string

	// AMQPURL selects RabbitMQ for ledger events. Empty means the in-process bus.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	RateLimit          string
	CORSAllowedOrigins []string

	PosthogAPIKey   string
	PosthogEndpoint string

	Location          *time.Location
	QualityCategories []string

	RecomputeQueueSize int
	ShutdownTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", defaultAMQPExchange)
	v.SetDefault("AMQP_QUEUE", defaultAMQPQueue)
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("LEDGER_TIMEZONE", defaultTimezone)
	v.SetDefault("QUALITY_CATEGORIES", defaultCategories)
	v.SetDefault("RECOMPUTE_QUEUE_SIZE", 256)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	// Actual environment variables override .env values, which override defaults.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		AMQPURL:         v.GetString("AMQP_URL"),
		AMQPExchange:    v.GetString("AMQP_EXCHANGE"),
		AMQPQueue:       v.GetString("AMQP_QUEUE"),
		RateLimit:       v.GetString("RATE_LIMIT"),
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: v.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Ledger events use the in-process bus.")
	}

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	tz := v.GetString("LEDGER_TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	cfg.QualityCategories = splitList(v.GetString("QUALITY_CATEGORIES"))
	if len(cfg.QualityCategories) == 0 {
		cfg.QualityCategories = splitList(defaultCategories)
		log.Printf("Warning: QUALITY_CATEGORIES is empty. Defaulting to %s.\n", defaultCategories)
	}

	cfg.RecomputeQueueSize = v.GetInt("RECOMPUTE_QUEUE_SIZE")
	if cfg.RecomputeQueueSize <= 0 {
		cfg.RecomputeQueueSize = 256
		log.Printf("Warning: Invalid RECOMPUTE_QUEUE_SIZE. Defaulting to %d.\n", cfg.RecomputeQueueSize)
	}

	shutdownStr := v.GetString("SHUTDOWN_TIMEOUT")
	cfg.ShutdownTimeout, err = time.ParseDuration(shutdownStr)
	if err != nil || cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for SHUTDOWN_TIMEOUT ('%s'). Defaulting to %s.\n", shutdownStr, cfg.ShutdownTimeout)
	}

	return cfg, nil
}

// splitList splits a comma separated value, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
