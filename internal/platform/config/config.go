package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	JWTSecret      string

	RateLimit          string // ulule format, e.g. "100-M"
	CORSAllowedOrigins []string

	RedisAddr     string // empty disables the sweep lock, the dashboard cache and the worker
	RedisPassword string
	RedisDB       int

	KafkaBrokers        []string // empty disables event publishing
	KafkaDocumentsTopic string

	Location                   *time.Location
	SweepCron                  string
	SweepLockTTL               time.Duration
	ConversionEligibleStatuses string
	ConvertedInvoiceStatus     string
	NumberAllocationRetries    int
	DashboardCacheTTL          time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_DOCUMENTS_TOPIC", "erp.documents")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("SWEEP_CRON", "0 0 * * *")
	v.SetDefault("SWEEP_LOCK_TTL", "10m")
	v.SetDefault("CONVERSION_ELIGIBLE_STATUSES", "SENT,ACCEPTED")
	v.SetDefault("CONVERTED_INVOICE_STATUS", "SENT")
	v.SetDefault("NUMBER_ALLOCATION_RETRIES", 3)
	v.SetDefault("DASHBOARD_CACHE_TTL", "1m")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:                v.GetString("PGSQL_URL"),
		MigrationsPath:             v.GetString("MIGRATIONS_PATH"),
		Port:                       v.GetString("PORT"),
		IsProduction:               v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:              v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:                   v.GetString("LOG_LEVEL"),
		JWTSecret:                  v.GetString("JWT_SECRET"),
		RateLimit:                  v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:         splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RedisAddr:                  v.GetString("REDIS_ADDR"),
		RedisPassword:              v.GetString("REDIS_PASSWORD"),
		RedisDB:                    v.GetInt("REDIS_DB"),
		KafkaBrokers:               splitList(v.GetString("KAFKA_BROKERS")),
		KafkaDocumentsTopic:        v.GetString("KAFKA_DOCUMENTS_TOPIC"),
		SweepCron:                  v.GetString("SWEEP_CRON"),
		ConversionEligibleStatuses: v.GetString("CONVERSION_ELIGIBLE_STATUSES"),
		ConvertedInvoiceStatus:     v.GetString("CONVERTED_INVOICE_STATUS"),
		NumberAllocationRetries:    v.GetInt("NUMBER_ALLOCATION_RETRIES"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.SweepLockTTL, err = parseDuration(v, "SWEEP_LOCK_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DashboardCacheTTL, err = parseDuration(v, "DASHBOARD_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}

	if cfg.NumberAllocationRetries < 1 {
		log.Printf("Warning: NUMBER_ALLOCATION_RETRIES must be at least 1, got %d. Defaulting to 1.\n", cfg.NumberAllocationRetries)
		cfg.NumberAllocationRetries = 1
	}

	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Dashboard cache and distributed sweep lock are disabled.")
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: KAFKA_BROKERS not set. Document events will not be published.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
