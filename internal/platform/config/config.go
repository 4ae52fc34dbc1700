package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Audit artifact sinks.
const (
	AuditSinkCSV    = "csv"
	AuditSinkSQLite = "sqlite"
	AuditSinkNone   = "none"
)

// Startup integrity policies.
const (
	IntegrityFailOpen   = "open"   // log and alert, keep serving
	IntegrityFailClosed = "closed" // refuse to start
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	LogLevel          string
	MigrationsPath    string

	StorageDriver string
	AuditSink     string
	AuditPath     string

	IntegrityFailMode      string
	IntegrityHashAlgorithm string

	ReconciliationTolerance decimal.Decimal
	AutoMatchWindowDays     int

	RateLimit          string `mapstructure:"RATE_LIMIT"` // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "temple-ledger")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("AUDIT_SINK", AuditSinkCSV)
	viper.SetDefault("AUDIT_PATH", "audit/ledger_audit.csv")
	viper.SetDefault("INTEGRITY_FAIL_MODE", IntegrityFailOpen)
	viper.SetDefault("INTEGRITY_HASH_ALGORITHM", "sha256")
	viper.SetDefault("RECONCILIATION_TOLERANCE", "0")
	viper.SetDefault("AUTO_MATCH_WINDOW_DAYS", 3)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("HTTP_READ_TIMEOUT", "15s")
	viper.SetDefault("HTTP_WRITE_TIMEOUT", "30s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1 // Default to 1 hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	cfg.AuditSink = strings.ToLower(viper.GetString("AUDIT_SINK"))
	switch cfg.AuditSink {
	case AuditSinkCSV, AuditSinkSQLite, AuditSinkNone:
	default:
		return nil, fmt.Errorf("unsupported AUDIT_SINK %q", cfg.AuditSink)
	}
	cfg.AuditPath = viper.GetString("AUDIT_PATH")

	cfg.IntegrityFailMode = strings.ToLower(viper.GetString("INTEGRITY_FAIL_MODE"))
	if cfg.IntegrityFailMode != IntegrityFailOpen && cfg.IntegrityFailMode != IntegrityFailClosed {
		return nil, fmt.Errorf("INTEGRITY_FAIL_MODE must be %q or %q", IntegrityFailOpen, IntegrityFailClosed)
	}
	cfg.IntegrityHashAlgorithm = strings.ToLower(viper.GetString("INTEGRITY_HASH_ALGORITHM"))

	tolerance, err := decimal.NewFromString(viper.GetString("RECONCILIATION_TOLERANCE"))
	if err != nil || tolerance.IsNegative() {
		return nil, fmt.Errorf("invalid RECONCILIATION_TOLERANCE %q", viper.GetString("RECONCILIATION_TOLERANCE"))
	}
	cfg.ReconciliationTolerance = tolerance
	cfg.AutoMatchWindowDays = viper.GetInt("AUTO_MATCH_WINDOW_DAYS")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	cfg.ReadTimeout = viper.GetDuration("HTTP_READ_TIMEOUT")
	cfg.WriteTimeout = viper.GetDuration("HTTP_WRITE_TIMEOUT")

	return cfg, nil
}
