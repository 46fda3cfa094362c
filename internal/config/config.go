package config

import (
	"fmt"
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings"
	"time"

	"github.com/joho/godotenv" // For loading .env files
	"github.com/shopspring/decimal"
)

// Supported values for DB_DRIVER
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration
type Config struct {
	AppPort         string          // Application port
	DBDriver        string          // mysql, postgres or sqlite
	DBUser          string          // Database user
	DBPassword      string          // Database password
	DBHost          string          // Database host
	DBPort          string          // Database port
	DBName          string          // Database name
	DBPath          string          // SQLite file path
	JWTSecret       string          // JWT signing key
	JWTIssuer       string          // JWT issuer
	JWTAudience     string          // JWT audience
	AccessTokenTTL  time.Duration   // Access token lifetime
	RefreshTokenTTL time.Duration   // Refresh secret lifetime
	RedisAddr       string          // Redis server address, empty disables the cache
	RedisPass       string          // Redis password
	RedisDB         int             // Redis database number
	CacheTTL        time.Duration   // Cache entry lifetime
	ApprovalCeiling decimal.Decimal // Largest amount the placeholder policy approves
	RequestTimeout  time.Duration   // Per-request deadline
	SweepSchedule   string          // Cron spec for the refresh credential sweeper, empty disables it
	SeedUsers       bool            // Seed default users on an empty database
	CORSOrigins     []string        // Browser origins allowed to call the API, empty disables CORS
	LogLevel        string          // logrus level
	IsProd          bool            // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", DriverMySQL),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBName:          getEnv("DB_NAME", "card_service"),
		DBPath:          getEnv("DB_PATH", "card_service.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       getEnv("JWT_ISSUER", "card_service"),
		JWTAudience:     getEnv("JWT_AUDIENCE", "card_service_clients"),
		AccessTokenTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_MINUTES", 15)) * time.Minute,
		RefreshTokenTTL: time.Duration(getEnvInt("REFRESH_TOKEN_DAYS", 7)) * 24 * time.Hour,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPass:       os.Getenv("REDIS_PASS"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		ApprovalCeiling: getEnvDecimal("APPROVAL_CEILING", decimal.NewFromInt(2_000_000)),
		RequestTimeout:  time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		SweepSchedule:   getEnv("SWEEP_SCHEDULE", "@hourly"),
		SeedUsers:       os.Getenv("SEED_USERS") == "true",
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		IsProd:          os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// Validate reports settings the server cannot start with
func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if !c.ApprovalCeiling.IsPositive() {
		return fmt.Errorf("APPROVAL_CEILING must be positive")
	}
	for _, origin := range c.CORSOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must start with http:// or https://", origin)
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

// getEnvList splits a comma separated value. Setting the variable to "-"
// yields an empty list.
func getEnvList(key string, defaultVal []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	if v == "-" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}
