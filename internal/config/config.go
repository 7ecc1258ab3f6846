package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Ops
	OpsAPIKey string

	// Audit
	AuditExcludePrefixes    []string
	AuditCaptureGET         bool
	AuditMaxBodyBytes       int
	AuditRecordUnauthed     bool
	AuditExtraSensitiveKeys []string
	AuditTrackedEntities    []string
}

var appConfig *Config

// defaultExcludePrefixes covers static assets, media, health checks, and the
// swagger console, which would otherwise flood the audit trail with noise.
var defaultExcludePrefixes = []string{
	"/static/",
	"/media/",
	"/favicon.ico",
	"/robots.txt",
	"/api/health",
	"/swagger/",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "praxia"),
		DBPassword: getEnv("DB_PASSWORD", "praxia"),
		DBName:     getEnv("DB_NAME", "praxia"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Ops
		OpsAPIKey: getEnv("OPS_API_KEY", ""),

		// Audit
		AuditExcludePrefixes:    getEnvList("AUDIT_EXCLUDE_PREFIXES", defaultExcludePrefixes),
		AuditCaptureGET:         getEnvBool("AUDIT_CAPTURE_GET", true),
		AuditMaxBodyBytes:       getEnvInt("AUDIT_MAX_BODY_BYTES", 100_000),
		AuditRecordUnauthed:     getEnvBool("AUDIT_RECORD_UNAUTHENTICATED", false),
		AuditExtraSensitiveKeys: getEnvList("AUDIT_SENSITIVE_KEYS", nil),
		AuditTrackedEntities:    getEnvList("AUDIT_TRACKED_ENTITIES", nil),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvInt parses an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvList parses a comma-separated environment variable into a slice,
// trimming whitespace and dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
