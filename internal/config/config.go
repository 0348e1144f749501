package config

import (
	"errors"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is the development signing secret. Validate rejects it when Env is "prod".
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// Env is "dev" (default) or "prod". In prod the session cookie is Secure with SameSite=None
	// and JWT_SECRET must be set to something other than the default.
	Env string

	// JWTExpireHours is the session token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// BcryptCost is the bcrypt work factor (default 10).
	BcryptCost int
	// HashWorkers bounds concurrent password hash computations (default GOMAXPROCS).
	HashWorkers int

	// PreventDoubleBooking rejects bookings that overlap an existing booking of the same place.
	PreventDoubleBooking bool

	// RedisAddr enables the Redis token revocation store. Empty means in-memory revocation.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// S3 settings for presigned photo uploads. Uploads are disabled when S3Bucket is empty.
	S3Bucket       string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string
	S3PublicURL    string

	RevocationSweepCron string
	AuditPruneCron      string
	AuditRetentionDays  int

	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP. Enable it only
	// behind a reverse proxy that overwrites those headers; otherwise clients can pick their own
	// address and dodge the per-IP login limiter.
	TrustProxyHeaders bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is debug, info (default), warn or error.
	LogLevel string

	// CORSAllowedOrigins is the list of browser origins allowed to call the API with credentials.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated; the original deployment used CLIENT_DOMAIN).
	CORSAllowedOrigins []string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "staybook"),
		DBUser: getEnv("DB_USER", "staybook"),
		DBPass: getEnv("DB_PASS", "staybook"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		Env:            getEnv("ENV", "dev"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		BcryptCost:  getEnvInt("BCRYPT_COST", 10),
		HashWorkers: getEnvInt("HASH_WORKERS", runtime.GOMAXPROCS(0)),

		PreventDoubleBooking: getEnvBool("PREVENT_DOUBLE_BOOKING", true),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		S3Bucket:       getEnv("S3_BUCKET", getEnv("BUCKET", "")),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3BaseEndpoint: getEnv("S3_BASE_ENDPOINT", ""),
		S3PublicURL:    getEnv("S3_PUBLIC_URL", ""),

		RevocationSweepCron: getEnv("REVOCATION_SWEEP_CRON", "@every 10m"),
		AuditPruneCron:      getEnv("AUDIT_PRUNE_CRON", "@daily"),
		AuditRetentionDays:  getEnvInt("AUDIT_RETENTION_DAYS", 90),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", getEnv("CLIENT_DOMAIN", ""))),
	}
}

// Validate reports configuration that must not reach production.
func (c Config) Validate() error {
	if c.IsProd() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value when ENV=prod")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// TokenTTL is the session token lifetime.
func (c Config) TokenTTL() time.Duration {
	if c.JWTExpireHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWTExpireHours) * time.Hour
}

// DatabaseURL returns the URL form of the DSN, used by the migration runner.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
