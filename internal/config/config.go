package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// persistence
	DBDriver   string
	DBURL      string
	SQLitePath string

	// cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// tracing
	OTelEnabled  bool
	OTelEndpoint string

	BcryptCost     int
	AllowedOrigins []string
	MaxBodyBytes   int64

	// optional bootstrap admin
	AdminEmail    string
	AdminPassword string
	AdminUsername string
	AdminName     string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Load() Config {
	// a missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBURL:      getEnv("DATABASE_URL", buildDBURL()),
		SQLitePath: getEnv("SQLITE_PATH", "timetracker.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 15)) * time.Second,

		OTelEnabled:  getEnv("OTEL_ENABLED", "false") == "true",
		OTelEndpoint: getEnv("OTEL_ENDPOINT", "localhost:4317"),

		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "timetracker")
	pass := getEnv("DB_PASSWORD", "timetracker")
	name := getEnv("DB_NAME", "timetracker")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// WithTimeout derives a bounded context from parent. A nil parent falls back to Background.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	num, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}

	return num
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
