package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	StaticDir   string

	LogLevel  string
	LogFormat string

	OTelEnabled       bool
	OTLPEndpoint      string
	OTLPProtocol      string
	OTelSamplingRatio float64

	DBURL             string
	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	SQLitePath        string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string

	AuthSessionTTL    time.Duration
	AuthCookieName    string
	AuthCookieSecure  bool
	DefaultAdminEmail string
	DefaultAdminPass  string

	ShopTimezone string

	CORSOrigin           string
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:              getenv("APP_SERVICE", "karatledger"),
		AppVersion:           getenv("APP_VERSION", "0.1.0"),
		Environment:          environment,
		HTTPAddr:             getenv("HTTP_ADDR", ":5000"),
		StaticDir:            getenv("STATIC_DIR", "./public"),
		LogLevel:             strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat:            strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
		OTelEnabled:          getenvBool("OTEL_ENABLED", false),
		OTLPEndpoint:         getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317")),
		OTLPProtocol:         strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
		OTelSamplingRatio:    getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		DBURL:                strings.TrimSpace(getenv("DATABASE_URL", "")),
		DBType:               strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:               getenv("DATABASE_HOST", "localhost"),
		DBPort:               getenv("DATABASE_PORT", "5432"),
		DBName:               getenv("DATABASE_NAME", "karatledger"),
		DBUser:               getenv("DATABASE_USER", "postgres"),
		DBPassword:           getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:            getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:        int(getenvInt64("DATABASE_MAX_IDLE_CONN", 5)),
		DBMaxOpenConn:        int(getenvInt64("DATABASE_MAX_OPEN_CONN", 20)),
		DBConnMaxLifetime:    int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 1800)),
		DBConnMaxIdleTime:    int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 300)),
		SQLitePath:           getenv("SQLITE_PATH", "karatledger.db"),
		RedisAddr:            strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:        getenv("REDIS_PASSWORD", ""),
		RedisDB:              int(getenvInt64("REDIS_DB", 0)),
		MongoURI:             strings.TrimSpace(getenv("MONGO_URI", "")),
		MongoDatabase:        getenv("MONGO_DATABASE", "karatledger"),
		AuthSessionTTL:       getenvDuration("AUTH_SESSION_TTL", 720*time.Hour),
		AuthCookieName:       getenv("AUTH_COOKIE_NAME", "karat_sid"),
		AuthCookieSecure:     authCookieSecure,
		DefaultAdminEmail:    strings.ToLower(getenv("DEFAULT_ADMIN_EMAIL", "admin@ledgersystem.com")),
		DefaultAdminPass:     getenv("DEFAULT_ADMIN_PASSWORD", "admin123"),
		ShopTimezone:         strings.TrimSpace(getenv("SHOP_TIMEZONE", "Asia/Kolkata")),
		CORSOrigin:           getenv("CORS_ORIGIN", "*"),
		RateLimitWindow:      time.Duration(getenvInt64("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,
		RateLimitMaxRequests: int(getenvInt64("RATE_LIMIT_MAX_REQUESTS", 100)),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
