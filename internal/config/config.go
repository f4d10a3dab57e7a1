package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	LogFile     string

	MySQLDSN          string
	DBMaxIdleConns    int
	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration
	DBLogLevel        string
	ResetDB           bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret   string
	SwaggerHost string

	UploadDir       string
	UploadMaxBytes  int64
	ProductCacheTTL time.Duration
	MetricsPrefix   string

	SeedAdminUsername string
	SeedAdminPassword string
	SeedProductsFile  string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("LOG_FILE"),

		MySQLDSN:          getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/secondhand?charset=utf8mb4&parseTime=True&loc=Local"),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		ResetDB:           getEnvBool("RESET_DB", false),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes:  int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),
		ProductCacheTTL: getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
		MetricsPrefix:   getEnv("METRICS_PREFIX", "secondhand"),

		SeedAdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		SeedProductsFile:  os.Getenv("SEED_PRODUCTS_FILE"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
