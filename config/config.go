package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Firebase FirebaseConfig
	Postal   PostalConfig
	Storage  StorageConfig
	UI       UIConfig
	Jobs     JobsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// DSN overrides the discrete fields when set.
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret          string
	TokenTTL           time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type FirebaseConfig struct {
	CredentialsPath string
}

type PostalConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	CacheTTL   time.Duration
}

type StorageConfig struct {
	Bucket        string
	Region        string
	PublicBaseURL string
}

// UIConfig is what the storefront reads through GET /config.
type UIConfig struct {
	PublicAPIURL     string
	ToastDurationMs  int
	SearchDebounceMs int
	PageSize         int
	MaxPageSize      int
}

type JobsConfig struct {
	RatingsSpec     string
	StaleOrdersSpec string
	StaleOrderAge   time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "loja"),
			DSN:      getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			TokenTTL:           getEnvAsDuration("JWT_TTL", 24*time.Hour),
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "postmessage"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Postal: PostalConfig{
			BaseURL:    getEnv("POSTAL_API_URL", "https://viacep.com.br/ws"),
			Timeout:    getEnvAsDuration("POSTAL_TIMEOUT", 5*time.Second),
			RatePerSec: getEnvAsFloat("POSTAL_RATE_PER_SEC", 5),
			Burst:      getEnvAsInt("POSTAL_BURST", 10),
			CacheTTL:   getEnvAsDuration("POSTAL_CACHE_TTL", 7*24*time.Hour),
		},
		Storage: StorageConfig{
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		UI: UIConfig{
			PublicAPIURL:     getEnv("PUBLIC_API_URL", "http://localhost:8080"),
			ToastDurationMs:  getEnvAsInt("TOAST_DURATION_MS", 3000),
			SearchDebounceMs: getEnvAsInt("SEARCH_DEBOUNCE_MS", 300),
			PageSize:         getEnvAsInt("PAGE_SIZE", 10),
			MaxPageSize:      getEnvAsInt("MAX_PAGE_SIZE", 100),
		},
		Jobs: JobsConfig{
			RatingsSpec:     getEnv("JOBS_RATINGS_SPEC", "0 0 3 * * *"),
			StaleOrdersSpec: getEnv("JOBS_STALE_ORDERS_SPEC", "0 */30 * * * *"),
			StaleOrderAge:   getEnvAsDuration("STALE_ORDER_AGE", 72*time.Hour),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "production"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" && c.Database.DSN == "" {
		return fmt.Errorf("DB_HOST or DB_DSN is required")
	}

	if c.Auth.JWTSecret == "" {
		switch c.App.Environment {
		case "development", "test":
			c.Auth.JWTSecret = "dev-secret-change-me"
		default:
			return fmt.Errorf("JWT_SECRET is required when APP_ENV is %q", c.App.Environment)
		}
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	if c.UI.PageSize <= 0 {
		c.UI.PageSize = 10
	}
	if c.UI.MaxPageSize < c.UI.PageSize {
		c.UI.MaxPageSize = c.UI.PageSize
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
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
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
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
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
