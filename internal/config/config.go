package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	AppEnv  string
	AppPort string

	StoreDriver string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string

	MockDelay time.Duration
	PageSize  int

	JWTSecret         string
	InternalSecretKey string
	CORSOrigin        string

	RedisURL   string
	SessionTTL time.Duration

	NATSURL string

	S3Bucket   string
	S3Region   string
	S3Endpoint string

	StatsInterval time.Duration

	PaymentCallbackToken string
}

// Load reads the environment (and a .env file when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:            os.Getenv("APP_ENV"),
		AppPort:           getenv("APP_PORT", "8080"),
		StoreDriver:       getenv("STORE_DRIVER", StoreMemory),
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            getenv("DB_PORT", "5432"),
		MockDelay:         time.Duration(getInt("MOCK_DELAY_MS", 0)) * time.Millisecond,
		PageSize:          getInt("PAGE_SIZE", 10),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		CORSOrigin:        getenv("CORS_ORIGIN", "http://localhost:3000"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SessionTTL:        time.Duration(getInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		NATSURL:           os.Getenv("NATS_URL"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getenv("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		StatsInterval:     getDuration("STATS_INTERVAL", 5*time.Second),

		PaymentCallbackToken: os.Getenv("PAYMENT_CALLBACK_TOKEN"),
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DBHost == "" {
			return nil, errors.New("DB_HOST is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, errors.New("STORE_DRIVER must be memory or postgres")
	}

	if cfg.JWTSecret == "" {
		if cfg.AppEnv == "production" {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

// LoadConfig is Load for main packages: it exits on invalid configuration.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Environment variables not loaded properly: %v", err)
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
