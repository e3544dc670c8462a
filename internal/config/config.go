package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	AppEnv      string
	Port        string
	StoreDriver string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	MaxRetries int

	MongoURI      string
	MongoDatabase string

	RedisAddr       string
	SummaryCacheTTL time.Duration

	KafkaBroker string

	RateLimitRPS   float64
	RateLimitBurst int
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:      getEnv("APP_ENV", "local"),
		Port:        getEnv("PORT", "3000"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),

		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "emp_mgmt"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		SummaryCacheTTL: time.Duration(getEnvInt("SUMMARY_CACHE_TTL_SECONDS", 300)) * time.Second,

		KafkaBroker: os.Getenv("KAFKA_BROKER"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 0),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	missing := []string{}
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBHost == "" {
			missing = append(missing, "DB_HOST")
		}
		if c.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
	default:
		return errors.New("unsupported STORE_DRIVER: " + c.StoreDriver)
	}

	if len(missing) > 0 {
		return errors.New("missing env: " + strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
