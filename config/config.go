package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

type Config struct {
	AppPort      string `validate:"required,numeric"`
	AppMode      string `validate:"oneof=debug release test"`
	StoreBackend string `validate:"oneof=memory postgres badger"`

	DBHost     string `validate:"required_if=StoreBackend postgres"`
	DBUser     string
	DBPassword string
	DBName     string `validate:"required_if=StoreBackend postgres"`
	DBPort     string `validate:"required_if=StoreBackend postgres"`

	BadgerPath string `validate:"required_if=StoreBackend badger"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"gte=0"`

	S3Region     string `validate:"required_with=S3Bucket"`
	S3Bucket     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string `validate:"omitempty,url"`
	S3PublicBase string `validate:"omitempty,url"`
	S3PresignTTL time.Duration

	CORSOrigins []string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "8000"),
		AppMode:       getEnv("APP_MODE", "debug"),
		StoreBackend:  getEnv("STORE_BACKEND", StoreMemory),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "it_assistant_app"),
		DBPort:        getEnv("DB_PORT", "5432"),
		BadgerPath:    getEnv("BADGER_PATH", "data/badger"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		S3Region:      getEnv("S3_REGION", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3PublicBase:  getEnv("S3_PUBLIC_BASE", ""),
		S3PresignTTL:  getEnvAsDuration("S3_PRESIGN_TTL", 15*time.Minute),
		CORSOrigins:   getEnvAsList("CORS_ORIGINS", []string{"*"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags above.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DatabaseDSN builds the pgx connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
