package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort      string
	AppMode      string
	DBHost       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBPort       string
	JWTSecret    string
	JWTExpiryMin int

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string

	UsersBucket       string
	UserImageExt      string
	UploadTimeoutSec  int
	DBQueryTimeoutSec int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:      getEnv("APP_PORT", "8080"),
		AppMode:      getEnv("APP_MODE", "debug"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "chatrelay"),
		DBPort:       getEnv("DB_PORT", "5432"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		JWTExpiryMin: getEnvAsInt("JWT_EXPIRY_MIN", 60),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		AWSRegion:    getEnv("AWS_REGION", "us-east-2"),
		AWSAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AWSSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		UsersBucket:       getEnv("USERS_BUCKET", "chatrelay-users"),
		UserImageExt:      getEnv("USER_IMAGE_EXT", "jpg"),
		UploadTimeoutSec:  getEnvAsInt("UPLOAD_TIMEOUT_SEC", 30),
		DBQueryTimeoutSec: getEnvAsInt("DB_QUERY_TIMEOUT_SEC", 5),
	}
}

// UploadTimeout is the per-call deadline for object-storage writes.
func (c *Config) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutSec) * time.Second
}

// QueryTimeout is the per-statement deadline for database calls.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.DBQueryTimeoutSec) * time.Second
}

// AccessTokenTTL is the lifetime of issued access tokens and their sessions.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWTExpiryMin) * time.Minute
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
