package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendCloudinary = "cloudinary"
	BackendMinio      = "minio"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Logging
	LogLevel  string
	LogFormat string

	// Media
	MediaBackend       string
	MediaRootFolder    string
	MaxFolders         int
	MaxFolderImages    int
	FanOut             int
	UpstreamTimeout    time.Duration
	MediaClientBaseURL string

	// Cloudinary
	CloudinaryCloudName   string
	CloudinaryAPIKey      string
	CloudinaryAPISecret   string
	CloudinaryAPIBaseURL  string
	CloudinaryDeliveryURL string

	// MinIO / S3
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioRegion        string
	MinioBucket        string
	MinioPublicBaseURL string
	MinioPresignExpiry time.Duration

	// Redis (rate limiting)
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RateLimitRequests int
	RateLimitDuration time.Duration

	// Viewers
	SessionTTL time.Duration
	MaxViewers int

	// Site profile file (optional)
	SiteConfigPath string
}

func New() *Config {
	port := getEnv("PORT", "8080")
	return &Config{
		Port: port,
		Env:  getEnv("ENV", "development"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		MediaBackend:       strings.ToLower(getEnv("MEDIA_BACKEND", BackendCloudinary)),
		MediaRootFolder:    getEnv("MEDIA_ROOT_FOLDER", "renders"),
		MaxFolders:         getEnvAsInt("MEDIA_MAX_FOLDERS", 100),
		MaxFolderImages:    getEnvAsInt("MEDIA_MAX_FOLDER_IMAGES", 500),
		FanOut:             getEnvAsInt("MEDIA_FAN_OUT", 4),
		UpstreamTimeout:    getEnvAsDuration("UPSTREAM_TIMEOUT", "30s"),
		MediaClientBaseURL: getEnv("MEDIA_CLIENT_BASE_URL", "http://127.0.0.1:"+port),

		CloudinaryCloudName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:      getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:   getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryAPIBaseURL:  getEnv("CLOUDINARY_API_BASE_URL", "https://api.cloudinary.com"),
		CloudinaryDeliveryURL: getEnv("CLOUDINARY_DELIVERY_URL", "https://res.cloudinary.com"),

		MinioEndpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinioRegion:        getEnv("MINIO_REGION", "us-east-1"),
		MinioBucket:        getEnv("MINIO_BUCKET", "portfolio"),
		MinioPublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		MinioPresignExpiry: getEnvAsDuration("MINIO_PRESIGN_EXPIRY", "1h"),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitDuration: getEnvAsDuration("RATE_LIMIT_DURATION", "1m"),

		SessionTTL: getEnvAsDuration("SESSION_TTL", "30m"),
		MaxViewers: getEnvAsInt("MAX_VIEWERS", 10000),

		SiteConfigPath: getEnv("SITE_CONFIG", ""),
	}
}

// Validate checks that the selected media backend has its credentials
func (c *Config) Validate() error {
	switch c.MediaBackend {
	case BackendCloudinary:
		if c.CloudinaryCloudName == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME is required")
		}
		if c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	case BackendMinio:
		if c.MinioEndpoint == "" || c.MinioBucket == "" {
			return fmt.Errorf("MINIO_ENDPOINT and MINIO_BUCKET are required")
		}
	default:
		return fmt.Errorf("MEDIA_BACKEND must be %q or %q, got %q", BackendCloudinary, BackendMinio, c.MediaBackend)
	}
	if c.MaxFolders <= 0 {
		return fmt.Errorf("MEDIA_MAX_FOLDERS must be positive")
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
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Minute
}
