package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the console and the stub server
type Config struct {
	// API configuration (console side)
	APIBaseURL   string        `json:"api_base_url"`
	APIToken     string        `json:"api_token"`
	HTTPTimeout  time.Duration `json:"http_timeout"`
	RetryCount   int           `json:"retry_count"`
	PageSize     int           `json:"page_size"`
	ToastTimeout time.Duration `json:"toast_timeout"`

	// Export
	ExportDir string `json:"export_dir"`

	// Stub server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	StubToken       string        `json:"stub_token"`
	RedisURL        string        `json:"redis_url"`
	RedisPrefix     string        `json:"redis_prefix"`
	UploadBaseURL   string        `json:"upload_base_url"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// API configuration
		APIBaseURL:   getEnv("ECOTRACK_API_URL", "http://localhost:8080"),
		APIToken:     getEnv("ECOTRACK_API_TOKEN", ""),
		HTTPTimeout:  getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		RetryCount:   getEnvAsInt("HTTP_RETRY_COUNT", 3),
		PageSize:     getEnvAsInt("PAGE_SIZE", 10),
		ToastTimeout: getEnvAsDuration("TOAST_TIMEOUT", 5*time.Second),

		// Export
		ExportDir: getEnv("EXPORT_DIR", "."),

		// Stub server
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		StubToken:       getEnv("STUB_API_TOKEN", "dev-token"),
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisPrefix:     getEnv("REDIS_PREFIX", "ecotrack:"),
		UploadBaseURL:   getEnv("UPLOAD_BASE_URL", "http://localhost:8080/uploads"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("ECOTRACK_API_URL must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1, got %d", c.PageSize)
	}
	return nil
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
