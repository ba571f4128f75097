package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Models   ModelsConfig
	Upload   UploadConfig
	Store    StoreConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port        string
	Mode        string
	FrontendURL string
}

type ModelsConfig struct {
	Dir        string
	ServiceURL string // remote ML service used for diseases without a local model
	Timeout    time.Duration
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
	MinRows  int
}

type StoreConfig struct {
	Driver   string // "bolt" or "postgres"
	BoltPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ClientConfig configures the command-line API client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads the backend configuration from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			Mode:        getEnv("GIN_MODE", "release"),
			FrontendURL: getEnv("FRONTEND_URL", "*"),
		},
		Models: ModelsConfig{
			Dir:        getEnv("MODELS_DIR", "models"),
			ServiceURL: getEnv("ML_SERVICE_URL", ""),
			Timeout:    time.Duration(getEnvAsInt("ML_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(getEnvAsInt("MAX_UPLOAD_MB", 16)) << 20,
			MinRows:  getEnvAsInt("MIN_DATASET_ROWS", 10),
		},
		Store: StoreConfig{
			Driver:   getEnv("STORE_DRIVER", "bolt"),
			BoltPath: getEnv("BOLT_PATH", "datasets.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "diagnosify"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
	}
}

// LoadClient reads the API client configuration from the environment.
// A zero timeout means requests are bounded only by their context.
func LoadClient() ClientConfig {
	return ClientConfig{
		BaseURL: getEnv("DIAGNOSIFY_API_URL", "http://localhost:5000"),
		Timeout: time.Duration(getEnvAsInt("DIAGNOSIFY_TIMEOUT_SECONDS", 0)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
