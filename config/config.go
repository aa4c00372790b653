package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	APIURL         string        `envconfig:"API_URL"          default:"http://localhost:5000/api"`
	HTTPPort       string        `envconfig:"HTTP_PORT"        default:":8080"`
	GrpcPort       string        `envconfig:"GRPC_PORT"        default:":50051"` // health service
	LogLevel       string        `envconfig:"LOG_LEVEL"        default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT"       default:"json"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"  default:"10s"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"file"` // file | postgres | memory
	StoragePath   string `envconfig:"STORAGE_PATH"   default:"./data/session.json"`
	StorageSecret string `envconfig:"STORAGE_SECRET"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	SessionID     string `envconfig:"SESSION_ID"     default:"default"`

	CartResyncInterval time.Duration `envconfig:"CART_RESYNC_INTERVAL" default:"0s"`
}

// Process reads the environment into a Config and validates it.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("configuration error: API_URL cannot be empty")
	}
	switch c.StorageDriver {
	case "file":
		if c.StoragePath == "" {
			return fmt.Errorf("configuration error: STORAGE_PATH is required for the file storage driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("configuration error: DATABASE_URL is required for the postgres storage driver")
		}
	case "memory":
	default:
		return fmt.Errorf("configuration error: invalid STORAGE_DRIVER '%s'", c.StorageDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("configuration error: REQUEST_TIMEOUT must be positive")
	}
	if c.CartResyncInterval < 0 {
		return fmt.Errorf("configuration error: CART_RESYNC_INTERVAL cannot be negative")
	}
	return nil
}

func LoadConfig(logger *logrus.Logger) *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	} else {
		logger.Warn(".env file not found, using environment variables or defaults.")
	}

	cfg, err := Process()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Infof("Configuration loaded: API=%s, HTTP Port=%s, GRPC Port=%s, Storage=%s, LogLevel=%s",
		cfg.APIURL, cfg.HTTPPort, cfg.GrpcPort, cfg.StorageDriver, cfg.LogLevel)
	if cfg.StorageSecret != "" {
		logger.Info("Configuration loaded: STORAGE_SECRET is set, persisted values will be sealed")
	}
	return cfg
}
