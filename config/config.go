package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string `koanf:"server_port"`
	ServerHost string `koanf:"server_host"`
	// PublicURL is the externally visible base used to build short links.
	PublicURL   string   `koanf:"public_url"`
	CORSOrigins []string `koanf:"cors_origins"`
	PageSize    int      `koanf:"page_size"`

	// Database configuration
	DBDriver   string `koanf:"db_driver"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_ssl_mode"`

	// MigrationsDir holds the *.up.sql files applied at startup
	MigrationsDir string `koanf:"migrations_dir"`

	// Redis configuration
	RedisURL      string `koanf:"redis_url"`
	RedisHost     string `koanf:"redis_host"`
	RedisPort     string `koanf:"redis_port"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// JWT configuration
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// Image storage
	S3Bucket           string `koanf:"s3_bucket_name"`
	S3Region           string `koanf:"aws_region"`
	S3Endpoint         string `koanf:"s3_endpoint"`
	AWSAccessKeyID     string `koanf:"aws_access_key_id"`
	AWSSecretAccessKey string `koanf:"aws_secret_access_key"`
	MediaRoot          string `koanf:"media_root"`
	MediaURL           string `koanf:"media_url"`

	// Recipe creation limit per user per hour, 0 disables it
	RecipeCreationLimit int `koanf:"recipe_creation_limit"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

func defaultConfig() Config {
	return Config{
		ServerPort:          "8000",
		ServerHost:          "0.0.0.0",
		PublicURL:           "http://localhost:8000",
		CORSOrigins:         []string{"http://localhost:3000"},
		PageSize:            6,
		DBDriver:            "postgres",
		DBHost:              "localhost",
		DBPort:              "5432",
		DBName:              "foodgram",
		DBSSLMode:           "disable",
		MigrationsDir:       "migrations",
		RedisHost:           "localhost",
		RedisPort:           "6379",
		TokenTTL:            24 * time.Hour,
		S3Region:            "us-east-1",
		MediaRoot:           "media",
		MediaURL:            "/media/",
		RecipeCreationLimit: 30,
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

// secretFiles are read from SECRETS_DIR and override every other source
var secretFiles = []string{
	"db_user",
	"db_password",
	"jwt_secret",
	"redis_password",
	"redis_url",
	"aws_access_key_id",
	"aws_secret_access_key",
}

// sliceKeys arrive from the environment as comma-separated strings
var sliceKeys = []string{"cors_origins"}

// LoadConfig layers defaults, an optional YAML file, environment variables
// and Docker secrets, in that order of increasing priority
func LoadConfig() (*Config, error) {
	environment := GetEnvironment()
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if environment.readsSecretFiles() {
		for _, name := range secretFiles {
			if value := readSecret(name); value != "" {
				if err := k.Set(name, value); err != nil {
					return nil, fmt.Errorf("failed to apply secret %s: %w", name, err)
				}
			}
		}
	}

	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func splitSliceKeys(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var values []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		if err := k.Set(key, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether any Redis address is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
