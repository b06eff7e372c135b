package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required settings for each environment
type ConfigRequirements struct {
	RequiredKeys []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			RequiredKeys: []string{"server_port", "db_name", "jwt_secret"},
		},
		Test: {
			RequiredKeys: []string{"server_port", "jwt_secret"},
		},
		CI: {
			RequiredKeys: []string{"server_port", "db_host", "db_user", "db_password", "db_name", "jwt_secret"},
		},
		Production: {
			RequiredKeys: []string{
				"server_port",
				"public_url",
				"db_host",
				"db_port",
				"db_user",
				"db_password",
				"db_name",
				"jwt_secret",
				"s3_bucket_name",
			},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	values := map[string]string{
		"server_port":    cfg.ServerPort,
		"public_url":     cfg.PublicURL,
		"db_host":        cfg.DBHost,
		"db_port":        cfg.DBPort,
		"db_user":        cfg.DBUser,
		"db_password":    cfg.DBPassword,
		"db_name":        cfg.DBName,
		"jwt_secret":     cfg.JWTSecret,
		"s3_bucket_name": cfg.S3Bucket,
	}

	var errors []string
	for _, key := range reqs.RequiredKeys {
		if values[key] == "" {
			errors = append(errors, ValidationError{Field: key, Message: "is required"}.Error())
		}
	}

	if cfg.PageSize < 1 {
		errors = append(errors, ValidationError{Field: "page_size", Message: "must be positive"}.Error())
	}
	if cfg.RecipeCreationLimit < 0 {
		errors = append(errors, ValidationError{Field: "recipe_creation_limit", Message: "must not be negative"}.Error())
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		errors = append(errors, ValidationError{Field: "db_driver", Message: "must be postgres or sqlite"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
