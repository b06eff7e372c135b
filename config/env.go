package config

import (
	"os"
	"strings"
)

// Environment selects the required settings and where secrets come from
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads CI=true first, then ENV. Unknown values mean development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := Environment(strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))); env {
	case Production, Test, Development:
		return env
	}
	return Development
}

// readsSecretFiles reports whether Docker secrets override the environment.
// CI passes secrets as plain variables.
func (e Environment) readsSecretFiles() bool {
	return e != CI
}
