// Package environment provides support for loading configuration from
// environment variables, with namespacing and defaults.
package environment

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load loads environment variables from a .env file if one is present.
// Missing files are not an error in deployed environments.
func Load() error {
	return godotenv.Load()
}

// LoadPath loads environment variables from a specific file path.
func LoadPath(p string) error {
	if p != "" {
		return godotenv.Load(p)
	}
	return godotenv.Load()
}

// GetEnvOrDefault retrieves an environment variable value, returning a
// fallback value if the variable is not set.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix constructs a prefixed environment variable key. An empty
// prefix returns the key unchanged, so shared infrastructure can be
// configured globally or per app.
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}
