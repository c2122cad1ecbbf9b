package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides applied on top of the YAML file.
const (
	EnvDatabaseDSN         = "CORPUSFLOW_DB_DSN"
	EnvDatabaseSSHPassword = "CORPUSFLOW_DB_SSH_PASSWORD"
	EnvRemotePassword      = "CORPUSFLOW_SSH_PASSWORD"
	EnvGeminiAPIKeys       = "CORPUSFLOW_GEMINI_API_KEYS"
	EnvGoogleCredentials   = "GOOGLE_APPLICATION_CREDENTIALS"
)

// LoadEnvFiles loads the given dotenv files when they exist. Variables already set win.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the YAML file at path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(EnvDatabaseSSHPassword); v != "" {
		c.Database.SSH.Password = v
	}
	if v := os.Getenv(EnvRemotePassword); v != "" {
		c.Remote.Password = v
	}
	if v := os.Getenv(EnvGeminiAPIKeys); v != "" {
		var keys []string
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		c.Transcriber.APIKeys = keys
	}
	if v := os.Getenv(EnvGoogleCredentials); v != "" && c.Storage.Credentials == "" {
		c.Storage.Credentials = v
	}
}
