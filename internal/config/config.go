package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration. Values come from environment
// variables with sensible defaults; an optional YAML file named by
// CONFIG_FILE overrides whatever it sets.
type Config struct {
	Port       string `yaml:"port"`
	DBPath     string `yaml:"db_path"`
	MatrixPath string `yaml:"matrix_path"`
	JWTSecret  string `yaml:"jwt_secret"`
}

// Load builds the configuration from the environment and the optional
// config file.
func Load() *Config {
	cfg := &Config{
		Port:       ":8080",
		DBPath:     "./data/stargen.db",
		MatrixPath: "./data/eucl_dist.bin",
		JWTSecret:  "your-secret-key-change-in-production",
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MATRIX_PATH"); v != "" {
		cfg.MatrixPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			log.Fatalf("Failed to load config file %s: %v", path, err)
		}
		log.Printf("Loaded config overrides from %s", path)
	}

	return cfg
}

// applyFile overlays values from a YAML file onto the config.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}
