package util

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings and flags.
type Config struct {
	SeedText       string `yaml:"seed"`
	DSN            string `yaml:"dsn"`
	Specialization string `yaml:"specialization"`
	Difficulty     string `yaml:"difficulty"`
	Theme          string `yaml:"theme"`
	ShowHints      bool   `yaml:"show_hints"`
}

// Load reads configuration from a YAML file. Environment variables inside
// the file are expanded before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	expanded := os.ExpandEnv(string(data))
	cfg := LoadFromEnv()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromEnv builds a Config from environment variables with defaults.
func LoadFromEnv() Config {
	return Config{
		SeedText:       getEnv("LOCUM_SEED", ""),
		DSN:            getEnv("DATABASE_URL", ""),
		Specialization: getEnv("LOCUM_SPECIALIZATION", "general_practice"),
		Difficulty:     getEnv("LOCUM_DIFFICULTY", "medium"),
		Theme:          getEnv("LOCUM_THEME", "clinical"),
		ShowHints:      getEnvBool("LOCUM_HINTS", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
