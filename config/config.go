package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	OutputDir   string
	Quality     int
	Concurrency int
	OnExisting  string
	PresetsPath string
}

// Load reads defaults from the environment, after merging a .env file from
// the working directory if one exists. Variables already set win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Env:         getEnv("IMAGEPRO_ENV", "production"),
		OutputDir:   getEnv("IMAGEPRO_OUTPUT_DIR", "./resized/"),
		Quality:     getEnvAsInt("IMAGEPRO_QUALITY", 90),
		Concurrency: getEnvAsInt("IMAGEPRO_CONCURRENCY", 1),
		OnExisting:  getEnv("IMAGEPRO_ON_EXISTING", "overwrite"),
		PresetsPath: getEnv("IMAGEPRO_PRESETS", ""),
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
