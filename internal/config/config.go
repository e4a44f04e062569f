package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr         string        `yaml:"addr"`
	APITimeout   time.Duration `yaml:"timeout"`
	DatabaseURL  string        `yaml:"database_url"`
	DatabaseName string        `yaml:"database_name"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second

	cfg := &Config{
		Addr:         getEnv("CAREERS_ADDR", ":8000"),
		APITimeout:   apiTimeout,
		DatabaseURL:  getEnv("DATABASE_URL", "careers.db"),
		DatabaseName: getEnv("DATABASE_NAME", "careers"),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}
	if c.DatabaseName == "" {
		return fmt.Errorf("database_name is required")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
