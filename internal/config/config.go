package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string     `yaml:"listen_addr"`
	DB         DBConfig   `yaml:"db"`
	PolicyPath string     `yaml:"policy_path"`
	SMTP       SMTPConfig `yaml:"smtp"`
	Outbox     OutboxConfig `yaml:"outbox"`
}

type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type SMTPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type OutboxConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	BatchSize           int `yaml:"batch_size"`
}

func Load(path string) (Config, error) {
	// #nosec G304 -- path is operator-provided config path.
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	expanded := os.ExpandEnv(string(raw))
	expanded = strings.ReplaceAll(expanded, "\r\n", "\n")

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}

	switch c.DB.Driver {
	case "", "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("db.driver must be memory, sqlite, or postgres, got %q", c.DB.Driver)
	}
	if (c.DB.Driver == "sqlite" || c.DB.Driver == "postgres") && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required when db.driver is %s", c.DB.Driver)
	}

	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp.host is required when smtp.enabled=true")
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("smtp.from is required when smtp.enabled=true")
		}
	}

	if c.Outbox.PollIntervalSeconds < 0 {
		return fmt.Errorf("outbox.poll_interval_seconds must not be negative")
	}

	return nil
}
