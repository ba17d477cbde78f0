package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "postgres"
	URL    string `yaml:"url"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TracingConfig struct {
	// tracing is disabled when empty
	JaegerEndpoint string `yaml:"jaeger_endpoint"`
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			URL:    "funpass.db",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of the defaults (an empty path
// skips the file) and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"FUNPASS_DB_DRIVER", &c.Database.Driver},
		{"FUNPASS_DB_URL", &c.Database.URL},
		{"FUNPASS_HTTP_ADDR", &c.HTTP.Addr},
		{"FUNPASS_LOG_LEVEL", &c.Log.Level},
		{"JAEGER_ENDPOINT", &c.Tracing.JaegerEndpoint},
	}

	for _, o := range overrides {
		if value, ok := lookup(o.key); ok && value != "" {
			*o.target = value
		}
	}
}

func (c Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database url is required"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c Config) LogLevel() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}
