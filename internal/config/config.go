// Package config loads formflow settings from defaults, an optional YAML
// file, .env files, and FORMFLOW_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/remote"
)

const envPrefix = "FORMFLOW_"

// Config holds every runtime setting.
type Config struct {
	BaseURL          string        `yaml:"base_url" validate:"required,url"`
	Timeout          time.Duration `yaml:"-"`
	LogLevel         string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	Addr             string        `yaml:"addr" validate:"required"`
	SubmissionFormat string        `yaml:"submission_format" validate:"oneof=json form pretty"`
	SchemaFile       string        `yaml:"schema_file"`
	ThemeVariant     string        `yaml:"theme_variant" validate:"omitempty,oneof=light dark"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:          remote.DefaultBaseURL,
		Timeout:          30 * time.Second,
		LogLevel:         "info",
		Addr:             ":8080",
		SubmissionFormat: "json",
	}
}

type fileConfig struct {
	Config  `yaml:",inline"`
	Timeout string `yaml:"timeout"`
}

// Load builds the configuration. path names an optional YAML file; envFiles
// are passed to godotenv and default to ".env". Missing .env files are not
// an error. Variables already set in the environment win over .env values.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env: %w", err)
		}
		slog.Debug("no .env file found, using system environment variables")
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	fc := fileConfig{Config: *c}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	timeout := c.Timeout
	if fc.Timeout != "" {
		timeout, err = time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("config: parse %s: timeout: %w", path, err)
		}
	}
	*c = fc.Config
	c.Timeout = timeout
	return nil
}

func (c *Config) mergeEnv() error {
	c.BaseURL = getEnv("BASE_URL", c.BaseURL)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Addr = getEnv("ADDR", c.Addr)
	c.SubmissionFormat = getEnv("SUBMISSION_FORMAT", c.SubmissionFormat)
	c.SchemaFile = getEnv("SCHEMA_FILE", c.SchemaFile)
	c.ThemeVariant = getEnv("THEME_VARIANT", c.ThemeVariant)

	if raw := getEnv("TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config: %sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(envPrefix + key)); value != "" {
		return value
	}
	return defaultValue
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New()
	})

	var problems []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}
	if c.Timeout < 0 {
		problems = append(problems, "Timeout must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
