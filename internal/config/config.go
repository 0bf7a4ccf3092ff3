package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps validation and parse failures.
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

type Config struct {
	Project struct {
		Root      string   `yaml:"root" validate:"required"`
		Output    string   `yaml:"output" validate:"required"`
		DB        string   `yaml:"db"`
		Exclude   []string `yaml:"exclude" validate:"dive,required,excludesall=/"` // extra directory names to skip
		Ignore    []string `yaml:"ignore"`                                         // gitignore-style patterns
		Gitignore bool     `yaml:"gitignore"`
	} `yaml:"project"`
	Run struct {
		FailOnEmpty bool `yaml:"fail_on_empty"`
	} `yaml:"run"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"log"`
	Telemetry struct {
		Exporter string `yaml:"exporter" validate:"oneof=none stdout"`
	} `yaml:"telemetry"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Project.Output = "knowledge_graph.json"
	cfg.Log.Level = "info"
	cfg.Telemetry.Exporter = "none"
	return &cfg
}

// LoadConfig reads path over the defaults, then applies JAVAGRAPH_* environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if root := os.Getenv("JAVAGRAPH_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if output := os.Getenv("JAVAGRAPH_OUTPUT"); output != "" {
		cfg.Project.Output = output
	}
	if db := os.Getenv("JAVAGRAPH_DB"); db != "" {
		cfg.Project.DB = db
	}
	if level := os.Getenv("JAVAGRAPH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if v := os.Getenv("JAVAGRAPH_FAIL_ON_EMPTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: JAVAGRAPH_FAIL_ON_EMPTY: %v", ErrInvalidConfig, err)
		}
		cfg.Run.FailOnEmpty = b
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel maps Log.Level to a slog level.
func (c *Config) LogLevel() slog.Level {
	return ParseLevel(c.Log.Level)
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
