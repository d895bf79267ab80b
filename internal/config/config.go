package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Input describes the CSV dataset to read.
type Input struct {
	Path            string `yaml:"path" toml:"path"`
	IDColumn        string `yaml:"id_column" toml:"id_column"`
	PrimaryColumn   string `yaml:"primary_column" toml:"primary_column"`
	SecondaryColumn string `yaml:"secondary_column" toml:"secondary_column"`
}

// Output describes where downloaded images are written.
type Output struct {
	Dir             string `yaml:"dir" toml:"dir"`
	PrimarySuffix   string `yaml:"primary_suffix" toml:"primary_suffix"`
	SecondarySuffix string `yaml:"secondary_suffix" toml:"secondary_suffix"`
}

// HTTP configures image requests.
type HTTP struct {
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent" toml:"user_agent"`
}

// Logging configures diagnostic log output.
type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Publish describes the hosted repository that mirrors downloaded folders.
type Publish struct {
	Host   string `yaml:"host" toml:"host"`
	Owner  string `yaml:"owner" toml:"owner"`
	Repo   string `yaml:"repo" toml:"repo"`
	Branch string `yaml:"branch" toml:"branch"`
}

// Config is the full application configuration.
type Config struct {
	Input   Input   `yaml:"input" toml:"input"`
	Output  Output  `yaml:"output" toml:"output"`
	HTTP    HTTP    `yaml:"http" toml:"http"`
	Logging Logging `yaml:"logging" toml:"logging"`
	Publish Publish `yaml:"publish" toml:"publish"`
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RawBaseURL returns the raw-content prefix for the publish repository.
func (c Config) RawBaseURL() string {
	host := strings.TrimRight(strings.TrimSpace(c.Publish.Host), "/")
	return strings.Join([]string{host, c.Publish.Owner, c.Publish.Repo, c.Publish.Branch}, "/")
}

// Load builds a Config from defaults, the optional file at path, and environment
// overrides, then validates it. The file format is chosen by extension.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported extension (want .yaml, .yml or .toml)", path)
	}
	return nil
}

func (c *Config) normalize() {
	c.Input.Path = strings.TrimSpace(c.Input.Path)
	c.Input.IDColumn = strings.TrimSpace(c.Input.IDColumn)
	c.Input.PrimaryColumn = strings.TrimSpace(c.Input.PrimaryColumn)
	c.Input.SecondaryColumn = strings.TrimSpace(c.Input.SecondaryColumn)
	c.Output.Dir = strings.TrimSpace(c.Output.Dir)
	c.HTTP.UserAgent = strings.TrimSpace(c.HTTP.UserAgent)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Input.Path == "" {
		errs = append(errs, errors.New("input.path is required"))
	}
	if c.Input.IDColumn == "" || c.Input.PrimaryColumn == "" || c.Input.SecondaryColumn == "" {
		errs = append(errs, errors.New("input column names must not be empty"))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is required"))
	}
	if c.Output.PrimarySuffix == "" || c.Output.SecondarySuffix == "" {
		errs = append(errs, errors.New("output suffixes must not be empty"))
	} else if c.Output.PrimarySuffix == c.Output.SecondarySuffix {
		errs = append(errs, fmt.Errorf("output suffixes must differ (both %q)", c.Output.PrimarySuffix))
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("http.timeout_seconds must be positive (got %d)", c.HTTP.TimeoutSeconds))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
