package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/log/stream"
	"github.com/bascanada/admintail/pkg/status"
	"github.com/bascanada/admintail/pkg/ty"
)

// Sentinel errors returned by Load and Settings so callers can detect exact
// failure modes using errors.Is().
var (
	ErrConfigParse    = errors.New("invalid config content")
	ErrConfigNotFound = errors.New("config file not found")
	ErrNoBaseURL      = errors.New("no backend url configured")
	ErrInvalidLevel   = errors.New("invalid level")
)

const (
	// EnvConfigPath is the environment variable used to override the config path
	EnvConfigPath = "ADMINTAIL_CONFIG"

	// DefaultConfigDir is the directory under the user's home where the config
	// file is expected when no explicit path or env var is provided.
	DefaultConfigDir = ".admintail"

	// DefaultConfigFile is the config filename to look for in the default dir.
	DefaultConfigFile = "config.yaml"
)

type Printer struct {
	Template ty.Opt[string] `json:"template" yaml:"template,omitempty"`
	Color    ty.Opt[bool]   `json:"color" yaml:"color,omitempty"`
}

type Stream struct {
	InitialBackoff ty.Opt[ty.Duration] `json:"initial-backoff" yaml:"initial-backoff,omitempty"`
	MaxBackoff     ty.Opt[ty.Duration] `json:"max-backoff" yaml:"max-backoff,omitempty"`
}

type Status struct {
	Interval ty.Opt[ty.Duration] `json:"interval" yaml:"interval,omitempty"`
}

// Config is the on-disk configuration. Every field is optional; defaults
// are applied by Settings.
type Config struct {
	URL        ty.Opt[string] `json:"url" yaml:"url,omitempty"`
	Backlog    ty.Opt[int]    `json:"backlog" yaml:"backlog,omitempty"`
	AutoScroll ty.Opt[bool]   `json:"autoscroll" yaml:"autoscroll,omitempty"`
	Level      ty.Opt[string] `json:"level" yaml:"level,omitempty"`
	Printer    Printer        `json:"printer" yaml:"printer,omitempty"`
	Stream     Stream         `json:"stream" yaml:"stream,omitempty"`
	Status     Status         `json:"status" yaml:"status,omitempty"`
	Headers    ty.MS          `json:"headers" yaml:"headers,omitempty"`
}

// Settings is a Config with every default resolved.
type Settings struct {
	URL            string
	Backlog        int
	AutoScroll     bool
	Level          client.Level
	Template       string
	Color          *bool
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	StatusInterval time.Duration
	Headers        ty.MS
}

// ResolvePath returns the config path to use: the explicit one, then the
// ADMINTAIL_CONFIG env var, then $HOME/.admintail/config.yaml. The returned
// file may not exist.
func ResolvePath(configPath string) string {
	if p := strings.TrimSpace(configPath); p != "" {
		return p
	}
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
	}
	return ""
}

// Load reads the config file. A missing default file yields an empty config,
// a missing explicit or env file is ErrConfigNotFound. The resolved path is
// returned along with the config.
func Load(configPath string) (*Config, string, error) {
	explicit := strings.TrimSpace(configPath) != "" || strings.TrimSpace(os.Getenv(EnvConfigPath)) != ""
	path := ResolvePath(configPath)

	if path == "" {
		return &Config{}, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return nil, path, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return &Config{}, path, nil
		}
		return nil, path, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes data as JSON or YAML depending on the file extension.
func Parse(path string, data []byte) (*Config, error) {
	var config Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing JSON %s: %v", ErrConfigParse, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML %s: %v", ErrConfigParse, path, err)
		}
	default:
		// Try JSON then YAML as a fallback
		if err := json.Unmarshal(data, &config); err == nil {
			break
		}
		config = Config{}
		if err := yaml.Unmarshal(data, &config); err == nil {
			break
		}
		return nil, fmt.Errorf("%w: unsupported or invalid config format for file: %s", ErrConfigParse, path)
	}
	return &config, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	// headers may carry proxy credentials
	return os.WriteFile(path, data, 0600)
}

// Merge overrides c with every value set in other.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	c.URL.Merge(&other.URL)
	c.Backlog.Merge(&other.Backlog)
	c.AutoScroll.Merge(&other.AutoScroll)
	c.Level.Merge(&other.Level)
	c.Printer.Template.Merge(&other.Printer.Template)
	c.Printer.Color.Merge(&other.Printer.Color)
	c.Stream.InitialBackoff.Merge(&other.Stream.InitialBackoff)
	c.Stream.MaxBackoff.Merge(&other.Stream.MaxBackoff)
	c.Status.Interval.Merge(&other.Status.Interval)
	if len(other.Headers) > 0 {
		c.Headers.Merge(other.Headers)
	}
}

// Settings applies defaults and validates the result.
func (c *Config) Settings() (Settings, error) {
	s := Settings{
		URL:            strings.TrimSpace(c.URL.Or("")),
		Backlog:        c.Backlog.Or(client.DefaultBacklog),
		AutoScroll:     c.AutoScroll.Or(true),
		Level:          client.LevelAll,
		Template:       c.Printer.Template.Or(""),
		InitialBackoff: c.Stream.InitialBackoff.Or(ty.Duration(stream.DefaultInitialBackoff)).D(),
		MaxBackoff:     c.Stream.MaxBackoff.Or(ty.Duration(stream.DefaultMaxBackoff)).D(),
		StatusInterval: c.Status.Interval.Or(ty.Duration(status.BadgeInterval)).D(),
		Headers:        c.Headers,
	}

	if c.Printer.Color.Set && c.Printer.Color.Valid {
		color := c.Printer.Color.Value
		s.Color = &color
	}

	if s.URL == "" {
		return s, ErrNoBaseURL
	}
	if s.Backlog <= 0 {
		s.Backlog = client.DefaultBacklog
	}
	if raw := c.Level.Or(""); raw != "" {
		level, ok := client.ParseLevel(raw)
		if !ok {
			return s, fmt.Errorf("%w: %q", ErrInvalidLevel, raw)
		}
		s.Level = level
	}
	return s, nil
}
