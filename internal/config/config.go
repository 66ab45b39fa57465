// Package config handles s2o configuration.
//
// Values come from, in increasing precedence: built-in defaults, the YAML
// file at $XDG_CONFIG_HOME/s2o/config.yml, S2O_* environment variables and
// finally command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/matsen/scholar2obsidian/internal/note"
	"github.com/matsen/scholar2obsidian/internal/poll"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "s2o"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Environment variables that override the config file.
const (
	EnvFolder = "S2O_FOLDER"
	EnvTags   = "S2O_TAGS"
	EnvVault  = "S2O_VAULT"
	EnvOpener = "S2O_OPENER"
)

// Keys lists the settable configuration keys.
var Keys = []string{"folder", "tags", "vault", "opener", "interval", "max-attempts"}

// Config represents configuration stored in ~/.config/s2o/config.yml.
type Config struct {
	Folder      string        `yaml:"folder,omitempty"`       // Vault-relative destination folder
	Tags        []string      `yaml:"tags,omitempty"`         // Tags attached to every note
	Vault       string        `yaml:"vault,omitempty"`        // Obsidian vault name; empty uses the active vault
	Opener      string        `yaml:"opener,omitempty"`       // URI launcher command; empty or "system" for the platform default
	Interval    time.Duration `yaml:"interval,omitempty"`     // Spacing between detection attempts
	MaxAttempts int           `yaml:"max_attempts,omitempty"` // Detection attempt ceiling
}

// Default returns the built-in configuration.
func Default() Config {
	opts := poll.DefaultOptions()
	return Config{
		Folder:      note.DefaultFolder,
		Tags:        note.DefaultTags(),
		Interval:    opts.Interval,
		MaxAttempts: opts.MaxAttempts,
	}
}

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/s2o/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the config file, fills unset values with defaults and applies
// environment overrides.
func Load() (Config, error) {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Config{}, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// LoadFile reads configuration from path on top of the defaults.
// A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Folder = NormalizeFolder(cfg.Folder)
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c Config) Save(path string) error {
	if path == "" {
		return errors.New("no config path available")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from S2O_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvFolder); v != "" {
		c.Folder = NormalizeFolder(v)
	}
	if v := getenv(EnvTags); v != "" {
		c.Tags = ParseTags(v)
	}
	if v := getenv(EnvVault); v != "" {
		c.Vault = v
	}
	if v := getenv(EnvOpener); v != "" {
		c.Opener = v
	}
}

// Set assigns a value by key name (folder, tags, vault, opener, interval, max-attempts).
func (c *Config) Set(key, value string) error {
	switch NormalizeKey(key) {
	case "folder":
		c.Folder = NormalizeFolder(value)
	case "tags":
		c.Tags = ParseTags(value)
	case "vault":
		c.Vault = value
	case "opener":
		c.Opener = value
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid interval: %w", err)
		}
		c.Interval = d
	case "max-attempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max-attempts: %q", value)
		}
		c.MaxAttempts = n
	default:
		return fmt.Errorf("unknown configuration key: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return c.Validate()
}

// Get returns a value by key name, formatted for display.
func (c Config) Get(key string) (string, error) {
	switch NormalizeKey(key) {
	case "folder":
		return c.Folder, nil
	case "tags":
		return strings.Join(c.Tags, ","), nil
	case "vault":
		return c.Vault, nil
	case "opener":
		return c.Opener, nil
	case "interval":
		return c.Interval.String(), nil
	case "max-attempts":
		return strconv.Itoa(c.MaxAttempts), nil
	}
	return "", fmt.Errorf("unknown configuration key: %s (valid: %s)", key, strings.Join(Keys, ", "))
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Folder == "" {
		return errors.New("folder must not be empty")
	}
	if strings.HasPrefix(c.Folder, "/") {
		return fmt.Errorf("folder must be relative to the vault: %s", c.Folder)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative: %s", c.Interval)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1: %d", c.MaxAttempts)
	}
	return nil
}

// Note returns the pipeline configuration.
func (c Config) Note() note.Config {
	return note.Config{
		Folder: c.Folder,
		Tags:   c.Tags,
		Vault:  c.Vault,
	}
}

// Poll returns the detection polling options.
func (c Config) Poll() poll.Options {
	return poll.Options{
		Interval:    c.Interval,
		MaxAttempts: c.MaxAttempts,
	}
}

// ParseTags splits a comma-separated list, dropping blanks.
func ParseTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NormalizeFolder trims whitespace and trailing slashes.
func NormalizeFolder(folder string) string {
	return strings.TrimRight(strings.TrimSpace(folder), "/")
}

// NormalizeKey converts key formats (max_attempts, MAX-ATTEMPTS) to max-attempts.
func NormalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "_", "-")
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
