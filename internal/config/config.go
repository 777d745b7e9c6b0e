// Package config loads worktally's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/worktally/internal/domain"
)

const (
	// AppName is the application name used for config and data directories
	AppName = "worktally"
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"

	EnvConfigPath = "WORKTALLY_CONFIG"
	EnvDBPath     = "WORKTALLY_DB"
)

// Config represents the application configuration
type Config struct {
	// DBPath is the SQLite database file. Empty means ~/.worktally/worktally.db.
	DBPath string `toml:"db_path"`
	// DefaultCurrency is used for new projects and payouts when none is given.
	DefaultCurrency string `toml:"default_currency"`
	// LogUseCases writes one structured log line per service call to stderr.
	LogUseCases bool `toml:"log_use_cases"`

	Rounding RoundingConfig `toml:"rounding"`
}

// RoundingConfig holds the rounding defaults applied to new projects.
type RoundingConfig struct {
	IntervalMin   int    `toml:"interval_min"`
	Direction     string `toml:"direction"`
	TimeFragments bool   `toml:"time_fragments"`
	FragmentMin   int    `toml:"fragment_min"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency: string(domain.CurrencyUSD),
		Rounding: RoundingConfig{
			Direction:   string(domain.RoundUp),
			FragmentMin: 15,
		},
	}
}

// GetConfigPath returns $WORKTALLY_CONFIG, or config.toml inside the
// platform's user config directory.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName, ConfigFile), nil
}

// Load reads and validates the config file at path. Keys the file sets are
// layered over DefaultConfig; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields DefaultConfig.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// ApplyEnv overrides file settings with environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if p := getenv(EnvDBPath); p != "" {
		c.DBPath = p
	}
}

// Normalize trims values and canonicalizes their case.
func (c *Config) Normalize() {
	c.DBPath = strings.TrimSpace(c.DBPath)
	c.DefaultCurrency = strings.ToUpper(strings.TrimSpace(c.DefaultCurrency))
	c.Rounding.Direction = strings.ToLower(strings.TrimSpace(c.Rounding.Direction))
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = string(domain.CurrencyUSD)
	}
	if c.Rounding.Direction == "" {
		c.Rounding.Direction = string(domain.RoundUp)
	}
}

func (c Config) Validate() error {
	if _, err := domain.ParseCurrency(c.DefaultCurrency); err != nil {
		return fmt.Errorf("default_currency: %w", err)
	}
	if _, err := domain.ParseRoundingDirection(c.Rounding.Direction); err != nil {
		return fmt.Errorf("rounding.direction: %w", err)
	}
	if c.Rounding.IntervalMin < 0 {
		return fmt.Errorf("rounding.interval_min must not be negative")
	}
	if c.Rounding.FragmentMin < 0 {
		return fmt.Errorf("rounding.fragment_min must not be negative")
	}
	if c.Rounding.TimeFragments && c.Rounding.FragmentMin == 0 {
		return fmt.Errorf("rounding.fragment_min is required when rounding.time_fragments is on")
	}
	return nil
}

// ResolveDBPath returns DBPath with a leading ~ expanded, or the default
// location under the home directory when unset.
func (c Config) ResolveDBPath() (string, error) {
	p := c.DBPath
	if p != "" && p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	if p == "" {
		return filepath.Join(home, "."+AppName, AppName+".db"), nil
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteSample creates a commented sample config at path. It refuses to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateSampleConfig()), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GenerateSampleConfig returns a commented config file holding the defaults.
func GenerateSampleConfig() string {
	return `# worktally configuration file

# SQLite database location. Leave empty for ~/.worktally/worktally.db.
# The WORKTALLY_DB environment variable takes precedence.
db_path = ""

# Currency for new projects and payouts (USD, EUR, GBP, ...)
default_currency = "USD"

# Log every service call to stderr
log_use_cases = false

[rounding]
# Round tracked time to this many minutes (0 disables)
interval_min = 0
# "up", "down" or "nearest"
direction = "up"
# Snap entry bounds to whole fragments
time_fragments = false
fragment_min = 15
`
}
