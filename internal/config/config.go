package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFile = ".modalstack/config.toml"

// Environment overrides, applied on top of the file.
const (
	EnvLogLevel    = "MODALSTACK_LOG_LEVEL"
	EnvBaseZIndex  = "MODALSTACK_BASE_Z_INDEX"
	EnvDismissKeys = "MODALSTACK_DISMISS_KEYS"
)

// Config holds the settings for the modalstack demo and CLI.
type Config struct {
	BaseZIndex    int      `toml:"base_z_index"`
	DismissKeys   []string `toml:"dismiss_keys"`
	DefaultSize   string   `toml:"default_size"`
	LogLevel      string   `toml:"log_level"`
	MarkdownStyle string   `toml:"markdown_style"`
	Backdrop      *bool    `toml:"backdrop,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseZIndex:    1000,
		DismissKeys:   []string{"esc"},
		DefaultSize:   "md",
		LogLevel:      "warn",
		MarkdownStyle: "dark",
	}
}

// Path returns the config file location under baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, configFile)
}

// Load reads the config from disk. A missing file yields the defaults.
// Priority: env > file > defaults.
func Load(baseDir string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(Path(baseDir), cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	applyEnv(cfg)
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *Config) error {
	configPath := Path(baseDir)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}

	return os.WriteFile(configPath, buf.Bytes(), 0644)
}

// BackdropEnabled reports whether the background is dimmed behind dialogs.
func (c *Config) BackdropEnabled() bool {
	return c.Backdrop == nil || *c.Backdrop
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvBaseZIndex); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BaseZIndex = n
		}
	}
	if v := os.Getenv(EnvDismissKeys); v != "" {
		var keys []string
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			cfg.DismissKeys = keys
		}
	}
}

func (c *Config) normalize() {
	def := Default()
	if len(c.DismissKeys) == 0 {
		c.DismissKeys = def.DismissKeys
	}
	if c.DefaultSize == "" {
		c.DefaultSize = def.DefaultSize
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.MarkdownStyle == "" {
		c.MarkdownStyle = def.MarkdownStyle
	}
}
