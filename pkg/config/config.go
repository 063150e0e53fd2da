// Package config loads treeflat settings from a TOML file, a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Environment variables read by Load.
const (
	EnvConfig         = "TREEFLAT_CONFIG"
	EnvRulesFile      = "TREEFLAT_RULES_FILE"
	EnvMaxDepth       = "TREEFLAT_MAX_DEPTH"
	EnvNoDefaultRules = "TREEFLAT_NO_DEFAULT_RULES"
)

// Config holds the settings that shape a combine run. Pointer fields
// distinguish an explicit false or zero in the file from an absent key.
type Config struct {
	CustomRules     []string `toml:"custom_rules"`
	RulesFile       string   `toml:"rules_file"`
	UseDefaultRules *bool    `toml:"use_default_rules"`
	AutoFilter      *bool    `toml:"auto_filter"`
	MaxDepth        int      `toml:"max_depth"`
	CacheEntries    *int     `toml:"cache_entries"`
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CustomRules:     []string{},
		UseDefaultRules: boolPtr(true),
		AutoFilter:      boolPtr(true),
		CacheEntries:    intPtr(512),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/treeflat/config.toml, falling back to
// ~/.config/treeflat/config.toml.
func DefaultPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "treeflat", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "treeflat", "config.toml"), nil
}

// Load builds the configuration from defaults, the config file and the
// environment, in that order. A .env file in the working directory is loaded
// first if present. customPath overrides TREEFLAT_CONFIG and the default path;
// an explicit path that does not exist is an error, a missing default file is not.
func Load(customPath string, logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load .env file", zap.Error(err))
	}

	cfg := Default()

	path := customPath
	explicit := path != ""
	if !explicit {
		if envPath := strings.TrimSpace(os.Getenv(EnvConfig)); envPath != "" {
			path, explicit = envPath, true
		}
	}
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			logger.Warn("Could not determine default config path, using defaults", zap.Error(err))
			return applyEnv(cfg, logger), nil
		}
		path = p
	}

	fileCfg, err := loadFile(path, explicit, logger)
	if err != nil {
		return Default(), err
	}
	if fileCfg != nil {
		cfg = *fileCfg
	}
	return applyEnv(cfg, logger), nil
}

func loadFile(path string, explicit bool, logger *zap.Logger) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			logger.Debug("No config file found, using defaults", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		logger.Info("Config file is empty, using defaults", zap.String("path", path))
		return nil, nil
	}

	cfg := Default()
	meta, err := toml.Decode(string(content), &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("Unrecognized keys in config file", zap.String("path", path), zap.Strings("keys", keys))
	}

	if cfg.RulesFile != "" && !filepath.IsAbs(cfg.RulesFile) {
		cfg.RulesFile = filepath.Join(filepath.Dir(path), cfg.RulesFile)
	}
	logger.Info("Loaded configuration", zap.String("path", path))
	return &cfg, nil
}

func applyEnv(cfg Config, logger *zap.Logger) Config {
	if v := strings.TrimSpace(os.Getenv(EnvRulesFile)); v != "" {
		cfg.RulesFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxDepth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxDepth = n
		} else {
			logger.Warn("Ignoring invalid max depth from environment", zap.String("value", v))
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvNoDefaultRules)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseDefaultRules = boolPtr(!b)
		} else {
			logger.Warn("Ignoring invalid boolean from environment", zap.String("var", EnvNoDefaultRules), zap.String("value", v))
		}
	}
	return cfg
}

// RulesText joins the inline custom rules into newline-separated rule text.
func (c Config) RulesText() string {
	return strings.Join(c.CustomRules, "\n")
}
