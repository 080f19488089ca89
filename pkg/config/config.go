/*
Package config manages TOML config for appsort.

A missing config file is created with defaults; a file with syntax errors is
parsed section by section so that the readable values still apply.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/appsort/internal/utils"
	"github.com/bastiangx/appsort/pkg/match"
	"github.com/bastiangx/appsort/pkg/order"
)

// FileName is the default config file name.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	View    ViewConfig    `toml:"view"`
	Server  ServerConfig  `toml:"server"`
	Catalog CatalogConfig `toml:"catalog"`
	CLI     CliConfig     `toml:"cli"`
}

// ViewConfig holds the initial view state.
type ViewConfig struct {
	DefaultMode   string `toml:"default_mode"`
	DefaultSyntax string `toml:"default_syntax"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit   int `toml:"max_limit"`
	MaxPattern int `toml:"max_pattern"`
}

// CatalogConfig points at the item catalog.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowSections bool `toml:"show_sections"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		View: ViewConfig{
			DefaultMode:   order.Alphabetic.String(),
			DefaultSyntax: match.FixedString.String(),
		},
		Server: ServerConfig{
			MaxLimit:   256,
			MaxPattern: 128,
		},
		CLI: CliConfig{
			DefaultLimit: 40,
			ShowSections: true,
		},
	}
}

// Mode returns the configured initial mode, or Alphabetic when the value is
// not recognized.
func (c *Config) Mode() order.Mode {
	mode, err := order.ParseMode(c.View.DefaultMode)
	if err != nil {
		log.Warnf("Invalid default_mode %q in config, using %s", c.View.DefaultMode, order.Alphabetic)
		return order.Alphabetic
	}
	return mode
}

// Syntax returns the configured initial pattern syntax, or FixedString when
// the value is not recognized.
func (c *Config) Syntax() match.Syntax {
	syntax, err := match.ParseSyntax(c.View.DefaultSyntax)
	if err != nil {
		log.Warnf("Invalid default_syntax %q in config, using %s", c.View.DefaultSyntax, match.FixedString)
		return match.FixedString
	}
	return syntax
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/appsort/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			log.Debugf("Loading config from custom path: %s", customConfigPath)
			return LoadConfig(customConfigPath), customConfigPath
		}
		log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}
	config := InitConfig(defaultPath)
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) *Config {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig()
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig()
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values missing from the file keep their
// defaults.
func LoadConfig(configPath string) *Config {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config.sanitize()
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if section, ok := utils.ExtractSection(tempConfig, "view"); ok {
		extractViewConfig(section, &config.View)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "catalog"); ok {
		if val, ok := utils.ExtractString(section, "path"); ok {
			config.Catalog.Path = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config.sanitize()
}

func extractViewConfig(data map[string]any, view *ViewConfig) {
	if val, ok := utils.ExtractString(data, "default_mode"); ok {
		view.DefaultMode = val
	}
	if val, ok := utils.ExtractString(data, "default_syntax"); ok {
		view.DefaultSyntax = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_pattern"); ok {
		server.MaxPattern = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_sections"); ok {
		cli.ShowSections = val
	}
}

// sanitize replaces non-positive limits with their defaults.
func (c *Config) sanitize() *Config {
	def := DefaultConfig()
	if c.Server.MaxLimit <= 0 {
		log.Warnf("Invalid max_limit %d, using %d", c.Server.MaxLimit, def.Server.MaxLimit)
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.MaxPattern <= 0 {
		log.Warnf("Invalid max_pattern %d, using %d", c.Server.MaxPattern, def.Server.MaxPattern)
		c.Server.MaxPattern = def.Server.MaxPattern
	}
	if c.CLI.DefaultLimit <= 0 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
	return c
}

// RebuildConfigFile force creates a new config.toml at the default path
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(config, configPath)
}

// CatalogPath returns the catalog path from flag, config or search, in that
// order. Relative config values are resolved against the config file dir.
func (c *Config) CatalogPath(flagPath, configPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if c.Catalog.Path != "" {
		path := os.ExpandEnv(c.Catalog.Path)
		if !filepath.IsAbs(path) && configPath != "" {
			path = filepath.Join(filepath.Dir(configPath), path)
		}
		return path, nil
	}
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetCatalogPath("")
}
