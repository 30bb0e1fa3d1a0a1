package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Matteo842/SaveState/internal/core"
)

// Config represents the application configuration
type Config struct {
	Resolver ResolverConfig `mapstructure:"resolver"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ResolverConfig contains the scoring policy knobs
type ResolverConfig struct {
	// ConfidenceThreshold is the minimum adjusted score the cheap phase
	// must reach before the deep-scan fallback is skipped.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	// NestingMargin is how much a shallower candidate must outscore a
	// nested deeper one to survive deduplication.
	NestingMargin float64 `mapstructure:"nesting_margin"`
}

// ScanConfig bounds the deep-scan fallback
type ScanConfig struct {
	MinScore     float64       `mapstructure:"min_score"`
	MaxDepth     int           `mapstructure:"max_depth"`
	MaxVisited   int64         `mapstructure:"max_visited"`
	MaxWallTime  time.Duration `mapstructure:"max_wall_time"`
	ExcludeNames []string      `mapstructure:"exclude_names"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	DataDir       string   `mapstructure:"data_dir"`
	ProfileDB     string   `mapstructure:"profile_db"`
	LogFile       string   `mapstructure:"log_file"`
	BackupDir     string   `mapstructure:"backup_dir"`
	TemplateFiles []string `mapstructure:"template_files"`
	AliasFiles    []string `mapstructure:"alias_files"`
	LibraryRoots  []string `mapstructure:"library_roots"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Budget converts the scan section into the engine's budget type.
func (c *Config) Budget() core.Budget {
	b := core.DefaultBudget()
	if c.Scan.MaxDepth > 0 {
		b.MaxDepth = c.Scan.MaxDepth
	}
	if c.Scan.MaxVisited > 0 {
		b.MaxVisited = c.Scan.MaxVisited
	}
	if c.Scan.MaxWallTime > 0 {
		b.MaxWallTime = c.Scan.MaxWallTime
	}
	return b
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".config", "savestate"))
	}
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvPrefix("SAVESTATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.ProfileDB = expandPath(cfg.Paths.ProfileDB)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	cfg.Paths.BackupDir = expandPath(cfg.Paths.BackupDir)
	for i, f := range cfg.Paths.TemplateFiles {
		cfg.Paths.TemplateFiles[i] = expandPath(f)
	}
	for i, f := range cfg.Paths.AliasFiles {
		cfg.Paths.AliasFiles[i] = expandPath(f)
	}
	for i, r := range cfg.Paths.LibraryRoots {
		cfg.Paths.LibraryRoots[i] = expandPath(r)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}

	dataDir := filepath.Join(homeDir, ".local", "share", "savestate")
	viper.SetDefault("paths.data_dir", dataDir)
	viper.SetDefault("paths.profile_db", filepath.Join(dataDir, "profiles.db"))
	viper.SetDefault("paths.log_file", filepath.Join(dataDir, "savestate.log"))
	viper.SetDefault("paths.backup_dir", "")
	viper.SetDefault("paths.template_files", []string{})
	viper.SetDefault("paths.alias_files", []string{})
	viper.SetDefault("paths.library_roots", []string{})

	viper.SetDefault("resolver.confidence_threshold", 0.55)
	viper.SetDefault("resolver.nesting_margin", 0.15)

	budget := core.DefaultBudget()
	viper.SetDefault("scan.min_score", 0.35)
	viper.SetDefault("scan.max_depth", budget.MaxDepth)
	viper.SetDefault("scan.max_visited", budget.MaxVisited)
	viper.SetDefault("scan.max_wall_time", budget.MaxWallTime)
	viper.SetDefault("scan.exclude_names", []string{})

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}
