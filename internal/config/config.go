//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-retailgen.
// Configuration is loaded from config files, RETAILGEN_ environment
// variables for connection secrets, and CLI flags. CLI flags take
// precedence over everything else.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DateLayout is the format of every date in the configuration.
const DateLayout = "2006-01-02"

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "RETAILGEN"

// envKeys are the keys that may be supplied through the environment.
var envKeys = []string{
	"transfer.host",
	"transfer.port",
	"transfer.username",
	"transfer.password",
	"transfer.key_file",
	"transfer.known_hosts_file",
	"transfer.remote_dir",
	"load.connection",
}

// Config holds all configuration for pgedge-retailgen.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Seed initializes the random source of a generation run.
	Seed uint64 `mapstructure:"seed"`

	// History holds configuration for the full history dataset.
	History HistoryConfig `mapstructure:"history"`

	// Incremental holds configuration for the incremental dataset.
	Incremental IncrementalConfig `mapstructure:"incremental"`

	// Transfer holds configuration for the upload command.
	Transfer TransferConfig `mapstructure:"transfer"`

	// Load holds configuration for loading generated tables into PostgreSQL.
	Load LoadConfig `mapstructure:"load"`
}

// HistoryConfig sizes the history dataset.
type HistoryConfig struct {
	OutputDir string `mapstructure:"output_dir"`

	Customers int `mapstructure:"customers"`
	Products  int `mapstructure:"products"`
	Stores    int `mapstructure:"stores"`

	// DateStart and DateDays define the calendar dimension.
	DateStart string `mapstructure:"date_start"`
	DateDays  int    `mapstructure:"date_days"`

	Facts      int    `mapstructure:"facts"`
	FactStart  string `mapstructure:"fact_start"`
	WindowDays int    `mapstructure:"window_days"`

	// The trailing batch is written as fact_sales_incremental alongside
	// the full history. Zero disables it.
	TrailingFacts      int    `mapstructure:"trailing_facts"`
	TrailingStart      string `mapstructure:"trailing_start"`
	TrailingWindowDays int    `mapstructure:"trailing_window_days"`
}

// IncrementalConfig sizes the incremental dataset. Keys start past the
// history ranges so the two datasets never collide.
type IncrementalConfig struct {
	OutputDir string `mapstructure:"output_dir"`

	CustomerStart int `mapstructure:"customer_start"`
	Customers     int `mapstructure:"customers"`
	ProductStart  int `mapstructure:"product_start"`
	Products      int `mapstructure:"products"`
	StoreStart    int `mapstructure:"store_start"`
	Stores        int `mapstructure:"stores"`

	Facts      int    `mapstructure:"facts"`
	FactStart  string `mapstructure:"fact_start"`
	WindowDays int    `mapstructure:"window_days"`
}

// TransferConfig describes the remote host and the directories to copy.
type TransferConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	KeyFile        string        `mapstructure:"key_file"`
	KnownHostsFile string        `mapstructure:"known_hosts_file"`
	Timeout        time.Duration `mapstructure:"timeout"`
	LocalDir       string        `mapstructure:"local_dir"`
	RemoteDir      string        `mapstructure:"remote_dir"`
}

// LoadConfig controls the optional PostgreSQL load after generation.
type LoadConfig struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// Enabled loads every generated table after the files are written.
	Enabled bool `mapstructure:"enabled"`

	// DropExisting drops the star schema before creating it.
	DropExisting bool `mapstructure:"drop_existing"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Seed:     42,
		History: HistoryConfig{
			OutputDir:          "./data",
			Customers:          1000,
			Products:           1000,
			Stores:             100,
			DateStart:          "2023-01-01",
			DateDays:           3 * 365,
			Facts:              100000,
			FactStart:          "2023-01-01",
			WindowDays:         30,
			TrailingFacts:      15000,
			TrailingStart:      "2025-01-01",
			TrailingWindowDays: 30,
		},
		Incremental: IncrementalConfig{
			OutputDir:     "./datav2",
			CustomerStart: 1001,
			Customers:     50,
			ProductStart:  1001,
			Products:      50,
			StoreStart:    101,
			Stores:        5,
			Facts:         15000,
			FactStart:     "2025-01-01",
			WindowDays:    7,
		},
		Transfer: TransferConfig{
			Port:     22,
			Timeout:  30 * time.Second,
			LocalDir: "./datav2/batch",
		},
	}
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-retailgen.yaml
// 3. ~/.config/pgedge-retailgen/pgedge-retailgen.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-retailgen")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-retailgen"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Secrets such as RETAILGEN_TRANSFER_PASSWORD stay out of config files.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// ParseDate parses a configuration date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidateGenerate checks configuration required for the named dataset.
func (c *Config) ValidateGenerate(dataset string) error {
	if c.Seed == 0 {
		return fmt.Errorf("seed must be non-zero; a zero seed is replaced by a random one and cannot be reproduced")
	}
	switch dataset {
	case "history":
		return c.History.Validate()
	case "incremental":
		return c.Incremental.Validate()
	default:
		return fmt.Errorf("unknown dataset %q", dataset)
	}
}

// Validate checks the history dataset sizes and dates.
func (h HistoryConfig) Validate() error {
	if h.OutputDir == "" {
		return fmt.Errorf("history.output_dir is required")
	}
	if h.Customers < 1 || h.Products < 1 || h.Stores < 1 {
		return fmt.Errorf("history customers, products and stores must be at least 1")
	}
	if h.DateDays < 0 {
		return fmt.Errorf("history.date_days must be non-negative")
	}
	if h.Facts < 0 || h.TrailingFacts < 0 {
		return fmt.Errorf("history fact counts must be non-negative")
	}
	if h.WindowDays < 0 || h.TrailingWindowDays < 0 {
		return fmt.Errorf("history window days must be non-negative")
	}
	for name, s := range map[string]string{
		"history.date_start":     h.DateStart,
		"history.fact_start":     h.FactStart,
		"history.trailing_start": h.TrailingStart,
	} {
		if _, err := ParseDate(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the incremental dataset sizes, key offsets and dates.
func (i IncrementalConfig) Validate() error {
	if i.OutputDir == "" {
		return fmt.Errorf("incremental.output_dir is required")
	}
	if i.CustomerStart < 1 || i.ProductStart < 1 || i.StoreStart < 1 {
		return fmt.Errorf("incremental key offsets must be at least 1")
	}
	if i.Customers < 1 || i.Products < 1 || i.Stores < 1 {
		return fmt.Errorf("incremental customers, products and stores must be at least 1")
	}
	if i.Facts < 0 {
		return fmt.Errorf("incremental.facts must be non-negative")
	}
	if i.WindowDays < 0 {
		return fmt.Errorf("incremental.window_days must be non-negative")
	}
	if _, err := ParseDate(i.FactStart); err != nil {
		return fmt.Errorf("incremental.fact_start: %w", err)
	}
	return nil
}

// ValidateUpload checks configuration required for the upload command.
func (c *Config) ValidateUpload() error {
	t := c.Transfer
	if t.Host == "" {
		return fmt.Errorf("transfer.host is required")
	}
	if t.Port < 1 || t.Port > 65535 {
		return fmt.Errorf("transfer.port must be between 1 and 65535")
	}
	if t.Username == "" {
		return fmt.Errorf("transfer.username is required")
	}
	if t.Password == "" && t.KeyFile == "" {
		return fmt.Errorf("transfer.password or transfer.key_file is required")
	}
	if t.LocalDir == "" {
		return fmt.Errorf("transfer.local_dir is required")
	}
	if t.RemoteDir == "" {
		return fmt.Errorf("transfer.remote_dir is required")
	}
	if t.Timeout < 0 {
		return fmt.Errorf("transfer.timeout must be non-negative")
	}
	return nil
}

// ValidateLoad checks configuration required to load into PostgreSQL.
func (c *Config) ValidateLoad() error {
	if c.Load.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}
