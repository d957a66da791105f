// Package config loads and saves the osfund configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/osfund/osfund/internal/allocate"
)

// Config is the parsed contents of config.toml. Amounts are kept as decimal
// strings in the file and validated into minor units at load time, so the
// allocator only ever sees integers.
type Config struct {
	Budget BudgetConfig `toml:"budget"`
	Scan   ScanConfig   `toml:"scan"`
	Enrich EnrichConfig `toml:"enrich"`
}

// BudgetConfig is the [budget] table.
type BudgetConfig struct {
	// Amount is a decimal string, e.g. "25.00". Empty means no budget set.
	Amount    string `toml:"amount"`
	Currency  string `toml:"currency"`
	Cadence   string `toml:"cadence"`
	Strategy  string `toml:"strategy"`
	MinAmount string `toml:"min_amount"`
}

// ScanConfig is the [scan] table.
type ScanConfig struct {
	// Backends restricts which package managers are scanned. Empty means
	// every backend detected on the host.
	Backends []string `toml:"backends"`
}

// EnrichConfig is the [enrich] table.
type EnrichConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Budget: BudgetConfig{
			Currency:  "USD",
			Cadence:   string(allocate.CadenceMonthly),
			Strategy:  string(allocate.StrategyEqual),
			MinAmount: "0",
		},
	}
}

// Dir returns the osfund config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/osfund.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "osfund"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, returning defaults if it does not exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the config file at path. A missing file is
// not an error: defaults are returned.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills fields a sparse config file left empty.
func applyDefaults(cfg *Config) {
	if cfg.Budget.Currency == "" {
		cfg.Budget.Currency = "USD"
	}
	if cfg.Budget.Cadence == "" {
		cfg.Budget.Cadence = string(allocate.CadenceMonthly)
	}
	if cfg.Budget.Strategy == "" {
		cfg.Budget.Strategy = string(allocate.StrategyEqual)
	}
	if cfg.Budget.MinAmount == "" {
		cfg.Budget.MinAmount = "0"
	}
}

// Validate rejects unknown enum values and negative amounts before any of
// them can reach the allocator.
func (c *Config) Validate() error {
	if _, err := allocate.ParseCadence(c.Budget.Cadence); err != nil {
		return fmt.Errorf("budget.cadence: %w", err)
	}
	if _, err := allocate.ParseStrategy(c.Budget.Strategy); err != nil {
		return fmt.Errorf("budget.strategy: %w", err)
	}
	if c.Budget.Amount != "" {
		if _, err := allocate.ParseAmount(c.Budget.Amount); err != nil {
			return fmt.Errorf("budget.amount: %w", err)
		}
	}
	if _, err := allocate.ParseAmount(c.Budget.MinAmount); err != nil {
		return fmt.Errorf("budget.min_amount: %w", err)
	}
	return nil
}

// HasBudget reports whether a budget amount has been configured.
func (c *Config) HasBudget() bool {
	return c.Budget.Amount != ""
}

// ParsedBudget converts the configured budget into allocator inputs.
func (c *Config) ParsedBudget() (allocate.Budget, error) {
	if !c.HasBudget() {
		return allocate.Budget{}, fmt.Errorf("no budget configured (run 'osfund budget set AMOUNT')")
	}
	amount, err := allocate.ParseAmount(c.Budget.Amount)
	if err != nil {
		return allocate.Budget{}, fmt.Errorf("budget.amount: %w", err)
	}
	cadence, err := allocate.ParseCadence(c.Budget.Cadence)
	if err != nil {
		return allocate.Budget{}, err
	}
	return allocate.Budget{Amount: amount, Currency: c.Budget.Currency, Cadence: cadence}, nil
}

// ParsedMinAmount returns the minimum viable per-project amount in minor units.
func (c *Config) ParsedMinAmount() (int64, error) {
	return allocate.ParseAmount(c.Budget.MinAmount)
}

// Save writes the config file, creating the config directory as needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
