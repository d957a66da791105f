package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath string

	// RootCmd is the root command for osfund
	RootCmd = &cobra.Command{
		Use:   "osfund",
		Short: "Map installed packages to upstream projects and plan donations",
		Long: `osfund inventories the software installed through your system's package
managers (pacman, dpkg, dnf, flatpak, snap), maps each package to the upstream
open-source project that produces it, and splits a donation budget across
those projects.

Quick Start:
  1. osfund scan
  2. osfund budget set 25.00
  3. osfund budget plan

Features:
  • Scans pacman, dpkg, dnf, flatpak, and snap inventories
  • Groups packages by upstream project (libc, python3, python → one entry each)
  • Equal or package-count-weighted budget splits that always sum exactly
  • Terminal, JSON, and HTML reports
  • Optional funding-link enrichment from GitHub and donation platforms
  • Background watcher that rescans when the package database changes

Examples:
  # Inventory installed packages
  osfund scan

  # Set a monthly budget
  osfund budget set 25.00 --cadence monthly

  # See where the money would go
  osfund budget plan

  # Weight by how many of a project's packages you have installed
  osfund budget plan --strategy weighted --save

  # Keep the inventory fresh automatically
  osfund watch --daemon`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := getDBPath()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Println("osfund: fund the open-source projects you actually use")
				fmt.Println()
				fmt.Println("Run 'osfund scan' to get started.")
				fmt.Println("Run 'osfund --help' for the full reference.")
			} else {
				fmt.Println("osfund: fund the open-source projects you actually use")
				fmt.Println()
				fmt.Println("Tip: Run 'osfund report' to see your project inventory.")
				fmt.Println("     Run 'osfund budget plan' to split your budget.")
				fmt.Println("     Run 'osfund --help' for all commands.")
			}
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.local/share/osfund/osfund.db)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "osfund.db"), nil
}

// getDefaultPIDFile returns the default PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.pid"), nil
}

// getDefaultLogFile returns the default log file path
func getDefaultLogFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.log"), nil
}

// dataDir returns the osfund data directory, respecting XDG_DATA_HOME.
// Defaults to ~/.local/share/osfund. The directory is created if missing.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}

	dir := filepath.Join(base, "osfund")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create osfund data directory: %w", err)
	}
	return dir, nil
}
