package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/osfund/osfund/internal/config"
	"github.com/spf13/cobra"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the osfund configuration",
		Long: `Inspect the osfund configuration.

The config lives at $XDG_CONFIG_HOME/osfund/config.toml (by default
~/.config/osfund/config.toml). When no file exists, 'config show' prints
the built-in defaults.`,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Example: `  # Print the effective config
  osfund config show`,
		RunE: runConfigShow,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE:  runConfigPath,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	RootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}
