package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/osfund/osfund/internal/allocate"
	"github.com/osfund/osfund/internal/backend"
	"github.com/osfund/osfund/internal/config"
	"github.com/osfund/osfund/internal/resolve"
	"github.com/osfund/osfund/internal/store"
	"github.com/osfund/osfund/internal/watcher"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database, scan, budget, and daemon status",
	Long: `Display an overview of the osfund installation.

Shows:
  • Which package managers were detected on this host
  • Database location and most recent scan
  • Number of packages and resolved projects
  • Configured budget, if any
  • Watch daemon status

This command helps verify that osfund is set up and current.`,
	Example: `  # Check status
  osfund status`,
	RunE: runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	backends := backend.Detect(cfg.Scan.Backends)
	names := make([]string, 0, len(backends))
	for _, b := range backends {
		names = append(names, string(b.Name()))
	}
	if len(names) == 0 {
		fmt.Println("Package managers: none detected")
	} else {
		fmt.Printf("Package managers: %s\n", strings.Join(names, ", "))
	}

	path, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Database:         not created yet (%s)\n", path)
		fmt.Println()
		fmt.Println("Run 'osfund scan' to get started.")
		return nil
	}
	fmt.Printf("Database:         %s\n", path)

	db, err := store.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	info, records, err := db.LatestScan()
	if err != nil {
		return fmt.Errorf("failed to load last scan: %w", err)
	}
	if info == nil {
		fmt.Println("Last scan:        never — run 'osfund scan'")
	} else {
		projects := resolve.New(resolve.BuiltinTable()).Resolve(records)
		fmt.Printf("Last scan:        %s (%s)\n", info.CreatedAt.Format("2006-01-02 15:04"), info.Backends)
		fmt.Printf("Packages:         %d\n", info.PackageCount)
		fmt.Printf("Projects:         %d\n", len(projects))
	}

	if cfg.HasBudget() {
		if budget, err := cfg.ParsedBudget(); err == nil {
			fmt.Printf("Budget:           %s per %s (%s)\n",
				allocate.FormatMoney(budget.Amount, budget.Currency),
				cadencePeriod(budget.Cadence),
				cfg.Budget.Strategy)
		}
	} else {
		fmt.Println("Budget:           not set — run 'osfund budget set AMOUNT'")
	}

	pidFile, err := getDefaultPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}
	running, err := watcher.IsDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		pid := readDaemonPID(pidFile)
		if pid > 0 {
			fmt.Printf("Watch daemon:     running (PID %d)\n", pid)
		} else {
			fmt.Println("Watch daemon:     running")
		}
	} else {
		fmt.Println("Watch daemon:     not running — 'osfund watch --daemon' keeps scans fresh")
	}

	return nil
}

func readDaemonPID(pidFile string) int {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
