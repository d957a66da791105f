package app

import (
	"fmt"
	"os"
	"time"

	"github.com/osfund/osfund/internal/backend"
	"github.com/osfund/osfund/internal/config"
	"github.com/osfund/osfund/internal/output"
	"github.com/osfund/osfund/internal/resolve"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	scanLimit  int
	scanOffset int
	scanQuiet  bool

	scanCmd = &cobra.Command{
		Use:   "scan",
		Short: "Scan installed packages across all detected package managers",
		Long: `Scan the package databases of every supported package manager found on
this host and store the combined inventory in the osfund database.

Supported managers: pacman, dpkg, dnf/rpm, flatpak, snap. A manager that is not
present is silently skipped; a manager whose database cannot be read is
reported as a warning without failing the scan. The scan.backends key in
config.toml restricts which managers are consulted.

The scan command should be run:
  • After installing osfund for the first time
  • After installing or removing packages
  • Periodically to keep the database in sync (or use 'osfund watch')`,
		Example: `  # Scan all detected package managers
  osfund scan

  # Show only the first 20 projects
  osfund scan --limit 20

  # Scan quietly (suppress output)
  osfund scan --quiet`,
		RunE: runScan,
	}
)

func init() {
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "maximum projects to display (0 = all)")
	scanCmd.Flags().IntVar(&scanOffset, "offset", 0, "number of projects to skip")
	scanCmd.Flags().BoolVar(&scanQuiet, "quiet", false, "suppress output")

	RootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	backends := backend.Detect(cfg.Scan.Backends)
	if len(backends) == 0 {
		return fmt.Errorf("no supported package managers found on this host")
	}

	isTTY := isatty.IsTerminal(os.Stdout.Fd())
	var spinner *output.Spinner

	if !scanQuiet {
		if isTTY {
			spinner = output.NewSpinner("Scanning package databases...")
			spinner.Start()
		} else {
			fmt.Println("Scanning package databases...")
		}
	}

	result := backend.Scan(backends)

	if !scanQuiet && isTTY {
		spinner.StopWithMessage(fmt.Sprintf("✓ %d packages found", len(result.Records)))
	}

	// Partial failure: report the broken backend, keep going with the rest.
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
	}
	if len(result.Records) == 0 && len(result.Warnings) > 0 {
		return fmt.Errorf("every package manager failed; nothing to scan")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.InsertScan(result.Records, time.Now()); err != nil {
		return fmt.Errorf("failed to persist scan: %w", err)
	}
	if err := db.PruneScans(scanHistory); err != nil {
		return fmt.Errorf("failed to prune old scans: %w", err)
	}

	if scanQuiet {
		return nil
	}

	projects := resolve.New(resolve.BuiltinTable()).Resolve(result.Records)
	page := resolve.Page(projects, scanLimit, scanOffset)

	fmt.Println()
	fmt.Print(output.RenderSummaryTable(result.Records))
	fmt.Println()
	fmt.Print(output.RenderProjectTable(page))

	if len(page) < len(projects) {
		fmt.Printf("\nShowing %d of %d projects. Use --limit/--offset to page.\n", len(page), len(projects))
	}

	fmt.Println()
	fmt.Println("Next: 'osfund budget set AMOUNT' then 'osfund budget plan'.")

	return nil
}
