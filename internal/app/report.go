package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/osfund/osfund/internal/config"
	"github.com/osfund/osfund/internal/enrich"
	"github.com/osfund/osfund/internal/output"
	"github.com/osfund/osfund/internal/resolve"
	"github.com/osfund/osfund/internal/store"
	"github.com/spf13/cobra"
)

// enrichTTL is how long cached project metadata stays fresh before a
// --enrich run refetches it.
const enrichTTL = 24 * time.Hour

var (
	reportFormat string
	reportEnrich bool
	reportLimit  int
	reportOffset int
	reportOutput string

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Render the most recent scan as a project report",
		Long: `Render the projects resolved from the most recent scan.

Formats:
  • terminal (default): per-manager summary plus a project table
  • json: machine-readable report for scripting
  • html: self-contained page suitable for sharing

With --enrich, osfund fetches repository metadata and funding links for
each project from GitHub, Liberapay, and Open Collective. Results are
cached in the database for a day, so repeated reports stay fast and
offline runs reuse the last fetch.`,
		Example: `  # Terminal report of the last scan
  osfund report

  # JSON report piped to jq
  osfund report --format json | jq '.projects[].name'

  # Shareable HTML page with funding links
  osfund report --format html --enrich --output report.html`,
		RunE: runReport,
	}
)

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "terminal", "output format: terminal, json, or html")
	reportCmd.Flags().BoolVar(&reportEnrich, "enrich", false, "fetch repository metadata and funding links")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0, "maximum projects to include (0 = all)")
	reportCmd.Flags().IntVar(&reportOffset, "offset", 0, "number of projects to skip")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file instead of stdout")

	RootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportFormat != "terminal" && reportFormat != "json" && reportFormat != "html" {
		return fmt.Errorf("unknown format %q (want terminal, json, or html)", reportFormat)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	info, records, err := db.LatestScan()
	if err != nil {
		return fmt.Errorf("failed to load last scan: %w", err)
	}
	if info == nil {
		return fmt.Errorf("no scan found; run 'osfund scan' first")
	}

	projects := resolve.New(resolve.BuiltinTable()).Resolve(records)
	page := resolve.Page(projects, reportLimit, reportOffset)

	var enrichment map[resolve.ProjectKey]*store.Enrichment
	if reportEnrich {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.Enrich.Enabled {
			fmt.Fprintln(os.Stderr, "⚠ Enrichment is disabled in config.toml; skipping.")
		} else {
			enrichment = fetchEnrichment(db, page)
		}
	}

	switch reportFormat {
	case "terminal":
		return renderTerminalReport(page, projects, enrichment)
	case "json":
		report := output.BuildJSONReport(page, info.CreatedAt, enrichment)
		data, err := output.RenderJSONReport(report)
		if err != nil {
			return fmt.Errorf("failed to render JSON report: %w", err)
		}
		return writeReport(data)
	default: // html
		report := output.BuildJSONReport(page, info.CreatedAt, enrichment)
		data, err := output.RenderHTMLReport(report)
		if err != nil {
			return fmt.Errorf("failed to render HTML report: %w", err)
		}
		return writeReport(data)
	}
}

// fetchEnrichment returns cached metadata for each project, refetching
// entries older than enrichTTL. Network failures degrade to whatever the
// cache holds; a report never fails because GitHub is unreachable.
func fetchEnrichment(db *store.Store, projects []resolve.Project) map[resolve.ProjectKey]*store.Enrichment {
	fetcher := enrich.New()
	ctx := context.Background()

	out := make(map[resolve.ProjectKey]*store.Enrichment, len(projects))
	for _, project := range projects {
		cached, err := db.GetEnrichment(string(project.Key))
		if err == nil && cached != nil && time.Since(cached.FetchedAt) < enrichTTL {
			out[project.Key] = cached
			continue
		}

		meta, err := fetcher.Fetch(ctx, project)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ enrichment failed for %s: %v\n", project.DisplayName, err)
			if cached != nil {
				out[project.Key] = cached
			}
			continue
		}

		e := &store.Enrichment{
			ProjectKey:  string(project.Key),
			RepoURL:     meta.RepoURL,
			Description: meta.Description,
			Stars:       meta.Stars,
			FundingURLs: meta.FundingURLs,
			FetchedAt:   time.Now(),
		}
		if err := db.PutEnrichment(e); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ failed to cache enrichment for %s: %v\n", project.DisplayName, err)
		}
		out[project.Key] = e
	}
	return out
}

func renderTerminalReport(page, all []resolve.Project, enrichment map[resolve.ProjectKey]*store.Enrichment) error {
	fmt.Print(output.RenderProjectTable(page))

	if len(enrichment) > 0 {
		fmt.Println()
		fmt.Println("Funding links:")
		for _, project := range page {
			e := enrichment[project.Key]
			if e == nil || len(e.FundingURLs) == 0 {
				continue
			}
			fmt.Printf("  %s:\n", project.DisplayName)
			for _, url := range e.FundingURLs {
				fmt.Printf("    %s\n", url)
			}
		}
	}

	if len(page) < len(all) {
		fmt.Printf("\nShowing %d of %d projects. Use --limit/--offset to page.\n", len(page), len(all))
	}
	return nil
}

func writeReport(data []byte) error {
	if reportOutput == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(reportOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", reportOutput)
	return nil
}
