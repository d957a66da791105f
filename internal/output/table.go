// Package output renders scan results and allocation plans for the
// terminal, plus JSON and HTML report documents.
//
// Terminal tables use ASCII characters and ANSI color codes; color is
// emitted only when stdout is a TTY and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/osfund/osfund/internal/allocate"
	"github.com/osfund/osfund/internal/backend"
	"github.com/osfund/osfund/internal/resolve"
)

const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderSummaryTable renders per-manager package counts.
func RenderSummaryTable(records []backend.Record) string {
	if len(records) == 0 {
		return "No packages found.\n"
	}

	counts := make(map[backend.Manager]int)
	for _, rec := range records {
		counts[rec.Manager]++
	}

	managers := make([]string, 0, len(counts))
	for m := range counts {
		managers = append(managers, string(m))
	}
	sort.Strings(managers)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-12s %8s\n", "Source", "Packages"))
	sb.WriteString(strings.Repeat("─", 21))
	sb.WriteString("\n")
	for _, m := range managers {
		sb.WriteString(fmt.Sprintf("%-12s %8d\n", m, counts[backend.Manager(m)]))
	}
	sb.WriteString(strings.Repeat("─", 21))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-12s %8d\n", "total", len(records)))

	return sb.String()
}

// RenderProjectTable renders grouped projects with their member packages.
// Source tags on members are shown only when records span multiple managers,
// since a single-source listing would just add noise.
func RenderProjectTable(projects []resolve.Project) string {
	if len(projects) == 0 {
		return "No projects found.\n"
	}

	managers := make(map[backend.Manager]bool)
	for _, p := range projects {
		for _, m := range p.Members {
			managers[m.Manager] = true
		}
	}
	showSource := len(managers) > 1

	var sb strings.Builder
	for _, project := range projects {
		sb.WriteString(colorize(colorBold, project.DisplayName))
		if project.RepoURL != "" {
			sb.WriteString("  ")
			sb.WriteString(colorize(colorGray, project.RepoURL))
		}
		sb.WriteString("\n")

		for _, member := range project.Members {
			name := member.Name
			if showSource {
				name = fmt.Sprintf("%s [%s]", member.Name, member.Manager)
			}
			sb.WriteString(fmt.Sprintf("  %-40s %s\n", name, member.Version))
		}
	}

	return sb.String()
}

// RenderPlanTable renders an allocation plan with per-project amounts.
func RenderPlanTable(plan *allocate.Plan) string {
	if len(plan.Entries) == 0 {
		return "Empty plan: nothing to allocate.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-32s %12s\n", "Project", "Amount"))
	sb.WriteString(strings.Repeat("─", 45))
	sb.WriteString("\n")

	for _, entry := range plan.Entries {
		amount := allocate.FormatMoney(entry.Amount, plan.Budget.Currency)
		sb.WriteString(fmt.Sprintf("%-32s %12s\n", truncate(entry.DisplayName, 32), colorize(colorGreen, amount)))
	}

	sb.WriteString(strings.Repeat("─", 45))
	sb.WriteString("\n")
	total := allocate.FormatMoney(plan.Total(), plan.Budget.Currency)
	sb.WriteString(fmt.Sprintf("%-32s %12s   per %s\n", "Total", total, cadenceNoun(plan.Budget.Cadence)))

	return sb.String()
}

func cadenceNoun(c allocate.Cadence) string {
	switch c {
	case allocate.CadenceYearly:
		return "year"
	default:
		return "month"
	}
}

// truncate shortens a string to maxLen, adding "..." when truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
