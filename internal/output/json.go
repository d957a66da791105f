package output

import (
	"encoding/json"
	"time"

	"github.com/osfund/osfund/internal/allocate"
	"github.com/osfund/osfund/internal/resolve"
	"github.com/osfund/osfund/internal/store"
)

// JSONPackage is one installed package in a JSON report.
type JSONPackage struct {
	Manager  string   `json:"manager"`
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Licenses []string `json:"licenses,omitempty"`
}

// JSONProject is one grouped upstream project in a JSON report.
type JSONProject struct {
	Key         string        `json:"key"`
	DisplayName string        `json:"display_name"`
	RepoURL     string        `json:"repo_url,omitempty"`
	Packages    []JSONPackage `json:"packages"`
	Funding     []string      `json:"funding,omitempty"`
	Stars       int64         `json:"stars,omitempty"`
}

// JSONReport is the machine-readable form of a scan report.
type JSONReport struct {
	ScanTimestamp time.Time     `json:"scan_timestamp"`
	TotalPackages int           `json:"total_packages"`
	TotalProjects int           `json:"total_projects"`
	Projects      []JSONProject `json:"projects"`
}

// BuildJSONReport assembles a report document from resolved projects.
// Enrichment is optional: a nil map leaves funding fields empty.
func BuildJSONReport(projects []resolve.Project, scannedAt time.Time, enrichment map[resolve.ProjectKey]*store.Enrichment) *JSONReport {
	report := &JSONReport{
		ScanTimestamp: scannedAt,
		TotalProjects: len(projects),
		Projects:      make([]JSONProject, 0, len(projects)),
	}

	for _, project := range projects {
		jp := JSONProject{
			Key:         string(project.Key),
			DisplayName: project.DisplayName,
			RepoURL:     project.RepoURL,
			Packages:    make([]JSONPackage, 0, len(project.Members)),
		}
		for _, member := range project.Members {
			jp.Packages = append(jp.Packages, JSONPackage{
				Manager:  string(member.Manager),
				Name:     member.Name,
				Version:  member.Version,
				Licenses: member.Licenses,
			})
		}
		if e := enrichment[project.Key]; e != nil {
			jp.Funding = e.FundingURLs
			jp.Stars = e.Stars
			if jp.RepoURL == "" {
				jp.RepoURL = e.RepoURL
			}
		}
		report.TotalPackages += len(project.Members)
		report.Projects = append(report.Projects, jp)
	}

	return report
}

// RenderJSONReport serializes a report with stable indentation.
func RenderJSONReport(report *JSONReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// JSONPlanEntry is one allocation in a JSON plan document.
type JSONPlanEntry struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Amount      int64  `json:"amount"`
	Formatted   string `json:"formatted"`
}

// JSONPlan is the machine-readable form of an allocation plan.
type JSONPlan struct {
	Strategy  string          `json:"strategy"`
	Currency  string          `json:"currency"`
	Cadence   string          `json:"cadence"`
	Budget    int64           `json:"budget_amount"`
	Total     int64           `json:"total"`
	MinAmount int64           `json:"min_amount"`
	Entries   []JSONPlanEntry `json:"entries"`
}

// RenderJSONPlan serializes an allocation plan.
func RenderJSONPlan(plan *allocate.Plan) ([]byte, error) {
	doc := JSONPlan{
		Strategy:  string(plan.Strategy),
		Currency:  plan.Budget.Currency,
		Cadence:   string(plan.Budget.Cadence),
		Budget:    plan.Budget.Amount,
		Total:     plan.Total(),
		MinAmount: plan.MinAmount,
		Entries:   make([]JSONPlanEntry, 0, len(plan.Entries)),
	}
	for _, entry := range plan.Entries {
		doc.Entries = append(doc.Entries, JSONPlanEntry{
			Key:         string(entry.Key),
			DisplayName: entry.DisplayName,
			Amount:      entry.Amount,
			Formatted:   allocate.FormatMoney(entry.Amount, plan.Budget.Currency),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
