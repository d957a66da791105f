package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/osfund/osfund/internal/allocate"
	"github.com/osfund/osfund/internal/backend"
	"github.com/osfund/osfund/internal/resolve"
	"github.com/osfund/osfund/internal/store"
)

func sampleProjects() []resolve.Project {
	return []resolve.Project{
		{
			Key:         "curl",
			DisplayName: "curl",
			RepoURL:     "https://github.com/curl/curl",
			Members: []backend.Record{
				{Manager: "dpkg", Name: "curl", Version: "8.9.0-1"},
				{Manager: "dpkg", Name: "libcurl4", Version: "8.9.0-1"},
			},
		},
		{
			Key:         "git",
			DisplayName: "Git",
			Members: []backend.Record{
				{Manager: "pacman", Name: "git", Version: "2.46.0-1"},
			},
		},
	}
}

func TestBuildJSONReport(t *testing.T) {
	scannedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	report := BuildJSONReport(sampleProjects(), scannedAt, nil)

	if report.TotalProjects != 2 {
		t.Errorf("expected 2 projects, got %d", report.TotalProjects)
	}
	if report.TotalPackages != 3 {
		t.Errorf("expected 3 packages, got %d", report.TotalPackages)
	}
	if report.Projects[0].Key != "curl" || len(report.Projects[0].Packages) != 2 {
		t.Errorf("unexpected first project %+v", report.Projects[0])
	}
}

func TestBuildJSONReportWithEnrichment(t *testing.T) {
	enrichment := map[resolve.ProjectKey]*store.Enrichment{
		"curl": {
			ProjectKey:  "curl",
			Stars:       34000,
			FundingURLs: []string{"https://opencollective.com/curl"},
		},
	}

	report := BuildJSONReport(sampleProjects(), time.Now(), enrichment)

	if report.Projects[0].Stars != 34000 {
		t.Errorf("expected stars from enrichment, got %d", report.Projects[0].Stars)
	}
	if len(report.Projects[0].Funding) != 1 {
		t.Errorf("expected funding urls from enrichment, got %v", report.Projects[0].Funding)
	}
	if len(report.Projects[1].Funding) != 0 {
		t.Errorf("expected no funding for unenriched project, got %v", report.Projects[1].Funding)
	}
}

func TestRenderJSONReportRoundTrips(t *testing.T) {
	report := BuildJSONReport(sampleProjects(), time.Now().UTC(), nil)

	data, err := RenderJSONReport(report)
	if err != nil {
		t.Fatalf("RenderJSONReport failed: %v", err)
	}

	var decoded JSONReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.TotalPackages != report.TotalPackages {
		t.Errorf("round trip lost totals: %d != %d", decoded.TotalPackages, report.TotalPackages)
	}
}

func TestRenderJSONPlan(t *testing.T) {
	plan := &allocate.Plan{
		Budget:   allocate.Budget{Amount: 1000, Currency: "EUR", Cadence: allocate.CadenceYearly},
		Strategy: allocate.StrategyWeighted,
		Entries: []allocate.Entry{
			{Key: "curl", DisplayName: "curl", Amount: 600},
			{Key: "git", DisplayName: "Git", Amount: 400},
		},
	}

	data, err := RenderJSONPlan(plan)
	if err != nil {
		t.Fatalf("RenderJSONPlan failed: %v", err)
	}

	var decoded JSONPlan
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("plan is not valid JSON: %v", err)
	}
	if decoded.Total != 1000 || decoded.Strategy != "weighted" {
		t.Errorf("unexpected decoded plan %+v", decoded)
	}
	if decoded.Entries[0].Formatted != "6.00 EUR" {
		t.Errorf("unexpected formatted amount %q", decoded.Entries[0].Formatted)
	}
}

func TestRenderHTMLReport(t *testing.T) {
	scannedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	report := BuildJSONReport(sampleProjects(), scannedAt, map[resolve.ProjectKey]*store.Enrichment{
		"curl": {FundingURLs: []string{"https://opencollective.com/curl"}},
	})

	html, err := RenderHTMLReport(report)
	if err != nil {
		t.Fatalf("RenderHTMLReport failed: %v", err)
	}

	page := string(html)
	for _, want := range []string{"<!DOCTYPE html>", "curl", "Git", "opencollective.com/curl", "2026-08-30"} {
		if !strings.Contains(page, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
}

func TestRenderHTMLReportEscapes(t *testing.T) {
	projects := []resolve.Project{{
		Key:         "evil",
		DisplayName: "<script>alert(1)</script>",
		Members:     []backend.Record{{Manager: "pacman", Name: "evil", Version: "1.0"}},
	}}

	html, err := RenderHTMLReport(BuildJSONReport(projects, time.Now(), nil))
	if err != nil {
		t.Fatalf("RenderHTMLReport failed: %v", err)
	}
	if strings.Contains(string(html), "<script>alert(1)</script>") {
		t.Error("expected display name to be HTML-escaped")
	}
}

func TestReportCarriesLicenses(t *testing.T) {
	projects := []resolve.Project{
		{
			Key:         "bash",
			DisplayName: "Bash",
			Members: []backend.Record{
				{Manager: "dnf", Name: "bash", Version: "5.2.26-3.fc40", Licenses: []string{"GPL-3.0-or-later"}},
			},
		},
	}

	report := BuildJSONReport(projects, time.Now(), nil)
	pkg := report.Projects[0].Packages[0]
	if len(pkg.Licenses) != 1 || pkg.Licenses[0] != "GPL-3.0-or-later" {
		t.Errorf("expected licenses in JSON report, got %v", pkg.Licenses)
	}

	data, err := RenderJSONReport(report)
	if err != nil {
		t.Fatalf("RenderJSONReport failed: %v", err)
	}
	if !strings.Contains(string(data), `"licenses"`) {
		t.Error("expected licenses field in serialized report")
	}

	html, err := RenderHTMLReport(report)
	if err != nil {
		t.Fatalf("RenderHTMLReport failed: %v", err)
	}
	if !strings.Contains(string(html), "GPL-3.0-or-later") {
		t.Error("expected license rendered in HTML report")
	}
}
