package store

import "time"

// ScanInfo describes one persisted scan.
type ScanInfo struct {
	ID           int64
	CreatedAt    time.Time
	PackageCount int
	// Backends that contributed records, comma-separated manager names.
	Backends string
}

// PlanSummary describes one saved allocation plan.
type PlanSummary struct {
	ID           string
	CreatedAt    time.Time
	Strategy     string
	Cadence      string
	Currency     string
	BudgetAmount int64
	MinAmount    int64
	EntryCount   int
}

// Enrichment is cached network-fetched metadata for one project.
type Enrichment struct {
	ProjectKey  string
	RepoURL     string
	Description string
	Stars       int64
	FundingURLs []string
	FetchedAt   time.Time
}
