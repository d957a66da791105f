package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osfund/osfund/internal/allocate"
	"github.com/osfund/osfund/internal/backend"
	"github.com/osfund/osfund/internal/resolve"
)

// Scan operations

// InsertScan persists a scan's records and returns the new scan ID.
func (s *Store) InsertScan(records []backend.Record, createdAt time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	managers := make(map[backend.Manager]bool)
	for _, rec := range records {
		managers[rec.Manager] = true
	}
	var names []string
	for m := range managers {
		names = append(names, string(m))
	}
	// Stable order for the backends column.
	sort.Strings(names)

	result, err := tx.Exec(
		`INSERT INTO scans (created_at, package_count, backends) VALUES (?, ?, ?)`,
		createdAt.UTC().Format(time.RFC3339),
		len(records),
		strings.Join(names, ","),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}
	scanID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO scan_packages
		(scan_id, manager, name, version, description, homepage, licenses)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare package insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		licensesJSON, err := json.Marshal(rec.Licenses)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal licenses for %s: %w", rec.Name, err)
		}
		if _, err := stmt.Exec(scanID, string(rec.Manager), rec.Name, rec.Version, rec.Description, rec.Homepage, string(licensesJSON)); err != nil {
			return 0, fmt.Errorf("failed to insert package %s: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}
	return scanID, nil
}

// LatestScan returns the most recent scan and its records, or (nil, nil, nil)
// when no scan has been stored yet.
func (s *Store) LatestScan() (*ScanInfo, []backend.Record, error) {
	info := &ScanInfo{}
	var createdAt string

	err := s.db.QueryRow(`
		SELECT id, created_at, package_count, backends
		FROM scans ORDER BY id DESC LIMIT 1
	`).Scan(&info.ID, &createdAt, &info.PackageCount, &info.Backends)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query latest scan: %w", err)
	}

	if info.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, nil, fmt.Errorf("failed to parse scan timestamp: %w", err)
	}

	records, err := s.scanRecords(info.ID)
	if err != nil {
		return nil, nil, err
	}
	return info, records, nil
}

func (s *Store) scanRecords(scanID int64) ([]backend.Record, error) {
	rows, err := s.db.Query(`
		SELECT manager, name, version, description, homepage, licenses
		FROM scan_packages WHERE scan_id = ?
		ORDER BY manager, name
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan packages: %w", err)
	}
	defer rows.Close()

	var records []backend.Record
	for rows.Next() {
		var rec backend.Record
		var manager, licensesJSON string
		if err := rows.Scan(&manager, &rec.Name, &rec.Version, &rec.Description, &rec.Homepage, &licensesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan package row: %w", err)
		}
		rec.Manager = backend.Manager(manager)
		if licensesJSON != "" {
			if err := json.Unmarshal([]byte(licensesJSON), &rec.Licenses); err != nil {
				return nil, fmt.Errorf("failed to unmarshal licenses for %s: %w", rec.Name, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PruneScans deletes all but the most recent keep scans.
func (s *Store) PruneScans(keep int) error {
	_, err := s.db.Exec(`
		DELETE FROM scans WHERE id NOT IN (
			SELECT id FROM scans ORDER BY id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune scans: %w", err)
	}
	return nil
}

// Plan operations

// SavePlan persists an allocation plan and returns its generated ID.
func (s *Store) SavePlan(plan *allocate.Plan, createdAt time.Time) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO plans (id, created_at, strategy, cadence, currency, budget_amount, min_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		createdAt.UTC().Format(time.RFC3339),
		string(plan.Strategy),
		string(plan.Budget.Cadence),
		plan.Budget.Currency,
		plan.Budget.Amount,
		plan.MinAmount,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert plan: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO plan_entries (plan_id, position, project_key, display_name, amount)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range plan.Entries {
		if _, err := stmt.Exec(id, i, string(entry.Key), entry.DisplayName, entry.Amount); err != nil {
			return "", fmt.Errorf("failed to insert plan entry %s: %w", entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit plan: %w", err)
	}
	return id, nil
}

// ListPlans returns saved plans, newest first.
func (s *Store) ListPlans() ([]PlanSummary, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.created_at, p.strategy, p.cadence, p.currency, p.budget_amount, p.min_amount,
		       (SELECT COUNT(*) FROM plan_entries e WHERE e.plan_id = p.id)
		FROM plans p ORDER BY p.created_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []PlanSummary
	for rows.Next() {
		var summary PlanSummary
		var createdAt string
		if err := rows.Scan(&summary.ID, &createdAt, &summary.Strategy, &summary.Cadence,
			&summary.Currency, &summary.BudgetAmount, &summary.MinAmount, &summary.EntryCount); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		if summary.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse plan timestamp: %w", err)
		}
		plans = append(plans, summary)
	}
	return plans, rows.Err()
}

// GetPlanEntries returns a saved plan's entries in allocation order.
func (s *Store) GetPlanEntries(planID string) ([]allocate.Entry, error) {
	rows, err := s.db.Query(`
		SELECT project_key, display_name, amount
		FROM plan_entries WHERE plan_id = ? ORDER BY position
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan entries: %w", err)
	}
	defer rows.Close()

	var entries []allocate.Entry
	for rows.Next() {
		var entry allocate.Entry
		var key string
		if err := rows.Scan(&key, &entry.DisplayName, &entry.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entry.Key = resolve.ProjectKey(key)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Enrichment cache operations

// PutEnrichment inserts or replaces cached metadata for a project.
func (s *Store) PutEnrichment(e *Enrichment) error {
	fundingJSON, err := json.Marshal(e.FundingURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal funding urls: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO enrichment
		(project_key, repo_url, description, stars, funding_urls, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ProjectKey, e.RepoURL, e.Description, e.Stars, string(fundingJSON), e.FetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert enrichment for %s: %w", e.ProjectKey, err)
	}
	return nil
}

// GetEnrichment returns cached metadata for a project, or nil when absent.
func (s *Store) GetEnrichment(projectKey string) (*Enrichment, error) {
	e := &Enrichment{}
	var fundingJSON, fetchedAt string

	err := s.db.QueryRow(`
		SELECT project_key, repo_url, description, stars, funding_urls, fetched_at
		FROM enrichment WHERE project_key = ?
	`, projectKey).Scan(&e.ProjectKey, &e.RepoURL, &e.Description, &e.Stars, &fundingJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query enrichment for %s: %w", projectKey, err)
	}

	if fundingJSON != "" {
		if err := json.Unmarshal([]byte(fundingJSON), &e.FundingURLs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal funding urls for %s: %w", projectKey, err)
		}
	}
	if e.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment timestamp: %w", err)
	}
	return e, nil
}
