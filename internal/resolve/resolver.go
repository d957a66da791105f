// Package resolve maps raw installed-package records to canonical upstream
// projects.
//
// Resolution is a pure, deterministic, in-memory computation: records are
// deduplicated, mapped through a resolution table (with a package-name
// fallback so the mapping is total), grouped by project, and sorted into a
// reproducible order. No I/O happens here.
package resolve

import (
	"sort"
	"strings"

	"github.com/osfund/osfund/internal/backend"
)

// ProjectKey is the canonical identity of an upstream project. Stable across
// scans and across package managers.
type ProjectKey string

// Project groups the installed packages produced by one upstream project.
// Immutable once constructed; re-derived on every scan.
type Project struct {
	Key         ProjectKey
	DisplayName string
	RepoURL     string
	Members     []backend.Record
}

// Resolver turns raw package records into sorted, grouped projects.
type Resolver struct {
	table *Table
}

// New returns a Resolver using the given resolution table.
func New(table *Table) *Resolver {
	if table == nil {
		table = EmptyTable()
	}
	return &Resolver{table: table}
}

// Resolve maps records to projects.
//
// Duplicate (manager, name) pairs keep the first occurrence; a rescan
// artifact must not double-count a package. Records absent from the table
// fall back to a project keyed by the bare package name, so every record
// ends up in exactly one project. The result is sorted case-insensitively by
// display name, ties broken by project key, and is identical for any
// permutation of the input.
//
// Group metadata never depends on input order: a table entry's display name
// and repo URL always win, and a group built purely from fallback records
// derives both from its members after sorting.
func (r *Resolver) Resolve(records []backend.Record) []Project {
	type dedupeKey struct {
		manager backend.Manager
		name    string
	}
	seen := make(map[dedupeKey]bool, len(records))

	groups := make(map[ProjectKey]*Project)
	fromTable := make(map[ProjectKey]bool)
	for _, rec := range records {
		dk := dedupeKey{manager: rec.Manager, name: rec.Name}
		if seen[dk] {
			continue
		}
		seen[dk] = true

		entry, tabled := r.entryFor(rec)
		group, ok := groups[entry.Key]
		if !ok {
			group = &Project{Key: entry.Key}
			groups[entry.Key] = group
		}
		if tabled && !fromTable[entry.Key] {
			group.DisplayName = entry.DisplayName
			group.RepoURL = entry.RepoURL
			fromTable[entry.Key] = true
		}
		group.Members = append(group.Members, rec)
	}

	projects := make([]Project, 0, len(groups))
	for key, group := range groups {
		sortMembers(group.Members)
		if !fromTable[key] {
			group.DisplayName = group.Members[0].Name
			group.RepoURL = firstHomepage(group.Members)
		}
		projects = append(projects, *group)
	}

	sort.Slice(projects, func(i, j int) bool {
		a := strings.ToLower(projects[i].DisplayName)
		b := strings.ToLower(projects[j].DisplayName)
		if a != b {
			return a < b
		}
		return projects[i].Key < projects[j].Key
	})

	return projects
}

// entryFor looks up a record in the table, falling back to a synthetic entry
// derived from the package name. Resolution never fails. The second return
// reports whether the entry came from the table; fallback metadata is
// provisional and gets replaced with member-derived values after grouping.
func (r *Resolver) entryFor(rec backend.Record) (Entry, bool) {
	if entry, ok := r.table.Lookup(rec.Manager, rec.Name); ok {
		return entry, true
	}
	return Entry{Key: FallbackKey(rec.Name)}, false
}

// FallbackKey derives a project key from a bare package name.
func FallbackKey(packageName string) ProjectKey {
	return ProjectKey(strings.ToLower(packageName))
}

// firstHomepage returns the first non-empty homepage in member order.
// Members are already sorted, so the choice is reproducible.
func firstHomepage(members []backend.Record) string {
	for _, m := range members {
		if m.Homepage != "" {
			return m.Homepage
		}
	}
	return ""
}

// sortMembers orders a project's member records by manager then name, so
// group contents are reproducible regardless of backend merge order.
func sortMembers(members []backend.Record) {
	sort.Slice(members, func(i, j int) bool {
		if members[i].Manager != members[j].Manager {
			return members[i].Manager < members[j].Manager
		}
		return members[i].Name < members[j].Name
	})
}
