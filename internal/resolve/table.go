package resolve

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/osfund/osfund/internal/backend"
)

//go:embed table.yaml
var builtinTableYAML []byte

// Entry is one resolution table hit: the canonical project a package
// belongs to.
type Entry struct {
	Key         ProjectKey
	DisplayName string
	RepoURL     string
}

// Table maps (manager, package name) pairs to canonical upstream projects.
// It is pure data, injected into the Resolver at construction, so corrected
// mappings or new package managers never touch the resolution algorithm.
type Table struct {
	entries map[tableKey]Entry
}

type tableKey struct {
	manager backend.Manager
	name    string
}

// tableDoc is the YAML shape of a resolution table: project-centric, with
// each project listing the packages that belong to it.
type tableDoc struct {
	Projects []struct {
		Key         string `yaml:"key"`
		DisplayName string `yaml:"display_name"`
		Repo        string `yaml:"repo"`
		Packages    []struct {
			Manager string `yaml:"manager"`
			Name    string `yaml:"name"`
		} `yaml:"packages"`
	} `yaml:"projects"`
}

// ParseTable parses a YAML resolution table document.
func ParseTable(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse resolution table: %w", err)
	}

	t := &Table{entries: make(map[tableKey]Entry)}
	for _, p := range doc.Projects {
		if p.Key == "" {
			return nil, fmt.Errorf("resolution table project with empty key (display name %q)", p.DisplayName)
		}
		display := p.DisplayName
		if display == "" {
			display = p.Key
		}
		entry := Entry{Key: ProjectKey(p.Key), DisplayName: display, RepoURL: p.Repo}

		for _, pkg := range p.Packages {
			if pkg.Manager == "" || pkg.Name == "" {
				return nil, fmt.Errorf("resolution table project %q has a package with empty manager or name", p.Key)
			}
			k := tableKey{manager: backend.Manager(pkg.Manager), name: pkg.Name}
			if existing, dup := t.entries[k]; dup {
				return nil, fmt.Errorf("package (%s, %s) mapped to both %q and %q", pkg.Manager, pkg.Name, existing.Key, p.Key)
			}
			t.entries[k] = entry
		}
	}
	return t, nil
}

// BuiltinTable returns the resolution table shipped with the binary.
func BuiltinTable() *Table {
	t, err := ParseTable(builtinTableYAML)
	if err != nil {
		// The embedded table is validated by tests; a parse failure here is
		// a build defect, not a runtime condition.
		panic(fmt.Sprintf("builtin resolution table is invalid: %v", err))
	}
	return t
}

// EmptyTable returns a table with no mappings. Every record resolves through
// the package-name fallback.
func EmptyTable() *Table {
	return &Table{entries: make(map[tableKey]Entry)}
}

// Lookup returns the table entry for a (manager, name) pair.
func (t *Table) Lookup(manager backend.Manager, name string) (Entry, bool) {
	entry, ok := t.entries[tableKey{manager: manager, name: name}]
	return entry, ok
}

// Len returns the number of (manager, name) mappings in the table.
func (t *Table) Len() int {
	return len(t.entries)
}
