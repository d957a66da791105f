package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultPacmanDBPath is the pacman local database: one directory per
// installed package, each containing a "desc" metadata file.
const defaultPacmanDBPath = "/var/lib/pacman/local"

// Pacman reads the pacman local database directly, without invoking pacman.
type Pacman struct {
	dbPath string
}

// NewPacman returns a Pacman backend reading the system database.
func NewPacman() *Pacman {
	return &Pacman{dbPath: defaultPacmanDBPath}
}

// NewPacmanAt returns a Pacman backend reading the database at path. Used by
// tests and by hosts with a relocated pacman root.
func NewPacmanAt(path string) *Pacman {
	return &Pacman{dbPath: path}
}

func (p *Pacman) Name() Manager { return ManagerPacman }

func (p *Pacman) Available() bool {
	info, err := os.Stat(p.dbPath)
	return err == nil && info.IsDir()
}

// DBPath returns the database directory this backend reads.
func (p *Pacman) DBPath() string { return p.dbPath }

func (p *Pacman) ListInstalled() ([]Record, error) {
	entries, err := os.ReadDir(p.dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, p.dbPath, err)
	}

	var records []Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		descPath := filepath.Join(p.dbPath, entry.Name(), "desc")
		content, err := os.ReadFile(descPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue // not a package directory
			}
			return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, descPath, err)
		}

		rec, err := parsePacmanDesc(string(content))
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrUnavailable, descPath, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// parsePacmanDesc parses a pacman desc file: %FIELD% headers followed by
// value lines, stanzas separated by blank lines.
func parsePacmanDesc(content string) (Record, error) {
	rec := Record{Manager: ManagerPacman}

	var field string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			field = line
			continue
		}
		if line == "" {
			field = ""
			continue
		}

		switch field {
		case "%NAME%":
			rec.Name = line
		case "%VERSION%":
			rec.Version = line
		case "%DESC%":
			if rec.Description == "" {
				rec.Description = line
			}
		case "%URL%":
			rec.Homepage = line
		case "%LICENSE%":
			rec.Licenses = append(rec.Licenses, line)
		}
	}

	if rec.Name == "" {
		return Record{}, fmt.Errorf("missing %%NAME%% field")
	}
	if rec.Version == "" {
		return Record{}, fmt.Errorf("missing %%VERSION%% field")
	}
	return rec, nil
}
