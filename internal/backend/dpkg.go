package backend

import (
	"fmt"
	"os"
	"strings"
)

// defaultDpkgStatusPath is the dpkg status database: a single file of
// RFC 822-style paragraphs, one per package.
const defaultDpkgStatusPath = "/var/lib/dpkg/status"

// Dpkg reads the dpkg status file directly, covering apt-installed packages.
type Dpkg struct {
	statusPath string
}

// NewDpkg returns a Dpkg backend reading the system status file.
func NewDpkg() *Dpkg {
	return &Dpkg{statusPath: defaultDpkgStatusPath}
}

// NewDpkgAt returns a Dpkg backend reading the status file at path.
func NewDpkgAt(path string) *Dpkg {
	return &Dpkg{statusPath: path}
}

func (d *Dpkg) Name() Manager { return ManagerDpkg }

func (d *Dpkg) Available() bool {
	info, err := os.Stat(d.statusPath)
	return err == nil && info.Mode().IsRegular()
}

// StatusPath returns the status file this backend reads.
func (d *Dpkg) StatusPath() string { return d.statusPath }

func (d *Dpkg) ListInstalled() ([]Record, error) {
	content, err := os.ReadFile(d.statusPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, d.statusPath, err)
	}
	return parseDpkgStatus(string(content)), nil
}

// parseDpkgStatus parses the dpkg status file. Paragraphs are separated by
// blank lines; packages whose Status field does not end in "installed" are
// skipped (removed-but-not-purged leftovers).
func parseDpkgStatus(content string) []Record {
	var records []Record

	for _, paragraph := range strings.Split(content, "\n\n") {
		rec, ok := parseDpkgParagraph(paragraph)
		if ok {
			records = append(records, rec)
		}
	}
	return records
}

func parseDpkgParagraph(paragraph string) (Record, bool) {
	rec := Record{Manager: ManagerDpkg}
	installed := false

	for _, line := range strings.Split(paragraph, "\n") {
		// Continuation lines (long descriptions) start with a space.
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "Package":
			rec.Name = value
		case "Version":
			rec.Version = value
		case "Status":
			installed = strings.HasSuffix(value, " installed")
		case "Description":
			rec.Description = value
		case "Homepage":
			rec.Homepage = value
		}
	}

	if !installed || rec.Name == "" {
		return Record{}, false
	}
	return rec, true
}
