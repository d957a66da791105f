package backend

import (
	"fmt"
	"os/exec"
	"strings"
)

// Flatpak enumerates user-facing applications via `flatpak list --app`.
// Runtimes are excluded: they are implementation detail, not software the
// user chose to install.
type Flatpak struct {
	binary string
}

// NewFlatpak returns a Flatpak backend using the flatpak binary on PATH.
func NewFlatpak() *Flatpak {
	return &Flatpak{binary: "flatpak"}
}

func (f *Flatpak) Name() Manager { return ManagerFlatpak }

func (f *Flatpak) Available() bool {
	_, err := exec.LookPath(f.binary)
	return err == nil
}

func (f *Flatpak) ListInstalled() ([]Record, error) {
	cmd := exec.Command(f.binary, "list", "--app", "--columns=application,version,description")
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: flatpak list failed: %s", ErrUnavailable, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: flatpak list failed: %v", ErrUnavailable, err)
	}
	return parseFlatpakList(string(output)), nil
}

// parseFlatpakList parses tab-separated `flatpak list` output. Columns are
// application ID, version, description; version and description may be empty.
func parseFlatpakList(output string) []Record {
	var records []Record

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		rec := Record{
			Manager: ManagerFlatpak,
			Name:    strings.TrimSpace(fields[0]),
		}
		if rec.Name == "" {
			continue
		}
		if len(fields) > 1 {
			rec.Version = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			rec.Description = strings.TrimSpace(fields[2])
		}
		records = append(records, rec)
	}
	return records
}
