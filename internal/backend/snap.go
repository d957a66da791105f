package backend

import (
	"fmt"
	"os/exec"
	"strings"
)

// Snap enumerates installed snaps via `snap list`.
type Snap struct {
	binary string
}

// NewSnap returns a Snap backend using the snap binary on PATH.
func NewSnap() *Snap {
	return &Snap{binary: "snap"}
}

func (s *Snap) Name() Manager { return ManagerSnap }

func (s *Snap) Available() bool {
	_, err := exec.LookPath(s.binary)
	return err == nil
}

func (s *Snap) ListInstalled() ([]Record, error) {
	cmd := exec.Command(s.binary, "list")
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: snap list failed: %s", ErrUnavailable, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: snap list failed: %v", ErrUnavailable, err)
	}
	return parseSnapList(string(output)), nil
}

// parseSnapList parses whitespace-aligned `snap list` output. The first line
// is a header (Name Version Rev Tracking Publisher Notes); core snaps like
// bare/core22/snapd are plumbing, not user software, and are skipped.
func parseSnapList(output string) []Record {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 2 {
		return nil
	}

	var records []Record
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		if isSnapPlumbing(name) {
			continue
		}
		records = append(records, Record{
			Manager: ManagerSnap,
			Name:    name,
			Version: fields[1],
		})
	}
	return records
}

func isSnapPlumbing(name string) bool {
	if name == "bare" || name == "snapd" {
		return true
	}
	if strings.HasPrefix(name, "core") {
		rest := name[len("core"):]
		if rest == "" {
			return true
		}
		for _, r := range rest {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return strings.HasPrefix(name, "gtk-common-themes") || strings.HasPrefix(name, "gnome-")
}
