package backend

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// rpmQueryFormat pulls one tab-separated line per installed package out of
// the RPM database. RPM prints the literal string "(none)" for unset tags.
const rpmQueryFormat = "%{NAME}\t%{VERSION}-%{RELEASE}\t%{SUMMARY}\t%{URL}\t%{LICENSE}\n"

// Dnf enumerates packages on dnf/rpm hosts (Fedora, RHEL, and derivatives)
// by querying the RPM database through `rpm -qa`. Querying via the rpm
// binary avoids linking against librpm.
type Dnf struct {
	binary string
	dbPath string
}

// NewDnf returns a Dnf backend using the rpm binary on PATH and the system
// RPM database.
func NewDnf() *Dnf {
	return &Dnf{binary: "rpm", dbPath: "/var/lib/rpm"}
}

// NewDnfAt returns a Dnf backend checking the given RPM database path.
func NewDnfAt(dbPath string) *Dnf {
	return &Dnf{binary: "rpm", dbPath: dbPath}
}

func (d *Dnf) Name() Manager { return ManagerDnf }

// DBPath returns the RPM database directory this backend reads.
func (d *Dnf) DBPath() string { return d.dbPath }

// Available requires both the rpm binary and an RPM database: Debian hosts
// can carry an rpm binary with no database behind it.
func (d *Dnf) Available() bool {
	if _, err := exec.LookPath(d.binary); err != nil {
		return false
	}
	_, err := os.Stat(d.dbPath)
	return err == nil
}

func (d *Dnf) ListInstalled() ([]Record, error) {
	cmd := exec.Command(d.binary, "-qa", "--queryformat", rpmQueryFormat)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: rpm -qa failed: %s", ErrUnavailable, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: rpm -qa failed: %v", ErrUnavailable, err)
	}
	return parseRpmList(string(output)), nil
}

// parseRpmList parses tab-separated `rpm -qa --queryformat` output. Columns
// are name, version-release, summary, URL, license; "(none)" marks an unset
// tag and is treated as empty.
func parseRpmList(output string) []Record {
	var records []Record

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		rec := Record{
			Manager: ManagerDnf,
			Name:    strings.TrimSpace(fields[0]),
		}
		if rec.Name == "" {
			continue
		}
		if len(fields) > 1 {
			rec.Version = rpmField(fields[1])
		}
		if len(fields) > 2 {
			rec.Description = rpmField(fields[2])
		}
		if len(fields) > 3 {
			rec.Homepage = rpmField(fields[3])
		}
		if len(fields) > 4 {
			if license := rpmField(fields[4]); license != "" {
				rec.Licenses = []string{license}
			}
		}
		records = append(records, rec)
	}
	return records
}

func rpmField(s string) string {
	s = strings.TrimSpace(s)
	if s == "(none)" {
		return ""
	}
	return s
}
