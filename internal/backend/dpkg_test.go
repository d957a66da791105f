package backend

import (
	"os"
	"path/filepath"
	"testing"
)

const dpkgStatusSample = `Package: curl
Status: install ok installed
Priority: optional
Section: web
Version: 8.9.0-1
Description: command line tool for transferring data with URL syntax
 curl is a client to get documents/files from or send documents to a
 server, using any of the supported protocols.
Homepage: https://curl.se/

Package: removed-thing
Status: deinstall ok config-files
Version: 1.0-1
Description: a package that was removed but not purged

Package: git
Status: install ok installed
Version: 1:2.46.0-1
Description: fast, scalable, distributed revision control system
Homepage: https://git-scm.com/
`

func TestParseDpkgStatus(t *testing.T) {
	records := parseDpkgStatus(dpkgStatusSample)

	if len(records) != 2 {
		t.Fatalf("expected 2 installed records, got %d", len(records))
	}

	curl := records[0]
	if curl.Manager != ManagerDpkg {
		t.Errorf("expected manager dpkg, got %s", curl.Manager)
	}
	if curl.Name != "curl" || curl.Version != "8.9.0-1" {
		t.Errorf("unexpected record %+v", curl)
	}
	if curl.Homepage != "https://curl.se/" {
		t.Errorf("unexpected homepage %q", curl.Homepage)
	}
	if curl.Description != "command line tool for transferring data with URL syntax" {
		t.Errorf("unexpected description %q", curl.Description)
	}

	git := records[1]
	if git.Name != "git" || git.Version != "1:2.46.0-1" {
		t.Errorf("unexpected record %+v", git)
	}
}

func TestParseDpkgStatusSkipsRemoved(t *testing.T) {
	records := parseDpkgStatus(dpkgStatusSample)
	for _, rec := range records {
		if rec.Name == "removed-thing" {
			t.Error("expected removed-but-not-purged package to be skipped")
		}
	}
}

func TestParseDpkgStatusEmpty(t *testing.T) {
	if records := parseDpkgStatus(""); len(records) != 0 {
		t.Errorf("expected no records from empty input, got %d", len(records))
	}
}

func TestParseDpkgParagraphContinuationLines(t *testing.T) {
	paragraph := `Package: tzdata
Status: install ok installed
Version: 2024a-1
Description: time zone and daylight-saving time data
 This package contains data required for the implementation of
 standard local time for many representative locations.`

	rec, ok := parseDpkgParagraph(paragraph)
	if !ok {
		t.Fatal("expected paragraph to parse as installed")
	}
	if rec.Description != "time zone and daylight-saving time data" {
		t.Errorf("continuation lines leaked into description: %q", rec.Description)
	}
}

func TestDpkgListInstalled(t *testing.T) {
	statusPath := filepath.Join(t.TempDir(), "status")
	if err := os.WriteFile(statusPath, []byte(dpkgStatusSample), 0644); err != nil {
		t.Fatalf("failed to write status file: %v", err)
	}

	d := NewDpkgAt(statusPath)
	if !d.Available() {
		t.Error("expected Available to be true")
	}

	records, err := d.ListInstalled()
	if err != nil {
		t.Fatalf("ListInstalled failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestDpkgMissingStatusIsEmpty(t *testing.T) {
	d := NewDpkgAt(filepath.Join(t.TempDir(), "status"))

	if d.Available() {
		t.Error("expected Available to be false")
	}

	records, err := d.ListInstalled()
	if err != nil {
		t.Fatalf("expected nil error for missing status file, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
