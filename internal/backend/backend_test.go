package backend

import (
	"errors"
	"fmt"
	"testing"
)

// fakeBackend is a test double implementing Backend.
type fakeBackend struct {
	name      Manager
	available bool
	records   []Record
	err       error
}

func (f *fakeBackend) Name() Manager                   { return f.name }
func (f *fakeBackend) Available() bool                 { return f.available }
func (f *fakeBackend) ListInstalled() ([]Record, error) { return f.records, f.err }

func TestScanConcatenatesBackends(t *testing.T) {
	backends := []Backend{
		&fakeBackend{name: "alpha", records: []Record{
			{Manager: "alpha", Name: "curl", Version: "1.0"},
			{Manager: "alpha", Name: "git", Version: "2.0"},
		}},
		&fakeBackend{name: "beta", records: []Record{
			{Manager: "beta", Name: "vim", Version: "9.1"},
		}},
	}

	result := Scan(backends)
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}
	if len(result.Records) != 3 {
		t.Errorf("expected 3 records, got %d", len(result.Records))
	}
}

func TestScanPartialFailure(t *testing.T) {
	boom := fmt.Errorf("%w: permission denied", ErrUnavailable)
	backends := []Backend{
		&fakeBackend{name: "working", records: []Record{
			{Manager: "working", Name: "curl", Version: "1.0"},
		}},
		&fakeBackend{name: "broken", err: boom},
	}

	result := Scan(backends)

	if len(result.Records) != 1 {
		t.Errorf("expected the working backend's records, got %d", len(result.Records))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	if result.Warnings[0].Manager != "broken" {
		t.Errorf("expected warning from broken backend, got %s", result.Warnings[0].Manager)
	}
	if !errors.Is(result.Warnings[0].Err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable in warning, got %v", result.Warnings[0].Err)
	}
}

func TestScanNoBackends(t *testing.T) {
	result := Scan(nil)
	if len(result.Records) != 0 || len(result.Warnings) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestDetectHonorsEnabledList(t *testing.T) {
	// Detect against the real host: we cannot assume any manager is
	// installed, but an enabled list naming no known manager must always
	// yield nothing.
	if active := Detect([]string{"not-a-manager"}); len(active) != 0 {
		t.Errorf("expected no backends for unknown manager name, got %d", len(active))
	}
}
