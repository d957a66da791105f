// Package backend enumerates software installed through OS package managers.
//
// Each supported package manager is represented by a Backend implementation.
// Backends are strictly read-only: they read the manager's local database (or
// run its query command) and never modify system state, and none of them
// requires elevated privileges. Detect returns the subset of backends whose
// package manager is actually present on the current host.
package backend

import (
	"errors"
	"fmt"
	"sync"
)

// Manager identifies the package manager a record came from.
type Manager string

const (
	ManagerPacman  Manager = "pacman"
	ManagerDpkg    Manager = "dpkg"
	ManagerDnf     Manager = "dnf"
	ManagerFlatpak Manager = "flatpak"
	ManagerSnap    Manager = "snap"
)

// ErrUnavailable indicates a package database that exists but cannot be read
// (permissions, corruption, a failing query command). A missing database is
// not ErrUnavailable: backends report that as an empty result instead.
var ErrUnavailable = errors.New("package database unavailable")

// Record is one installed package as observed by a backend.
//
// Name is the raw name reported by the package manager, unique within that
// manager's namespace for a single scan. Version is informational only; its
// format is manager-specific and comparisons across managers are meaningless.
type Record struct {
	Manager     Manager
	Name        string
	Version     string
	Description string
	Homepage    string
	Licenses    []string
}

// Backend is the capability interface implemented once per package manager.
type Backend interface {
	// Name returns the stable identifier for this backend. It is used as a
	// key in reports and storage and must not change between releases.
	Name() Manager

	// Available reports whether this package manager is present on the
	// current host. It must be cheap: a path existence check, nothing more.
	Available() bool

	// ListInstalled enumerates every package currently installed by this
	// manager. A missing database yields an empty slice and a nil error; a
	// database that exists but cannot be read yields an error wrapping
	// ErrUnavailable.
	ListInstalled() ([]Record, error)
}

// All returns every known backend with its default configuration.
func All() []Backend {
	return []Backend{
		NewPacman(),
		NewDpkg(),
		NewDnf(),
		NewFlatpak(),
		NewSnap(),
	}
}

// Detect filters backends down to the ones available on this host. Passing a
// non-empty enabled list restricts detection to those manager names; an empty
// list means every known backend is a candidate.
func Detect(enabled []string) []Backend {
	allowed := make(map[Manager]bool, len(enabled))
	for _, name := range enabled {
		allowed[Manager(name)] = true
	}

	var active []Backend
	for _, b := range All() {
		if len(allowed) > 0 && !allowed[b.Name()] {
			continue
		}
		if b.Available() {
			active = append(active, b)
		}
	}
	return active
}

// Warning records a backend that failed during a scan.
type Warning struct {
	Manager Manager
	Err     error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Manager, w.Err)
}

// ScanResult is the concatenated output of a multi-backend scan.
type ScanResult struct {
	Records  []Record
	Warnings []Warning
}

// Scan runs every backend concurrently and concatenates their output. Each
// backend is independent and read-only, so they run on their own goroutines
// with no shared state beyond the result collector. A failing backend becomes
// a Warning; the scan proceeds with whatever the others produced. Record
// order in the result is unspecified — callers re-sort during resolution.
func Scan(backends []Backend) ScanResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result ScanResult
	)

	for _, b := range backends {
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			records, err := b.ListInstalled()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{Manager: b.Name(), Err: err})
				return
			}
			result.Records = append(result.Records, records...)
		}(b)
	}

	wg.Wait()
	return result
}
