// Package watcher keeps the scan database in sync with the system by
// watching package-manager databases for changes and rescanning when they
// settle.
package watcher

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/osfund/osfund/internal/backend"
	"github.com/osfund/osfund/internal/resolve"
	"github.com/osfund/osfund/internal/store"
)

// debounceInterval is how long the watcher waits after the last filesystem
// event before rescanning. Package upgrades touch the database many times in
// a burst; one rescan at the end covers all of them.
const debounceInterval = 5 * time.Second

// keepScans bounds scan history growth while the daemon runs long-term.
const keepScans = 20

// Watcher rescans installed packages whenever a watched package database
// changes on disk.
type Watcher struct {
	store    *store.Store
	backends []backend.Backend
	resolver *resolve.Resolver

	fs     *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher over the given backends' database paths.
func New(st *store.Store, backends []backend.Backend) (*Watcher, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no backends to watch")
	}
	return &Watcher{
		store:    st,
		backends: backends,
		resolver: resolve.New(resolve.BuiltinTable()),
		stopCh:   make(chan struct{}),
	}, nil
}

// watchPaths returns the filesystem locations whose modification implies an
// install, upgrade, or removal for one of the watched backends. Exec-backed
// managers (flatpak, snap) have no stable database path to watch and are
// still covered by the rescan a file-backed manager triggers.
func (w *Watcher) watchPaths() []string {
	var paths []string
	for _, b := range w.backends {
		switch bk := b.(type) {
		case *backend.Pacman:
			paths = append(paths, bk.DBPath())
		case *backend.Dpkg:
			paths = append(paths, bk.StatusPath())
		case *backend.Dnf:
			paths = append(paths, bk.DBPath())
		}
	}
	return paths
}

// Start begins watching and runs an initial rescan so the database reflects
// the current system state before the first event arrives.
func (w *Watcher) Start() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	w.fs = fs

	watched := 0
	for _, path := range w.watchPaths() {
		if err := fs.Add(path); err != nil {
			fmt.Fprintf(os.Stderr, "watcher: cannot watch %s: %v\n", path, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		fs.Close()
		return fmt.Errorf("no package database paths could be watched")
	}

	if err := w.rescan(); err != nil {
		fmt.Fprintf(os.Stderr, "watcher: initial scan: %v\n", err)
	}

	w.wg.Add(1)
	go w.run()
	return nil
}

// run is the event loop: collect events, debounce, rescan.
func (w *Watcher) run() {
	defer w.wg.Done()

	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceInterval)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(debounceInterval)
			}
			debounceC = debounce.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: filesystem error: %v\n", err)

		case <-debounceC:
			debounceC = nil
			if err := w.rescan(); err != nil {
				fmt.Fprintf(os.Stderr, "watcher: rescan: %v\n", err)
			}

		case <-w.stopCh:
			return
		}
	}
}

// rescan runs all watched backends and persists a fresh scan.
func (w *Watcher) rescan() error {
	result := backend.Scan(w.backends)
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "watcher: backend %s\n", warning)
	}

	if _, err := w.store.InsertScan(result.Records, time.Now()); err != nil {
		return err
	}
	if err := w.store.PruneScans(keepScans); err != nil {
		return err
	}

	projects := w.resolver.Resolve(result.Records)
	fmt.Fprintf(os.Stderr, "watcher: rescanned %d packages (%d projects)\n", len(result.Records), len(projects))
	return nil
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	if w.fs != nil {
		w.fs.Close()
	}
	w.wg.Wait()
	return nil
}
