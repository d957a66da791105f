package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/osfund/osfund/internal/backend"
	"github.com/osfund/osfund/internal/config"
	"github.com/osfund/osfund/internal/output"
	"github.com/osfund/osfund/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchStop        bool
	watchStatus      bool
	watchPIDFile     string
	watchLogFile     string

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Rescan automatically when package databases change",
		Long: `Watch the package manager databases and rescan whenever they change.

The watcher listens for filesystem events on the pacman local database,
the dpkg status file, and the RPM database. An install, upgrade, or
removal triggers a rescan a few seconds later, so reports and plans
always reflect what is actually installed. Exec-backed managers (flatpak, snap) are re-queried as part of
every triggered rescan.

Watch modes:
  • Foreground (default): run in the current terminal, Ctrl+C to stop
  • Daemon: run as a detached background process
  • Stop: stop a running daemon
  • Status: report whether the daemon is running`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  osfund watch

  # Run as background daemon
  osfund watch --daemon

  # Stop the daemon
  osfund watch --stop

  # Check whether the daemon is running
  osfund watch --status`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")
	watchCmd.Flags().BoolVar(&watchStatus, "status", false, "report daemon status")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.local/share/osfund/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.local/share/osfund/watch.log)")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}

	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}

	if watchStop {
		return stopWatchDaemon()
	}
	if watchStatus {
		return reportWatchStatus()
	}

	// Starting the daemon parent only forks; no watcher or database needed.
	if watchDaemon {
		return startWatchDaemon()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	backends := backend.Detect(cfg.Scan.Backends)
	if len(backends) == 0 {
		return fmt.Errorf("no supported package managers found on this host")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := watcher.New(db, backends)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if watchDaemonChild {
		// Runs detached; stdout/stderr already point at the log file.
		return w.RunDaemon(watchPIDFile)
	}

	return runWatchForeground(w)
}

func stopWatchDaemon() error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon...")
	if err := watcher.StopDaemon(watchPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon stopped")

	return nil
}

func reportWatchStatus() error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		fmt.Println("Daemon is running")
		fmt.Printf("  PID file: %s\n", watchPIDFile)
		fmt.Printf("  Log file: %s\n", watchLogFile)
	} else {
		fmt.Println("Daemon is not running")
		fmt.Println("Start it with: osfund watch --daemon")
	}
	return nil
}

func startWatchDaemon() error {
	spinner := output.NewSpinner("Starting daemon...")
	if err := watcher.StartDaemon(watchPIDFile, watchLogFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon started")

	fmt.Printf("\nPackage database watcher started\n")
	fmt.Printf("  PID file: %s\n", watchPIDFile)
	fmt.Printf("  Log file: %s\n", watchLogFile)
	fmt.Printf("\nTo stop: osfund watch --stop\n")

	return nil
}

func runWatchForeground(w *watcher.Watcher) error {
	fmt.Println("Watching package databases (press Ctrl+C to stop)...")
	fmt.Println()

	spinner := output.NewSpinner("Starting watcher...")
	if err := w.Start(); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	spinner.StopWithMessage("✓ Watcher started")

	fmt.Println()
	fmt.Println("A rescan runs a few seconds after each package database change.")
	fmt.Println("Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println()
	fmt.Println("Stopping watcher...")
	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	fmt.Println("✓ Watcher stopped")

	return nil
}
