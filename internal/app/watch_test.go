package app

import (
	"testing"
)

func TestWatchCommandFlags(t *testing.T) {
	for _, flag := range []string{"daemon", "daemon-child", "stop", "status", "pid-file", "log-file"} {
		if watchCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag to be registered", flag)
		}
	}
}

func TestWatchDaemonChildFlagHidden(t *testing.T) {
	f := watchCmd.Flags().Lookup("daemon-child")
	if f == nil {
		t.Fatal("expected --daemon-child flag to be registered")
	}
	if !f.Hidden {
		t.Error("expected --daemon-child flag to be hidden")
	}
}

func TestStopWatchDaemonWhenNotRunning(t *testing.T) {
	origPID := watchPIDFile
	defer func() { watchPIDFile = origPID }()
	watchPIDFile = t.TempDir() + "/watch.pid"

	// No PID file means no daemon; stopping must be a no-op, not an error.
	if err := stopWatchDaemon(); err != nil {
		t.Errorf("stopWatchDaemon() error = %v", err)
	}
}

func TestReportWatchStatusWhenNotRunning(t *testing.T) {
	origPID := watchPIDFile
	defer func() { watchPIDFile = origPID }()
	watchPIDFile = t.TempDir() + "/watch.pid"

	if err := reportWatchStatus(); err != nil {
		t.Errorf("reportWatchStatus() error = %v", err)
	}
}
