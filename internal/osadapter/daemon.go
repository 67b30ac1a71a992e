// Package osadapter implements the OS-facing edge of the window manager
// (spec §4.4): the Adapter interface that issues window/monitor commands,
// the EventSource interface that reports window lifecycle and topology
// events, and the daemon lifecycle helpers (PID file, state file, signals)
// the cmd/tilewmd entrypoint uses to run as a background process.
package osadapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// DaemonState is the persisted record of a running daemon instance.
type DaemonState struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	Version   string    `json:"version"`
}

// DaemonManager handles PID file, state file, and signal-based lifecycle
// operations for the tilewmd process.
type DaemonManager struct {
	runtimeDir string
	pidFile    string
	stateFile  string
	socketPath string
}

// NewDaemonManager returns a manager rooted at runtimeDir (typically the
// user's per-app data directory).
func NewDaemonManager(runtimeDir string) *DaemonManager {
	dir := filepath.Join(runtimeDir, "run")
	return &DaemonManager{
		runtimeDir: runtimeDir,
		pidFile:    filepath.Join(dir, "tilewmd.pid"),
		stateFile:  filepath.Join(dir, "tilewmd.state"),
		socketPath: filepath.Join(dir, "tilewmd.sock"),
	}
}

// SocketPath returns the control socket/named-pipe path this manager
// expects the IPC server to bind.
func (m *DaemonManager) SocketPath() string { return m.socketPath }

// IsRunning reports whether the PID file names a live process.
func (m *DaemonManager) IsRunning() bool {
	pid, err := m.ReadPID()
	if err != nil {
		return false
	}
	return isProcessRunning(pid)
}

// ReadPID reads the daemon's PID from the PID file.
func (m *DaemonManager) ReadPID() (int, error) {
	data, err := os.ReadFile(m.pidFile)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file: %w", err)
	}
	return pid, nil
}

// WritePID writes the current process's PID to the PID file.
func (m *DaemonManager) WritePID() error {
	if err := os.MkdirAll(filepath.Dir(m.pidFile), 0700); err != nil {
		return fmt.Errorf("create pid dir: %w", err)
	}
	return os.WriteFile(m.pidFile, []byte(strconv.Itoa(os.Getpid())), 0600)
}

// RemovePID removes the PID file.
func (m *DaemonManager) RemovePID() error {
	return os.Remove(m.pidFile)
}

// WriteState persists daemon metadata for status queries.
func (m *DaemonManager) WriteState(state *DaemonState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return os.WriteFile(m.stateFile, data, 0600)
}

// ReadState reads daemon metadata.
func (m *DaemonManager) ReadState() (*DaemonState, error) {
	data, err := os.ReadFile(m.stateFile)
	if err != nil {
		return nil, err
	}
	var state DaemonState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &state, nil
}

// SignalStop sends a graceful-shutdown signal to the running daemon.
func (m *DaemonManager) SignalStop() error {
	pid, err := m.ReadPID()
	if err != nil {
		return fmt.Errorf("read PID: %w", err)
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process: %w", err)
	}
	return process.Signal(syscall.SIGTERM)
}

// SignalReload sends the configuration-reload signal (spec §4.3.5 "reload
// configuration").
func (m *DaemonManager) SignalReload() error {
	pid, err := m.ReadPID()
	if err != nil {
		return fmt.Errorf("read PID: %w", err)
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process: %w", err)
	}
	return process.Signal(syscall.SIGHUP)
}

// WaitForStop blocks until the daemon's PID file disappears or timeout
// elapses.
func (m *DaemonManager) WaitForStop(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !m.IsRunning() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon did not stop within %v", timeout)
}

// Cleanup removes the PID, state, and socket files.
func (m *DaemonManager) Cleanup() {
	os.Remove(m.pidFile)
	os.Remove(m.stateFile)
	os.Remove(m.socketPath)
}

// Status reports the daemon's current run state for a status command.
func (m *DaemonManager) Status() (*DaemonStatus, error) {
	status := &DaemonStatus{}
	pid, pidErr := m.ReadPID()
	if pidErr == nil && isProcessRunning(pid) {
		status.Running = true
		status.PID = pid
	}
	if state, err := m.ReadState(); err == nil {
		status.StartedAt = state.StartedAt
		status.Version = state.Version
		if status.Running {
			status.Uptime = time.Since(state.StartedAt)
		}
	}
	return status, nil
}

// DaemonStatus is the human-facing daemon status snapshot.
type DaemonStatus struct {
	Running   bool
	PID       int
	StartedAt time.Time
	Uptime    time.Duration
	Version   string
}

func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
