// Package pidfile keeps a single colony daemon running per pid file.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning reports a live process owning the pid file
type ErrAlreadyRunning struct {
	PID int
}

func (e *ErrAlreadyRunning) Error() string {
	return fmt.Sprintf("colony daemon is already running (PID %d)", e.PID)
}

// PIDFile is the lock file of one daemon instance
type PIDFile struct {
	path string
}

func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

func (p *PIDFile) Path() string { return p.path }

// Read returns the pid recorded in the file. ok is false when the file is
// missing or does not hold a pid.
func (p *PIDFile) Read() (pid int, ok bool, err error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read PID file: %w", err)
	}
	pid, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if convErr != nil || pid <= 0 {
		return 0, false, nil
	}
	return pid, true, nil
}

// Acquire writes the current pid. A stale or garbled file is replaced; a file
// owned by a live process yields *ErrAlreadyRunning.
func (p *PIDFile) Acquire() error {
	pid, ok, err := p.Read()
	if err != nil {
		return err
	}
	if ok && pid != os.Getpid() && Alive(pid) {
		return &ErrAlreadyRunning{PID: pid}
	}

	data := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(p.path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the file if it still belongs to this process
func (p *PIDFile) Release() error {
	pid, ok, err := p.Read()
	if err != nil {
		return err
	}
	if ok && pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Alive probes pid with signal 0. EPERM means the process exists under
// another user.
func Alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
